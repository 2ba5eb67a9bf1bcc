// Package pcm provides types and utilities for linear PCM audio data.
//
// The package defines the wire formats used by the capture and playback
// pipeline (16-bit mono at 16, 24 and 48 kHz), duration/byte arithmetic
// on those formats, and codecs between normalized float32 frames and the
// little-endian integer representation the streaming protocol carries.
//
// Key types:
//   - Format: sample rate, channels, bit depth, and conversion math
//   - Chunk: interface for audio data chunks
//   - DataChunk: Chunk backed by raw bytes
//   - SilenceChunk: Chunk producing silence of a specified duration
//   - Writer: destination for audio chunks
//
// Example usage:
//
//	// 16 kHz capture format
//	format := pcm.L16Mono16K
//
//	// One 4096-sample frame as wire bytes
//	payload := pcm.EncodeLE16(frame)
//
//	// Duration of an inbound 24 kHz chunk
//	d := pcm.L16Mono24K.Duration(int64(len(data)))
package pcm
