// Package audio provides audio processing utilities.
//
// This package serves as an umbrella for audio-related sub-packages:
//
//   - pcm: PCM (Pulse Code Modulation) audio format handling
//   - capture: microphone and system-audio capture
//   - player: scheduled playback of model speech
//   - portaudio: PortAudio device bindings shared by capture and playback
//   - resampler: sample-rate conversion between pipeline formats
//
// For buffer utilities, use the separate github.com/hintwire/prompter/pkg/buffer package.
//
// Example usage:
//
//	import (
//	    "github.com/hintwire/prompter/pkg/audio/pcm"
//	    "github.com/hintwire/prompter/pkg/buffer"
//	)
//
//	// Create a buffer for audio data
//	buf := buffer.Bytes16KB()
//
//	// Work with PCM format
//	format := pcm.L16Mono16K
//	chunk := format.DataChunk(audioData)
package audio
