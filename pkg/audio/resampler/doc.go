// Package resampler provides streaming audio sample rate conversion.
//
// It supports:
//   - Sample rate conversion (e.g., 48000Hz system audio down to 16000Hz)
//   - Channel conversion (mono to stereo or stereo to mono)
//   - Streaming interface via io.Reader
//
// The package uses a pure Go resampling backend with high-quality settings
// by default and handles 16-bit signed integer audio samples.
//
// Example usage:
//
//	src := resampler.Format{SampleRate: 48000, Stereo: false}
//	dst := resampler.Format{SampleRate: 16000, Stereo: false}
//	r, err := resampler.New(audioReader, src, dst)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Read resampled audio from r
//	io.Copy(output, r)
package resampler
