package pcm

import (
	"fmt"
	"io"
	"time"
)

const (
	// L16Mono16K represents audio/L16; rate=16000; channels=1
	L16Mono16K Format = iota
	// L16Mono24K represents audio/L16; rate=24000; channels=1
	L16Mono24K
	// L16Mono48K represents audio/L16; rate=48000; channels=1
	L16Mono48K
)

// Format represents a linear PCM configuration. All formats are 16-bit
// signed little-endian mono; they differ only in sample rate.
type Format int

var sampleRates = [...]int{16000, 24000, 48000}

// SampleRate returns the sample rate in Hz for this format.
func (f Format) SampleRate() int {
	if f < 0 || int(f) >= len(sampleRates) {
		panic("pcm: invalid format")
	}
	return sampleRates[f]
}

// Channels returns the number of audio channels for this format.
func (f Format) Channels() int { return 1 }

// Depth returns the bit depth for this format.
func (f Format) Depth() int { return 16 }

// BytesRate returns the number of bytes per second of audio.
func (f Format) BytesRate() int {
	return f.SampleRate() * f.Channels() * f.Depth() / 8
}

// Samples returns the number of samples in the given number of bytes.
func (f Format) Samples(bytes int64) int64 {
	return bytes * 8 / int64(f.Channels()) / int64(f.Depth())
}

// SamplesInDuration returns the number of samples in the given duration.
func (f Format) SamplesInDuration(d time.Duration) int64 {
	return int64(time.Duration(f.SampleRate()) * d / time.Second)
}

// BytesInDuration returns the number of bytes in the given duration.
func (f Format) BytesInDuration(d time.Duration) int64 {
	return f.SamplesInDuration(d) * int64(f.Channels()) * int64(f.Depth()) / 8
}

// Duration returns the duration of the given number of bytes.
func (f Format) Duration(bytes int64) time.Duration {
	return time.Duration(f.Samples(bytes)) * time.Second / time.Duration(f.SampleRate())
}

// String returns the MIME-style description of the format.
func (f Format) String() string {
	return fmt.Sprintf("audio/L16; rate=%d; channels=%d", f.SampleRate(), f.Channels())
}

// Chunk is a contiguous run of audio data in a single format.
type Chunk interface {
	Len() int64
	Format() Format
	WriteTo(w io.Writer) (int64, error)
}

// DataChunk returns a chunk wrapping the given raw PCM bytes.
func (f Format) DataChunk(data []byte) Chunk {
	return &DataChunk{Data: data, fmt: f}
}

// SilenceChunk returns a chunk of silence of the given duration.
func (f Format) SilenceChunk(duration time.Duration) Chunk {
	return &SilenceChunk{Duration: duration, len: f.BytesInDuration(duration), fmt: f}
}

// ReadChunk reads exactly the given duration of audio data from the reader.
func (f Format) ReadChunk(r io.Reader, duration time.Duration) (Chunk, error) {
	buf := make([]byte, f.BytesInDuration(duration))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return f.DataChunk(buf), nil
}

// DataChunk is a chunk of raw PCM bytes.
type DataChunk struct {
	Data []byte
	fmt  Format
}

// Len returns the length of the audio data in bytes.
func (c *DataChunk) Len() int64 { return int64(len(c.Data)) }

// Format returns the audio format of this chunk.
func (c *DataChunk) Format() Format { return c.fmt }

// WriteTo writes the audio data to the writer.
func (c *DataChunk) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.Data)
	return int64(n), err
}

// SilenceChunk is a chunk of silence.
type SilenceChunk struct {
	Duration time.Duration
	len      int64
	fmt      Format
}

// Len returns the length of the silence in bytes.
func (c *SilenceChunk) Len() int64 { return c.len }

// Format returns the audio format of this chunk.
func (c *SilenceChunk) Format() Format { return c.fmt }

var zeroBytes [16384]byte

// WriteTo writes zero bytes to the writer until the silence is exhausted.
func (c *SilenceChunk) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for remaining := c.len; remaining > 0; {
		buf := zeroBytes[:]
		if remaining < int64(len(buf)) {
			buf = buf[:remaining]
		}
		n, err := w.Write(buf)
		written += int64(n)
		if err != nil {
			return written, err
		}
		remaining -= int64(n)
	}
	return written, nil
}
