package portaudio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hintwire/prompter/pkg/audio/pcm"
)

// InputStream captures mono int16 audio from an input device.
type InputStream struct {
	stream *Stream
	rate   int
	frames int
	mu     sync.Mutex
	closed bool
}

// NewInputStream opens the default input device at the format's sample rate.
// bufferDuration is the duration of each read buffer (e.g., 20ms).
func NewInputStream(format pcm.Format, bufferDuration time.Duration) (*InputStream, error) {
	return NewInputStreamOn(nil, format.SampleRate(), bufferDuration)
}

// NewInputStreamOn opens a specific input device at the given sample rate.
// A nil device selects the system default input. Capture is always mono;
// on multi-channel devices the host API maps or mixes down to one channel.
func NewInputStreamOn(device *DeviceInfo, sampleRate int, bufferDuration time.Duration) (*InputStream, error) {
	framesPerBuffer := int(time.Duration(sampleRate) * bufferDuration / time.Second)
	if framesPerBuffer <= 0 {
		return nil, fmt.Errorf("portaudio: buffer duration %v too short for %d Hz", bufferDuration, sampleRate)
	}

	idx := useDefaultDevice
	if device != nil {
		idx = device.Index
	}

	stream, err := openStream(idx, useDefaultDevice, 1, 0, float64(sampleRate), framesPerBuffer)
	if err != nil {
		return nil, err
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, err
	}

	return &InputStream{
		stream: stream,
		rate:   sampleRate,
		frames: framesPerBuffer,
	}, nil
}

// SampleRate returns the stream's sample rate in Hz.
func (is *InputStream) SampleRate() int { return is.rate }

// FramesPerBuffer returns the number of samples delivered per read.
func (is *InputStream) FramesPerBuffer() int { return is.frames }

// Read reads one buffer of PCM samples into buf. Returns the number of
// samples read. buf should hold at least FramesPerBuffer samples;
// a shorter buf drops the excess.
func (is *InputStream) Read(buf []int16) (int, error) {
	is.mu.Lock()
	defer is.mu.Unlock()

	if is.closed {
		return 0, io.EOF
	}

	samples, err := is.stream.Read(is.frames)
	if err != nil {
		return 0, err
	}

	n := copy(buf, samples)
	return n, nil
}

// ReadBytes reads one buffer of PCM samples as bytes (little-endian int16).
func (is *InputStream) ReadBytes(buf []byte) (int, error) {
	samples := make([]int16, len(buf)/2)
	n, err := is.Read(samples)
	if err != nil {
		return 0, err
	}

	for i := 0; i < n; i++ {
		buf[i*2] = byte(samples[i])
		buf[i*2+1] = byte(samples[i] >> 8)
	}
	return n * 2, nil
}

// Close stops and closes the stream.
func (is *InputStream) Close() error {
	is.mu.Lock()
	defer is.mu.Unlock()

	if is.closed {
		return nil
	}
	is.closed = true

	return is.stream.Close()
}

// OutputStream plays audio to the default output device.
type OutputStream struct {
	stream *Stream
	format pcm.Format
	frames int
	buffer []int16
	mu     sync.Mutex
	closed bool
}

// NewOutputStream creates a new output stream for playback.
// format: PCM format (e.g., pcm.L16Mono24K)
// bufferDuration: duration of each write buffer (e.g., 20ms)
func NewOutputStream(format pcm.Format, bufferDuration time.Duration) (*OutputStream, error) {
	framesPerBuffer := int(format.SamplesInDuration(bufferDuration))

	stream, err := openStream(useDefaultDevice, useDefaultDevice, 0, format.Channels(), float64(format.SampleRate()), framesPerBuffer)
	if err != nil {
		return nil, err
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, err
	}

	return &OutputStream{
		stream: stream,
		format: format,
		frames: framesPerBuffer,
		buffer: make([]int16, framesPerBuffer*format.Channels()),
	}, nil
}

// Write writes PCM samples to the output in buffer-sized pieces. Only the
// given samples are written; short writes are not zero-padded, so
// back-to-back calls play gapless audio. Returns the number of samples
// written.
func (os *OutputStream) Write(samples []int16) (int, error) {
	os.mu.Lock()
	defer os.mu.Unlock()

	if os.closed {
		return 0, fmt.Errorf("portaudio: stream closed")
	}

	wn := 0
	for len(samples) > 0 {
		n := copy(os.buffer, samples)
		if err := os.stream.Write(os.buffer[:n]); err != nil {
			return wn, err
		}
		samples = samples[n:]
		wn += n
	}
	return wn, nil
}

// WriteBytes writes PCM samples from bytes (little-endian int16).
func (os *OutputStream) WriteBytes(buf []byte) (int, error) {
	samples := make([]int16, len(buf)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = int16(buf[i*2]) | int16(buf[i*2+1])<<8
	}
	n, err := os.Write(samples)
	return n * 2, err
}

// WriteChunk writes a PCM chunk to the output. The chunk may be any
// length; it is split into buffer-sized writes. Blocks until the host
// API has accepted all samples.
func (os *OutputStream) WriteChunk(chunk pcm.Chunk) error {
	if chunk.Format() != os.format {
		return fmt.Errorf("portaudio: chunk format %v, stream is %v", chunk.Format(), os.format)
	}

	var data bytes.Buffer
	if _, err := chunk.WriteTo(&data); err != nil {
		return err
	}
	_, err := os.WriteBytes(data.Bytes())
	return err
}

// Format returns the PCM format.
func (os *OutputStream) Format() pcm.Format {
	return os.format
}

// Close stops and closes the stream.
func (os *OutputStream) Close() error {
	os.mu.Lock()
	defer os.mu.Unlock()

	if os.closed {
		return nil
	}
	os.closed = true

	return os.stream.Close()
}
