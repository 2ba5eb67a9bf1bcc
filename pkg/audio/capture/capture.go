package capture

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hintwire/prompter/pkg/audio/pcm"
	"github.com/hintwire/prompter/pkg/audio/portaudio"
	"github.com/hintwire/prompter/pkg/audio/resampler"
	"github.com/hintwire/prompter/pkg/buffer"
)

const (
	// SampleRate is the rate of every frame sequence, in Hz.
	SampleRate = 16000

	// FrameSize is the number of samples in every frame (256ms at
	// SampleRate).
	FrameSize = 4096

	// bufferDuration is how much audio each device read delivers.
	bufferDuration = 20 * time.Millisecond
)

// ErrNoSystemAudio reports that the host has no input device carrying
// system audio. Capturing another application's audio needs a loopback
// input: a PulseAudio/PipeWire monitor source on Linux, a virtual device
// such as BlackHole on macOS, or "Stereo Mix" on Windows.
var ErrNoSystemAudio = errors.New("capture: no system audio input found; enable a loopback device (monitor source, BlackHole, or Stereo Mix) and retry")

// ErrDeviceNotFound reports that no input device matches the requested
// name.
var ErrDeviceNotFound = errors.New("capture: no input device matches the requested name")

// ErrPermissionDenied reports that the OS refused access to the requested
// audio device.
var ErrPermissionDenied = errors.New("capture: audio input permission denied")

// Source selects which audio a capture records.
type Source string

const (
	// SourceMic records from the default microphone.
	SourceMic Source = "mic"

	// SourceSystem records what the machine is playing, through a
	// loopback input device.
	SourceSystem Source = "system"
)

// ParseSource parses a source name.
func ParseSource(s string) (Source, error) {
	switch src := Source(strings.ToLower(strings.TrimSpace(s))); src {
	case SourceMic, SourceSystem:
		return src, nil
	}
	return "", fmt.Errorf("capture: unknown source %q (want %q or %q)", s, SourceMic, SourceSystem)
}

// Config configures a capture.
type Config struct {
	// Source selects microphone or system audio. Defaults to SourceMic.
	Source Source

	// SystemDevice pins the input device used for system audio by
	// case-insensitive name substring, overriding the loopback scan.
	SystemDevice string

	// Logger receives debug logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// Capture records audio from one source and delivers it as fixed-size
// frames of float32 samples at SampleRate.
//
// A capture runs from Open until Close or a device failure. It cannot be
// restarted: once the frame sequence ends, open a new capture.
type Capture struct {
	source Source
	device string

	// reader delivers 16 kHz little-endian int16 bytes: the pipe
	// directly for the mic, or the resampler for system audio.
	reader io.Reader
	pipe   *buffer.BlockBuffer[byte]
	stream *portaudio.InputStream
	rs     resampler.Resampler

	logger *slog.Logger

	stopped   atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Open opens an audio capture.
//
// For SourceSystem, Open scans input devices for a loopback source and
// fails before touching any device when the scan comes up empty:
// ErrDeviceNotFound when a named device matches nothing,
// ErrNoSystemAudio when no loopback input exists at all. Failures to
// open the selected device are classified: a refusal by the OS wraps
// ErrPermissionDenied.
func Open(cfg Config) (*Capture, error) {
	if cfg.Source == "" {
		cfg.Source = SourceMic
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Capture{
		source: cfg.Source,
		pipe:   buffer.Bytes16KB(),
		logger: cfg.Logger,
	}

	switch cfg.Source {
	case SourceMic:
		stream, err := portaudio.NewInputStream(pcm.L16Mono16K, bufferDuration)
		if err != nil {
			return nil, classifyOpenErr(err)
		}
		c.stream = stream
		c.device = "default input"
		c.reader = c.pipe

	case SourceSystem:
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, fmt.Errorf("capture: list devices: %w", err)
		}
		dev, err := selectSystemDevice(devices, cfg.SystemDevice)
		if err != nil {
			return nil, err
		}
		rate := int(dev.DefaultSampleRate)
		if rate <= 0 {
			rate = 48000
		}
		stream, err := portaudio.NewInputStreamOn(dev, rate, bufferDuration)
		if err != nil {
			return nil, classifyOpenErr(err)
		}
		c.stream = stream
		c.device = dev.Name
		rs, err := resampler.New(c.pipe,
			resampler.Format{SampleRate: rate},
			resampler.Format{SampleRate: SampleRate})
		if err != nil {
			stream.Close()
			return nil, err
		}
		c.rs = rs
		c.reader = rs

	default:
		return nil, fmt.Errorf("capture: unknown source %q", cfg.Source)
	}

	go c.feed()

	c.logger.Debug("capture started",
		"source", c.source,
		"device", c.device,
		"rate", c.stream.SampleRate())
	return c, nil
}

// feed drains the device into the pipe so short consumer stalls do not
// overflow the host API's input buffer.
func (c *Capture) feed() {
	buf := make([]byte, c.stream.FramesPerBuffer()*2)
	for {
		n, err := c.stream.ReadBytes(buf)
		if err != nil {
			c.pipe.CloseWithError(fmt.Errorf("capture: device read: %w", err))
			return
		}
		if _, err := c.pipe.Write(buf[:n]); err != nil {
			return
		}
	}
}

// Source returns the capture's audio source.
func (c *Capture) Source() Source { return c.source }

// Device returns the name of the device being recorded.
func (c *Capture) Device() string { return c.device }

// Frames returns the capture's frame sequence. Each frame holds FrameSize
// float32 samples in [-1, 1]. The sequence runs until Close is called or
// the device fails; breaking out of the loop also closes the capture, so
// a consumer that stops early still releases the device.
func (c *Capture) Frames() iter.Seq2[[]float32, error] {
	return func(yield func([]float32, error) bool) {
		defer c.Close()
		buf := make([]byte, FrameSize*2)
		for {
			if _, err := io.ReadFull(c.reader, buf); err != nil {
				if !c.stopped.Load() {
					yield(nil, fmt.Errorf("capture: read frames: %w", err))
				}
				return
			}
			if !yield(pcm.DecodeLE16(buf), nil) {
				return
			}
		}
	}
}

// Close stops the capture and releases the device. Every pipeline stage
// is released even when an earlier stage fails to close. Close is
// idempotent.
func (c *Capture) Close() error {
	c.closeOnce.Do(func() {
		c.stopped.Store(true)
		var errs []error
		if c.pipe != nil {
			errs = append(errs, c.pipe.Close())
		}
		if c.rs != nil {
			errs = append(errs, c.rs.Close())
		}
		if c.stream != nil {
			errs = append(errs, c.stream.Close())
		}
		c.closeErr = errors.Join(errs...)
		c.logger.Debug("capture stopped", "source", c.source)
	})
	return c.closeErr
}

// findSystemDevice picks the input device to record system audio from.
// A non-empty hint matches by name substring; otherwise the first
// loopback-looking input wins.
// selectSystemDevice picks the input device for a system capture, or
// explains why it cannot.
func selectSystemDevice(devices []portaudio.DeviceInfo, hint string) (*portaudio.DeviceInfo, error) {
	dev, ok := findSystemDevice(devices, hint)
	if ok {
		return dev, nil
	}
	if strings.TrimSpace(hint) != "" {
		return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, hint)
	}
	return nil, ErrNoSystemAudio
}

func findSystemDevice(devices []portaudio.DeviceInfo, hint string) (*portaudio.DeviceInfo, bool) {
	hint = strings.ToLower(strings.TrimSpace(hint))
	for i, d := range devices {
		if d.MaxInputChannels <= 0 {
			continue
		}
		if hint != "" {
			if strings.Contains(strings.ToLower(d.Name), hint) {
				return &devices[i], true
			}
			continue
		}
		if IsLoopback(d) {
			return &devices[i], true
		}
	}
	return nil, false
}

// loopbackMarkers are name fragments of input devices that carry system
// audio on the major host APIs.
var loopbackMarkers = []string{
	"monitor",
	"loopback",
	"blackhole",
	"soundflower",
	"stereo mix",
	"what u hear",
}

// IsLoopback reports whether the device looks like a system audio
// loopback input.
func IsLoopback(d portaudio.DeviceInfo) bool {
	if d.MaxInputChannels <= 0 {
		return false
	}
	name := strings.ToLower(d.Name)
	for _, marker := range loopbackMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// classifyOpenErr maps device-open failures onto the package's sentinel
// errors where the host API's message allows it.
func classifyOpenErr(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"permission", "denied", "not authorized", "unauthorized"} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %s", ErrPermissionDenied, err)
		}
	}
	return fmt.Errorf("capture: open input: %w", err)
}
