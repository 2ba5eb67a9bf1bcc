package commands

import (
	"sync"
	"time"

	"github.com/hintwire/prompter/pkg/audio/pcm"
	"github.com/hintwire/prompter/pkg/audio/portaudio"
)

// playbackSink adapts a portaudio output stream to pcm.WriteCloser.
// The embedded stream's Write takes raw samples; this Write shadows it
// with the chunk form.
type playbackSink struct {
	*portaudio.OutputStream
}

func (s playbackSink) Write(chunk pcm.Chunk) error {
	return s.WriteChunk(chunk)
}

// openPlaybackSink opens the default output device at the given format.
func openPlaybackSink(format pcm.Format) (pcm.WriteCloser, error) {
	stream, err := portaudio.NewOutputStream(format, 20*time.Millisecond)
	if err != nil {
		return nil, err
	}
	return playbackSink{stream}, nil
}

// lazySink defers opening the playback device until the first write, so
// answer speech does not hold the output device while it is disabled.
// A failed open is sticky.
type lazySink struct {
	format pcm.Format

	mu  sync.Mutex
	w   pcm.WriteCloser
	err error
}

func newLazySink(format pcm.Format) *lazySink {
	return &lazySink{format: format}
}

func (l *lazySink) Write(chunk pcm.Chunk) error {
	l.mu.Lock()
	if l.w == nil && l.err == nil {
		l.w, l.err = openPlaybackSink(l.format)
	}
	w, err := l.w, l.err
	l.mu.Unlock()

	if err != nil {
		return err
	}
	return w.Write(chunk)
}

func (l *lazySink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return nil
	}
	err := l.w.Close()
	l.w = nil
	return err
}
