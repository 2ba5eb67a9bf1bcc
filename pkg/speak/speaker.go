package speak

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/hintwire/prompter/pkg/audio/pcm"
)

// sliceDuration is how much audio each sink write carries. Cancelling
// an utterance takes effect at the next slice boundary.
const sliceDuration = 20 * time.Millisecond

// Speaker plays synthesized speech through an output sink, one
// utterance at a time.
type Speaker struct {
	synth  Synthesizer
	sink   pcm.Writer
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSpeaker creates a speaker that synthesizes with synth and writes
// to sink. A nil logger falls back to slog.Default.
func NewSpeaker(synth Synthesizer, sink pcm.Writer, logger *slog.Logger) *Speaker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Speaker{synth: synth, sink: sink, logger: logger}
}

// Say speaks text. Any utterance still playing is cancelled first; the
// new one starts once the old one has drained. Say returns immediately,
// synthesis and playback run in the background. Failures are logged,
// not returned: speech is best-effort.
func (s *Speaker) Say(ctx context.Context, text string) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	prev := s.done
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		if ctx.Err() != nil {
			return
		}
		s.speak(ctx, text)
	}()
}

// Stop cancels the in-progress utterance, if any, and waits for it to
// stop writing.
func (s *Speaker) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Speaker) speak(ctx context.Context, text string) {
	stream, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("speech synthesis failed", "error", err)
		}
		return
	}
	defer stream.Close()

	buf := make([]byte, Format.BytesInDuration(sliceDuration))
	for {
		if ctx.Err() != nil {
			return
		}
		n, err := io.ReadFull(stream, buf)
		if n > 0 {
			// keep sample alignment on a short final read
			n -= n % 2
			if werr := s.sink.Write(Format.DataChunk(buf[:n])); werr != nil {
				if ctx.Err() == nil {
					s.logger.Warn("speech playback failed", "error", werr)
				}
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) && ctx.Err() == nil {
				s.logger.Warn("speech stream failed", "error", err)
			}
			return
		}
	}
}
