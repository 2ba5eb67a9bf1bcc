package copilot

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/hintwire/prompter/pkg/archive"
	"github.com/hintwire/prompter/pkg/audio/capture"
	"github.com/hintwire/prompter/pkg/audio/pcm"
	"github.com/hintwire/prompter/pkg/audio/player"
	"github.com/hintwire/prompter/pkg/live"
)

// Start opens capture and a live session, then runs the forward and
// receive loops until Stop, a transport failure or ctx cancellation.
//
// Capture is acquired before anything touches the network, so device
// problems (no system-audio loopback, denied microphone) surface
// immediately and on their own. It fails with ErrAlreadyActive while a
// session is connecting or open.
func (c *Copilot) Start(ctx context.Context) error {
	c.mu.Lock()
	if active(c.state) {
		c.mu.Unlock()
		return ErrAlreadyActive
	}
	c.gen++
	gen := c.gen
	src, dev := c.source, c.systemDevice
	c.state = StateConnecting
	c.err = nil
	c.mu.Unlock()
	c.emit(Event{Type: EventState, State: StateConnecting})

	audio, err := c.openCapture(capture.Config{
		Source:       src,
		SystemDevice: dev,
		Logger:       c.logger,
	})
	if err != nil {
		c.startFailed(gen, err)
		return err
	}

	var resumeText string
	if c.resume != nil {
		resumeText, err = c.resume.Load(ctx)
		if err != nil {
			c.logger.Warn("loading stored résumé failed, continuing without", "error", err)
			resumeText = ""
		}
	}

	sess, err := c.connect(ctx, &live.SessionConfig{
		Model:               c.model,
		SystemInstruction:   systemInstruction(resumeText),
		ResponseModalities:  []string{live.ModalityAudio},
		Voice:               c.voice,
		InputTranscription:  true,
		OutputTranscription: true,
	})
	if err != nil {
		errs := errors.Join(err, audio.Close())
		c.startFailed(gen, err)
		return errs
	}

	c.mu.Lock()
	if gen != c.gen {
		// Stop won the race while we were connecting.
		c.mu.Unlock()
		return errors.Join(sess.Close(), audio.Close())
	}
	c.sess = sess
	c.audio = audio
	c.done = make(chan struct{})
	if c.newSink != nil {
		c.player = c.openPlayer()
	}
	if c.archive != nil {
		c.recorder = c.archive.NewRecorder(archive.Meta{
			Source:    string(src),
			Model:     c.model,
			StartedAt: time.Now(),
		})
	}
	c.rec.Discard()
	c.pendingManual = false
	c.listening.Store(true)
	c.state = StateOpen
	done := c.done
	c.mu.Unlock()

	c.emit(Event{Type: EventState, State: StateOpen})
	c.emit(Event{Type: EventListening, Listening: true})
	c.logger.Info("session open", "source", src)

	go c.forward(sess, audio.Frames(), gen)
	go c.receive(sess, gen)
	go c.watch(ctx, gen, done)
	return nil
}

// openPlayer opens the playback sink. Playback is best effort: a
// machine without an output device still gets transcripts.
func (c *Copilot) openPlayer() *player.Player {
	sink, err := c.newSink()
	if err != nil {
		c.logger.Warn("audio output unavailable, voice playback disabled", "error", err)
		return nil
	}
	p, err := player.New(player.Config{Sink: sink, Logger: c.logger})
	if err != nil {
		sink.Close()
		c.logger.Warn("audio output unavailable, voice playback disabled", "error", err)
		return nil
	}
	return p
}

// startFailed records a failure that happened before the session
// opened.
func (c *Copilot) startFailed(gen uint64, err error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.err = err
	c.state = StateErrored
	c.mu.Unlock()

	c.logger.Error("starting session failed", "error", err)
	c.emit(Event{Type: EventError, Err: err})
	c.emit(Event{Type: EventState, State: StateErrored})
}

// Stop tears the session down: live session, capture, playback, speech
// and the recorder are all released even when one of them fails, and
// the errors joined. Stopping an inactive Copilot is a no-op.
func (c *Copilot) Stop() error {
	c.mu.Lock()
	if !active(c.state) {
		c.mu.Unlock()
		return nil
	}
	c.gen++
	wasListening := c.listening.Swap(false)
	err := c.teardownLocked()
	c.state = StateClosed
	c.mu.Unlock()

	if wasListening {
		c.emit(Event{Type: EventListening, Listening: false})
	}
	c.emit(Event{Type: EventState, State: StateClosed})
	c.logger.Info("session closed")
	return err
}

// fail ends the session after a transport or device error. A stale
// generation means another teardown already ran; the error belongs to
// that session and is dropped.
func (c *Copilot) fail(gen uint64, err error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.gen++
	c.err = err
	wasListening := c.listening.Swap(false)
	tearErr := c.teardownLocked()
	c.state = StateErrored
	c.mu.Unlock()

	c.logger.Error("session failed", "error", err)
	if tearErr != nil {
		c.logger.Error("teardown after failure incomplete", "error", tearErr)
	}
	if wasListening {
		c.emit(Event{Type: EventListening, Listening: false})
	}
	c.emit(Event{Type: EventError, Err: err})
	c.emit(Event{Type: EventState, State: StateErrored})
}

// teardownLocked releases everything attached to the current session.
// Every step runs regardless of earlier failures. Callers hold c.mu.
func (c *Copilot) teardownLocked() error {
	var errs []error
	if c.sess != nil {
		errs = append(errs, c.sess.Close())
		c.sess = nil
	}
	if c.audio != nil {
		errs = append(errs, c.audio.Close())
		c.audio = nil
	}
	if c.player != nil {
		errs = append(errs, c.player.Close())
		c.player = nil
	}
	if c.speaker != nil {
		c.speaker.Stop()
	}
	if c.recorder != nil {
		errs = append(errs, c.recorder.Finish(context.Background()))
		c.recorder = nil
	}
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
	return errors.Join(errs...)
}

// watch ends the session when the Start context is cancelled.
func (c *Copilot) watch(ctx context.Context, gen uint64, done chan struct{}) {
	select {
	case <-ctx.Done():
		c.fail(gen, ctx.Err())
	case <-done:
	}
}

// forward pushes capture frames into the session. The listening flag is
// read per frame, so toggling takes effect on the next frame without
// touching the capture stream.
func (c *Copilot) forward(sess liveSession, frames iter.Seq2[[]float32, error], gen uint64) {
	for frame, err := range frames {
		if err != nil {
			c.fail(gen, err)
			return
		}
		if !c.listening.Load() {
			continue
		}
		if err := sess.SendAudio(pcm.EncodeLE16(frame)); err != nil {
			if errors.Is(err, live.ErrSessionClosed) {
				return
			}
			c.fail(gen, fmt.Errorf("copilot: send audio: %w", err))
			return
		}
	}
	// The frame sequence only ends when the capture is closed or dead.
	// After a local teardown the generation is stale and this is a
	// no-op.
	c.fail(gen, errors.New("copilot: capture stream ended"))
}

// receive dispatches server events in arrival order until the stream
// ends.
func (c *Copilot) receive(sess liveSession, gen uint64) {
	for ev, err := range sess.Events() {
		if err != nil {
			c.fail(gen, err)
			return
		}
		c.dispatch(ev)
	}
	c.fail(gen, errors.New("copilot: event stream ended"))
}

func (c *Copilot) dispatch(ev *live.Event) {
	switch ev.Type {
	case live.EventInputTranscript:
		c.rec.AddQuestion(ev.Text)
		c.emit(Event{Type: EventQuestion, Delta: ev.Text})
	case live.EventOutputTranscript, live.EventText:
		c.rec.AddAnswer(ev.Text)
		c.emit(Event{Type: EventAnswer, Delta: ev.Text})
	case live.EventAudio:
		c.playAudio(ev.Audio)
	case live.EventTurnComplete:
		c.completeTurn()
	case live.EventInterrupted:
		c.interrupt()
	case live.EventGoAway:
		c.logger.Warn("server is closing the connection", "time_left", ev.TimeLeft)
	case live.EventUsage:
		if ev.Usage != nil {
			c.logger.Debug("session usage", "total_tokens", ev.Usage.TotalTokenCount)
		}
	}
}

// playAudio schedules a model audio chunk, unless voice playback is
// off or there is no output device.
func (c *Copilot) playAudio(data []byte) {
	if !c.voiceOut.Load() || len(data) == 0 {
		return
	}
	c.mu.Lock()
	p := c.player
	c.mu.Unlock()
	if p == nil {
		return
	}
	if err := p.Play(data); err != nil {
		c.logger.Debug("dropping audio chunk", "error", err)
	}
}

// completeTurn finalizes the pending exchange. Listening always stops
// here: the answer is ready, and streaming more audio at the model
// would immediately start another turn.
func (c *Copilot) completeTurn() {
	c.mu.Lock()
	manual := c.pendingManual
	c.pendingManual = false
	recorder := c.recorder
	c.mu.Unlock()

	t, ok := c.rec.Complete(manual)
	if c.listening.CompareAndSwap(true, false) {
		c.emit(Event{Type: EventListening, Listening: false})
	}
	if !ok {
		return
	}
	if recorder != nil {
		if err := recorder.Record(context.Background(), t); err != nil {
			c.logger.Error("recording turn failed", "error", err)
		}
	}
	c.emit(Event{Type: EventTurn, Turn: t})
	if c.speakAnswers.Load() && c.speaker != nil {
		c.speaker.Say(context.Background(), t.Answer)
	}
}

// interrupt handles the model being cut off: pending playback is
// flushed first so stale audio stops immediately, then the half-built
// answer is dropped. The interviewer transcript survives.
func (c *Copilot) interrupt() {
	c.mu.Lock()
	p := c.player
	c.mu.Unlock()
	if p != nil {
		p.Flush()
	}
	if c.speaker != nil {
		c.speaker.Stop()
	}
	c.rec.Interrupt()
	c.emit(Event{Type: EventInterrupted})
}
