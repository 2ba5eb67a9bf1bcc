package copilot

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hintwire/prompter/pkg/archive"
	"github.com/hintwire/prompter/pkg/audio/capture"
	"github.com/hintwire/prompter/pkg/audio/pcm"
	"github.com/hintwire/prompter/pkg/audio/player"
	"github.com/hintwire/prompter/pkg/live"
	"github.com/hintwire/prompter/pkg/resume"
	"github.com/hintwire/prompter/pkg/speak"
	"github.com/hintwire/prompter/pkg/turn"
)

var (
	// ErrAlreadyActive is returned by Start while a session is
	// connecting or open.
	ErrAlreadyActive = errors.New("copilot: session already active")

	// ErrNotOpen is returned by controls that need an open session.
	ErrNotOpen = errors.New("copilot: no open session")

	// ErrActive is returned by SetSource while a session is active.
	ErrActive = errors.New("copilot: stop the session first")
)

// liveSession is the slice of *live.Session the orchestrator uses.
type liveSession interface {
	SendAudio(pcm []byte) error
	SendText(text string, turnComplete bool) error
	Events() iter.Seq2[*live.Event, error]
	Close() error
}

// audioSource is the slice of *capture.Capture the orchestrator uses.
type audioSource interface {
	Frames() iter.Seq2[[]float32, error]
	Close() error
}

// Config configures a Copilot.
type Config struct {
	// Client connects live sessions. Required.
	Client *live.Client

	// Model overrides the live model. Empty means live.DefaultModel.
	Model string

	// Voice names the prebuilt voice the model answers with.
	Voice string

	// Source selects the initial capture source. Defaults to the
	// microphone.
	Source capture.Source

	// SystemDevice pins the device used for system-audio capture.
	SystemDevice string

	// Resume supplies the stored résumé for the system instruction.
	// Optional.
	Resume *resume.Store

	// Archive records finished turns. Optional.
	Archive *archive.Archive

	// Speaker reads finalized answers aloud when speak-answers is
	// enabled. Optional.
	Speaker *speak.Speaker

	// NewSink opens the playback device for the model's voice, once
	// per session. Optional: without it audio events are dropped.
	NewSink func() (pcm.WriteCloser, error)

	// Logger receives session logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// Copilot runs interview-assist sessions. Methods are safe for
// concurrent use.
type Copilot struct {
	model   string
	voice   string
	resume  *resume.Store
	archive *archive.Archive
	speaker *speak.Speaker
	newSink func() (pcm.WriteCloser, error)
	logger  *slog.Logger

	connect     func(ctx context.Context, cfg *live.SessionConfig) (liveSession, error)
	openCapture func(cfg capture.Config) (audioSource, error)

	events chan Event
	rec    *turn.Reconciler

	listening    atomic.Bool
	voiceOut     atomic.Bool
	speakAnswers atomic.Bool

	mu            sync.Mutex
	state         State
	err           error
	gen           uint64
	source        capture.Source
	systemDevice  string
	pendingManual bool
	sess          liveSession
	audio         audioSource
	player        *player.Player
	recorder      *archive.Recorder
	done          chan struct{}
}

// New creates a Copilot in StateIdle.
func New(cfg Config) (*Copilot, error) {
	if cfg.Client == nil {
		return nil, errors.New("copilot: Client is required")
	}
	if cfg.Source == "" {
		cfg.Source = capture.SourceMic
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Copilot{
		model:        cfg.Model,
		voice:        cfg.Voice,
		resume:       cfg.Resume,
		archive:      cfg.Archive,
		speaker:      cfg.Speaker,
		newSink:      cfg.NewSink,
		logger:       cfg.Logger,
		events:       make(chan Event, 256),
		rec:          turn.NewReconciler(cfg.Logger),
		state:        StateIdle,
		source:       cfg.Source,
		systemDevice: cfg.SystemDevice,
	}
	c.voiceOut.Store(true)
	c.connect = func(ctx context.Context, sc *live.SessionConfig) (liveSession, error) {
		return cfg.Client.Connect(ctx, sc)
	}
	c.openCapture = func(cc capture.Config) (audioSource, error) {
		return capture.Open(cc)
	}
	return c, nil
}

// Events returns the ordered event stream. The channel is never closed.
func (c *Copilot) Events() <-chan Event { return c.events }

// State returns the current lifecycle state.
func (c *Copilot) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error that ended the last session, if any.
func (c *Copilot) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Listening reports whether capture frames are being forwarded.
func (c *Copilot) Listening() bool { return c.listening.Load() }

// VoiceOutput reports whether model audio is played back.
func (c *Copilot) VoiceOutput() bool { return c.voiceOut.Load() }

// SpeakAnswers reports whether finalized answers are read aloud.
func (c *Copilot) SpeakAnswers() bool { return c.speakAnswers.Load() }

// SetVoiceOutput enables or disables playback of the model's voice.
func (c *Copilot) SetVoiceOutput(on bool) { c.voiceOut.Store(on) }

// SetSpeakAnswers enables or disables reading finalized answers aloud.
func (c *Copilot) SetSpeakAnswers(on bool) { c.speakAnswers.Store(on) }

// ToggleVoiceOutput flips voice playback and returns the new value.
func (c *Copilot) ToggleVoiceOutput() bool {
	for {
		on := c.voiceOut.Load()
		if c.voiceOut.CompareAndSwap(on, !on) {
			return !on
		}
	}
}

// ToggleSpeakAnswers flips answer speech and returns the new value.
func (c *Copilot) ToggleSpeakAnswers() bool {
	for {
		on := c.speakAnswers.Load()
		if c.speakAnswers.CompareAndSwap(on, !on) {
			return !on
		}
	}
}

// ToggleListening flips the listening flag and returns the new value.
// The capture stream keeps running either way; the flag only gates
// forwarding, so toggling is instant.
func (c *Copilot) ToggleListening() bool {
	for {
		on := c.listening.Load()
		if !c.listening.CompareAndSwap(on, !on) {
			continue
		}
		c.emit(Event{Type: EventListening, Listening: !on})
		return !on
	}
}

// Source returns the configured capture source and system device.
func (c *Copilot) Source() (capture.Source, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source, c.systemDevice
}

// SetSource selects the capture source for the next session. It fails
// with ErrActive while a session is connecting or open.
func (c *Copilot) SetSource(src capture.Source, systemDevice string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if active(c.state) {
		return ErrActive
	}
	if src == "" {
		src = capture.SourceMic
	}
	c.source = src
	c.systemDevice = systemDevice
	return nil
}

// SessionID returns the archive ID of the running session, or "" when
// no session is recording.
func (c *Copilot) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.recorder == nil {
		return ""
	}
	return c.recorder.ID()
}

// Question returns the interviewer transcript accumulated so far.
func (c *Copilot) Question() string { return c.rec.Question() }

// Answer returns the drafted answer accumulated so far.
func (c *Copilot) Answer() string { return c.rec.Answer() }

// Turns returns the completed turns of this run, oldest first.
func (c *Copilot) Turns() []*turn.Turn { return c.rec.History() }

// ActiveTurn returns the most recent completed turn, or nil.
func (c *Copilot) ActiveTurn() *turn.Turn { return c.rec.Active() }

// SelectTurn makes the identified turn the active one.
func (c *Copilot) SelectTurn(id string) bool { return c.rec.Select(id) }

// AnalyzeNow sends the interviewer accumulator to the model as an
// explicit one-shot request, without waiting for the model to decide
// the question is finished. Listening is suppressed so the request is
// not diluted by further audio, and the resulting turn is marked
// manual. It fails with ErrNotOpen outside an open session.
func (c *Copilot) AnalyzeNow() error {
	c.mu.Lock()
	if c.state != StateOpen {
		c.mu.Unlock()
		return ErrNotOpen
	}
	sess := c.sess
	c.pendingManual = true
	c.mu.Unlock()

	if c.listening.CompareAndSwap(true, false) {
		c.emit(Event{Type: EventListening, Listening: false})
	}
	if err := sess.SendText(c.rec.Question(), true); err != nil {
		c.mu.Lock()
		c.pendingManual = false
		c.mu.Unlock()
		return fmt.Errorf("copilot: analyze: %w", err)
	}
	return nil
}

// NextQuestion discards the in-progress question and answer without
// producing a turn.
func (c *Copilot) NextQuestion() {
	c.mu.Lock()
	c.pendingManual = false
	c.mu.Unlock()
	c.rec.Discard()
	c.emit(Event{Type: EventCleared})
}
