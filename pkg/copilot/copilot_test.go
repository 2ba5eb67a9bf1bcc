package copilot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hintwire/prompter/pkg/archive"
	"github.com/hintwire/prompter/pkg/audio/capture"
	"github.com/hintwire/prompter/pkg/audio/pcm"
	"github.com/hintwire/prompter/pkg/kv"
	"github.com/hintwire/prompter/pkg/live"
	"github.com/hintwire/prompter/pkg/resume"
	"github.com/hintwire/prompter/pkg/speak"
	"github.com/hintwire/prompter/pkg/turn"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type eventPair struct {
	ev  *live.Event
	err error
}

type sentText struct {
	text         string
	turnComplete bool
}

// fakeSession stands in for a live session: it records outbound sends
// and replays scripted server events.
type fakeSession struct {
	cfg    *live.SessionConfig
	stream chan eventPair
	sent   chan []byte

	mu     sync.Mutex
	texts  []sentText
	closed bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		stream: make(chan eventPair, 64),
		sent:   make(chan []byte, 64),
	}
}

func (s *fakeSession) SendAudio(pcm []byte) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return live.ErrSessionClosed
	}
	s.sent <- append([]byte(nil), pcm...)
	return nil
}

func (s *fakeSession) SendText(text string, turnComplete bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return live.ErrSessionClosed
	}
	s.texts = append(s.texts, sentText{text, turnComplete})
	return nil
}

func (s *fakeSession) Events() iter.Seq2[*live.Event, error] {
	return func(yield func(*live.Event, error) bool) {
		for p := range s.stream {
			if !yield(p.ev, p.err) {
				return
			}
			if p.err != nil {
				return
			}
		}
	}
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.stream)
	}
	return nil
}

func (s *fakeSession) serve(ev *live.Event) { s.stream <- eventPair{ev: ev} }

func (s *fakeSession) breakWith(err error) { s.stream <- eventPair{err: err} }

func (s *fakeSession) sentTexts() []sentText {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentText(nil), s.texts...)
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// fakeCapture stands in for an audio capture: the test pushes frames
// and can end the stream with a device error.
type fakeCapture struct {
	cfg    capture.Config
	frames chan []float32
	err    error
	once   sync.Once

	mu     sync.Mutex
	closed bool
}

func newFakeCapture() *fakeCapture {
	return &fakeCapture{frames: make(chan []float32, 16)}
}

func (f *fakeCapture) Frames() iter.Seq2[[]float32, error] {
	return func(yield func([]float32, error) bool) {
		for frame := range f.frames {
			if !yield(frame, nil) {
				return
			}
		}
		if f.err != nil {
			yield(nil, f.err)
		}
	}
}

func (f *fakeCapture) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.once.Do(func() { close(f.frames) })
	return nil
}

func (f *fakeCapture) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeCapture) push(frame []float32) { f.frames <- frame }

// endWith ends the frame stream the way a dying device would.
func (f *fakeCapture) endWith(err error) {
	f.err = err
	f.once.Do(func() { close(f.frames) })
}

func newTestPilot(t *testing.T, cfg Config) (*Copilot, *fakeSession, *fakeCapture) {
	t.Helper()
	if cfg.Client == nil {
		cfg.Client = live.NewClient("test-key")
	}
	if cfg.Logger == nil {
		cfg.Logger = discardLogger()
	}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	sess := newFakeSession()
	mic := newFakeCapture()
	c.connect = func(ctx context.Context, sc *live.SessionConfig) (liveSession, error) {
		sess.cfg = sc
		return sess, nil
	}
	c.openCapture = func(cc capture.Config) (audioSource, error) {
		mic.cfg = cc
		return mic, nil
	}
	t.Cleanup(func() { c.Stop() })
	return c, sess, mic
}

func nextEvent(t *testing.T, c *Copilot) Event {
	t.Helper()
	select {
	case ev := <-c.Events():
		return ev
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for an event")
		return Event{}
	}
}

// waitEvent discards events until one of the wanted type arrives.
func waitEvent(t *testing.T, c *Copilot, typ EventType) Event {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-c.Events():
			if ev.Type == typ {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q event", typ)
		}
	}
}

// startPilot starts a session and drains the connecting, open and
// listening events.
func startPilot(t *testing.T, c *Copilot) {
	t.Helper()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	waitEvent(t, c, EventListening)
}

func recvAudio(t *testing.T, sess *fakeSession) []byte {
	t.Helper()
	select {
	case data := <-sess.sent:
		return data
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for forwarded audio")
		return nil
	}
}

func TestNewRequiresClient(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("New(Config{}) did not fail")
	}
}

func TestStartOpensSession(t *testing.T) {
	c, sess, mic := newTestPilot(t, Config{
		Model:        "my-live-model",
		Voice:        "Puck",
		Source:       capture.SourceSystem,
		SystemDevice: "monitor",
	})
	if got := c.State(); got != StateIdle {
		t.Fatalf("State() = %v, want %v", got, StateIdle)
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if ev := nextEvent(t, c); ev.Type != EventState || ev.State != StateConnecting {
		t.Fatalf("first event = %+v, want state %v", ev, StateConnecting)
	}
	if ev := nextEvent(t, c); ev.Type != EventState || ev.State != StateOpen {
		t.Fatalf("second event = %+v, want state %v", ev, StateOpen)
	}
	if ev := nextEvent(t, c); ev.Type != EventListening || !ev.Listening {
		t.Fatalf("third event = %+v, want listening on", ev)
	}

	if got := c.State(); got != StateOpen {
		t.Fatalf("State() = %v, want %v", got, StateOpen)
	}
	if !c.Listening() {
		t.Fatalf("Listening() = false after start")
	}
	if mic.cfg.Source != capture.SourceSystem || mic.cfg.SystemDevice != "monitor" {
		t.Fatalf("capture config = %+v", mic.cfg)
	}
	if sess.cfg.Model != "my-live-model" || sess.cfg.Voice != "Puck" {
		t.Fatalf("session config = %+v", sess.cfg)
	}
	if !sess.cfg.InputTranscription || !sess.cfg.OutputTranscription {
		t.Fatalf("transcription not requested: %+v", sess.cfg)
	}
	if len(sess.cfg.ResponseModalities) != 1 || sess.cfg.ResponseModalities[0] != live.ModalityAudio {
		t.Fatalf("ResponseModalities = %v", sess.cfg.ResponseModalities)
	}
	if !strings.Contains(sess.cfg.SystemInstruction, turn.CitationMarker) {
		t.Fatalf("system instruction does not demand the citation line:\n%s", sess.cfg.SystemInstruction)
	}
}

func TestStartWhileActive(t *testing.T) {
	c, _, _ := newTestPilot(t, Config{})
	startPilot(t, c)
	if err := c.Start(context.Background()); !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("second Start() error = %v, want %v", err, ErrAlreadyActive)
	}
}

func TestStartReportsCaptureErrorBeforeConnecting(t *testing.T) {
	c, _, _ := newTestPilot(t, Config{Source: capture.SourceSystem})
	connected := false
	c.connect = func(ctx context.Context, sc *live.SessionConfig) (liveSession, error) {
		connected = true
		return newFakeSession(), nil
	}
	c.openCapture = func(cc capture.Config) (audioSource, error) {
		return nil, capture.ErrNoSystemAudio
	}

	err := c.Start(context.Background())
	if !errors.Is(err, capture.ErrNoSystemAudio) {
		t.Fatalf("Start() error = %v, want %v", err, capture.ErrNoSystemAudio)
	}
	if connected {
		t.Fatalf("connect was attempted after the capture failure")
	}
	if ev := waitEvent(t, c, EventError); !errors.Is(ev.Err, capture.ErrNoSystemAudio) {
		t.Fatalf("error event = %v", ev.Err)
	}
	if ev := waitEvent(t, c, EventState); ev.State != StateErrored {
		t.Fatalf("state event = %v, want %v", ev.State, StateErrored)
	}
	if got := c.State(); got != StateErrored {
		t.Fatalf("State() = %v, want %v", got, StateErrored)
	}
	if !errors.Is(c.Err(), capture.ErrNoSystemAudio) {
		t.Fatalf("Err() = %v", c.Err())
	}
}

func TestStartPrimesSessionWithResume(t *testing.T) {
	store := resume.NewStore(kv.NewMemory(nil))
	ctx := context.Background()
	if err := store.Save(ctx, "Shipped a 16 kHz audio pipeline in Go."); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	c, sess, _ := newTestPilot(t, Config{Resume: store})
	startPilot(t, c)
	if !strings.Contains(sess.cfg.SystemInstruction, "Shipped a 16 kHz audio pipeline in Go.") {
		t.Fatalf("system instruction is missing the résumé:\n%s", sess.cfg.SystemInstruction)
	}
}

func TestForwardChecksListeningPerFrame(t *testing.T) {
	c, sess, mic := newTestPilot(t, Config{})
	startPilot(t, c)

	frame := []float32{0, 0.5, -0.5, 1}
	mic.push(frame)
	if got, want := recvAudio(t, sess), pcm.EncodeLE16(frame); !bytes.Equal(got, want) {
		t.Fatalf("forwarded audio = %x, want %x", got, want)
	}

	if on := c.ToggleListening(); on {
		t.Fatalf("ToggleListening() = true, want false")
	}
	if ev := waitEvent(t, c, EventListening); ev.Listening {
		t.Fatalf("listening event = on, want off")
	}
	mic.push([]float32{0.25, 0.25, 0.25, 0.25}) // dropped

	if on := c.ToggleListening(); !on {
		t.Fatalf("ToggleListening() = false, want true")
	}
	last := []float32{1, 1, -1, -1}
	mic.push(last)
	if got, want := recvAudio(t, sess), pcm.EncodeLE16(last); !bytes.Equal(got, want) {
		t.Fatalf("forwarded audio after re-enable = %x, want %x", got, want)
	}
}

func TestTranscriptDeltasReachReconciler(t *testing.T) {
	c, sess, _ := newTestPilot(t, Config{})
	startPilot(t, c)

	sess.serve(&live.Event{Type: live.EventInputTranscript, Text: "Why "})
	if ev := waitEvent(t, c, EventQuestion); ev.Delta != "Why " {
		t.Fatalf("question delta = %q", ev.Delta)
	}
	sess.serve(&live.Event{Type: live.EventInputTranscript, Text: "Go?"})
	waitEvent(t, c, EventQuestion)

	sess.serve(&live.Event{Type: live.EventOutputTranscript, Text: "Because "})
	if ev := waitEvent(t, c, EventAnswer); ev.Delta != "Because " {
		t.Fatalf("answer delta = %q", ev.Delta)
	}
	sess.serve(&live.Event{Type: live.EventText, Text: "it compiles fast."})
	waitEvent(t, c, EventAnswer)

	if got := c.Question(); got != "Why Go?" {
		t.Fatalf("Question() = %q", got)
	}
	if got := c.Answer(); got != "Because it compiles fast." {
		t.Fatalf("Answer() = %q", got)
	}
}

func TestTurnCompleteEmitsAndRecords(t *testing.T) {
	arc := archive.New(kv.NewMemory(nil))
	c, sess, _ := newTestPilot(t, Config{Archive: arc})
	startPilot(t, c)

	id := c.SessionID()
	if id == "" {
		t.Fatalf("SessionID() is empty while recording")
	}

	sess.serve(&live.Event{Type: live.EventInputTranscript, Text: "Why Go?"})
	sess.serve(&live.Event{Type: live.EventOutputTranscript, Text: "Because it compiles fast.\n" + turn.CitationMarker + ` ["compiles"]`})
	sess.serve(&live.Event{Type: live.EventTurnComplete})

	if ev := waitEvent(t, c, EventListening); ev.Listening {
		t.Fatalf("listening still on after turn completion")
	}
	ev := waitEvent(t, c, EventTurn)
	if ev.Turn == nil {
		t.Fatalf("turn event carries no turn")
	}
	if ev.Turn.Question != "Why Go?" || ev.Turn.Answer != "Because it compiles fast." {
		t.Fatalf("turn = %q / %q", ev.Turn.Question, ev.Turn.Answer)
	}
	if len(ev.Turn.Citations) != 1 || ev.Turn.Citations[0] != "compiles" {
		t.Fatalf("citations = %v", ev.Turn.Citations)
	}
	if ev.Turn.Manual {
		t.Fatalf("automatic turn marked manual")
	}
	if c.Listening() {
		t.Fatalf("Listening() = true after turn completion")
	}

	stored, err := arc.Load(context.Background(), id)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", id, err)
	}
	if len(stored.Turns) != 1 || stored.Turns[0].Answer != "Because it compiles fast." {
		t.Fatalf("archived turns = %+v", stored.Turns)
	}
}

func TestAnalyzeNow(t *testing.T) {
	c, sess, _ := newTestPilot(t, Config{})
	if err := c.AnalyzeNow(); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("AnalyzeNow() before start = %v, want %v", err, ErrNotOpen)
	}
	startPilot(t, c)

	sess.serve(&live.Event{Type: live.EventInputTranscript, Text: "Tell me about your current project"})
	waitEvent(t, c, EventQuestion)

	if err := c.AnalyzeNow(); err != nil {
		t.Fatalf("AnalyzeNow() error: %v", err)
	}
	if ev := waitEvent(t, c, EventListening); ev.Listening {
		t.Fatalf("listening not suppressed by AnalyzeNow")
	}
	texts := sess.sentTexts()
	if len(texts) != 1 || texts[0].text != "Tell me about your current project" || !texts[0].turnComplete {
		t.Fatalf("sent texts = %+v", texts)
	}

	sess.serve(&live.Event{Type: live.EventOutputTranscript, Text: "I build audio tooling."})
	sess.serve(&live.Event{Type: live.EventTurnComplete})
	if ev := waitEvent(t, c, EventTurn); !ev.Turn.Manual {
		t.Fatalf("analyze-now turn not marked manual")
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if err := c.AnalyzeNow(); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("AnalyzeNow() after stop = %v, want %v", err, ErrNotOpen)
	}
}

func TestNextQuestionDiscardsWithoutTurn(t *testing.T) {
	c, sess, _ := newTestPilot(t, Config{})
	startPilot(t, c)

	sess.serve(&live.Event{Type: live.EventInputTranscript, Text: "So, about that gap"})
	sess.serve(&live.Event{Type: live.EventOutputTranscript, Text: "In 2019 I"})
	waitEvent(t, c, EventAnswer)

	c.NextQuestion()
	waitEvent(t, c, EventCleared)
	if q, a := c.Question(), c.Answer(); q != "" || a != "" {
		t.Fatalf("accumulators after NextQuestion = %q / %q", q, a)
	}

	// A turn completion right after the clear has nothing to emit.
	sess.serve(&live.Event{Type: live.EventTurnComplete})
	sess.serve(&live.Event{Type: live.EventInputTranscript, Text: "next"})
	for {
		ev := nextEvent(t, c)
		if ev.Type == EventTurn {
			t.Fatalf("empty completion produced a turn: %+v", ev.Turn)
		}
		if ev.Type == EventQuestion {
			break
		}
	}
	if c.ActiveTurn() != nil {
		t.Fatalf("ActiveTurn() = %+v, want nil", c.ActiveTurn())
	}
}

func TestInterruptionDropsAnswerOnly(t *testing.T) {
	c, sess, _ := newTestPilot(t, Config{})
	startPilot(t, c)

	sess.serve(&live.Event{Type: live.EventInputTranscript, Text: "Why Go?"})
	sess.serve(&live.Event{Type: live.EventOutputTranscript, Text: "Well, the thing is"})
	waitEvent(t, c, EventAnswer)

	sess.serve(&live.Event{Type: live.EventInterrupted})
	waitEvent(t, c, EventInterrupted)

	if got := c.Answer(); got != "" {
		t.Fatalf("Answer() = %q after interruption, want empty", got)
	}
	if got := c.Question(); got != "Why Go?" {
		t.Fatalf("Question() = %q after interruption", got)
	}
}

func TestServerErrorTearsDown(t *testing.T) {
	c, sess, mic := newTestPilot(t, Config{})
	startPilot(t, c)

	boom := errors.New("stream broke")
	sess.breakWith(boom)

	if ev := waitEvent(t, c, EventError); !errors.Is(ev.Err, boom) {
		t.Fatalf("error event = %v, want %v", ev.Err, boom)
	}
	if ev := waitEvent(t, c, EventState); ev.State != StateErrored {
		t.Fatalf("state after failure = %v", ev.State)
	}
	if !errors.Is(c.Err(), boom) {
		t.Fatalf("Err() = %v", c.Err())
	}
	if !mic.isClosed() {
		t.Fatalf("capture still open after failure")
	}
	if !sess.isClosed() {
		t.Fatalf("session still open after failure")
	}

	// An errored pilot can start a fresh session.
	sess2 := newFakeSession()
	c.connect = func(ctx context.Context, sc *live.SessionConfig) (liveSession, error) {
		return sess2, nil
	}
	c.openCapture = func(cc capture.Config) (audioSource, error) {
		return newFakeCapture(), nil
	}
	startPilot(t, c)
	if got := c.State(); got != StateOpen {
		t.Fatalf("State() after restart = %v", got)
	}
}

func TestCaptureFailureTearsDown(t *testing.T) {
	c, sess, mic := newTestPilot(t, Config{})
	startPilot(t, c)

	devErr := errors.New("device unplugged")
	mic.endWith(devErr)

	if ev := waitEvent(t, c, EventError); !errors.Is(ev.Err, devErr) {
		t.Fatalf("error event = %v, want %v", ev.Err, devErr)
	}
	if got := c.State(); got != StateErrored {
		t.Fatalf("State() = %v, want %v", got, StateErrored)
	}
	if !sess.isClosed() {
		t.Fatalf("session still open after capture failure")
	}
}

func TestStopReleasesEverything(t *testing.T) {
	c, sess, mic := newTestPilot(t, Config{})
	startPilot(t, c)

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if ev := waitEvent(t, c, EventListening); ev.Listening {
		t.Fatalf("listening still on after stop")
	}
	if ev := waitEvent(t, c, EventState); ev.State != StateClosed {
		t.Fatalf("state after stop = %v", ev.State)
	}
	if !mic.isClosed() {
		t.Fatalf("capture still open after stop")
	}
	if !sess.isClosed() {
		t.Fatalf("session still open after stop")
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("second Stop() error: %v", err)
	}
}

func TestContextCancelEndsSession(t *testing.T) {
	c, _, _ := newTestPilot(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	waitEvent(t, c, EventListening)

	cancel()
	if ev := waitEvent(t, c, EventError); !errors.Is(ev.Err, context.Canceled) {
		t.Fatalf("error event = %v, want %v", ev.Err, context.Canceled)
	}
	if got := c.State(); got != StateErrored {
		t.Fatalf("State() = %v, want %v", got, StateErrored)
	}
}

func TestSetSourceOnlyWhileInactive(t *testing.T) {
	c, _, mic := newTestPilot(t, Config{})
	if err := c.SetSource(capture.SourceSystem, "monitor"); err != nil {
		t.Fatalf("SetSource() while idle: %v", err)
	}
	startPilot(t, c)
	if mic.cfg.Source != capture.SourceSystem {
		t.Fatalf("capture source = %v, want %v", mic.cfg.Source, capture.SourceSystem)
	}
	if err := c.SetSource(capture.SourceMic, ""); !errors.Is(err, ErrActive) {
		t.Fatalf("SetSource() while open = %v, want %v", err, ErrActive)
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if err := c.SetSource(capture.SourceMic, ""); err != nil {
		t.Fatalf("SetSource() after stop: %v", err)
	}
}

type fakeSynth struct {
	spoke chan string
}

func (f fakeSynth) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	f.spoke <- text
	return io.NopCloser(strings.NewReader("")), nil
}

func TestSpeaksFinalizedAnswers(t *testing.T) {
	synth := fakeSynth{spoke: make(chan string, 4)}
	speaker := speak.NewSpeaker(synth, pcm.Discard, discardLogger())
	c, sess, _ := newTestPilot(t, Config{Speaker: speaker})
	c.SetSpeakAnswers(true)
	startPilot(t, c)

	sess.serve(&live.Event{Type: live.EventInputTranscript, Text: "Why Go?"})
	sess.serve(&live.Event{Type: live.EventOutputTranscript, Text: "It is boring, in the best way."})
	sess.serve(&live.Event{Type: live.EventTurnComplete})
	waitEvent(t, c, EventTurn)

	select {
	case text := <-synth.spoke:
		if text != "It is boring, in the best way." {
			t.Fatalf("spoke %q", text)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("answer was never spoken")
	}
}

type fakeSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *fakeSink) Write(c pcm.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := c.WriteTo(&s.buf)
	return err
}

func (s *fakeSink) Close() error { return nil }

func (s *fakeSink) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Len()
}

func TestModelAudioReachesSink(t *testing.T) {
	sink := &fakeSink{}
	c, sess, _ := newTestPilot(t, Config{
		NewSink: func() (pcm.WriteCloser, error) { return sink, nil },
	})
	startPilot(t, c)

	data := bytes.Repeat([]byte{0x01, 0x02}, 240) // 10ms at 24 kHz
	sess.serve(&live.Event{Type: live.EventAudio, Audio: data, MIMEType: "audio/pcm;rate=24000"})

	deadline := time.Now().Add(5 * time.Second)
	for sink.size() < len(data) {
		if time.Now().After(deadline) {
			t.Fatalf("sink received %d bytes, want %d", sink.size(), len(data))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestToggleVoiceOutput(t *testing.T) {
	c, _, _ := newTestPilot(t, Config{})
	if !c.VoiceOutput() {
		t.Fatalf("voice output off by default")
	}
	if on := c.ToggleVoiceOutput(); on {
		t.Fatalf("ToggleVoiceOutput() = true, want false")
	}
	if on := c.ToggleSpeakAnswers(); !on {
		t.Fatalf("ToggleSpeakAnswers() = false, want true")
	}
}
