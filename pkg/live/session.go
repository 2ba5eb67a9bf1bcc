package live

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// setupTimeout bounds the wait for the server's setup acknowledgment
// when the dial context carries no deadline.
const setupTimeout = 30 * time.Second

// Session is an open bidirectional stream to the Live API.
//
// A session is single-use: once Close is called or the server ends the
// stream, the session is dead and a new Connect is required.
type Session struct {
	conn   *websocket.Conn
	model  string
	logger *slog.Logger

	closeCh   chan struct{}
	eventsCh  chan eventOrError
	closeOnce sync.Once
	writeMu   sync.Mutex
}

type eventOrError struct {
	event *Event
	err   error
}

// connect dials, sends setup and waits for the server's acknowledgment.
func (c *Client) connect(ctx context.Context, config *SessionConfig) (*Session, error) {
	if config == nil {
		config = &SessionConfig{}
	}
	model := config.Model
	if model == "" {
		model = DefaultModel
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}

	endpoint := fmt.Sprintf("%s?key=%s", c.config.endpoint, url.QueryEscape(c.config.apiKey))
	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.httpClient.Timeout,
	}
	conn, resp, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return nil, &Error{Code: resp.StatusCode, Message: fmt.Sprintf("connect: %v", err)}
		}
		return nil, fmt.Errorf("live: connect: %w", err)
	}

	if err := conn.WriteJSON(setupMessage{Setup: config.setup(model)}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("live: send setup: %w", err)
	}

	deadline := time.Now().Add(setupTimeout)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	conn.SetReadDeadline(deadline)
	_, raw, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("live: setup handshake: %w", readError(err))
	}
	var msg serverMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("live: parse setup reply: %w", err)
	}
	if msg.SetupComplete == nil {
		conn.Close()
		return nil, fmt.Errorf("live: unexpected message before setup completion")
	}
	conn.SetReadDeadline(time.Time{})

	s := &Session{
		conn:     conn,
		model:    model,
		logger:   c.config.logger,
		closeCh:  make(chan struct{}),
		eventsCh: make(chan eventOrError, 100),
	}
	go s.readLoop()

	s.logger.Debug("live session open", "model", model)
	return s, nil
}

// setup builds the wire setup payload.
func (cfg *SessionConfig) setup(model string) *setup {
	s := &setup{Model: model}

	gen := &generationConfig{
		ResponseModalities: cfg.ResponseModalities,
		Temperature:        cfg.Temperature,
		MaxOutputTokens:    cfg.MaxOutputTokens,
	}
	if len(gen.ResponseModalities) == 0 {
		gen.ResponseModalities = []string{ModalityAudio}
	}
	if cfg.Voice != "" {
		gen.SpeechConfig = &speechConfig{
			VoiceConfig: &voiceConfig{
				PrebuiltVoiceConfig: &prebuiltVoiceConfig{VoiceName: cfg.Voice},
			},
		}
	}
	s.GenerationConfig = gen

	if cfg.SystemInstruction != "" {
		s.SystemInstruction = &Content{Parts: []Part{{Text: cfg.SystemInstruction}}}
	}
	if cfg.InputTranscription {
		s.InputAudioTranscription = &transcriptionOpts{}
	}
	if cfg.OutputTranscription {
		s.OutputAudioTranscription = &transcriptionOpts{}
	}
	return s
}

// Model returns the resource name of the model serving the session.
func (s *Session) Model() string { return s.model }

// SendAudio streams little-endian 16-bit mono PCM at 16 kHz into the
// session. The bytes are wrapped in the transport envelope (base64
// inside a media chunk) on the way out.
func (s *Session) SendAudio(pcm []byte) error {
	return s.send(realtimeInputMessage{
		RealtimeInput: &realtimeInput{
			MediaChunks: []Blob{{MIMEType: InputMIMEType, Data: pcm}},
		},
	})
}

// SendText submits a user text turn. With turnComplete the model
// responds immediately; without it the text joins the conversation and
// waits for more input.
func (s *Session) SendText(text string, turnComplete bool) error {
	return s.send(clientContentMessage{
		ClientContent: &clientContent{
			Turns:        []Content{{Role: "user", Parts: []Part{{Text: text}}}},
			TurnComplete: turnComplete,
		},
	})
}

// SendRaw sends an arbitrary client message for payloads not covered by
// helper methods.
func (s *Session) SendRaw(message any) error {
	return s.send(message)
}

// send serializes one client message onto the wire.
func (s *Session) send(message any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	select {
	case <-s.closeCh:
		return ErrSessionClosed
	default:
	}

	if s.logger.Enabled(context.Background(), slog.LevelDebug) {
		if jsonBytes, err := json.Marshal(message); err == nil {
			str := string(jsonBytes)
			if len(str) > 500 {
				str = str[:500] + "..."
			}
			s.logger.Debug("sending message", "content", str)
		}
	}

	if err := s.conn.WriteJSON(message); err != nil {
		return fmt.Errorf("live: send: %w", err)
	}
	return nil
}

// Events returns an iterator over server events in arrival order. The
// iterator ends when the session closes; a transport failure is yielded
// as the final element and then iteration stops.
func (s *Session) Events() iter.Seq2[*Event, error] {
	return func(yield func(*Event, error) bool) {
		for {
			select {
			case <-s.closeCh:
				return
			case item, ok := <-s.eventsCh:
				if !ok {
					return
				}
				if !yield(item.event, item.err) {
					return
				}
				if item.err != nil {
					return
				}
			}
		}
	}
}

// Close closes the session. Safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closeCh)
		err = s.conn.Close()
		s.logger.Debug("live session closed", "model", s.model)
	})
	return err
}

// readLoop reads wire messages and fans their events into eventsCh.
func (s *Session) readLoop() {
	defer close(s.eventsCh)

	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.closeCh:
				return
			case s.eventsCh <- eventOrError{err: readError(err)}:
			}
			return
		}

		if s.logger.Enabled(context.Background(), slog.LevelDebug) {
			str := string(raw)
			if len(str) > 1000 {
				str = str[:1000] + "..."
			}
			s.logger.Debug("received message", "len", len(raw), "content", str)
		}

		var msg serverMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			select {
			case <-s.closeCh:
				return
			case s.eventsCh <- eventOrError{err: fmt.Errorf("live: parse message: %w", err)}:
			}
			continue
		}

		for _, event := range msg.events(raw) {
			select {
			case <-s.closeCh:
				return
			case s.eventsCh <- eventOrError{event: event}:
			}
		}
	}
}
