package live

import (
	"context"
	"log/slog"
	"net/http"
)

const (
	// DefaultEndpoint is the default Live API WebSocket endpoint.
	DefaultEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

	// DefaultModel is used when SessionConfig does not name a model.
	DefaultModel = "models/gemini-2.0-flash-live-001"
)

const (
	// InputMIMEType is the MIME type of audio sent with SendAudio.
	InputMIMEType = "audio/pcm;rate=16000"

	// OutputSampleRate is the sample rate, in Hz, of audio the server
	// sends in EventAudio events.
	OutputSampleRate = 24000
)

// Client is the Gemini Live API client.
type Client struct {
	config *clientConfig
}

// clientConfig holds the client configuration.
type clientConfig struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the Client.
type Option func(*clientConfig)

// NewClient creates a new Live API client.
//
// The apiKey is required and can be obtained from Google AI Studio.
func NewClient(apiKey string, opts ...Option) *Client {
	if apiKey == "" {
		panic("live: API key is required")
	}

	cfg := &clientConfig{
		apiKey:     apiKey,
		endpoint:   DefaultEndpoint,
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{config: cfg}
}

// WithEndpoint sets the WebSocket endpoint.
func WithEndpoint(url string) Option {
	return func(c *clientConfig) {
		c.endpoint = url
	}
}

// WithHTTPClient sets a custom HTTP client. Its Timeout bounds the
// WebSocket handshake.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithLogger sets the logger for connection and wire debug logs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// Connect dials the Live API, performs the setup handshake and returns
// an open session. The returned session is ready to send and receive.
func (c *Client) Connect(ctx context.Context, config *SessionConfig) (*Session, error) {
	return c.connect(ctx, config)
}
