package speak

import (
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hintwire/prompter/pkg/audio/pcm"
)

// Format is the PCM format every Synthesizer produces.
var Format = pcm.L16Mono24K

// Defaults for OpenAIConfig.
const (
	DefaultModel = "gpt-4o-mini-tts"
	DefaultVoice = "alloy"
)

// Synthesizer turns text into a stream of 24 kHz mono little-endian
// 16-bit PCM.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (io.ReadCloser, error)
}

// OpenAIConfig configures OpenAISynthesizer.
type OpenAIConfig struct {
	// APIKey is required.
	APIKey string

	// BaseURL overrides the API endpoint, for proxies and compatible
	// servers.
	BaseURL string

	// Model is the speech model. Defaults to DefaultModel.
	Model string

	// Voice names the synthesis voice. Defaults to DefaultVoice.
	Voice string
}

// OpenAISynthesizer synthesizes speech with the OpenAI speech endpoint,
// requesting the raw PCM response format.
type OpenAISynthesizer struct {
	client openai.Client
	model  string
	voice  string
}

// NewOpenAISynthesizer creates a synthesizer from cfg.
func NewOpenAISynthesizer(cfg OpenAIConfig) (*OpenAISynthesizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("speak: missing API key")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	s := &OpenAISynthesizer{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		voice:  cfg.Voice,
	}
	if s.model == "" {
		s.model = DefaultModel
	}
	if s.voice == "" {
		s.voice = DefaultVoice
	}
	return s, nil
}

// Synthesize requests speech for text. The returned stream is the raw
// PCM body; the caller must close it.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	res, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(s.model),
		Voice:          openai.AudioSpeechNewParamsVoice(s.voice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatPCM,
	})
	if err != nil {
		return nil, fmt.Errorf("speak: synthesize: %w", err)
	}
	return res.Body, nil
}
