package live

import "github.com/hintwire/prompter/pkg/encoding"

// SessionConfig configures the session requested during setup.
type SessionConfig struct {
	// Model is the model resource name (e.g. "models/gemini-2.0-flash-live-001").
	// A bare model name is prefixed with "models/". Defaults to DefaultModel.
	Model string

	// SystemInstruction steers the model for the whole session.
	SystemInstruction string

	// ResponseModalities selects what the model answers with.
	// Defaults to audio only.
	ResponseModalities []string

	// Voice names the prebuilt voice for audio responses.
	Voice string

	// Temperature overrides the model's sampling temperature.
	Temperature *float64

	// MaxOutputTokens caps each model turn.
	MaxOutputTokens int

	// InputTranscription requests transcripts of the audio the session
	// hears, delivered as EventInputTranscript events.
	InputTranscription bool

	// OutputTranscription requests transcripts of the audio the model
	// speaks, delivered as EventOutputTranscript events.
	OutputTranscription bool
}

// Response modalities for SessionConfig.ResponseModalities.
const (
	ModalityAudio = "AUDIO"
	ModalityText  = "TEXT"
)

// setupMessage is the first client message on the wire.
type setupMessage struct {
	Setup *setup `json:"setup"`
}

type setup struct {
	Model                    string             `json:"model"`
	GenerationConfig         *generationConfig  `json:"generationConfig,omitempty"`
	SystemInstruction        *Content           `json:"systemInstruction,omitempty"`
	InputAudioTranscription  *transcriptionOpts `json:"inputAudioTranscription,omitempty"`
	OutputAudioTranscription *transcriptionOpts `json:"outputAudioTranscription,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
	Temperature        *float64      `json:"temperature,omitempty"`
	MaxOutputTokens    int           `json:"maxOutputTokens,omitempty"`
}

type speechConfig struct {
	VoiceConfig *voiceConfig `json:"voiceConfig,omitempty"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig *prebuiltVoiceConfig `json:"prebuiltVoiceConfig,omitempty"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName,omitempty"`
}

type transcriptionOpts struct{}

// Content is a turn of conversation: a role plus ordered parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Part is one piece of a turn: text or inline binary data.
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Blob is inline binary data. Data is base64 on the wire; the envelope
// is applied on marshal and stripped on unmarshal.
type Blob struct {
	MIMEType string                 `json:"mimeType,omitempty"`
	Data     encoding.StdBase64Data `json:"data,omitempty"`
}

// realtimeInputMessage streams media into the session.
type realtimeInputMessage struct {
	RealtimeInput *realtimeInput `json:"realtimeInput"`
}

type realtimeInput struct {
	MediaChunks []Blob `json:"mediaChunks,omitempty"`
}

// clientContentMessage submits structured turns.
type clientContentMessage struct {
	ClientContent *clientContent `json:"clientContent"`
}

type clientContent struct {
	Turns        []Content `json:"turns,omitempty"`
	TurnComplete bool      `json:"turnComplete,omitempty"`
}

// serverMessage is one inbound wire message. Exactly one top-level
// field is set per message, except serverContent which may carry
// several payloads at once.
type serverMessage struct {
	SetupComplete *setupComplete `json:"setupComplete,omitempty"`
	ServerContent *serverContent `json:"serverContent,omitempty"`
	GoAway        *goAway        `json:"goAway,omitempty"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
}

type setupComplete struct{}

type serverContent struct {
	ModelTurn           *Content       `json:"modelTurn,omitempty"`
	TurnComplete        bool           `json:"turnComplete,omitempty"`
	Interrupted         bool           `json:"interrupted,omitempty"`
	GenerationComplete  bool           `json:"generationComplete,omitempty"`
	InputTranscription  *transcription `json:"inputTranscription,omitempty"`
	OutputTranscription *transcription `json:"outputTranscription,omitempty"`
}

type transcription struct {
	Text     string `json:"text,omitempty"`
	Finished bool   `json:"finished,omitempty"`
}

type goAway struct {
	TimeLeft string `json:"timeLeft,omitempty"`
}

// UsageMetadata reports token consumption for the session so far.
type UsageMetadata struct {
	PromptTokenCount   int `json:"promptTokenCount,omitempty"`
	ResponseTokenCount int `json:"responseTokenCount,omitempty"`
	TotalTokenCount    int `json:"totalTokenCount,omitempty"`
}
