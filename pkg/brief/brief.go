package brief

import (
	"context"
	"fmt"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/genai"

	"github.com/hintwire/prompter/pkg/archive"
)

// DefaultModel is the generative model used when Config does not name
// one.
const DefaultModel = "gemini-2.0-flash"

// Debrief is the structured assessment of one interview session.
type Debrief struct {
	Summary   string   `json:"summary"`
	Strengths []string `json:"strengths"`
	Risks     []string `json:"risks"`
	FollowUps []string `json:"follow_ups"`
}

// Config configures a Generator.
type Config struct {
	// APIKey is required.
	APIKey string

	// Model overrides DefaultModel.
	Model string
}

// Generator produces debriefs.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a Generator from cfg.
func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("brief: missing API key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("brief: client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}, nil
}

const systemPrompt = `You are an interview coach reviewing a transcript of interview
questions and the candidate's prepared answers. Assess how the interview went.
Respond with a single JSON object with the fields: summary (string, 2-4
sentences), strengths (array of strings), risks (array of strings),
follow_ups (array of strings with concrete preparation advice). No prose
outside the JSON object.`

var debriefSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary":    {Type: genai.TypeString},
		"strengths":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"risks":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"follow_ups": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"summary", "strengths", "risks", "follow_ups"},
}

// Generate produces a debrief for the session.
func (g *Generator) Generate(ctx context.Context, s *archive.Session) (*Debrief, error) {
	if len(s.Turns) == 0 {
		return nil, fmt.Errorf("brief: session %s has no turns", s.Meta.ID)
	}

	temp := float32(0.2)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    debriefSchema,
		Temperature:       &temp,
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		{Parts: []*genai.Part{{Text: buildPrompt(s)}}, Role: "user"},
	}, cfg)
	if err != nil {
		if e, ok := err.(*apierror.APIError); ok {
			err = e.Unwrap()
		}
		return nil, fmt.Errorf("brief: generate: %w", err)
	}

	var sb strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("brief: empty model response")
	}

	var d Debrief
	if err := unmarshalLenient([]byte(sb.String()), &d); err != nil {
		return nil, fmt.Errorf("brief: parse response: %w", err)
	}
	return &d, nil
}

// buildPrompt renders the session transcript for the model.
func buildPrompt(s *archive.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Interview transcript, %d turns.", len(s.Turns))
	if !s.Meta.StartedAt.IsZero() {
		fmt.Fprintf(&b, " Held on %s.", s.Meta.StartedAt.Format("2006-01-02"))
	}
	for i, t := range s.Turns {
		fmt.Fprintf(&b, "\n\n## Turn %d", i+1)
		if t.Manual {
			b.WriteString(" (candidate requested analysis mid-question)")
		}
		if q := strings.TrimSpace(t.Question); q != "" {
			fmt.Fprintf(&b, "\nInterviewer: %s", q)
		}
		fmt.Fprintf(&b, "\nPrepared answer: %s", t.Answer)
		if len(t.Citations) > 0 {
			fmt.Fprintf(&b, "\nRésumé snippets cited: %s", strings.Join(t.Citations, "; "))
		}
	}
	b.WriteString("\n\nAssess the candidate's performance across these turns.")
	return b.String()
}
