package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hintwire/prompter/pkg/copilot"
	"github.com/hintwire/prompter/pkg/turn"
)

func TestPlainPrinter_LabelsSpeakerChanges(t *testing.T) {
	var buf bytes.Buffer
	p := plainPrinter{w: &buf}

	p.print(copilot.Event{Type: copilot.EventQuestion, Delta: "Why "})
	p.print(copilot.Event{Type: copilot.EventQuestion, Delta: "Go?"})
	p.print(copilot.Event{Type: copilot.EventAnswer, Delta: "Because "})
	p.print(copilot.Event{Type: copilot.EventAnswer, Delta: "it's simple."})

	out := buf.String()
	if got := strings.Count(out, "[interviewer]"); got != 1 {
		t.Errorf("interviewer label count = %d, want 1\noutput: %q", got, out)
	}
	if got := strings.Count(out, "[answer]"); got != 1 {
		t.Errorf("answer label count = %d, want 1\noutput: %q", got, out)
	}
	if !strings.Contains(out, "Why Go?") {
		t.Errorf("question deltas not joined: %q", out)
	}
	if !strings.Contains(out, "Because it's simple.") {
		t.Errorf("answer deltas not joined: %q", out)
	}
}

func TestPlainPrinter_TurnAndStates(t *testing.T) {
	var buf bytes.Buffer
	p := plainPrinter{w: &buf}

	p.print(copilot.Event{Type: copilot.EventTurn, Turn: &turn.Turn{
		ID:        "11112222-0000-4000-8000-000000000000",
		Answer:    "Hi.",
		Citations: []string{"Go since 2018"},
	}})
	p.print(copilot.Event{Type: copilot.EventListening, Listening: false})
	p.print(copilot.Event{Type: copilot.EventState, State: copilot.StateClosed})

	out := buf.String()
	if !strings.Contains(out, "turn saved (11112222)") {
		t.Errorf("missing turn line: %q", out)
	}
	if !strings.Contains(out, `"Go since 2018"`) {
		t.Errorf("missing citations: %q", out)
	}
	if !strings.Contains(out, "-- paused") {
		t.Errorf("missing paused line: %q", out)
	}
	if !strings.Contains(out, "-- closed") {
		t.Errorf("missing closed line: %q", out)
	}
}
