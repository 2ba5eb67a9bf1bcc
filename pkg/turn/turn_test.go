package turn_test

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/hintwire/prompter/pkg/turn"
)

func newReconciler() *turn.Reconciler {
	return turn.NewReconciler(slog.New(slog.DiscardHandler))
}

func TestVerbatimAccumulation(t *testing.T) {
	r := newReconciler()
	r.AddQuestion("Why did ")
	r.AddQuestion("you choose")
	r.AddQuestion(" Go?")
	r.AddAnswer("Line one.\n")
	r.AddAnswer("  indented")

	if got, want := r.Question(), "Why did you choose Go?"; got != want {
		t.Errorf("Question() = %q, want %q", got, want)
	}
	if got, want := r.Answer(), "Line one.\n  indented"; got != want {
		t.Errorf("Answer() = %q, want %q", got, want)
	}
}

func TestCompleteEmitsTurn(t *testing.T) {
	r := newReconciler()
	r.AddQuestion("Tell me about channels.")
	r.AddAnswer("They are typed conduits.")

	emitted, ok := r.Complete(false)
	if !ok {
		t.Fatal("Complete did not emit a turn")
	}
	if emitted.ID == "" {
		t.Error("turn ID is empty")
	}
	if emitted.Question != "Tell me about channels." {
		t.Errorf("Question = %q", emitted.Question)
	}
	if emitted.Answer != "They are typed conduits." {
		t.Errorf("Answer = %q", emitted.Answer)
	}
	if emitted.Manual {
		t.Error("Manual = true for automatic completion")
	}
	if time.Since(emitted.CreatedAt) > time.Minute {
		t.Errorf("CreatedAt = %v, not recent", emitted.CreatedAt)
	}
	if r.Question() != "" || r.Answer() != "" {
		t.Error("accumulators not reset after emission")
	}
	if got := r.History(); len(got) != 1 || got[0] != emitted {
		t.Errorf("History() = %v, want the emitted turn", got)
	}
	if r.Active() != emitted {
		t.Error("emitted turn is not the active selection")
	}

	r.AddAnswer("Second answer.")
	second, ok := r.Complete(true)
	if !ok {
		t.Fatal("second Complete did not emit")
	}
	if !second.Manual {
		t.Error("Manual = false for analyze-now completion")
	}
	if second.ID == emitted.ID {
		t.Error("turn IDs are not unique")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestCompleteExtractsCitations(t *testing.T) {
	r := newReconciler()
	r.AddAnswer("Hello.\n\nRESUME_USAGE: [\"a\", \"b\"]")

	emitted, ok := r.Complete(false)
	if !ok {
		t.Fatal("Complete did not emit a turn")
	}
	if emitted.Answer != "Hello." {
		t.Errorf("Answer = %q, want %q", emitted.Answer, "Hello.")
	}
	if len(emitted.Citations) != 2 || emitted.Citations[0] != "a" || emitted.Citations[1] != "b" {
		t.Errorf("Citations = %v, want [a b]", emitted.Citations)
	}
}

func TestCompleteMalformedCitations(t *testing.T) {
	r := newReconciler()
	r.AddAnswer("Answer body. RESUME_USAGE: [not json]")

	emitted, ok := r.Complete(false)
	if !ok {
		t.Fatal("Complete did not emit a turn")
	}
	if emitted.Answer != "Answer body. RESUME_USAGE: [not json]" {
		t.Errorf("Answer = %q, want original text retained", emitted.Answer)
	}
	if len(emitted.Citations) != 0 {
		t.Errorf("Citations = %v, want none", emitted.Citations)
	}
}

func TestCompleteEmptyAnswer(t *testing.T) {
	r := newReconciler()
	r.AddQuestion("Anything?")

	if _, ok := r.Complete(false); ok {
		t.Fatal("Complete emitted a turn with no answer text")
	}
	if r.Question() != "Anything?" {
		t.Error("question accumulator lost without emission")
	}

	r.AddAnswer(" \n\t ")
	if _, ok := r.Complete(false); ok {
		t.Fatal("Complete emitted a turn for whitespace-only answer")
	}

	r.AddAnswer("RESUME_USAGE: [\"only citations\"]")
	if _, ok := r.Complete(false); ok {
		t.Fatal("Complete emitted a turn whose cleaned answer is empty")
	}
}

func TestInterruptDiscardsAnswerOnly(t *testing.T) {
	r := newReconciler()
	r.AddAnswer("seed")
	if _, ok := r.Complete(false); !ok {
		t.Fatal("seed Complete did not emit")
	}

	r.AddQuestion("And your biggest weakness?")
	r.AddAnswer("Half an ans")
	r.Interrupt()

	if r.Answer() != "" {
		t.Errorf("Answer() = %q after interrupt, want empty", r.Answer())
	}
	if r.Question() != "And your biggest weakness?" {
		t.Errorf("Question() = %q after interrupt, want retained", r.Question())
	}
	if r.Active() != nil {
		t.Error("active selection survived interrupt")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d after interrupt, want 1", r.Len())
	}
}

func TestDiscardClearsBoth(t *testing.T) {
	r := newReconciler()
	r.AddQuestion("q")
	r.AddAnswer("a")
	r.Discard()

	if r.Question() != "" || r.Answer() != "" {
		t.Errorf("Question() = %q, Answer() = %q after discard, want both empty", r.Question(), r.Answer())
	}
	if r.Len() != 0 {
		t.Error("Discard emitted a turn")
	}
}

func TestHistoryIsACopy(t *testing.T) {
	r := newReconciler()
	r.AddAnswer("one")
	r.Complete(false)

	h := r.History()
	h[0] = nil
	if got := r.History(); got[0] == nil {
		t.Error("mutating the returned history mutated the reconciler")
	}
}

func TestSelect(t *testing.T) {
	r := newReconciler()
	r.AddAnswer("first")
	first, _ := r.Complete(false)
	r.AddAnswer("second")
	second, _ := r.Complete(false)

	if r.Active() != second {
		t.Fatal("latest turn is not active")
	}
	if !r.Select(first.ID) {
		t.Fatalf("Select(%q) = false, want true", first.ID)
	}
	if r.Active() != first {
		t.Error("Select did not change the active turn")
	}
	if r.Select("no-such-id") {
		t.Error("Select of unknown ID reported success")
	}
}

func TestParseCitations(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		display   string
		citations []string
		wantErr   bool
	}{
		{
			name:    "no marker",
			text:    "plain answer",
			display: "plain answer",
		},
		{
			name:      "trailing payload",
			text:      "Hello.\n\nRESUME_USAGE: [\"a\", \"b\"]",
			display:   "Hello.\n\n",
			citations: []string{"a", "b"},
		},
		{
			name:      "newlines before array",
			text:      "Text\nRESUME_USAGE:\n[\"s1\",\n \"s2\"]",
			display:   "Text\n",
			citations: []string{"s1", "s2"},
		},
		{
			name:      "text after payload survives",
			text:      "before RESUME_USAGE: [\"x\"] after",
			display:   "before  after",
			citations: []string{"x"},
		},
		{
			name:      "last marker wins",
			text:      "A RESUME_USAGE: [\"x\"] B RESUME_USAGE: [\"y\"]",
			display:   "A RESUME_USAGE: [\"x\"] B ",
			citations: []string{"y"},
		},
		{
			name:      "bracket inside snippet",
			text:      "T RESUME_USAGE: [\"a ] b\"]",
			display:   "T ",
			citations: []string{"a ] b"},
		},
		{
			name:      "empty array",
			text:      "T RESUME_USAGE: []",
			display:   "T ",
			citations: []string{},
		},
		{
			name:    "malformed json",
			text:    "T RESUME_USAGE: [not json]",
			display: "T RESUME_USAGE: [not json]",
			wantErr: true,
		},
		{
			name:    "non-string elements",
			text:    "T RESUME_USAGE: [1, 2]",
			display: "T RESUME_USAGE: [1, 2]",
			wantErr: true,
		},
		{
			name:    "null payload",
			text:    "T RESUME_USAGE: null",
			display: "T RESUME_USAGE: null",
			wantErr: true,
		},
		{
			name:    "marker at end of text",
			text:    "T RESUME_USAGE:",
			display: "T RESUME_USAGE:",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			display, citations, err := turn.ParseCitations(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if display != tt.display {
				t.Errorf("display = %q, want %q", display, tt.display)
			}
			if len(citations) != len(tt.citations) {
				t.Fatalf("citations = %v, want %v", citations, tt.citations)
			}
			for i := range citations {
				if citations[i] != tt.citations[i] {
					t.Errorf("citations[%d] = %q, want %q", i, citations[i], tt.citations[i])
				}
			}
		})
	}
}

func TestConcurrentAppend(t *testing.T) {
	r := newReconciler()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 100 {
			r.AddQuestion("q")
		}
	}()
	for range 100 {
		r.AddAnswer("a")
	}
	<-done

	if got := r.Question(); got != strings.Repeat("q", 100) {
		t.Errorf("Question() accumulated %d bytes, want 100", len(got))
	}
	if got := r.Answer(); got != strings.Repeat("a", 100) {
		t.Errorf("Answer() accumulated %d bytes, want 100", len(got))
	}
}
