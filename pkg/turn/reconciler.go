package turn

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Reconciler accumulates transcript deltas and turns them into history
// entries. Safe for concurrent use.
type Reconciler struct {
	logger *slog.Logger

	mu       sync.Mutex
	question strings.Builder
	answer   strings.Builder
	history  []*Turn
	active   *Turn
}

// NewReconciler creates an empty reconciler. A nil logger falls back to
// slog.Default.
func NewReconciler(logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{logger: logger}
}

// AddQuestion appends an interviewer-transcript delta verbatim.
func (r *Reconciler) AddQuestion(delta string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.question.WriteString(delta)
}

// AddAnswer appends an answer-text delta verbatim.
func (r *Reconciler) AddAnswer(delta string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answer.WriteString(delta)
}

// Question returns the interviewer text accumulated so far.
func (r *Reconciler) Question() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.question.String()
}

// Answer returns the answer text accumulated so far.
func (r *Reconciler) Answer() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.answer.String()
}

// Complete finalizes the current turn from the text accumulated so far.
// Deltas arriving after the call belong to the next turn.
//
// The citation payload, when present and valid, is stripped from the
// answer and kept as the turn's citations; a malformed payload is
// logged and ignored. A turn is emitted only if the cleaned answer is
// non-empty: emission appends to the history, makes the new turn the
// active selection and resets both accumulators. When nothing is
// emitted the accumulators are left as they were.
func (r *Reconciler) Complete(manual bool) (*Turn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	display, citations, err := ParseCitations(r.answer.String())
	if err != nil {
		r.logger.Warn("ignoring malformed citation payload", "error", err)
		citations = nil
	}
	answer := strings.TrimSpace(display)
	if answer == "" {
		return nil, false
	}

	t := &Turn{
		ID:        uuid.NewString(),
		Question:  r.question.String(),
		Answer:    answer,
		Citations: citations,
		Manual:    manual,
		CreatedAt: time.Now(),
	}
	r.history = append(r.history, t)
	r.active = t
	r.question.Reset()
	r.answer.Reset()
	return t, true
}

// Interrupt discards the in-progress answer and clears the active
// selection. The interviewer accumulator is untouched so the question
// carries over; no turn is emitted.
func (r *Reconciler) Interrupt() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answer.Reset()
	r.active = nil
}

// Discard clears both accumulators without emitting a turn.
func (r *Reconciler) Discard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.question.Reset()
	r.answer.Reset()
}

// History returns the emitted turns in emission order. The returned
// slice is a copy; the turns themselves are shared and immutable.
func (r *Reconciler) History() []*Turn {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Turn, len(r.history))
	copy(out, r.history)
	return out
}

// Len returns the number of emitted turns.
func (r *Reconciler) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.history)
}

// Active returns the turn currently selected for citation highlighting,
// or nil.
func (r *Reconciler) Active() *Turn {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Select makes the identified turn the active selection. It reports
// whether the ID named an emitted turn.
func (r *Reconciler) Select(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.history {
		if t.ID == id {
			r.active = t
			return true
		}
	}
	return false
}
