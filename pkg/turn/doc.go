// Package turn reconciles streaming transcript deltas into discrete
// question/answer turns.
//
// A Reconciler accumulates interviewer-transcript deltas and
// answer-text deltas verbatim as they arrive. When the stream signals
// the end of a turn, Complete extracts the cited résumé snippets the
// model appended after the RESUME_USAGE: marker, strips the marker span
// from the display text, and appends an immutable Turn to the history:
//
//	r := turn.NewReconciler(nil)
//	r.AddQuestion("Why did you ")
//	r.AddQuestion("choose Go?")
//	r.AddAnswer("Because of goroutines.\n\nRESUME_USAGE: [\"built a Go pipeline\"]")
//	t, ok := r.Complete(false)
//	// t.Answer == "Because of goroutines."
//	// t.Citations == ["built a Go pipeline"]
//
// An interruption discards the in-progress answer without emitting
// anything; the interviewer accumulator keeps its text so the question
// survives into the next turn.
package turn
