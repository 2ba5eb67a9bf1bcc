// Package copilot orchestrates a live interview-assist session.
//
// A Copilot owns one session at a time. Start opens the audio capture,
// connects a live model session primed with the stored résumé, and runs
// two loops: one forwards capture frames to the model while the
// listening flag is set, the other dispatches server events to the turn
// reconciler, the playback player and the session recorder. Stop tears
// everything down; the same teardown runs when the transport fails.
//
// Consumers drive the UI from Events, a single ordered stream of state
// changes, transcript deltas and completed turns:
//
//	pilot, err := copilot.New(copilot.Config{Client: client})
//	...
//	go func() {
//		for ev := range pilot.Events() {
//			render(ev)
//		}
//	}()
//	if err := pilot.Start(ctx); err != nil {
//		...
//	}
//
// The events channel is buffered but never closed; callers must keep
// draining it for the lifetime of the Copilot.
package copilot
