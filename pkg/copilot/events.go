package copilot

import "github.com/hintwire/prompter/pkg/turn"

// State is the lifecycle state of the session.
type State string

const (
	// StateIdle means no session has been started yet.
	StateIdle State = "idle"

	// StateConnecting means Start is opening capture and the live
	// session.
	StateConnecting State = "connecting"

	// StateOpen means the session is live and loops are running.
	StateOpen State = "open"

	// StateClosed means the last session was stopped deliberately.
	StateClosed State = "closed"

	// StateErrored means the last session ended with an error,
	// available from Err.
	StateErrored State = "errored"
)

// EventType identifies an Event.
type EventType string

const (
	// EventState reports a lifecycle transition; State carries the new
	// state.
	EventState EventType = "state"

	// EventListening reports the listening flag changing; Listening
	// carries the new value.
	EventListening EventType = "listening"

	// EventQuestion carries an interviewer transcript delta in Delta.
	EventQuestion EventType = "question"

	// EventAnswer carries a drafted-answer delta in Delta.
	EventAnswer EventType = "answer"

	// EventTurn reports a completed exchange; Turn carries it.
	EventTurn EventType = "turn"

	// EventInterrupted reports that the model was cut off and the
	// pending answer was dropped.
	EventInterrupted EventType = "interrupted"

	// EventCleared reports that the in-progress question and answer
	// were discarded without producing a turn.
	EventCleared EventType = "cleared"

	// EventError carries a session error in Err. It precedes the
	// EventState transition to StateErrored.
	EventError EventType = "error"
)

// Event is one entry on the Events stream. Only the fields relevant to
// Type are set.
type Event struct {
	Type      EventType
	State     State
	Listening bool
	Delta     string
	Turn      *turn.Turn
	Err       error
}

// active reports whether s is a state with a running session.
func active(s State) bool {
	return s == StateConnecting || s == StateOpen
}

// emit delivers an event to the consumer, preserving order. It must not
// be called with c.mu held: a full buffer blocks until the consumer
// catches up.
func (c *Copilot) emit(ev Event) {
	c.events <- ev
}
