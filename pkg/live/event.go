package live

import "encoding/json"

// EventType identifies a server event.
type EventType string

const (
	// EventInputTranscript is a transcript delta of the audio the
	// session hears.
	EventInputTranscript EventType = "input_transcript"

	// EventOutputTranscript is a transcript delta of the audio the
	// model speaks.
	EventOutputTranscript EventType = "output_transcript"

	// EventText is a text delta of a model turn, for sessions with the
	// TEXT response modality.
	EventText EventType = "text"

	// EventAudio is a chunk of model speech: little-endian 16-bit mono
	// PCM at OutputSampleRate.
	EventAudio EventType = "audio"

	// EventTurnComplete marks the end of a model turn.
	EventTurnComplete EventType = "turn_complete"

	// EventInterrupted reports that new input cut the model turn short.
	// Any audio already delivered for the turn should be discarded.
	EventInterrupted EventType = "interrupted"

	// EventGoAway warns that the server will drop the connection soon.
	EventGoAway EventType = "go_away"

	// EventUsage reports token consumption.
	EventUsage EventType = "usage"
)

// Event is a normalized server event.
type Event struct {
	// Type identifies the event.
	Type EventType

	// Text holds the delta for transcript and text events.
	Text string

	// Audio holds decoded PCM bytes for EventAudio.
	Audio []byte

	// MIMEType describes Audio (e.g. "audio/pcm;rate=24000").
	MIMEType string

	// TimeLeft is the remaining connection time for EventGoAway.
	TimeLeft string

	// Usage holds token counts for EventUsage.
	Usage *UsageMetadata

	// Raw is the wire message this event was parsed from. Events parsed
	// from the same message share it.
	Raw json.RawMessage
}

// events flattens a wire message into zero or more Events. A single
// serverContent message may carry transcripts, model parts and turn
// markers together; they are emitted in that order, matching how the
// server interleaves them chronologically.
func (m *serverMessage) events(raw []byte) []*Event {
	var out []*Event
	if sc := m.ServerContent; sc != nil {
		if t := sc.InputTranscription; t != nil && t.Text != "" {
			out = append(out, &Event{Type: EventInputTranscript, Text: t.Text})
		}
		if t := sc.OutputTranscription; t != nil && t.Text != "" {
			out = append(out, &Event{Type: EventOutputTranscript, Text: t.Text})
		}
		if mt := sc.ModelTurn; mt != nil {
			for _, p := range mt.Parts {
				if p.InlineData != nil && len(p.InlineData.Data) > 0 {
					out = append(out, &Event{
						Type:     EventAudio,
						Audio:    p.InlineData.Data,
						MIMEType: p.InlineData.MIMEType,
					})
				}
				if p.Text != "" {
					out = append(out, &Event{Type: EventText, Text: p.Text})
				}
			}
		}
		if sc.Interrupted {
			out = append(out, &Event{Type: EventInterrupted})
		}
		if sc.TurnComplete {
			out = append(out, &Event{Type: EventTurnComplete})
		}
	}
	if m.GoAway != nil {
		out = append(out, &Event{Type: EventGoAway, TimeLeft: m.GoAway.TimeLeft})
	}
	if m.UsageMetadata != nil {
		out = append(out, &Event{Type: EventUsage, Usage: m.UsageMetadata})
	}
	for _, e := range out {
		e.Raw = raw
	}
	return out
}
