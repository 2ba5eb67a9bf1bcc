package turn

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CitationMarker is the literal tag the model is instructed to emit
// before the JSON array of résumé snippets it drew on.
const CitationMarker = "RESUME_USAGE:"

// Turn is one finalized question/answer exchange. Turns are immutable
// once emitted; callers must not modify the fields or the Citations
// slice.
type Turn struct {
	// ID uniquely identifies the turn.
	ID string

	// Question is the interviewer transcript accumulated for the turn.
	Question string

	// Answer is the suggested answer with the citation block stripped
	// and surrounding whitespace trimmed.
	Answer string

	// Citations are the résumé snippets the answer drew on, in the
	// order the model listed them. Empty when the answer carried no
	// valid citation payload.
	Citations []string

	// Manual reports that the turn came from an explicit analyze-now
	// request rather than an automatic end-of-turn signal.
	Manual bool

	// CreatedAt is the emission time.
	CreatedAt time.Time
}

// ParseCitations splits a completed answer into its display text and
// cited snippets.
//
// The citation payload is the last CitationMarker occurrence followed,
// after optional whitespace, by a JSON array of strings. On a valid
// parse the exact marker-to-array span is removed from the text and the
// array is returned in order. Text without a marker is returned as-is.
// A marker whose payload does not parse as a string array is reported
// as an error with the text untouched; callers treat that as "no
// citations" rather than a failure.
func ParseCitations(text string) (display string, citations []string, err error) {
	start := strings.LastIndex(text, CitationMarker)
	if start < 0 {
		return text, nil, nil
	}

	payload := text[start+len(CitationMarker):]
	dec := json.NewDecoder(strings.NewReader(payload))
	if err := dec.Decode(&citations); err != nil {
		return text, nil, fmt.Errorf("turn: citation payload: %w", err)
	}
	if citations == nil {
		return text, nil, fmt.Errorf("turn: citation payload: not a string array")
	}

	end := start + len(CitationMarker) + int(dec.InputOffset())
	return text[:start] + text[end:], citations, nil
}
