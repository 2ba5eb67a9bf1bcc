// Package brief generates a post-interview debrief from an archived
// session.
//
// The generator sends the session transcript to the Gemini generative
// API and asks for a strict JSON assessment (summary, strengths, risks,
// follow-ups). Model output that is almost-JSON (fenced, truncated or
// with trailing commas) is repaired before parsing fails the debrief.
package brief
