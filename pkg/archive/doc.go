// Package archive keeps a reviewable record of interview sessions.
//
// Each finalized turn is appended to the KV store as a msgpack record
// under a time-ordered key, next to a per-session meta record, so a
// session can be listed, reloaded and exported after the fact. Only
// text is archived; audio never touches disk.
//
// Key layout:
//
//	session:{id}:meta           → msgpack-encoded Meta
//	session:{id}:turn:{ts_ns}   → msgpack-encoded Record
//
// Nanosecond timestamps keep turn keys unique and lexicographically
// ordered, so a prefix scan returns a session's turns in emission
// order.
package archive
