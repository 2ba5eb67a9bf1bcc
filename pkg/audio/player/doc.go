// Package player schedules PCM chunks for gapless sequential playback.
//
// Audio that streams in faster than real time is queued on a stream
// cursor: each chunk starts exactly when the previous one ends, and an
// interruption flushes everything queued and rewinds the cursor so the
// next chunk plays immediately.
package player
