// Package kv provides a key-value store interface with hierarchical path-based
// keys. Keys are represented as string slices (e.g., ["session", "abc", "turn"])
// and encoded internally using a configurable separator (default ':').
//
// The package includes a BadgerDB-backed implementation for on-disk state
// (résumé text, archived interview sessions) which can also run in
// memory-only mode for tests.
package kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when a key does not exist in the store.
	ErrNotFound = errors.New("kv: not found")
)

// Key is a hierarchical path represented as a slice of string segments.
// For example, Key{"session", "abc", "meta"} encodes to "session:abc:meta"
// using the default separator ':'.
//
// Segments must not contain the configured separator character.
type Key []string

// String returns the key as a human-readable string using ':' as separator.
// This is for display/debug only; storage encoding honors Options.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// Child returns a new key with extra segments appended.
func (k Key) Child(segments ...string) Key {
	child := make(Key, 0, len(k)+len(segments))
	child = append(child, k...)
	return append(child, segments...)
}

// Entry is a key-value pair returned by List and used by BatchSet.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is the interface for a key-value store with path-based keys.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if not present.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a key-value pair. Overwrites any existing value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. No error if the key does not exist.
	Delete(ctx context.Context, key Key) error

	// List iterates over all entries whose key starts with the given prefix.
	// The iteration order is lexicographic by encoded key.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// BatchSet atomically stores multiple key-value pairs.
	BatchSet(ctx context.Context, entries []Entry) error

	// BatchDelete atomically removes multiple keys.
	BatchDelete(ctx context.Context, keys []Key) error

	// Close releases any resources held by the store.
	Close() error
}

// DefaultSeparator is the default separator byte used to encode key segments.
const DefaultSeparator byte = ':'

// Options configures store behavior.
type Options struct {
	// Separator is the byte used to join key segments when encoding to storage.
	// Default is ':' if zero.
	Separator byte
}

// sep returns the effective separator.
func (o *Options) sep() byte {
	if o != nil && o.Separator != 0 {
		return o.Separator
	}
	return DefaultSeparator
}

// encode converts a Key to its byte representation using the separator.
// Panics if a segment contains the separator, since that would corrupt
// the key hierarchy.
func (o *Options) encode(k Key) []byte {
	if len(k) == 0 {
		return nil
	}
	sep := o.sep()
	for _, seg := range k {
		if strings.IndexByte(seg, sep) >= 0 {
			panic(fmt.Sprintf("kv: key segment %q contains separator %q", seg, sep))
		}
	}
	return []byte(strings.Join(k, string(sep)))
}

// decode converts a byte representation back to a Key using the separator.
func (o *Options) decode(b []byte) Key {
	parts := bytes.Split(b, []byte{o.sep()})
	k := make(Key, len(parts))
	for i, p := range parts {
		k[i] = string(p)
	}
	return k
}
