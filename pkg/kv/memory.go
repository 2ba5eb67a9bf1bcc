package kv

import (
	"bytes"
	"context"
	"iter"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Store implementation backed by a map.
// It is safe for concurrent use and copies values on both Set and Get,
// so callers can't mutate stored data through shared slices. Intended
// for tests and ephemeral runs where no data directory is configured.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
	opts *Options
}

// NewMemory creates a new in-memory Store.
// Pass nil for default options.
func NewMemory(opts *Options) *Memory {
	return &Memory{
		data: make(map[string][]byte),
		opts: opts,
	}
}

func (m *Memory) Get(_ context.Context, key Key) ([]byte, error) {
	k := string(m.opts.encode(key))
	m.mu.RLock()
	v, ok := m.data[k]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (m *Memory) Set(_ context.Context, key Key, value []byte) error {
	k := string(m.opts.encode(key))
	m.mu.Lock()
	m.data[k] = bytes.Clone(value)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key Key) error {
	k := string(m.opts.encode(key))
	m.mu.Lock()
	delete(m.data, k)
	m.mu.Unlock()
	return nil
}

func (m *Memory) List(_ context.Context, prefix Key) iter.Seq2[Entry, error] {
	p := m.opts.encode(prefix)
	// Append separator so "a:b" prefix doesn't match "a:bc".
	// An empty prefix scans everything.
	var prefixStr string
	if len(p) > 0 {
		prefixStr = string(append(p, m.opts.sep()))
	}

	// Snapshot matching keys under read lock so iteration doesn't
	// hold the lock or observe concurrent writes.
	type pair struct {
		key string
		val []byte
	}
	m.mu.RLock()
	var matched []pair
	for k, v := range m.data {
		if prefixStr == "" || strings.HasPrefix(k, prefixStr) {
			matched = append(matched, pair{k, bytes.Clone(v)})
		}
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].key < matched[j].key })

	return func(yield func(Entry, error) bool) {
		for _, p := range matched {
			entry := Entry{Key: m.opts.decode([]byte(p.key)), Value: p.val}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

func (m *Memory) BatchSet(_ context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.data[string(m.opts.encode(e.Key))] = bytes.Clone(e.Value)
	}
	return nil
}

func (m *Memory) BatchDelete(_ context.Context, keys []Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, string(m.opts.encode(key)))
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}

var _ Store = (*Memory)(nil)
