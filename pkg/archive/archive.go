package archive

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/hintwire/prompter/pkg/kv"
	"github.com/hintwire/prompter/pkg/turn"
)

// ErrNotFound is returned when a session ID does not exist.
var ErrNotFound = errors.New("archive: session not found")

// Record is one archived turn.
type Record struct {
	ID        string    `json:"id" yaml:"id" msgpack:"id"`
	Question  string    `json:"question,omitempty" yaml:"question,omitempty" msgpack:"question"`
	Answer    string    `json:"answer" yaml:"answer" msgpack:"answer"`
	Citations []string  `json:"citations,omitempty" yaml:"citations,omitempty" msgpack:"citations,omitempty"`
	Manual    bool      `json:"manual,omitempty" yaml:"manual,omitempty" msgpack:"manual"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at" msgpack:"created_at"`
}

// Meta describes an archived session.
type Meta struct {
	ID        string    `json:"id" yaml:"id" msgpack:"id"`
	Source    string    `json:"source,omitempty" yaml:"source,omitempty" msgpack:"source"`
	Model     string    `json:"model,omitempty" yaml:"model,omitempty" msgpack:"model"`
	StartedAt time.Time `json:"started_at" yaml:"started_at" msgpack:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitempty" yaml:"ended_at,omitempty" msgpack:"ended_at"`
	Turns     int       `json:"turns" yaml:"turns" msgpack:"turns"`
}

// Session is a fully loaded archived session.
type Session struct {
	Meta  Meta     `json:"meta" yaml:"meta"`
	Turns []Record `json:"turns" yaml:"turns"`
}

// Archive reads and deletes archived sessions.
type Archive struct {
	store kv.Store
}

// New creates an Archive over store.
func New(store kv.Store) *Archive {
	return &Archive{store: store}
}

func sessionPrefix(id string) kv.Key { return kv.Key{"session", id} }
func metaKey(id string) kv.Key       { return kv.Key{"session", id, "meta"} }

func turnKey(id string, ts int64) kv.Key {
	return kv.Key{"session", id, "turn", strconv.FormatInt(ts, 10)}
}

// List returns the meta records of all archived sessions, newest first.
func (a *Archive) List(ctx context.Context) ([]Meta, error) {
	var metas []Meta
	for entry, err := range a.store.List(ctx, kv.Key{"session"}) {
		if err != nil {
			return nil, fmt.Errorf("archive: list: %w", err)
		}
		if len(entry.Key) != 3 || entry.Key[2] != "meta" {
			continue
		}
		var m Meta
		if err := msgpack.Unmarshal(entry.Value, &m); err != nil {
			continue // skip malformed entries
		}
		metas = append(metas, m)
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].StartedAt.After(metas[j].StartedAt)
	})
	return metas, nil
}

// Load returns the full session for id with turns in emission order.
func (a *Archive) Load(ctx context.Context, id string) (*Session, error) {
	data, err := a.store.Get(ctx, metaKey(id))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("archive: load %s: %w", id, err)
	}
	s := &Session{}
	if err := msgpack.Unmarshal(data, &s.Meta); err != nil {
		return nil, fmt.Errorf("archive: load %s: decode meta: %w", id, err)
	}

	for entry, err := range a.store.List(ctx, sessionPrefix(id).Child("turn")) {
		if err != nil {
			return nil, fmt.Errorf("archive: load %s: %w", id, err)
		}
		var r Record
		if err := msgpack.Unmarshal(entry.Value, &r); err != nil {
			continue // skip malformed entries
		}
		s.Turns = append(s.Turns, r)
	}
	return s, nil
}

// Delete removes a session and all its turns.
func (a *Archive) Delete(ctx context.Context, id string) error {
	if _, err := a.store.Get(ctx, metaKey(id)); errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	} else if err != nil {
		return fmt.Errorf("archive: delete %s: %w", id, err)
	}

	var keys []kv.Key
	for entry, err := range a.store.List(ctx, sessionPrefix(id)) {
		if err != nil {
			return fmt.Errorf("archive: delete %s: %w", id, err)
		}
		keys = append(keys, entry.Key)
	}
	if err := a.store.BatchDelete(ctx, keys); err != nil {
		return fmt.Errorf("archive: delete %s: %w", id, err)
	}
	return nil
}

// Recorder appends one session's turns to the archive.
type Recorder struct {
	archive *Archive

	mu     sync.Mutex
	meta   Meta
	lastTS int64
}

// NewRecorder creates a recorder for one session. A zero meta.ID gets a
// fresh UUID and a zero meta.StartedAt is set to now. Nothing is
// written until the first turn is recorded, so sessions without turns
// leave no trace.
func (a *Archive) NewRecorder(meta Meta) *Recorder {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.StartedAt.IsZero() {
		meta.StartedAt = time.Now()
	}
	return &Recorder{archive: a, meta: meta}
}

// ID returns the session ID the recorder writes under.
func (r *Recorder) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meta.ID
}

// Record appends a finalized turn. The turn record and the updated meta
// are stored atomically.
func (r *Recorder) Record(ctx context.Context, t *turn.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := Record{
		ID:        t.ID,
		Question:  t.Question,
		Answer:    t.Answer,
		Citations: t.Citations,
		Manual:    t.Manual,
		CreatedAt: t.CreatedAt,
	}
	data, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("archive: encode turn: %w", err)
	}

	// Keys must stay unique and ordered even when two turns share a
	// timestamp.
	ts := t.CreatedAt.UnixNano()
	if ts <= r.lastTS {
		ts = r.lastTS + 1
	}

	r.meta.Turns++
	metaData, err := msgpack.Marshal(r.meta)
	if err != nil {
		r.meta.Turns--
		return fmt.Errorf("archive: encode meta: %w", err)
	}
	err = r.archive.store.BatchSet(ctx, []kv.Entry{
		{Key: metaKey(r.meta.ID), Value: metaData},
		{Key: turnKey(r.meta.ID, ts), Value: data},
	})
	if err != nil {
		r.meta.Turns--
		return fmt.Errorf("archive: store turn: %w", err)
	}
	r.lastTS = ts
	return nil
}

// Finish stamps the session's end time. It is a no-op for a session
// that recorded no turns.
func (r *Recorder) Finish(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.meta.Turns == 0 {
		return nil
	}
	r.meta.EndedAt = time.Now()
	data, err := msgpack.Marshal(r.meta)
	if err != nil {
		return fmt.Errorf("archive: encode meta: %w", err)
	}
	if err := r.archive.store.Set(ctx, metaKey(r.meta.ID), data); err != nil {
		return fmt.Errorf("archive: finish: %w", err)
	}
	return nil
}
