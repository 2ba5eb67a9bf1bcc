package player

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hintwire/prompter/pkg/audio/pcm"
	"github.com/hintwire/prompter/pkg/buffer"
)

// sliceDuration is the granularity of sink writes. Smaller slices make
// Flush cut playback off faster at the cost of more write calls.
const sliceDuration = 20 * time.Millisecond

// Clock abstracts time for the scheduler so tests can drive it.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// unit is one scheduled run of audio. A unit is live from scheduling
// until it finishes playing or a flush drops it; retiring a unit that
// already finished has no effect.
type unit struct {
	id      uint64
	gen     uint64
	data    []byte
	startAt time.Time
	done    atomic.Bool
}

// Config configures a Player.
type Config struct {
	// Sink receives the audio. Required.
	Sink pcm.WriteCloser

	// Format of the PCM bytes passed to Play. Defaults to pcm.L16Mono24K.
	Format pcm.Format

	// Clock drives scheduling. Defaults to the system clock.
	Clock Clock

	// QueueSize caps the number of scheduled-but-unplayed units.
	// Defaults to 64.
	QueueSize int

	// Logger receives debug logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// Player plays PCM chunks back to back on a stream cursor.
//
// Each chunk is scheduled at the later of the cursor and the current
// time, and the cursor then advances by the chunk's duration, so chunks
// that arrive faster than real time queue up seamlessly with no gaps.
// Flush drops everything scheduled, stops the playing chunk at the next
// slice boundary and rewinds the cursor to zero.
type Player struct {
	sink   pcm.WriteCloser
	format pcm.Format
	clock  Clock
	logger *slog.Logger
	queue  *buffer.BlockBuffer[*unit]
	done   chan struct{}

	mu     sync.Mutex
	cursor time.Time
	gen    uint64
	nextID uint64
	units  map[uint64]*unit
}

// New creates a Player and starts its playback loop.
func New(cfg Config) (*Player, error) {
	if cfg.Sink == nil {
		return nil, errors.New("player: Sink is required")
	}
	if cfg.Format == 0 {
		cfg.Format = pcm.L16Mono24K
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	p := &Player{
		sink:   cfg.Sink,
		format: cfg.Format,
		clock:  cfg.Clock,
		logger: cfg.Logger,
		queue:  buffer.BlockN[*unit](cfg.QueueSize),
		done:   make(chan struct{}),
		units:  make(map[uint64]*unit),
	}
	go p.run()
	return p, nil
}

// Format returns the PCM format Play expects.
func (p *Player) Format() pcm.Format { return p.format }

// Play schedules PCM bytes for playback and returns without waiting.
// Chunks play in the order given, each starting exactly when the
// previous one ends.
func (p *Player) Play(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	u := p.schedule(data)
	if err := p.queue.Add(u); err != nil {
		p.forget(u)
		return fmt.Errorf("player: enqueue: %w", err)
	}
	return nil
}

// schedule assigns a chunk its start time: the stream cursor when the
// cursor is in the future, otherwise now. The cursor then advances by
// the chunk's duration.
func (p *Player) schedule(data []byte) *unit {
	p.mu.Lock()
	defer p.mu.Unlock()

	startAt := p.clock.Now()
	if p.cursor.After(startAt) {
		startAt = p.cursor
	}
	p.nextID++
	u := &unit{id: p.nextID, gen: p.gen, data: data, startAt: startAt}
	p.cursor = startAt.Add(p.format.Duration(int64(len(data))))
	p.units[u.id] = u
	return u
}

func (p *Player) forget(u *unit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.units, u.id)
}

// Flush stops the playing unit at the next slice boundary, drops every
// scheduled unit and rewinds the cursor to zero, so the next Play starts
// immediately. Units that already finished are unaffected.
func (p *Player) Flush() {
	p.mu.Lock()
	dropped := len(p.units)
	p.gen++
	p.cursor = time.Time{}
	clear(p.units)
	p.queue.Reset()
	p.mu.Unlock()

	if dropped > 0 {
		p.logger.Debug("playback flushed", "dropped", dropped)
	}
}

// Pending returns the number of live units: scheduled or playing, not
// yet finished.
func (p *Player) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.units)
}

// stale reports whether a flush dropped the unit.
func (p *Player) stale(u *unit) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return u.gen != p.gen
}

// finish retires a unit. Retiring an already-finished unit is a no-op.
func (p *Player) finish(u *unit) {
	if u.done.Swap(true) {
		return
	}
	p.forget(u)
}

func (p *Player) run() {
	defer close(p.done)
	for {
		u, err := p.queue.Next()
		if err != nil {
			return
		}
		p.playUnit(u)
	}
}

func (p *Player) playUnit(u *unit) {
	defer p.finish(u)
	if p.stale(u) {
		return
	}
	if wait := u.startAt.Sub(p.clock.Now()); wait > 0 {
		p.clock.Sleep(wait)
	}

	slice := int(p.format.BytesInDuration(sliceDuration))
	for data := u.data; len(data) > 0; {
		if p.stale(u) {
			return
		}
		n := min(slice, len(data))
		if err := p.sink.Write(p.format.DataChunk(data[:n])); err != nil {
			p.logger.Error("playback write failed", "error", err)
			p.queue.CloseWithError(fmt.Errorf("player: sink: %w", err))
			return
		}
		data = data[n:]
	}
}

// Close stops playback, drops pending units and releases the sink.
func (p *Player) Close() error {
	p.mu.Lock()
	p.gen++
	clear(p.units)
	p.mu.Unlock()

	p.queue.Close()
	<-p.done
	return p.sink.Close()
}
