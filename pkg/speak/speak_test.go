package speak_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hintwire/prompter/pkg/audio/pcm"
	"github.com/hintwire/prompter/pkg/speak"
)

type fakeSynth struct {
	mu    sync.Mutex
	texts []string
	err   error
	next  func() io.ReadCloser
}

func (f *fakeSynth) Synthesize(_ context.Context, text string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.next(), nil
}

func (f *fakeSynth) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

// endlessStream produces the same byte forever until closed.
type endlessStream struct {
	b      byte
	closed atomic.Bool
}

func (e *endlessStream) Read(p []byte) (int, error) {
	if e.closed.Load() {
		return 0, io.EOF
	}
	time.Sleep(time.Millisecond)
	for i := range p {
		p[i] = e.b
	}
	return len(p), nil
}

func (e *endlessStream) Close() error {
	e.closed.Store(true)
	return nil
}

type fakeSink struct {
	mu     sync.Mutex
	data   bytes.Buffer
	writes chan []byte
}

func newFakeSink() *fakeSink {
	return &fakeSink{writes: make(chan []byte, 1024)}
}

func (f *fakeSink) Write(c pcm.Chunk) error {
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return err
	}
	f.mu.Lock()
	f.data.Write(buf.Bytes())
	f.mu.Unlock()
	select {
	case f.writes <- buf.Bytes():
	default:
	}
	return nil
}

func (f *fakeSink) bytes() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.data.Bytes()...)
}

func waitForByte(t *testing.T, sink *fakeSink, want byte) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case w := <-sink.writes:
			if len(w) > 0 && w[0] == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a write of 0x%02x", want)
		}
	}
}

func newSpeaker(synth speak.Synthesizer, sink pcm.Writer) *speak.Speaker {
	return speak.NewSpeaker(synth, sink, slog.New(slog.DiscardHandler))
}

func TestSayDeliversAudio(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, int(speak.Format.BytesInDuration(50*time.Millisecond)))
	synth := &fakeSynth{next: func() io.ReadCloser {
		return io.NopCloser(bytes.NewReader(payload))
	}}
	sink := newFakeSink()
	speaker := newSpeaker(synth, sink)

	speaker.Say(context.Background(), "hello candidate")

	deadline := time.Now().Add(5 * time.Second)
	for len(sink.bytes()) < len(payload) {
		if time.Now().After(deadline) {
			t.Fatalf("sink received %d bytes, want %d", len(sink.bytes()), len(payload))
		}
		time.Sleep(5 * time.Millisecond)
	}
	speaker.Stop()

	if got := sink.bytes(); !bytes.Equal(got, payload) {
		t.Errorf("sink received %d bytes, want the synthesized payload verbatim", len(got))
	}
	if got := synth.requests(); len(got) != 1 || got[0] != "hello candidate" {
		t.Errorf("synthesize requests = %v, want [hello candidate]", got)
	}
}

func TestSayCancelsPrevious(t *testing.T) {
	first := &endlessStream{b: 0x01}
	second := bytes.Repeat([]byte{0x02}, int(speak.Format.BytesInDuration(20*time.Millisecond)))
	streams := []io.ReadCloser{first, io.NopCloser(bytes.NewReader(second))}
	synth := &fakeSynth{}
	synth.next = func() io.ReadCloser {
		s := streams[0]
		streams = streams[1:]
		return s
	}
	sink := newFakeSink()
	speaker := newSpeaker(synth, sink)

	speaker.Say(context.Background(), "first")
	waitForByte(t, sink, 0x01)

	speaker.Say(context.Background(), "second")
	waitForByte(t, sink, 0x02)
	speaker.Stop()

	if !first.closed.Load() {
		t.Error("first utterance stream was not closed")
	}
	data := sink.bytes()
	if data[len(data)-1] != 0x02 {
		t.Errorf("last byte = 0x%02x, want 0x02", data[len(data)-1])
	}
	var n int
	for _, b := range data {
		if b == 0x02 {
			n++
		}
	}
	if n != len(second) {
		t.Errorf("second utterance delivered %d bytes, want %d", n, len(second))
	}
}

func TestStopCancelsUtterance(t *testing.T) {
	stream := &endlessStream{b: 0x01}
	synth := &fakeSynth{next: func() io.ReadCloser { return stream }}
	sink := newFakeSink()
	speaker := newSpeaker(synth, sink)

	speaker.Say(context.Background(), "endless")
	waitForByte(t, sink, 0x01)
	speaker.Stop()

	if !stream.closed.Load() {
		t.Error("stream was not closed by Stop")
	}
	n := len(sink.bytes())
	time.Sleep(50 * time.Millisecond)
	if got := len(sink.bytes()); got != n {
		t.Errorf("sink grew from %d to %d bytes after Stop", n, got)
	}
}

func TestStopWithoutSay(t *testing.T) {
	speaker := newSpeaker(&fakeSynth{}, newFakeSink())
	speaker.Stop()
	speaker.Stop()
}

func TestSynthesisFailureIsSilent(t *testing.T) {
	synth := &fakeSynth{err: errors.New("quota exceeded")}
	sink := newFakeSink()
	speaker := newSpeaker(synth, sink)

	speaker.Say(context.Background(), "text")
	speaker.Stop()

	if got := len(sink.bytes()); got != 0 {
		t.Errorf("sink received %d bytes from a failed synthesis", got)
	}
}
