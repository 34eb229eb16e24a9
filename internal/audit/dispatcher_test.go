package audit

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestDisabledDispatcherIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, NewChannelSink(1))
	if d != nil {
		t.Fatal("disabled dispatcher must be nil")
	}

	// All operations on a nil dispatcher are no-ops.
	d.Emit(context.Background(), Event{EventType: "login_success"})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher must report zero drops")
	}
}

func TestDispatcherDeliversAndDrainsOnClose(t *testing.T) {
	sink := NewChannelSink(16)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 16}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), Event{EventType: "login_success", Success: true})
	}
	d.Close()

	var got int
	for {
		select {
		case <-sink.Events():
			got++
		default:
			if got != 5 {
				t.Fatalf("expected 5 delivered events, got %d", got)
			}
			return
		}
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	// A blocking sink keeps the buffer occupied so overflow is observable.
	block := make(chan struct{})
	sink := &blockingSink{release: block}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)
	defer func() {
		close(block)
		d.Close()
	}()

	deadline := time.Now().Add(2 * time.Second)
	for d.Dropped() == 0 {
		d.Emit(context.Background(), Event{EventType: "login_failure"})
		if time.Now().After(deadline) {
			t.Fatal("expected events to be dropped under backpressure")
		}
	}
}

func TestDispatcherEmitAfterClose(t *testing.T) {
	sink := NewChannelSink(4)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink)
	d.Close()

	// Must not panic or block.
	d.Emit(context.Background(), Event{EventType: "logout_session"})
	d.Close()
}

func TestJSONWriterSinkWritesOneLinePerEvent(t *testing.T) {
	var buf safeBuffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), Event{EventType: "login_success", Success: true, UserID: "u-1"})
	sink.Emit(context.Background(), Event{EventType: "logout_session", Success: true})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"event_type":"login_success"`) {
		t.Fatalf("unexpected first line: %s", lines[0])
	}
	if !strings.Contains(lines[0], `"user_id":"u-1"`) {
		t.Fatalf("expected user id on first line: %s", lines[0])
	}
}

type blockingSink struct {
	release <-chan struct{}
}

func (s *blockingSink) Emit(_ context.Context, _ Event) {
	<-s.release
}

type safeBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
