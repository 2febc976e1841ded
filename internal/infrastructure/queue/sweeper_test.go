package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recordingEvicter struct {
	mu      sync.Mutex
	cutoffs []time.Time
	evicted int
}

func (e *recordingEvicter) EvictIdle(cutoff time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cutoffs = append(e.cutoffs, cutoff)
	return e.evicted
}

func (e *recordingEvicter) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cutoffs)
}

func TestSweeper_SweepUsesIdleCutoff(t *testing.T) {
	sessions := &recordingEvicter{evicted: 3}
	carts := &recordingEvicter{evicted: 2}
	s := NewSweeper(2*time.Hour, 0, map[string]Evicter{"sessions": sessions, "carts": carts}, zerolog.Nop())

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if n := s.Sweep(); n != 5 {
		t.Fatalf("expected 5 evictions, got %d", n)
	}
	want := now.Add(-2 * time.Hour)
	for name, e := range map[string]*recordingEvicter{"sessions": sessions, "carts": carts} {
		if len(e.cutoffs) != 1 || !e.cutoffs[0].Equal(want) {
			t.Fatalf("%s: expected cutoff %v, got %v", name, want, e.cutoffs)
		}
	}
	if s.interval != defaultSweepInterval {
		t.Fatalf("expected default interval, got %v", s.interval)
	}
}

func TestSweeper_StartStopsOnCancel(t *testing.T) {
	e := &recordingEvicter{}
	s := NewSweeper(time.Minute, 5*time.Millisecond, map[string]Evicter{"sessions": e}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for e.calls() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	s.Wait()

	if e.calls() == 0 {
		t.Fatalf("expected at least one sweep before cancel")
	}
}
