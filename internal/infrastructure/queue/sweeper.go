package queue

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rentalhub/rental-api/internal/api/metrics"
)

const defaultSweepInterval = time.Minute

// Evicter drops in-memory entries not used since cutoff and reports how
// many it dropped.
type Evicter interface {
	EvictIdle(cutoff time.Time) int
}

// Sweeper periodically evicts idle entries from in-memory registries.
type Sweeper struct {
	targets  map[string]Evicter
	idle     time.Duration
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
	wg       sync.WaitGroup
}

// NewSweeper evicts entries idle for longer than idle, checking every
// interval. If interval <= 0, defaultSweepInterval is used.
func NewSweeper(idle, interval time.Duration, targets map[string]Evicter, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{
		targets:  targets,
		idle:     idle,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Wait blocks until the loop started by Start has returned.
func (s *Sweeper) Wait() {
	s.wg.Wait()
}

// Sweep runs one eviction pass over every target and returns the total
// number of evicted entries.
func (s *Sweeper) Sweep() int {
	cutoff := s.now().Add(-s.idle)

	names := make([]string, 0, len(s.targets))
	for name := range s.targets {
		names = append(names, name)
	}
	sort.Strings(names)

	total := 0
	for _, name := range names {
		n := s.targets[name].EvictIdle(cutoff)
		if n == 0 {
			continue
		}
		metrics.EvictionsTotal.WithLabelValues(name).Add(float64(n))
		s.log.Debug().Str("registry", name).Int("evicted", n).Msg("idle entries evicted")
		total += n
	}
	return total
}
