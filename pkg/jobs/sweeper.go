package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SweepFunc performs one retention pass and reports how many rows it removed.
type SweepFunc func(ctx context.Context) (int64, error)

type sweep struct {
	name string
	fn   SweepFunc
}

// Sweeper periodically runs registered retention sweeps. Failures are logged
// and the schedule keeps ticking; a sweep never blocks request handling.
type Sweeper struct {
	interval time.Duration
	logger   *zap.Logger

	sweeps  []sweep
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewSweeper builds a sweeper with the given tick interval.
func NewSweeper(interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{interval: interval, logger: logger}
}

// Register adds a named sweep. Must be called before Start.
func (s *Sweeper) Register(name string, fn SweepFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.sweeps = append(s.sweeps, sweep{name: name, fn: fn})
}

// Start launches the ticker loop. The first pass runs after one interval.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

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
				s.runAll(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight pass to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Sweeper) runAll(ctx context.Context) {
	for _, sw := range s.sweeps {
		removed, err := sw.fn(ctx)
		if err != nil {
			s.logger.Warn("retention sweep failed",
				zap.String("sweep", sw.name),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("retention sweep completed",
			zap.String("sweep", sw.name),
			zap.Int64("removed", removed),
		)
	}
}
