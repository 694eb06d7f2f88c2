package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BradenHooton/loginlab/internal/auth"
	"github.com/BradenHooton/loginlab/internal/metrics"
)

// Sweeper is the part of the lockout guard the sweep loop drives
type Sweeper interface {
	Sweep(now time.Time) int
	Stats(now time.Time) auth.GuardStats
}

// SweepManager periodically drops stale lockout records so the guard's
// memory tracks active attackers rather than every key ever tried
type SweepManager struct {
	guard    Sweeper
	clock    auth.Clock
	metrics  *metrics.AuthMetrics
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSweepManager creates a new sweep manager. authMetrics may be nil.
func NewSweepManager(guard Sweeper, clock auth.Clock, authMetrics *metrics.AuthMetrics, logger *slog.Logger, interval time.Duration) *SweepManager {
	if clock == nil {
		clock = auth.SystemClock{}
	}
	return &SweepManager{
		guard:    guard,
		clock:    clock,
		metrics:  authMetrics,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or ctx is done
func (sm *SweepManager) Start(ctx context.Context) {
	ticker := time.NewTicker(sm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sm.RunOnce()
		case <-sm.stopCh:
			sm.logger.Info("guard sweeper stopped")
			return
		case <-ctx.Done():
			sm.logger.Info("guard sweeper context cancelled")
			return
		}
	}
}

// RunOnce sweeps the guard and publishes its size. It returns the number of
// records removed.
func (sm *SweepManager) RunOnce() int {
	now := sm.clock.Now()
	removed := sm.guard.Sweep(now)
	stats := sm.guard.Stats(now)

	sm.metrics.AddSwept(removed)
	sm.metrics.SetGuardState(stats.Tracked, stats.Locked)

	if removed > 0 {
		sm.logger.Info("guard sweep completed",
			slog.Int("removed", removed),
			slog.Int("tracked", stats.Tracked),
			slog.Int("locked", stats.Locked))
	}
	return removed
}

// Stop signals the sweep loop to exit. Safe to call more than once.
func (sm *SweepManager) Stop() {
	sm.stopOnce.Do(func() { close(sm.stopCh) })
}
