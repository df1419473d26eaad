// Package scheduler runs the periodic market refresh job.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/varlik-app/varlik/internal/service"
)

// CycleRunner is the refresh cycle entry point.
type CycleRunner interface {
	RefreshCycle(ctx context.Context) (service.RefreshSummary, error)
}

// Refresher fires one refresh cycle per tick with single-flight
// semantics: a tick (or manual trigger) arriving while a cycle is in
// flight is skipped, not queued. This is a single-process job, so a
// local flag is all the coordination needed.
type Refresher struct {
	runner   CycleRunner
	interval time.Duration
	logger   *logrus.Logger
	inFlight atomic.Bool
}

func NewRefresher(runner CycleRunner, interval time.Duration, logger *logrus.Logger) *Refresher {
	return &Refresher{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the tick loop until ctx is cancelled. Cancellation stops
// the timer immediately; an in-flight cycle finishes on its own bounded
// context and is not awaited. Run it in its own goroutine.
func (r *Refresher) Start(ctx context.Context) {
	r.logger.Infof("Price refresh scheduler started with interval=%s", r.interval)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Price refresh scheduler stopped")
			return
		case <-ticker.C:
			go r.tick()
		}
	}
}

// tick runs one scheduled cycle. Cycle failures are logged and retried
// on the next tick; they never crash the process.
func (r *Refresher) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), r.cycleTimeout())
	defer cancel()

	summary, started, err := r.RunNow(ctx)
	if !started {
		r.logger.Debug("Refresh tick skipped, cycle already in flight")
		return
	}
	if err != nil {
		r.logger.Errorf("Scheduled market refresh failed: %v", err)
		return
	}
	r.logger.Debugf("Scheduled refresh summary: updated=%d skipped=%d errors=%d",
		summary.UpdatedCount, summary.SkippedCount, len(summary.Errors))
}

// RunNow starts a cycle unless one is already running. The boolean
// result reports whether this call actually ran the cycle.
func (r *Refresher) RunNow(ctx context.Context) (service.RefreshSummary, bool, error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		return service.RefreshSummary{}, false, nil
	}
	defer r.inFlight.Store(false)

	summary, err := r.runner.RefreshCycle(ctx)
	return summary, true, err
}

// cycleTimeout bounds a scheduled cycle so a stalled upstream cannot
// block the flag past the next few ticks.
func (r *Refresher) cycleTimeout() time.Duration {
	timeout := 2 * r.interval
	if timeout < time.Minute {
		timeout = time.Minute
	}
	return timeout
}
