// Package maintenance runs periodic background tasks for the dashboard as
// Go tickers.
package maintenance

import (
	"context"
	"log/slog"
	"time"
)

// Refresher re-fetches the shot data and drops memoized copies of it.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshFunc adapts a function to the Refresher interface.
type RefreshFunc func(ctx context.Context) error

// Refresh calls f(ctx).
func (f RefreshFunc) Refresh(ctx context.Context) error { return f(ctx) }

// Sweeper removes temp files left behind by interrupted writes.
type Sweeper interface {
	SweepTemp(maxAge time.Duration) (int, error)
}

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	RefreshInterval time.Duration // Scheduled data refresh
	SweepInterval   time.Duration // Stale temp file removal
	SweepMaxAge     time.Duration
}

// DefaultConfig returns production defaults. Scheduled refresh stays off;
// the dashboard refreshes on demand.
func DefaultConfig() Config {
	return Config{
		SweepInterval: time.Hour,
		SweepMaxAge:   time.Hour,
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, r Refresher, s Sweeper, cfg Config, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Maintenance tickers started",
		"refresh", cfg.RefreshInterval,
		"sweep", cfg.SweepInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.RefreshInterval > 0 && r != nil {
		t := time.NewTicker(cfg.RefreshInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { refresh(ctx, r, logger) })
	}

	if cfg.SweepInterval > 0 && s != nil {
		t := time.NewTicker(cfg.SweepInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { sweep(s, cfg.SweepMaxAge, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

func refresh(ctx context.Context, r Refresher, logger *slog.Logger) {
	start := time.Now()
	if err := r.Refresh(ctx); err != nil {
		logger.Warn("Scheduled refresh failed", "error", err)
		return
	}
	logger.Info("Scheduled refresh complete", "duration", time.Since(start).Round(time.Millisecond))
}

func sweep(s Sweeper, maxAge time.Duration, logger *slog.Logger) {
	n, err := s.SweepTemp(maxAge)
	if err != nil {
		logger.Warn("Sweep: failed to remove temp files", "error", err)
		return
	}
	if n > 0 {
		logger.Info("Sweep: removed stale temp files", "count", n)
	}
}
