// Package maintenance runs periodic background tasks as Go tickers: the
// in-process reminder schedule and the expired-mute sweep. An external cron
// hitting the trigger endpoints works just as well; a zero interval disables
// the matching ticker.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/mapleleafu/water/internal/notifications"
)

// Dispatcher runs one reminder pass.
type Dispatcher interface {
	Dispatch(ctx context.Context, force bool) (notifications.Result, error)
}

// MuteSweeper clears mutes that already expired.
type MuteSweeper interface {
	ClearExpiredMutes(ctx context.Context, now time.Time) (int, error)
}

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	ReminderInterval  time.Duration
	MuteSweepInterval time.Duration
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, d Dispatcher, s MuteSweeper, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"reminders", cfg.ReminderInterval,
		"mute_sweep", cfg.MuteSweepInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.ReminderInterval > 0 {
		t := time.NewTicker(cfg.ReminderInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { RunReminders(ctx, d, logger) })
	}

	if cfg.MuteSweepInterval > 0 {
		t := time.NewTicker(cfg.MuteSweepInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { SweepMutes(ctx, s, time.Now(), logger) })
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

// RunReminders performs one scheduled, quiet-hours-respecting dispatch.
func RunReminders(ctx context.Context, d Dispatcher, logger *slog.Logger) {
	res, err := d.Dispatch(ctx, false)
	if err != nil {
		logger.Warn("Scheduled reminders: dispatch failed", "error", err)
		return
	}
	logger.Info("Scheduled reminders: done", "considered", res.Considered, "sent", res.Sent)
}

// SweepMutes resets mutedUntil values that are no longer in the future.
func SweepMutes(ctx context.Context, s MuteSweeper, now time.Time, logger *slog.Logger) {
	n, err := s.ClearExpiredMutes(ctx, now)
	if err != nil {
		logger.Warn("Mute sweep: failed", "error", err)
		return
	}
	if n > 0 {
		logger.Info("Mute sweep: cleared expired mutes", "count", n)
	}
}
