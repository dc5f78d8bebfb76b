package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"flightminder-service/pkg/logger"
)

// Watchdog periodically re-queries every tracked flight so that a departure
// that slid re-anchors its reminder set without the user pressing refresh.
// Sweep failures are logged per user and never fatal.
type Watchdog struct {
	cron     *cron.Cron
	tracker  *Tracker
	interval time.Duration
	timeout  time.Duration
	logger   logger.Logger
}

// NewWatchdog creates a new watchdog
func NewWatchdog(tracker *Tracker, interval, lookupTimeout time.Duration, log logger.Logger) *Watchdog {
	return &Watchdog{
		cron:     cron.New(),
		tracker:  tracker,
		interval: interval,
		timeout:  lookupTimeout,
		logger:   log,
	}
}

// Start registers the sweep and starts the cron loop.
func (w *Watchdog) Start() error {
	spec := fmt.Sprintf("@every %s", w.interval)
	if _, err := w.cron.AddFunc(spec, w.sweep); err != nil {
		return fmt.Errorf("add watchdog sweep: %w", err)
	}
	w.cron.Start()
	w.logger.Info("Watchdog started", "interval", w.interval)
	return nil
}

// Stop stops the cron loop and waits for a running sweep to finish.
func (w *Watchdog) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.logger.Info("Watchdog stopped")
}

func (w *Watchdog) sweep() {
	tracked := w.tracker.scheduler.Tracked()
	if len(tracked) == 0 {
		return
	}
	w.logger.Info("Watchdog sweep", "users", len(tracked))

	for userID := range tracked {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		_, err := w.tracker.Refresh(ctx, userID)
		cancel()
		if err != nil {
			w.logger.Warn("Watchdog refresh failed", "userId", userID, "error", err)
		}
	}
}
