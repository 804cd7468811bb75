package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ReleaseRadar/internal/config"
	"ReleaseRadar/internal/ports"
)

const (
	recheckInterval = time.Minute
	recheckAttempts = 30
)

// Scheduler wires the interval driver with the reconciliation use case.
// When a cycle leaves transitional (single-source) items behind it starts a
// short recheck loop that polls every minute until the states settle or the
// attempts run out.
type Scheduler struct {
	driver     ports.Scheduler
	reconciler *Reconciler
	settings   func() config.Settings
	logger     *slog.Logger

	mu             sync.Mutex
	recheckRunning bool
}

// NewScheduler returns a helper to start/stop recurring reconciliation.
// settings is called at the start of every cycle so hot-reloaded
// configuration takes effect without a restart.
func NewScheduler(driver ports.Scheduler, reconciler *Reconciler, settings func() config.Settings, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		driver:     driver,
		reconciler: reconciler,
		settings:   settings,
		logger:     logger,
	}
}

// Start registers the reconcile job with the provided driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.reconciler == nil {
		return nil
	}

	job := func(trigger time.Time) {
		snapshot := s.reconciler.Reconcile(ctx, trigger, s.settings())
		s.report(snapshot)
		if snapshot.Transitional {
			s.startRecheck(ctx)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}

// startRecheck launches the bounded recheck loop unless one is already
// running.
func (s *Scheduler) startRecheck(ctx context.Context) {
	s.mu.Lock()
	if s.recheckRunning {
		s.mu.Unlock()
		return
	}
	s.recheckRunning = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.recheckRunning = false
			s.mu.Unlock()
		}()

		for attempt := 1; attempt <= recheckAttempts; attempt++ {
			select {
			case <-ctx.Done():
				return
			case <-time.After(recheckInterval):
			}

			s.info("transitional recheck", "attempt", attempt, "of", recheckAttempts)
			snapshot := s.reconciler.Reconcile(ctx, time.Now(), s.settings())
			if !snapshot.Transitional {
				return
			}
		}
	}()
}

func (s *Scheduler) report(snapshot Snapshot) {
	if s.logger == nil {
		return
	}
	for platform, item := range snapshot.Best {
		s.logger.Info("current release",
			"platform", platform.DisplayName(),
			"title", item.DisplayTitle(),
			"status", item.Status.DisplayName())
	}
	for _, f := range snapshot.Forecast.Items {
		s.logger.Info("forecast",
			"channel", f.Channel.DisplayName(),
			"confidence", string(f.Confidence),
			"note", f.Note)
	}
}

func (s *Scheduler) info(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
