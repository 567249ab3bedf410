package core

// scheduler.go runs history retention in the background.
//
// The purge job runs once at start, then on a cron schedule. Failures are
// logged and retried on the next tick; they never stop the application.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// PurgeConfig controls the history retention job.
type PurgeConfig struct {
	Retention time.Duration // Age past which runs are deleted
	Schedule  string        // Standard five-field cron spec, e.g. "0 3 * * *"
}

// StartHistoryPurge schedules the retention job and returns once it is
// registered. The scheduler stops when ctx is cancelled.
func (s *Service) StartHistoryPurge(ctx context.Context, cfg PurgeConfig) error {
	if s.history == nil {
		return ErrHistoryDisabled
	}
	if cfg.Retention <= 0 {
		return fmt.Errorf("history retention must be positive, got %s", cfg.Retention)
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, func() { s.runPurgeJob(ctx, cfg.Retention) }); err != nil {
		return fmt.Errorf("invalid purge schedule %q: %w", cfg.Schedule, err)
	}

	slog.Info("history purge scheduled",
		"retention", cfg.Retention,
		"schedule", cfg.Schedule,
	)

	s.runPurgeJob(ctx, cfg.Retention)
	c.Start()

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		slog.Info("history purge stopped")
	}()

	return nil
}

// runPurgeJob performs one purge cycle.
func (s *Service) runPurgeJob(ctx context.Context, retention time.Duration) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	purged, err := s.PurgeHistory(ctx, retention)
	if err != nil {
		slog.Error("history purge failed", "error", err)
		return
	}

	slog.Info("history purge completed",
		"runs_purged", purged,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
