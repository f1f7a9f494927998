package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler runs CleanupExpired on a cron schedule. It is only useful
// in long-running mode; one-shot invocations should call
// CleanupExpired directly.
type Scheduler struct {
	store    Store
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a cleanup scheduler for the store. The schedule
// is a standard cron expression, e.g. "0 3 * * *" for daily at 3 AM.
func NewScheduler(store Store, schedule string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store:    store,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "cache.scheduler"),
	}
}

// Start begins scheduled cleanup. An empty schedule disables the
// scheduler without error. The scheduler stops itself when ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("cleanup schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runCleanup(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cache cleanup: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("cache cleanup scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	deleted, err := s.store.CleanupExpired(ctx)
	if err != nil {
		s.logger.Error("scheduled cache cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("scheduled cache cleanup completed", "deleted_count", deleted)
	} else {
		s.logger.Debug("scheduled cache cleanup completed, no entries deleted")
	}
}

// Stop stops the scheduler and waits for any running job to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("cache cleanup scheduler stopped")
	}
}
