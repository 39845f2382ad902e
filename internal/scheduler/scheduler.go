// Package scheduler runs the background jobs that keep open ledgers current:
// booking recurring occurrences as they fall due and refreshing reference rates.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
)

// jobTimeout bounds one run of a job.
const jobTimeout = 2 * time.Minute

// Scheduler wraps a cron runner and the services its jobs call.
type Scheduler struct {
	cron     *cron.Cron
	session  portssvc.SessionSvc
	settings portssvc.SettingsSvc
	logger   *slog.Logger
}

// Config holds the cron expressions (with a leading seconds field) for each job.
// An empty expression disables the job.
type Config struct {
	RecurringCron string
	RatesSyncCron string
	Location      *time.Location
}

// New registers the configured jobs. The scheduler does not run until Start is called.
func New(cfg Config, session portssvc.SessionSvc, settings portssvc.SettingsSvc, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{
		cron:     cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		session:  session,
		settings: settings,
		logger:   logger.With(slog.String("component", "scheduler")),
	}

	if cfg.RecurringCron != "" {
		if _, err := s.cron.AddFunc(cfg.RecurringCron, s.timed("recurring", s.RunRecurring)); err != nil {
			return nil, fmt.Errorf("invalid recurring schedule %q: %w", cfg.RecurringCron, err)
		}
	}
	if cfg.RatesSyncCron != "" {
		if settings == nil {
			return nil, fmt.Errorf("rate sync scheduled without a settings service")
		}
		if _, err := s.cron.AddFunc(cfg.RatesSyncCron, s.timed("rates_sync", s.SyncRates)); err != nil {
			return nil, fmt.Errorf("invalid rate sync schedule %q: %w", cfg.RatesSyncCron, err)
		}
	}
	return s, nil
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.logger.Info("Scheduler started", slog.Int("jobs", s.Jobs()))
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out, jobs still running")
	}
}

func (s *Scheduler) timed(name string, job func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			s.logger.Error("Job failed", slog.String("job", name), slog.String("error", err.Error()), slog.Duration("duration", time.Since(start)))
			return
		}
		s.logger.Debug("Job finished", slog.String("job", name), slog.Duration("duration", time.Since(start)))
	}
}

// RunRecurring books due recurring occurrences for every open session.
func (s *Scheduler) RunRecurring(ctx context.Context) error {
	return s.session.RunRecurringForAll(ctx)
}

// SyncRates refreshes the rate table of every user with an open session.
// A failure for one user does not stop the others.
func (s *Scheduler) SyncRates(ctx context.Context) error {
	var errs error
	for _, userID := range s.session.OpenUserIDs() {
		resp, err := s.settings.SyncRates(ctx, userID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("user %s: %w", userID, err))
			continue
		}
		s.logger.Info("Rates synced", slog.String("user_id", userID), slog.Int("updated", len(resp.Updated)))
	}
	return errs
}
