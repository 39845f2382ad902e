package recurring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// PartialBackfillError reports the occurrences that could not be recorded in a run.
// The occurrences that were recorded stay recorded.
type PartialBackfillError struct {
	Created int
	Failed  int
	Err     error
}

func (e *PartialBackfillError) Error() string {
	return fmt.Sprintf("%s: %d created, %d failed: %v", apperrors.ErrPartialBackfill, e.Created, e.Failed, e.Err)
}

// Is matches apperrors.ErrPartialBackfill.
func (e *PartialBackfillError) Is(target error) bool {
	return target == apperrors.ErrPartialBackfill
}

// Unwrap exposes the individual occurrence failures.
func (e *PartialBackfillError) Unwrap() []error {
	return multierr.Errors(e.Err)
}

// Result counts what a run did.
type Result struct {
	Created int
	Failed  int
}

// Runner records the due occurrences of every recurring definition in a snapshot.
type Runner struct {
	recorder   repositories.OccurrenceRecorder
	maxCatchUp int
	now        func() time.Time
	newID      func() string
	logger     *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMaxCatchUp sets how many occurrences a definition may emit per run.
func WithMaxCatchUp(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.maxCatchUp = n
		}
	}
}

// WithRunnerClock overrides the time source.
func WithRunnerClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// WithIDGenerator overrides how transaction ids are generated.
func WithIDGenerator(newID func() string) RunnerOption {
	return func(r *Runner) {
		r.newID = newID
	}
}

// WithLogger sets the logger used for per-occurrence failures.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a runner writing through recorder.
func NewRunner(recorder repositories.OccurrenceRecorder, opts ...RunnerOption) *Runner {
	r := &Runner{
		recorder:   recorder,
		maxCatchUp: DefaultMaxCatchUp,
		now:        time.Now,
		newID:      uuid.NewString,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run records due occurrences for every active definition in snap. A failed occurrence
// does not stop other definitions, but ends its own definition for this run since the
// cursor cannot move past it. Failures are returned as a *PartialBackfillError.
func (r *Runner) Run(ctx context.Context, snap *snapshot.Snapshot) (Result, error) {
	var (
		res  Result
		errs error
	)
	now := r.now()

	for _, def := range snap.Recurring {
		for _, date := range DueOccurrences(def, now, r.maxCatchUp) {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			txn := OccurrenceTransaction(def, r.newID(), date, now)
			err := r.recorder.RecordOccurrence(ctx, def.UserID, def.RecurringID, date, txn)
			if err == nil {
				res.Created++
				continue
			}
			if errors.Is(err, apperrors.ErrDuplicate) {
				// already recorded by a concurrent run; the cursor is past this date
				r.logger.DebugContext(ctx, "Recurring occurrence already recorded",
					slog.String("recurring_id", def.RecurringID), slog.Time("date", date))
				continue
			}
			res.Failed++
			r.logger.WarnContext(ctx, "Failed to record recurring occurrence",
				slog.String("recurring_id", def.RecurringID),
				slog.Time("date", date),
				slog.String("error", err.Error()))
			errs = multierr.Append(errs, fmt.Errorf("recurring %s on %s: %w", def.RecurringID, date.Format(time.DateOnly), err))
			break
		}
	}

	if errs != nil {
		return res, &PartialBackfillError{Created: res.Created, Failed: res.Failed, Err: errs}
	}
	return res, nil
}
