package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/core/recurring"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/SscSPs/moneyflow/internal/dto"
	"go.uber.org/multierr"
)

// supersededRetries bounds how often a refresh is re-issued after losing to a newer one.
const supersededRetries = 3

type sessionService struct {
	BaseService
	registry *snapshot.Registry
	runner   *recurring.Runner
}

// NewSessionService creates the service that owns per-user snapshots.
func NewSessionService(registry *snapshot.Registry, runner *recurring.Runner) portssvc.SessionSvc {
	return &sessionService{registry: registry, runner: runner}
}

var _ portssvc.SessionSvc = (*sessionService)(nil)

func (s *sessionService) OpenSession(ctx context.Context, userID string) (*dto.SessionResponse, error) {
	m, opened, err := s.registry.Open(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to open session", slog.String("user_id", userID))
		return nil, err
	}
	resp := &dto.SessionResponse{UserID: userID, Opened: opened}
	if opened {
		s.LogInfo(ctx, "Session opened", slog.String("user_id", userID), slog.Uint64("snapshot_version", m.Current().Version()))
		res, err := s.runRecurring(ctx, m)
		if err != nil {
			return nil, err
		}
		resp.RecurringAdded, resp.RecurringFailed = res.Created, res.Failed
	}
	snap := m.Current()
	resp.SnapshotVersion, resp.FetchedAt = snap.Version(), snap.FetchedAt()
	return resp, nil
}

func (s *sessionService) RefreshSession(ctx context.Context, userID string) (*dto.SessionResponse, error) {
	m, opened, err := s.registry.Open(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to open session", slog.String("user_id", userID))
		return nil, err
	}
	if !opened {
		if _, err := s.refreshManager(ctx, m); err != nil {
			s.LogError(ctx, err, "Failed to refresh snapshot", slog.String("user_id", userID))
			return nil, err
		}
	}
	res, err := s.runRecurring(ctx, m)
	if err != nil {
		return nil, err
	}
	snap := m.Current()
	return &dto.SessionResponse{
		UserID:          userID,
		SnapshotVersion: snap.Version(),
		FetchedAt:       snap.FetchedAt(),
		Opened:          opened,
		RecurringAdded:  res.Created,
		RecurringFailed: res.Failed,
	}, nil
}

func (s *sessionService) Snapshot(ctx context.Context, userID string) (*snapshot.Snapshot, error) {
	if m, ok := s.registry.Get(userID); ok {
		return m.Current(), nil
	}
	if _, err := s.OpenSession(ctx, userID); err != nil {
		return nil, err
	}
	m, ok := s.registry.Get(userID)
	if !ok {
		// closed concurrently
		return nil, apperrors.Transient("open session", errors.New("session closed while opening"))
	}
	return m.Current(), nil
}

func (s *sessionService) Refresh(ctx context.Context, userID string, cols ...snapshot.Collection) (*snapshot.Snapshot, error) {
	m, opened, err := s.registry.Open(ctx, userID)
	if err != nil {
		return nil, err
	}
	if opened {
		// the first load already read everything
		return m.Current(), nil
	}
	return s.refreshManager(ctx, m, cols...)
}

// refreshManager re-issues a refresh that lost to a newer one, so the caller only
// returns once its collections are part of the installed snapshot.
func (s *sessionService) refreshManager(ctx context.Context, m *snapshot.Manager, cols ...snapshot.Collection) (*snapshot.Snapshot, error) {
	if len(cols) == 0 {
		cols = snapshot.AllCollections
	}
	var err error
	for attempt := 0; attempt < supersededRetries; attempt++ {
		var snap *snapshot.Snapshot
		snap, err = m.RefreshCollections(ctx, cols...)
		if !errors.Is(err, snapshot.ErrSuperseded) {
			return snap, err
		}
		s.LogDebug(ctx, "Snapshot refresh superseded, retrying", slog.String("user_id", m.UserID()), slog.Int("attempt", attempt+1))
	}
	return nil, apperrors.Transient("refresh snapshot", err)
}

func (s *sessionService) RunRecurring(ctx context.Context, userID string) (recurring.Result, error) {
	m, _, err := s.registry.Open(ctx, userID)
	if err != nil {
		return recurring.Result{}, err
	}
	return s.runRecurring(ctx, m)
}

// runRecurring records due occurrences and refreshes the snapshot if any were written.
// A partial backfill is logged and reported through the result, not returned as an error.
func (s *sessionService) runRecurring(ctx context.Context, m *snapshot.Manager) (recurring.Result, error) {
	res, runErr := s.runner.Run(ctx, m.Current())
	if runErr != nil && !errors.Is(runErr, apperrors.ErrPartialBackfill) {
		s.LogError(ctx, runErr, "Recurring run aborted", slog.String("user_id", m.UserID()))
		return res, runErr
	}
	if runErr != nil {
		s.GetLogger(ctx).Warn("Recurring backfill partially failed",
			slog.String("user_id", m.UserID()),
			slog.Int("created", res.Created),
			slog.Int("failed", res.Failed),
			slog.String("error", runErr.Error()))
	}
	if res.Created == 0 {
		return res, nil
	}
	if _, err := s.refreshManager(ctx, m, snapshot.Transactions, snapshot.Recurring); err != nil {
		s.LogError(ctx, err, "Failed to refresh after recurring run", slog.String("user_id", m.UserID()))
		return res, err
	}
	s.LogInfo(ctx, "Recurring occurrences recorded", slog.String("user_id", m.UserID()), slog.Int("created", res.Created))
	return res, nil
}

func (s *sessionService) RunRecurringForAll(ctx context.Context) error {
	var errs error
	for _, m := range s.registry.Sessions() {
		if ctx.Err() != nil {
			return multierr.Append(errs, ctx.Err())
		}
		// definitions may have been edited since the snapshot was taken
		if _, err := s.refreshManager(ctx, m, snapshot.Recurring); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if _, err := s.runRecurring(ctx, m); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (s *sessionService) OpenUserIDs() []string {
	sessions := s.registry.Sessions()
	ids := make([]string, len(sessions))
	for i, m := range sessions {
		ids[i] = m.UserID()
	}
	return ids
}
