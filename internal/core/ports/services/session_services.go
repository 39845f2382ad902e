package services

import (
	"context"

	"github.com/SscSPs/moneyflow/internal/core/recurring"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/SscSPs/moneyflow/internal/dto"
)

// SessionSvc owns the per-user ledger snapshots.
type SessionSvc interface {
	// OpenSession loads the first snapshot of a user and runs the recurring cursor once.
	// Calling it for an open session is a no-op that reports the current snapshot.
	OpenSession(ctx context.Context, userID string) (*dto.SessionResponse, error)

	// RefreshSession reloads every collection and runs the recurring cursor.
	RefreshSession(ctx context.Context, userID string) (*dto.SessionResponse, error)

	// Snapshot returns the user's current snapshot, opening the session if needed.
	Snapshot(ctx context.Context, userID string) (*snapshot.Snapshot, error)

	// Refresh re-reads the named collections (all when none are given) after a mutation.
	Refresh(ctx context.Context, userID string, cols ...snapshot.Collection) (*snapshot.Snapshot, error)

	// RunRecurring records due recurring occurrences for one user.
	RunRecurring(ctx context.Context, userID string) (recurring.Result, error)

	// RunRecurringForAll runs the recurring cursor for every open session.
	RunRecurringForAll(ctx context.Context) error

	// OpenUserIDs lists the users with an open session.
	OpenUserIDs() []string
}
