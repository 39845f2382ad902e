package pgsql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique violation", &pgconn.PgError{Code: pgUniqueViolation}, apperrors.ErrDuplicate},
		{"wrapped unique violation", fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgUniqueViolation}), apperrors.ErrDuplicate},
		{"foreign key violation", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "transactions_account_id_fkey"}, apperrors.ErrValidation},
		{"check violation", &pgconn.PgError{Code: pgCheckViolation}, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapWriteError("account", "acc-1", tt.err), tt.want)
		})
	}

	t.Run("other errors are wrapped", func(t *testing.T) {
		err := mapWriteError("account", "acc-1", assert.AnError)
		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, apperrors.ErrDuplicate)
	})
}

func TestRequireRow(t *testing.T) {
	assert.ErrorIs(t, requireRow(pgconn.NewCommandTag("DELETE 0"), "goal", "g-1"), apperrors.ErrNotFound)
	assert.NoError(t, requireRow(pgconn.NewCommandTag("DELETE 1"), "goal", "g-1"))
}

// fakeTx fails Commit and Rollback with the configured errors.
type fakeTx struct {
	pgx.Tx
	commitErr, rollbackErr error
}

func (f fakeTx) Commit(context.Context) error   { return f.commitErr }
func (f fakeTx) Rollback(context.Context) error { return f.rollbackErr }

func TestCommitAndRollback(t *testing.T) {
	repo := &BaseRepository{}
	ctx := context.Background()

	t.Run("rollback after commit is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.rollback(ctx, fakeTx{rollbackErr: pgx.ErrTxClosed}))
	})

	t.Run("rollback failure is reported", func(t *testing.T) {
		var appErr *apperrors.AppError
		assert.True(t, errors.As(repo.rollback(ctx, fakeTx{rollbackErr: assert.AnError}), &appErr))
	})

	t.Run("commit failure keeps the cause", func(t *testing.T) {
		err := repo.commit(ctx, fakeTx{commitErr: assert.AnError})
		assert.ErrorIs(t, err, assert.AnError)
	})
}
