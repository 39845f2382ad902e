package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// begin starts a new database transaction
func (r *BaseRepository) begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

func (r *BaseRepository) commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// rollback treats an already closed transaction as rolled back.
func (r *BaseRepository) rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// inTx runs fn inside one database transaction, committing only if fn succeeds.
func (r *BaseRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer r.rollback(ctx, tx) // no-op after a successful commit

	if err := fn(tx); err != nil {
		return err
	}
	return r.commit(ctx, tx)
}

// mapWriteError translates constraint violations into application errors.
func mapWriteError(kind, id string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s with ID %s already exists", apperrors.ErrDuplicate, kind, id)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s %s references a missing row (%s)", apperrors.ErrValidation, kind, id, pgErr.ConstraintName)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s %s violates %s", apperrors.ErrValidation, kind, id, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("failed to write %s %s: %w", kind, id, err)
}

// requireRow turns a zero-row update or delete into apperrors.ErrNotFound.
func requireRow(tag pgconn.CommandTag, kind, id string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, apperrors.ErrNotFound)
	}
	return nil
}
