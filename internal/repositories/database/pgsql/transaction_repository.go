package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	portsrepo "github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const insertTransactionQuery = `
	INSERT INTO transactions (
		transaction_id, user_id, account_id, type, amount, category_id, counterparty_id,
		transfer_id, recurring_id, comment, date, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`

func transactionArgs(t domain.Transaction) []any {
	return []any{
		t.TransactionID, t.UserID, t.AccountID, t.Type, t.Amount, t.CategoryID, t.CounterpartyID,
		t.TransferID, t.RecurringID, t.Comment, t.Date, t.CreatedAt,
	}
}

func insertTransaction(ctx context.Context, q querier, t domain.Transaction) error {
	if _, err := q.Exec(ctx, insertTransactionQuery, transactionArgs(t)...); err != nil {
		return mapWriteError("transaction", t.TransactionID, err)
	}
	return nil
}

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.TransactionWriter = (*PgxTransactionRepository)(nil)
	_ portsrepo.TransferPerformer = (*PgxTransactionRepository)(nil)
)

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return insertTransaction(ctx, r.Pool, txn)
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, t domain.Transaction) error {
	query := `
		UPDATE transactions
		SET account_id = $3, amount = $4, category_id = $5, counterparty_id = $6, comment = $7, date = $8
		WHERE user_id = $1 AND transaction_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		t.UserID, t.TransactionID, t.AccountID, t.Amount, t.CategoryID, t.CounterpartyID, t.Comment, t.Date)
	if err != nil {
		return mapWriteError("transaction", t.TransactionID, err)
	}
	return requireRow(tag, "transaction", t.TransactionID)
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND transaction_id = $2;`, userID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	return requireRow(tag, "transaction", transactionID)
}

// DeleteTransfer removes both legs with a single statement.
func (r *PgxTransactionRepository) DeleteTransfer(ctx context.Context, userID, transferID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND transfer_id = $2;`, userID, transferID)
	if err != nil {
		return fmt.Errorf("failed to delete transfer %s: %w", transferID, err)
	}
	return requireRow(tag, "transfer", transferID)
}

// PerformTransfer inserts both legs in one database transaction.
func (r *PgxTransactionRepository) PerformTransfer(ctx context.Context, out, in domain.Transaction) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		legs := []domain.Transaction{out, in}
		for _, leg := range legs {
			batch.Queue(insertTransactionQuery, transactionArgs(leg)...)
		}

		br := tx.SendBatch(ctx, batch)
		var batchErr error
		for _, leg := range legs {
			if _, err := br.Exec(); err != nil && batchErr == nil {
				batchErr = mapWriteError("transaction", leg.TransactionID, err)
			}
		}
		if err := br.Close(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to close transfer batch: %w", err)
		}
		return batchErr
	})
}
