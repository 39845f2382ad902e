package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	portsrepo "github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountWriter = (*PgxAccountRepository)(nil)

// SaveAccount inserts the account and, when given, its opening balance in one database transaction.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account, opening *domain.Transaction) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO accounts (account_id, user_id, name, currency_code, color, icon, created_at, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`
		_, err := tx.Exec(ctx, query,
			account.AccountID,
			account.UserID,
			account.Name,
			account.CurrencyCode,
			account.Color,
			account.Icon,
			account.CreatedAt,
			account.LastUpdatedAt,
		)
		if err != nil {
			return mapWriteError("account", account.AccountID, err)
		}
		if opening != nil {
			return insertTransaction(ctx, tx, *opening)
		}
		return nil
	})
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $3, color = $4, icon = $5, last_updated_at = $6
		WHERE user_id = $1 AND account_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		account.UserID, account.AccountID, account.Name, account.Color, account.Icon, account.LastUpdatedAt)
	if err != nil {
		return mapWriteError("account", account.AccountID, err)
	}
	return requireRow(tag, "account", account.AccountID)
}

// DeleteAccount removes the account; transactions and recurring definitions cascade.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, userID, accountID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE user_id = $1 AND account_id = $2;`, userID, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	return requireRow(tag, "account", accountID)
}

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) *PgxCategoryRepository {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.CategoryWriter     = (*PgxCategoryRepository)(nil)
	_ portsrepo.CounterpartyWriter = (*PgxCategoryRepository)(nil)
)

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, c domain.Category) error {
	query := `
		INSERT INTO categories (category_id, user_id, name, type, color, icon, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query, c.CategoryID, c.UserID, c.Name, c.Type, c.Color, c.Icon, c.CreatedAt, c.LastUpdatedAt)
	if err != nil {
		return mapWriteError("category", c.CategoryID, err)
	}
	return nil
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, c domain.Category) error {
	query := `
		UPDATE categories
		SET name = $3, type = $4, color = $5, icon = $6, last_updated_at = $7
		WHERE user_id = $1 AND category_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, c.UserID, c.CategoryID, c.Name, c.Type, c.Color, c.Icon, c.LastUpdatedAt)
	if err != nil {
		return mapWriteError("category", c.CategoryID, err)
	}
	return requireRow(tag, "category", c.CategoryID)
}

// DeleteCategory removes the category; its budget cascades, transactions keep the dangling id.
func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM categories WHERE user_id = $1 AND category_id = $2;`, userID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	return requireRow(tag, "category", categoryID)
}

func (r *PgxCategoryRepository) SaveCounterparty(ctx context.Context, c domain.Counterparty) error {
	query := `
		INSERT INTO counterparties (counterparty_id, user_id, name, type, is_favorite, color, icon, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query, c.CounterpartyID, c.UserID, c.Name, c.Type, c.IsFavorite, c.Color, c.Icon, c.CreatedAt, c.LastUpdatedAt)
	if err != nil {
		return mapWriteError("counterparty", c.CounterpartyID, err)
	}
	return nil
}

func (r *PgxCategoryRepository) UpdateCounterparty(ctx context.Context, c domain.Counterparty) error {
	query := `
		UPDATE counterparties
		SET name = $3, type = $4, is_favorite = $5, color = $6, icon = $7, last_updated_at = $8
		WHERE user_id = $1 AND counterparty_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, c.UserID, c.CounterpartyID, c.Name, c.Type, c.IsFavorite, c.Color, c.Icon, c.LastUpdatedAt)
	if err != nil {
		return mapWriteError("counterparty", c.CounterpartyID, err)
	}
	return requireRow(tag, "counterparty", c.CounterpartyID)
}

func (r *PgxCategoryRepository) DeleteCounterparty(ctx context.Context, userID, counterpartyID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM counterparties WHERE user_id = $1 AND counterparty_id = $2;`, userID, counterpartyID)
	if err != nil {
		return fmt.Errorf("failed to delete counterparty %s: %w", counterpartyID, err)
	}
	return requireRow(tag, "counterparty", counterpartyID)
}
