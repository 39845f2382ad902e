package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/domain"
	portsrepo "github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxLedgerReader loads whole per-user collections for the snapshot.
// Dates are returned in loc so calendar math happens in the ledger's timezone.
type PgxLedgerReader struct {
	BaseRepository
	loc *time.Location
}

func newPgxLedgerReader(pool *pgxpool.Pool, loc *time.Location) *PgxLedgerReader {
	if loc == nil {
		loc = time.UTC
	}
	return &PgxLedgerReader{BaseRepository: BaseRepository{Pool: pool}, loc: loc}
}

var _ portsrepo.LedgerReader = (*PgxLedgerReader)(nil)

// listRows runs query for userID and scans every row with scan.
func listRows[T any](ctx context.Context, q querier, kind, query, userID string, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", kind, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", kind, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", kind, err)
	}
	return out, nil
}

func (r *PgxLedgerReader) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `
		SELECT account_id, user_id, name, currency_code, color, icon, created_at, last_updated_at
		FROM accounts WHERE user_id = $1 ORDER BY created_at;
	`
	return listRows(ctx, r.Pool, "accounts", query, userID, func(rows pgx.Rows) (domain.Account, error) {
		var a domain.Account
		err := rows.Scan(&a.AccountID, &a.UserID, &a.Name, &a.CurrencyCode, &a.Color, &a.Icon, &a.CreatedAt, &a.LastUpdatedAt)
		return a, err
	})
}

func (r *PgxLedgerReader) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	query := `
		SELECT category_id, user_id, name, type, color, icon, created_at, last_updated_at
		FROM categories WHERE user_id = $1 ORDER BY created_at;
	`
	return listRows(ctx, r.Pool, "categories", query, userID, func(rows pgx.Rows) (domain.Category, error) {
		var c domain.Category
		err := rows.Scan(&c.CategoryID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.CreatedAt, &c.LastUpdatedAt)
		return c, err
	})
}

func (r *PgxLedgerReader) ListCounterparties(ctx context.Context, userID string) ([]domain.Counterparty, error) {
	query := `
		SELECT counterparty_id, user_id, name, type, is_favorite, color, icon, created_at, last_updated_at
		FROM counterparties WHERE user_id = $1 ORDER BY created_at;
	`
	return listRows(ctx, r.Pool, "counterparties", query, userID, func(rows pgx.Rows) (domain.Counterparty, error) {
		var c domain.Counterparty
		err := rows.Scan(&c.CounterpartyID, &c.UserID, &c.Name, &c.Type, &c.IsFavorite, &c.Color, &c.Icon, &c.CreatedAt, &c.LastUpdatedAt)
		return c, err
	})
}

func (r *PgxLedgerReader) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, user_id, account_id, type, amount, category_id, counterparty_id,
			transfer_id, recurring_id, comment, date, created_at
		FROM transactions WHERE user_id = $1 ORDER BY created_at, transaction_id;
	`
	return listRows(ctx, r.Pool, "transactions", query, userID, func(rows pgx.Rows) (domain.Transaction, error) {
		var t domain.Transaction
		err := rows.Scan(&t.TransactionID, &t.UserID, &t.AccountID, &t.Type, &t.Amount, &t.CategoryID, &t.CounterpartyID,
			&t.TransferID, &t.RecurringID, &t.Comment, &t.Date, &t.CreatedAt)
		t.Date, t.CreatedAt = t.Date.In(r.loc), t.CreatedAt.In(r.loc)
		return t, err
	})
}

func (r *PgxLedgerReader) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	query := `
		SELECT budget_id, user_id, category_id, amount, created_at, last_updated_at
		FROM budgets WHERE user_id = $1 ORDER BY created_at;
	`
	return listRows(ctx, r.Pool, "budgets", query, userID, func(rows pgx.Rows) (domain.Budget, error) {
		var b domain.Budget
		err := rows.Scan(&b.BudgetID, &b.UserID, &b.CategoryID, &b.Amount, &b.CreatedAt, &b.LastUpdatedAt)
		return b, err
	})
}

func (r *PgxLedgerReader) ListDebts(ctx context.Context, userID string) ([]domain.Debt, error) {
	query := `
		SELECT debt_id, user_id, name, amount, paid_amount, type, due_date, created_at, last_updated_at
		FROM debts WHERE user_id = $1 ORDER BY created_at;
	`
	return listRows(ctx, r.Pool, "debts", query, userID, func(rows pgx.Rows) (domain.Debt, error) {
		var d domain.Debt
		err := rows.Scan(&d.DebtID, &d.UserID, &d.Name, &d.Amount, &d.PaidAmount, &d.Type, &d.DueDate, &d.CreatedAt, &d.LastUpdatedAt)
		return d, err
	})
}

func (r *PgxLedgerReader) ListRecurringDefinitions(ctx context.Context, userID string) ([]domain.RecurringDefinition, error) {
	query := `
		SELECT recurring_id, user_id, account_id, category_id, type, amount, day_of_month,
			comment, last_run, active, created_at, last_updated_at
		FROM recurring_definitions WHERE user_id = $1 ORDER BY created_at;
	`
	return listRows(ctx, r.Pool, "recurring definitions", query, userID, func(rows pgx.Rows) (domain.RecurringDefinition, error) {
		var d domain.RecurringDefinition
		err := rows.Scan(&d.RecurringID, &d.UserID, &d.AccountID, &d.CategoryID, &d.Type, &d.Amount, &d.DayOfMonth,
			&d.Comment, &d.LastRun, &d.Active, &d.CreatedAt, &d.LastUpdatedAt)
		localizeRecurring(&d, r.loc)
		return d, err
	})
}

func (r *PgxLedgerReader) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	query := `
		SELECT goal_id, user_id, name, target_amount, current_amount, deadline, color, icon, created_at, last_updated_at
		FROM goals WHERE user_id = $1 ORDER BY created_at;
	`
	return listRows(ctx, r.Pool, "goals", query, userID, func(rows pgx.Rows) (domain.Goal, error) {
		var g domain.Goal
		err := rows.Scan(&g.GoalID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.Color, &g.Icon, &g.CreatedAt, &g.LastUpdatedAt)
		return g, err
	})
}

func (r *PgxLedgerReader) GetSettings(ctx context.Context, userID string) (*domain.Settings, error) {
	query := `
		SELECT user_id, base_currency, currency_rates, privacy_mode, theme
		FROM settings WHERE user_id = $1;
	`
	var (
		s        domain.Settings
		rawRates []byte
	)
	err := r.Pool.QueryRow(ctx, query, userID).Scan(&s.UserID, &s.BaseCurrency, &rawRates, &s.PrivacyMode, &s.Theme)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("settings of %s: %w", userID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get settings of %s: %w", userID, err)
	}
	s.CurrencyRates = map[string]decimal.Decimal{}
	if len(rawRates) > 0 {
		if err := json.Unmarshal(rawRates, &s.CurrencyRates); err != nil {
			return nil, fmt.Errorf("failed to decode currency rates of %s: %w", userID, err)
		}
	}
	return &s, nil
}

// PgxSettingsRepository writes the per-user settings row.
type PgxSettingsRepository struct {
	BaseRepository
}

func newPgxSettingsRepository(pool *pgxpool.Pool) *PgxSettingsRepository {
	return &PgxSettingsRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SettingsWriter = (*PgxSettingsRepository)(nil)

func (r *PgxSettingsRepository) SaveSettings(ctx context.Context, s domain.Settings) error {
	rates := s.CurrencyRates
	if rates == nil {
		rates = map[string]decimal.Decimal{}
	}
	rawRates, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to encode currency rates: %w", err)
	}
	query := `
		INSERT INTO settings (user_id, base_currency, currency_rates, privacy_mode, theme)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET base_currency = EXCLUDED.base_currency, currency_rates = EXCLUDED.currency_rates,
			privacy_mode = EXCLUDED.privacy_mode, theme = EXCLUDED.theme;
	`
	if _, err := r.Pool.Exec(ctx, query, s.UserID, s.BaseCurrency, rawRates, s.PrivacyMode, s.Theme); err != nil {
		return mapWriteError("settings", s.UserID, err)
	}
	return nil
}

// localizeRecurring moves the cursor anchors of d into loc; the next occurrence
// falls at midnight of that zone.
func localizeRecurring(d *domain.RecurringDefinition, loc *time.Location) {
	d.CreatedAt = d.CreatedAt.In(loc)
	if d.LastRun != nil {
		lastRun := d.LastRun.In(loc)
		d.LastRun = &lastRun
	}
}
