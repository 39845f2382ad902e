package pgsql

import (
	"context"
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

// PgxPlanningRepository stores budgets, debts, recurring definitions and goals.
type PgxPlanningRepository struct {
	BaseRepository
}

func newPgxPlanningRepository(pool *pgxpool.Pool) *PgxPlanningRepository {
	return &PgxPlanningRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.BudgetWriter       = (*PgxPlanningRepository)(nil)
	_ portsrepo.DebtWriter         = (*PgxPlanningRepository)(nil)
	_ portsrepo.RecurringWriter    = (*PgxPlanningRepository)(nil)
	_ portsrepo.OccurrenceRecorder = (*PgxPlanningRepository)(nil)
	_ portsrepo.GoalWriter         = (*PgxPlanningRepository)(nil)
)

// --- Budgets ---

func (r *PgxPlanningRepository) UpsertBudget(ctx context.Context, b domain.Budget) (*domain.Budget, error) {
	query := `
		INSERT INTO budgets (budget_id, user_id, category_id, amount, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, category_id)
		DO UPDATE SET amount = EXCLUDED.amount, last_updated_at = EXCLUDED.last_updated_at
		RETURNING budget_id, user_id, category_id, amount, created_at, last_updated_at;
	`
	var stored domain.Budget
	err := r.Pool.QueryRow(ctx, query, b.BudgetID, b.UserID, b.CategoryID, b.Amount, b.CreatedAt, b.LastUpdatedAt).Scan(
		&stored.BudgetID, &stored.UserID, &stored.CategoryID, &stored.Amount, &stored.CreatedAt, &stored.LastUpdatedAt,
	)
	if err != nil {
		return nil, mapWriteError("budget", b.BudgetID, err)
	}
	return &stored, nil
}

func (r *PgxPlanningRepository) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM budgets WHERE user_id = $1 AND budget_id = $2;`, userID, budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", budgetID, err)
	}
	return requireRow(tag, "budget", budgetID)
}

// --- Debts ---

func (r *PgxPlanningRepository) SaveDebt(ctx context.Context, d domain.Debt, opening *domain.Transaction) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO debts (debt_id, user_id, name, amount, paid_amount, type, due_date, created_at, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`
		_, err := tx.Exec(ctx, query, d.DebtID, d.UserID, d.Name, d.Amount, d.PaidAmount, d.Type, d.DueDate, d.CreatedAt, d.LastUpdatedAt)
		if err != nil {
			return mapWriteError("debt", d.DebtID, err)
		}
		if opening != nil {
			return insertTransaction(ctx, tx, *opening)
		}
		return nil
	})
}

// RecordDebtPayment increments paid_amount, refusing to pass the debt amount, and stores txn.
func (r *PgxPlanningRepository) RecordDebtPayment(ctx context.Context, userID, debtID string, amount decimal.Decimal, txn domain.Transaction) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE debts
			SET paid_amount = paid_amount + $3, last_updated_at = $4
			WHERE user_id = $1 AND debt_id = $2 AND paid_amount + $3 <= amount;
		`
		tag, err := tx.Exec(ctx, query, userID, debtID, amount, txn.CreatedAt)
		if err != nil {
			return mapWriteError("debt", debtID, err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM debts WHERE user_id = $1 AND debt_id = $2);`, userID, debtID).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check debt %s: %w", debtID, err)
			}
			if !exists {
				return fmt.Errorf("debt %s: %w", debtID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("%w: payment exceeds the remaining amount of debt %s", apperrors.ErrValidation, debtID)
		}
		return insertTransaction(ctx, tx, txn)
	})
}

func (r *PgxPlanningRepository) DeleteDebt(ctx context.Context, userID, debtID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM debts WHERE user_id = $1 AND debt_id = $2;`, userID, debtID)
	if err != nil {
		return fmt.Errorf("failed to delete debt %s: %w", debtID, err)
	}
	return requireRow(tag, "debt", debtID)
}

// --- Recurring ---

func (r *PgxPlanningRepository) SaveRecurring(ctx context.Context, d domain.RecurringDefinition) error {
	query := `
		INSERT INTO recurring_definitions (
			recurring_id, user_id, account_id, category_id, type, amount, day_of_month,
			comment, last_run, active, created_at, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		d.RecurringID, d.UserID, d.AccountID, d.CategoryID, d.Type, d.Amount, d.DayOfMonth,
		d.Comment, d.LastRun, d.Active, d.CreatedAt, d.LastUpdatedAt)
	if err != nil {
		return mapWriteError("recurring definition", d.RecurringID, err)
	}
	return nil
}

// UpdateRecurring leaves last_run alone; only RecordOccurrence advances it.
func (r *PgxPlanningRepository) UpdateRecurring(ctx context.Context, d domain.RecurringDefinition) error {
	query := `
		UPDATE recurring_definitions
		SET account_id = $3, category_id = $4, amount = $5, day_of_month = $6, comment = $7,
			active = $8, last_updated_at = $9
		WHERE user_id = $1 AND recurring_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		d.UserID, d.RecurringID, d.AccountID, d.CategoryID, d.Amount, d.DayOfMonth, d.Comment, d.Active, d.LastUpdatedAt)
	if err != nil {
		return mapWriteError("recurring definition", d.RecurringID, err)
	}
	return requireRow(tag, "recurring definition", d.RecurringID)
}

func (r *PgxPlanningRepository) DeleteRecurring(ctx context.Context, userID, recurringID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM recurring_definitions WHERE user_id = $1 AND recurring_id = $2;`, userID, recurringID)
	if err != nil {
		return fmt.Errorf("failed to delete recurring definition %s: %w", recurringID, err)
	}
	return requireRow(tag, "recurring definition", recurringID)
}

// RecordOccurrence advances last_run and stores txn together. The row lock taken by
// the guarded UPDATE serializes concurrent runs; the loser sees zero rows and gets ErrDuplicate.
func (r *PgxPlanningRepository) RecordOccurrence(ctx context.Context, userID, recurringID string, occurredAt time.Time, txn domain.Transaction) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE recurring_definitions
			SET last_run = $3
			WHERE user_id = $1 AND recurring_id = $2 AND (last_run IS NULL OR last_run < $3);
		`
		tag, err := tx.Exec(ctx, query, userID, recurringID, occurredAt)
		if err != nil {
			return mapWriteError("recurring definition", recurringID, err)
		}
		if tag.RowsAffected() == 0 {
			var lastRun *time.Time
			err := tx.QueryRow(ctx, `SELECT last_run FROM recurring_definitions WHERE user_id = $1 AND recurring_id = $2;`, userID, recurringID).Scan(&lastRun)
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("recurring definition %s: %w", recurringID, apperrors.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("failed to read recurring definition %s: %w", recurringID, err)
			}
			return fmt.Errorf("%w: occurrence %s of %s already recorded", apperrors.ErrDuplicate, occurredAt.Format(time.DateOnly), recurringID)
		}
		return insertTransaction(ctx, tx, txn)
	})
}

// --- Goals ---

func (r *PgxPlanningRepository) SaveGoal(ctx context.Context, g domain.Goal) error {
	query := `
		INSERT INTO goals (goal_id, user_id, name, target_amount, current_amount, deadline, color, icon, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		g.GoalID, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Color, g.Icon, g.CreatedAt, g.LastUpdatedAt)
	if err != nil {
		return mapWriteError("goal", g.GoalID, err)
	}
	return nil
}

// UpdateGoal leaves current_amount alone; only TopUpGoal moves it.
func (r *PgxPlanningRepository) UpdateGoal(ctx context.Context, g domain.Goal) error {
	query := `
		UPDATE goals
		SET name = $3, target_amount = $4, deadline = $5, color = $6, icon = $7, last_updated_at = $8
		WHERE user_id = $1 AND goal_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, g.UserID, g.GoalID, g.Name, g.TargetAmount, g.Deadline, g.Color, g.Icon, g.LastUpdatedAt)
	if err != nil {
		return mapWriteError("goal", g.GoalID, err)
	}
	return requireRow(tag, "goal", g.GoalID)
}

func (r *PgxPlanningRepository) TopUpGoal(ctx context.Context, userID, goalID string, amount decimal.Decimal, txn domain.Transaction) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE goals
			SET current_amount = current_amount + $3, last_updated_at = $4
			WHERE user_id = $1 AND goal_id = $2;
		`
		tag, err := tx.Exec(ctx, query, userID, goalID, amount, txn.CreatedAt)
		if err != nil {
			return mapWriteError("goal", goalID, err)
		}
		if err := requireRow(tag, "goal", goalID); err != nil {
			return err
		}
		return insertTransaction(ctx, tx, txn)
	})
}

func (r *PgxPlanningRepository) DeleteGoal(ctx context.Context, userID, goalID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM goals WHERE user_id = $1 AND goal_id = $2;`, userID, goalID)
	if err != nil {
		return fmt.Errorf("failed to delete goal %s: %w", goalID, err)
	}
	return requireRow(tag, "goal", goalID)
}
