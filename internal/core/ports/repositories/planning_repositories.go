package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetWriter defines write operations for budgets.
type BudgetWriter interface {
	// UpsertBudget inserts the budget or, if the category is already budgeted,
	// updates the existing row. It returns the stored budget.
	UpsertBudget(ctx context.Context, budget domain.Budget) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
}

// DebtWriter defines write operations for debts.
type DebtWriter interface {
	// SaveDebt persists a new debt and, when opening is non-nil, the transaction that moved the money.
	SaveDebt(ctx context.Context, debt domain.Debt, opening *domain.Transaction) error
	// RecordDebtPayment increments paid_amount by amount and appends txn in one database transaction.
	RecordDebtPayment(ctx context.Context, userID, debtID string, amount decimal.Decimal, txn domain.Transaction) error
	DeleteDebt(ctx context.Context, userID, debtID string) error
}

// RecurringWriter defines write operations for recurring definitions.
type RecurringWriter interface {
	SaveRecurring(ctx context.Context, def domain.RecurringDefinition) error
	UpdateRecurring(ctx context.Context, def domain.RecurringDefinition) error
	DeleteRecurring(ctx context.Context, userID, recurringID string) error
}

// OccurrenceRecorder persists one recurring occurrence: the transaction is created and
// the definition's last_run advanced to occurredAt atomically. An occurrence at or before
// the stored last_run is rejected with apperrors.ErrDuplicate.
type OccurrenceRecorder interface {
	RecordOccurrence(ctx context.Context, userID, recurringID string, occurredAt time.Time, txn domain.Transaction) error
}

// GoalWriter defines write operations for savings goals.
type GoalWriter interface {
	SaveGoal(ctx context.Context, goal domain.Goal) error
	UpdateGoal(ctx context.Context, goal domain.Goal) error
	// TopUpGoal increments current_amount and stores the funding expense in one database transaction.
	TopUpGoal(ctx context.Context, userID, goalID string, amount decimal.Decimal, txn domain.Transaction) error
	DeleteGoal(ctx context.Context, userID, goalID string) error
}

// SettingsWriter persists the per-user settings singleton.
type SettingsWriter interface {
	SaveSettings(ctx context.Context, settings domain.Settings) error
}
