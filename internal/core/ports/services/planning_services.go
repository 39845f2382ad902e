package services

import (
	"context"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/dto"
)

// BudgetSvc manages monthly category budgets.
type BudgetSvc interface {
	ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error)
	// UpsertBudget creates the category's budget or updates the existing one.
	UpsertBudget(ctx context.Context, req dto.UpsertBudgetRequest, userID string) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, budgetID string, userID string) error
}

// DebtSvc manages debts and their repayments.
type DebtSvc interface {
	ListDebts(ctx context.Context, userID string) ([]domain.Debt, error)
	CreateDebt(ctx context.Context, req dto.CreateDebtRequest, userID string) (*domain.Debt, error)
	// RecordPayment books a repayment that may not exceed what is still owed.
	RecordPayment(ctx context.Context, debtID string, req dto.DebtPaymentRequest, userID string) (*domain.Debt, error)
	DeleteDebt(ctx context.Context, debtID string, userID string) error
}

// RecurringSvc manages recurring definitions.
type RecurringSvc interface {
	ListRecurring(ctx context.Context, userID string) ([]domain.RecurringDefinition, error)
	CreateRecurring(ctx context.Context, req dto.CreateRecurringRequest, userID string) (*domain.RecurringDefinition, error)
	UpdateRecurring(ctx context.Context, recurringID string, req dto.UpdateRecurringRequest, userID string) (*domain.RecurringDefinition, error)
	DeleteRecurring(ctx context.Context, recurringID string, userID string) error
}

// GoalSvc manages savings goals.
type GoalSvc interface {
	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)
	CreateGoal(ctx context.Context, req dto.CreateGoalRequest, userID string) (*domain.Goal, error)
	UpdateGoal(ctx context.Context, goalID string, req dto.UpdateGoalRequest, userID string) (*domain.Goal, error)
	// TopUpGoal moves money from an account into the goal.
	TopUpGoal(ctx context.Context, goalID string, req dto.GoalTopUpRequest, userID string) (*domain.Goal, error)
	DeleteGoal(ctx context.Context, goalID string, userID string) error
}
