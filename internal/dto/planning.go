package dto

import (
	"time"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertBudgetRequest sets the monthly limit of a category.
type UpsertBudgetRequest struct {
	CategoryID string          `json:"categoryID" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

// ListBudgetsResponse wraps budgets.
type ListBudgetsResponse struct {
	Budgets []domain.Budget `json:"budgets"`
}

// CreateDebtRequest records money borrowed or lent. With AccountID set, the money
// movement is booked on that account as well.
type CreateDebtRequest struct {
	Name      string          `json:"name" binding:"required,max=100"`
	Amount    decimal.Decimal `json:"amount"`
	Type      domain.DebtType `json:"type" binding:"required,oneof=i_owe owes_me"`
	DueDate   *time.Time      `json:"dueDate"`
	AccountID *string         `json:"accountID"`
}

// DebtPaymentRequest records a repayment.
type DebtPaymentRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Comment   string          `json:"comment" binding:"max=500"`
	Date      *time.Time      `json:"date"`
}

// ListDebtsResponse wraps debts.
type ListDebtsResponse struct {
	Debts []domain.Debt `json:"debts"`
}

// CreateRecurringRequest defines a monthly recurring income or expense.
type CreateRecurringRequest struct {
	AccountID  string                 `json:"accountID" binding:"required"`
	CategoryID *string                `json:"categoryID"`
	Type       domain.TransactionType `json:"type" binding:"required,oneof=income expense"`
	Amount     decimal.Decimal        `json:"amount"`
	DayOfMonth int                    `json:"dayOfMonth" binding:"required,min=1,max=31"`
	Comment    string                 `json:"comment" binding:"max=500"`
}

// UpdateRecurringRequest defines the fields of a recurring definition that can change.
type UpdateRecurringRequest struct {
	AccountID  *string          `json:"accountID"`
	CategoryID *string          `json:"categoryID"`
	Amount     *decimal.Decimal `json:"amount"`
	DayOfMonth *int             `json:"dayOfMonth" binding:"omitempty,min=1,max=31"`
	Comment    *string          `json:"comment" binding:"omitempty,max=500"`
	Active     *bool            `json:"active"`
}

// ListRecurringResponse wraps recurring definitions.
type ListRecurringResponse struct {
	Recurring []domain.RecurringDefinition `json:"recurring"`
}

// CreateGoalRequest defines a savings goal.
type CreateGoalRequest struct {
	Name         string          `json:"name" binding:"required,max=100"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     *time.Time      `json:"deadline"`
	Color        string          `json:"color" binding:"max=32"`
	Icon         string          `json:"icon" binding:"max=64"`
}

// UpdateGoalRequest defines the fields of a goal that can change. CurrentAmount only
// moves through top-ups.
type UpdateGoalRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=100"`
	TargetAmount *decimal.Decimal `json:"targetAmount"`
	Deadline     *time.Time       `json:"deadline"`
	Color        *string          `json:"color" binding:"omitempty,max=32"`
	Icon         *string          `json:"icon" binding:"omitempty,max=64"`
}

// GoalTopUpRequest moves money from an account into a goal.
type GoalTopUpRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Date      *time.Time      `json:"date"`
}

// ListGoalsResponse wraps goals.
type ListGoalsResponse struct {
	Goals []domain.Goal `json:"goals"`
}
