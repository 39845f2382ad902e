package dto

import (
	"time"

	"github.com/SscSPs/moneyflow/internal/core/domain"
)

// DashboardResponse is the summary shown on the main screen.
type DashboardResponse struct {
	SnapshotVersion uint64               `json:"snapshotVersion"`
	GeneratedAt     time.Time            `json:"generatedAt"`
	Balance         domain.TotalBalance  `json:"balance"`
	Month           domain.PeriodSummary `json:"month"`
	Runway          domain.Runway        `json:"runway"`
	Debts           domain.DebtSummary   `json:"debts"`
}

// BudgetProgressResponse wraps progress for every budget.
type BudgetProgressResponse struct {
	Budgets []domain.BudgetProgress `json:"budgets"`
}

// TopCategoriesParams defines query parameters for the top-used categories.
type TopCategoriesParams struct {
	N int `form:"n,default=6" binding:"min=1,max=50"`
}

// TopCategoriesResponse wraps the top-used categories.
type TopCategoriesResponse struct {
	Categories []domain.CategoryUsage `json:"categories"`
}

// BreakdownParams defines query parameters for a category breakdown.
type BreakdownParams struct {
	Type domain.TransactionType `form:"type,default=expense" binding:"oneof=income expense"`
}

// BreakdownResponse is a per-category breakdown for one period.
type BreakdownResponse struct {
	Period domain.Period          `json:"period"`
	Type   domain.TransactionType `json:"type"`
	Rows   []domain.CategoryTotal `json:"rows"`
}

// GoalProgressResponse wraps derived goal progress.
type GoalProgressResponse struct {
	Goals []domain.GoalProgress `json:"goals"`
}

// SessionResponse describes the snapshot a session is working with.
type SessionResponse struct {
	UserID          string    `json:"userID"`
	SnapshotVersion uint64    `json:"snapshotVersion"`
	FetchedAt       time.Time `json:"fetchedAt"`
	Opened          bool      `json:"opened"`
	RecurringAdded  int       `json:"recurringAdded"`
	RecurringFailed int       `json:"recurringFailed"`
}
