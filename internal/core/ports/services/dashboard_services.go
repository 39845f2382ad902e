package services

import (
	"context"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/dto"
)

// DashboardSvc serves the derived figures of a user's ledger.
type DashboardSvc interface {
	GetDashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error)
	GetPeriodSummary(ctx context.Context, period domain.Period, userID string) (*domain.PeriodSummary, error)
	GetBudgetProgress(ctx context.Context, userID string) ([]domain.BudgetProgress, error)
	GetTopCategories(ctx context.Context, n int, userID string) ([]domain.CategoryUsage, error)
	GetCategoryBreakdown(ctx context.Context, period domain.Period, txType domain.TransactionType, userID string) ([]domain.CategoryTotal, error)
	GetDebtSummary(ctx context.Context, userID string) (*domain.DebtSummary, error)
	GetGoalProgress(ctx context.Context, userID string) ([]domain.GoalProgress, error)
}
