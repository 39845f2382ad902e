package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/metrics"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/dto"
)

type dashboardService struct {
	ledgerService
	engine *metrics.Engine
}

// NewDashboardService creates the read-only service serving derived figures.
func NewDashboardService(session portssvc.SessionSvc, engine *metrics.Engine, options ...ServiceOption) portssvc.DashboardSvc {
	return &dashboardService{
		ledgerService: newLedgerService(session, options...),
		engine:        engine,
	}
}

var _ portssvc.DashboardSvc = (*dashboardService)(nil)

func (s *dashboardService) GetDashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	month, err := metrics.Summary(snap, domain.PeriodMonth, now)
	if err != nil {
		return nil, err
	}
	total := s.engine.TotalBalance(snap)
	if len(total.MissingRates) > 0 {
		s.GetLogger(ctx).Warn("Converting without exchange rates",
			slog.String("user_id", userID),
			slog.Any("currencies", total.MissingRates))
	}
	return &dto.DashboardResponse{
		SnapshotVersion: snap.Version(),
		GeneratedAt:     now,
		Balance:         total,
		Month:           month,
		Runway:          s.engine.Runway(snap, now),
		Debts:           metrics.DebtSummary(snap, now),
	}, nil
}

func (s *dashboardService) GetPeriodSummary(ctx context.Context, period domain.Period, userID string) (*domain.PeriodSummary, error) {
	if !period.Valid() {
		return nil, apperrors.Validationf("unknown period %q", period)
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary, err := metrics.Summary(snap, period, s.now())
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *dashboardService) GetBudgetProgress(ctx context.Context, userID string) ([]domain.BudgetProgress, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return metrics.AllBudgetProgress(snap, s.now()), nil
}

func (s *dashboardService) GetTopCategories(ctx context.Context, n int, userID string) ([]domain.CategoryUsage, error) {
	if n < 1 {
		return nil, apperrors.Validationf("n must be at least 1")
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return metrics.TopUsedCategories(snap, n, s.now()), nil
}

func (s *dashboardService) GetCategoryBreakdown(ctx context.Context, period domain.Period, txType domain.TransactionType, userID string) ([]domain.CategoryTotal, error) {
	if !period.Valid() {
		return nil, apperrors.Validationf("unknown period %q", period)
	}
	if txType != domain.Income && txType != domain.Expense {
		return nil, apperrors.Validationf("breakdown type must be income or expense")
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return metrics.CategoryBreakdown(snap, period, txType, s.now())
}

func (s *dashboardService) GetDebtSummary(ctx context.Context, userID string) (*domain.DebtSummary, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := metrics.DebtSummary(snap, s.now())
	return &summary, nil
}

func (s *dashboardService) GetGoalProgress(ctx context.Context, userID string) ([]domain.GoalProgress, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return metrics.AllGoalProgress(snap, s.now()), nil
}
