package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/domain"
	portsrepo "github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/SscSPs/moneyflow/internal/dto"
)

type budgetService struct {
	ledgerService
	repo portsrepo.BudgetWriter
}

// NewBudgetService creates a new budget service
func NewBudgetService(repo portsrepo.BudgetWriter, session portssvc.SessionSvc, options ...ServiceOption) portssvc.BudgetSvc {
	return &budgetService{ledgerService: newLedgerService(session, options...), repo: repo}
}

var _ portssvc.BudgetSvc = (*budgetService)(nil)

func (s *budgetService) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append([]domain.Budget{}, snap.Budgets...), nil
}

func (s *budgetService) UpsertBudget(ctx context.Context, req dto.UpsertBudgetRequest, userID string) (*domain.Budget, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, apperrors.Validationf("amount must not be negative")
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.Category(req.CategoryID); !ok {
		return nil, apperrors.Validationf("category %s does not exist", req.CategoryID)
	}

	now := s.now()
	budget := domain.Budget{
		BudgetID:    s.newID(),
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if existing, ok := snap.BudgetForCategory(req.CategoryID); ok {
		budget.BudgetID = existing.BudgetID
		budget.CreatedAt = existing.CreatedAt
	}

	stored, err := s.repo.UpsertBudget(ctx, budget)
	if err != nil {
		s.LogError(ctx, err, "Failed to upsert budget", slog.String("category_id", req.CategoryID))
		return nil, err
	}
	if err := s.refresh(ctx, userID, snapshot.Budgets); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, budgetID string, userID string) error {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return err
	}
	found := false
	for _, b := range snap.Budgets {
		if b.BudgetID == budgetID {
			found = true
			break
		}
	}
	if !found {
		return notFound("budget", budgetID)
	}
	if err := s.repo.DeleteBudget(ctx, userID, budgetID); err != nil {
		s.LogError(ctx, err, "Failed to delete budget", slog.String("budget_id", budgetID))
		return err
	}
	return s.refresh(ctx, userID, snapshot.Budgets)
}
