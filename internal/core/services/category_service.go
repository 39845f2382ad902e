package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	portsrepo "github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/SscSPs/moneyflow/internal/dto"
)

type categoryService struct {
	ledgerService
	repo portsrepo.CategoryWriter
}

// NewCategoryService creates a new category service
func NewCategoryService(repo portsrepo.CategoryWriter, session portssvc.SessionSvc, options ...ServiceOption) portssvc.CategorySvc {
	return &categoryService{ledgerService: newLedgerService(session, options...), repo: repo}
}

var _ portssvc.CategorySvc = (*categoryService)(nil)

func (s *categoryService) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.Categories, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.Category, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	now := s.now()
	category := domain.Category{
		CategoryID:  s.newID(),
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Type:        req.Type,
		Appearance:  domain.Appearance{Color: req.Color, Icon: req.Icon},
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.repo.SaveCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "Failed to save category", slog.String("name", category.Name))
		return nil, err
	}
	if err := s.refresh(ctx, userID, snapshot.Categories); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	category, ok := snap.Category(categoryID)
	if !ok {
		return nil, notFound("category", categoryID)
	}
	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		category.Type = *req.Type
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	category.LastUpdatedAt = s.now()

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		return nil, err
	}
	if err := s.refresh(ctx, userID, snapshot.Categories); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes the category and its budget. Transactions keep the dangling
// reference and display as uncategorized.
func (s *categoryService) DeleteCategory(ctx context.Context, categoryID string, userID string) error {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := snap.Category(categoryID); !ok {
		return notFound("category", categoryID)
	}
	if err := s.repo.DeleteCategory(ctx, userID, categoryID); err != nil {
		s.LogError(ctx, err, "Failed to delete category", slog.String("category_id", categoryID))
		return err
	}
	return s.refresh(ctx, userID, snapshot.Categories, snapshot.Budgets)
}

type counterpartyService struct {
	ledgerService
	repo portsrepo.CounterpartyWriter
}

// NewCounterpartyService creates a new counterparty service
func NewCounterpartyService(repo portsrepo.CounterpartyWriter, session portssvc.SessionSvc, options ...ServiceOption) portssvc.CounterpartySvc {
	return &counterpartyService{ledgerService: newLedgerService(session, options...), repo: repo}
}

var _ portssvc.CounterpartySvc = (*counterpartyService)(nil)

func (s *counterpartyService) ListCounterparties(ctx context.Context, userID string) ([]domain.Counterparty, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.Counterparties, nil
}

func (s *counterpartyService) CreateCounterparty(ctx context.Context, req dto.CreateCounterpartyRequest, userID string) (*domain.Counterparty, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	now := s.now()
	cp := domain.Counterparty{
		CounterpartyID: s.newID(),
		UserID:         userID,
		Name:           strings.TrimSpace(req.Name),
		Type:           req.Type,
		IsFavorite:     req.IsFavorite,
		Appearance:     domain.Appearance{Color: req.Color, Icon: req.Icon},
		AuditFields:    domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.repo.SaveCounterparty(ctx, cp); err != nil {
		s.LogError(ctx, err, "Failed to save counterparty", slog.String("name", cp.Name))
		return nil, err
	}
	if err := s.refresh(ctx, userID, snapshot.Counterparties); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *counterpartyService) UpdateCounterparty(ctx context.Context, counterpartyID string, req dto.UpdateCounterpartyRequest, userID string) (*domain.Counterparty, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	cp, ok := snap.Counterparty(counterpartyID)
	if !ok {
		return nil, notFound("counterparty", counterpartyID)
	}
	if req.Name != nil {
		cp.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		cp.Type = *req.Type
	}
	if req.IsFavorite != nil {
		cp.IsFavorite = *req.IsFavorite
	}
	if req.Color != nil {
		cp.Color = *req.Color
	}
	if req.Icon != nil {
		cp.Icon = *req.Icon
	}
	cp.LastUpdatedAt = s.now()

	if err := s.repo.UpdateCounterparty(ctx, cp); err != nil {
		s.LogError(ctx, err, "Failed to update counterparty", slog.String("counterparty_id", counterpartyID))
		return nil, err
	}
	if err := s.refresh(ctx, userID, snapshot.Counterparties); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *counterpartyService) DeleteCounterparty(ctx context.Context, counterpartyID string, userID string) error {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := snap.Counterparty(counterpartyID); !ok {
		return notFound("counterparty", counterpartyID)
	}
	if err := s.repo.DeleteCounterparty(ctx, userID, counterpartyID); err != nil {
		s.LogError(ctx, err, "Failed to delete counterparty", slog.String("counterparty_id", counterpartyID))
		return err
	}
	return s.refresh(ctx, userID, snapshot.Counterparties)
}
