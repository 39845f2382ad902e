package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/domain"
	portsrepo "github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/SscSPs/moneyflow/internal/dto"
)

type recurringService struct {
	ledgerService
	repo portsrepo.RecurringWriter
}

// NewRecurringService creates a new recurring definition service
func NewRecurringService(repo portsrepo.RecurringWriter, session portssvc.SessionSvc, options ...ServiceOption) portssvc.RecurringSvc {
	return &recurringService{ledgerService: newLedgerService(session, options...), repo: repo}
}

var _ portssvc.RecurringSvc = (*recurringService)(nil)

func (s *recurringService) ListRecurring(ctx context.Context, userID string) ([]domain.RecurringDefinition, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append([]domain.RecurringDefinition{}, snap.Recurring...), nil
}

func checkRecurring(snap *snapshot.Snapshot, def domain.RecurringDefinition) error {
	if _, ok := snap.Account(def.AccountID); !ok {
		return apperrors.Validationf("account %s does not exist", def.AccountID)
	}
	if def.CategoryID != nil {
		if _, ok := snap.Category(*def.CategoryID); !ok {
			return apperrors.Validationf("category %s does not exist", *def.CategoryID)
		}
	}
	if def.DayOfMonth < 1 || def.DayOfMonth > 31 {
		return apperrors.Validationf("dayOfMonth must be between 1 and 31")
	}
	return requirePositive("amount", def.Amount)
}

func (s *recurringService) CreateRecurring(ctx context.Context, req dto.CreateRecurringRequest, userID string) (*domain.RecurringDefinition, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	def := domain.RecurringDefinition{
		RecurringID: s.newID(),
		UserID:      userID,
		AccountID:   req.AccountID,
		CategoryID:  nonEmpty(req.CategoryID),
		Type:        req.Type,
		Amount:      req.Amount,
		DayOfMonth:  req.DayOfMonth,
		Comment:     strings.TrimSpace(req.Comment),
		Active:      true,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := checkRecurring(snap, def); err != nil {
		return nil, err
	}

	if err := s.repo.SaveRecurring(ctx, def); err != nil {
		s.LogError(ctx, err, "Failed to save recurring definition", slog.String("recurring_id", def.RecurringID))
		return nil, err
	}
	if err := s.refresh(ctx, userID, snapshot.Recurring); err != nil {
		return nil, err
	}
	return &def, nil
}

func (s *recurringService) UpdateRecurring(ctx context.Context, recurringID string, req dto.UpdateRecurringRequest, userID string) (*domain.RecurringDefinition, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	def, ok := snap.RecurringDefinition(recurringID)
	if !ok {
		return nil, notFound("recurring definition", recurringID)
	}

	if req.AccountID != nil {
		def.AccountID = *req.AccountID
	}
	if req.CategoryID != nil {
		def.CategoryID = nonEmpty(req.CategoryID)
	}
	if req.Amount != nil {
		def.Amount = *req.Amount
	}
	if req.DayOfMonth != nil {
		def.DayOfMonth = *req.DayOfMonth
	}
	if req.Comment != nil {
		def.Comment = strings.TrimSpace(*req.Comment)
	}
	if req.Active != nil {
		def.Active = *req.Active
	}
	if err := checkRecurring(snap, def); err != nil {
		return nil, err
	}
	def.LastUpdatedAt = s.now()

	if err := s.repo.UpdateRecurring(ctx, def); err != nil {
		s.LogError(ctx, err, "Failed to update recurring definition", slog.String("recurring_id", recurringID))
		return nil, err
	}
	if err := s.refresh(ctx, userID, snapshot.Recurring); err != nil {
		return nil, err
	}
	return &def, nil
}

func (s *recurringService) DeleteRecurring(ctx context.Context, recurringID string, userID string) error {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := snap.RecurringDefinition(recurringID); !ok {
		return notFound("recurring definition", recurringID)
	}
	if err := s.repo.DeleteRecurring(ctx, userID, recurringID); err != nil {
		s.LogError(ctx, err, "Failed to delete recurring definition", slog.String("recurring_id", recurringID))
		return err
	}
	return s.refresh(ctx, userID, snapshot.Recurring)
}
