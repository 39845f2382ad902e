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

type debtService struct {
	ledgerService
	repo portsrepo.DebtWriter
}

// NewDebtService creates a new debt service
func NewDebtService(repo portsrepo.DebtWriter, session portssvc.SessionSvc, options ...ServiceOption) portssvc.DebtSvc {
	return &debtService{ledgerService: newLedgerService(session, options...), repo: repo}
}

var _ portssvc.DebtSvc = (*debtService)(nil)

func (s *debtService) ListDebts(ctx context.Context, userID string) ([]domain.Debt, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append([]domain.Debt{}, snap.Debts...), nil
}

func (s *debtService) CreateDebt(ctx context.Context, req dto.CreateDebtRequest, userID string) (*domain.Debt, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if err := requirePositive("amount", req.Amount); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	debt := domain.Debt{
		DebtID:      s.newID(),
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Amount:      req.Amount,
		Type:        req.Type,
		DueDate:     req.DueDate,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	var opening *domain.Transaction
	if accountID := nonEmpty(req.AccountID); accountID != nil {
		if _, ok := snap.Account(*accountID); !ok {
			return nil, apperrors.Validationf("account %s does not exist", *accountID)
		}
		opening = &domain.Transaction{
			TransactionID: s.newID(),
			UserID:        userID,
			AccountID:     *accountID,
			Type:          debt.OpeningTransactionType(),
			Amount:        req.Amount,
			Comment:       "Debt: " + debt.Name,
			Date:          now,
			CreatedAt:     now,
		}
	}

	if err := s.repo.SaveDebt(ctx, debt, opening); err != nil {
		s.LogError(ctx, err, "Failed to save debt", slog.String("debt_id", debt.DebtID))
		return nil, err
	}
	cols := []snapshot.Collection{snapshot.Debts}
	if opening != nil {
		cols = append(cols, snapshot.Transactions)
	}
	if err := s.refresh(ctx, userID, cols...); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Debt created", slog.String("debt_id", debt.DebtID), slog.String("type", string(debt.Type)))
	return &debt, nil
}

func (s *debtService) RecordPayment(ctx context.Context, debtID string, req dto.DebtPaymentRequest, userID string) (*domain.Debt, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if err := requirePositive("amount", req.Amount); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	debt, ok := snap.Debt(debtID)
	if !ok {
		return nil, notFound("debt", debtID)
	}
	if _, ok := snap.Account(req.AccountID); !ok {
		return nil, apperrors.Validationf("account %s does not exist", req.AccountID)
	}
	if remaining := debt.Remaining(); req.Amount.GreaterThan(remaining) {
		return nil, apperrors.Validationf("payment %s exceeds the remaining %s", req.Amount, remaining)
	}

	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		comment = "Debt payment: " + debt.Name
	}
	now := s.now()
	txn := domain.Transaction{
		TransactionID: s.newID(),
		UserID:        userID,
		AccountID:     req.AccountID,
		Type:          debt.PaymentTransactionType(),
		Amount:        req.Amount,
		Comment:       comment,
		Date:          s.dateOr(req.Date),
		CreatedAt:     now,
	}

	if err := s.repo.RecordDebtPayment(ctx, userID, debtID, req.Amount, txn); err != nil {
		s.LogError(ctx, err, "Failed to record debt payment", slog.String("debt_id", debtID))
		return nil, err
	}
	if err := s.refresh(ctx, userID, snapshot.Debts, snapshot.Transactions); err != nil {
		return nil, err
	}

	debt.PaidAmount = debt.PaidAmount.Add(req.Amount)
	debt.LastUpdatedAt = now
	s.LogInfo(ctx, "Debt payment recorded",
		slog.String("debt_id", debtID),
		slog.Bool("closed", debt.IsClosed()))
	return &debt, nil
}

func (s *debtService) DeleteDebt(ctx context.Context, debtID string, userID string) error {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := snap.Debt(debtID); !ok {
		return notFound("debt", debtID)
	}
	if err := s.repo.DeleteDebt(ctx, userID, debtID); err != nil {
		s.LogError(ctx, err, "Failed to delete debt", slog.String("debt_id", debtID))
		return err
	}
	return s.refresh(ctx, userID, snapshot.Debts)
}
