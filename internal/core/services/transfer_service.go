package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/metrics"
	portsrepo "github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/SscSPs/moneyflow/internal/dto"
	"go.uber.org/multierr"
)

type transferService struct {
	ledgerService
	txnRepo      portsrepo.TransactionWriter
	transferRepo portsrepo.TransferPerformer
}

// NewTransferService creates a transfer service. transferRepo may be nil, in which case
// the legs are written one by one and the out leg is removed again if the in leg fails.
func NewTransferService(txnRepo portsrepo.TransactionWriter, transferRepo portsrepo.TransferPerformer, session portssvc.SessionSvc, options ...ServiceOption) portssvc.TransferSvc {
	return &transferService{
		ledgerService: newLedgerService(session, options...),
		txnRepo:       txnRepo,
		transferRepo:  transferRepo,
	}
}

var _ portssvc.TransferSvc = (*transferService)(nil)

func (s *transferService) Transfer(ctx context.Context, req dto.TransferRequest, userID string) (*dto.TransferResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, apperrors.Validationf("cannot transfer to the same account")
	}
	if err := requirePositive("amount", req.Amount); err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	from, ok := snap.Account(req.FromAccountID)
	if !ok {
		return nil, apperrors.Validationf("account %s does not exist", req.FromAccountID)
	}
	to, ok := snap.Account(req.ToAccountID)
	if !ok {
		return nil, apperrors.Validationf("account %s does not exist", req.ToAccountID)
	}

	now := s.now()
	date := s.dateOr(req.Date)
	transferID := s.newID()
	comment := strings.TrimSpace(req.Comment)

	out := domain.Transaction{
		TransactionID: s.newID(),
		UserID:        userID,
		AccountID:     from.AccountID,
		Type:          domain.TransferOut,
		Amount:        req.Amount,
		TransferID:    &transferID,
		Comment:       comment,
		Date:          date,
		CreatedAt:     now,
	}
	in := out
	in.TransactionID = s.newID()
	in.AccountID = to.AccountID
	in.Type = domain.TransferIn
	in.Amount = metrics.Convert(req.Amount, from.CurrencyCode, to.CurrencyCode, snap.Settings).Round(2)

	if err := s.write(ctx, out, in); err != nil {
		s.LogError(ctx, err, "Transfer failed",
			slog.String("from_account_id", from.AccountID),
			slog.String("to_account_id", to.AccountID))
		return nil, err
	}
	if err := s.refresh(ctx, userID, snapshot.Transactions); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("transfer_id", transferID),
		slog.String("amount", req.Amount.String()),
		slog.String("received", in.Amount.String()))
	return &dto.TransferResponse{TransferID: transferID, Out: out, In: in}, nil
}

func (s *transferService) write(ctx context.Context, out, in domain.Transaction) error {
	if s.transferRepo != nil {
		return s.transferRepo.PerformTransfer(ctx, out, in)
	}

	if err := s.txnRepo.SaveTransaction(ctx, out); err != nil {
		return fmt.Errorf("saving transfer out leg: %w", err)
	}
	if err := s.txnRepo.SaveTransaction(ctx, in); err != nil {
		err = fmt.Errorf("saving transfer in leg: %w", err)
		if rbErr := s.txnRepo.DeleteTransaction(ctx, out.UserID, out.TransactionID); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to remove orphaned transfer leg",
				slog.String("transaction_id", out.TransactionID))
			return multierr.Append(err, fmt.Errorf("removing out leg: %w", rbErr))
		}
		return err
	}
	return nil
}
