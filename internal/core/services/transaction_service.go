package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/metrics"
	portsrepo "github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/SscSPs/moneyflow/internal/dto"
	"github.com/SscSPs/moneyflow/internal/utils/pagination"
)

const defaultTransactionPageSize = 50

type transactionService struct {
	ledgerService
	repo portsrepo.TransactionWriter
}

// NewTransactionService creates a new transaction service
func NewTransactionService(repo portsrepo.TransactionWriter, session portssvc.SessionSvc, options ...ServiceOption) portssvc.TransactionSvcFacade {
	return &transactionService{ledgerService: newLedgerService(session, options...), repo: repo}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams, userID string) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}
	var cursor *pagination.Cursor
	if params.NextToken != "" {
		c, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	txns := make([]domain.Transaction, 0, len(snap.Transactions))
	for _, t := range snap.Transactions {
		if params.AccountID != "" && t.AccountID != params.AccountID {
			continue
		}
		txns = append(txns, t)
	}
	sort.SliceStable(txns, func(i, j int) bool {
		a, b := txns[i], txns[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.TransactionID > b.TransactionID
	})

	start := 0
	if cursor != nil {
		start = sort.Search(len(txns), func(i int) bool {
			return cursor.Before(txns[i].Date, txns[i].CreatedAt, txns[i].TransactionID)
		})
	}
	end := start + limit
	if end > len(txns) {
		end = len(txns)
	}
	page := txns[start:end]

	resp := &dto.ListTransactionsResponse{Transactions: metrics.TransactionViews(snap, page)}
	if end < len(txns) && len(page) > 0 {
		last := page[len(page)-1]
		resp.NextToken = pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.TransactionID})
	}
	return resp, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, transactionID string, userID string) (*domain.TransactionView, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	t, ok := snap.Transaction(transactionID)
	if !ok {
		return nil, notFound("transaction", transactionID)
	}
	views := metrics.TransactionViews(snap, []domain.Transaction{t})
	return &views[0], nil
}

// checkReferences verifies that the account and classifiers of t exist in snap.
func checkReferences(snap *snapshot.Snapshot, t domain.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return checkKnownReferences(snap, t)
}

// checkKnownReferences checks only the ids set on t; an empty AccountID is skipped.
func checkKnownReferences(snap *snapshot.Snapshot, t domain.Transaction) error {
	if t.AccountID != "" {
		if _, ok := snap.Account(t.AccountID); !ok {
			return apperrors.Validationf("account %s does not exist", t.AccountID)
		}
	}
	if t.CategoryID != nil {
		if _, ok := snap.Category(*t.CategoryID); !ok {
			return apperrors.Validationf("category %s does not exist", *t.CategoryID)
		}
	}
	if t.CounterpartyID != nil {
		if _, ok := snap.Counterparty(*t.CounterpartyID); !ok {
			return apperrors.Validationf("counterparty %s does not exist", *t.CounterpartyID)
		}
	}
	return nil
}

func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
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
	txn := domain.Transaction{
		TransactionID:  s.newID(),
		UserID:         userID,
		AccountID:      req.AccountID,
		Type:           req.Type,
		Amount:         req.Amount,
		CategoryID:     nonEmpty(req.CategoryID),
		CounterpartyID: nonEmpty(req.CounterpartyID),
		Comment:        strings.TrimSpace(req.Comment),
		Date:           s.dateOr(req.Date),
		CreatedAt:      now,
	}
	if err := checkReferences(snap, txn); err != nil {
		return nil, err
	}

	if err := s.repo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("account_id", txn.AccountID))
		return nil, err
	}
	if err := s.refresh(ctx, userID, snapshot.Transactions); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Transaction created", slog.String("transaction_id", txn.TransactionID), slog.String("type", string(txn.Type)))
	return &txn, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	txn, ok := snap.Transaction(transactionID)
	if !ok {
		return nil, notFound("transaction", transactionID)
	}
	if txn.TransferID != nil {
		return nil, apperrors.Validationf("transfer legs cannot be edited; delete and redo the transfer")
	}

	if req.AccountID != nil {
		txn.AccountID = *req.AccountID
	}
	if req.Amount != nil {
		if err := requirePositive("amount", *req.Amount); err != nil {
			return nil, err
		}
		txn.Amount = *req.Amount
	}
	if req.ClearClassifier {
		txn.CategoryID, txn.CounterpartyID = nil, nil
	}
	if c := nonEmpty(req.CategoryID); c != nil {
		txn.CategoryID = c
	}
	if c := nonEmpty(req.CounterpartyID); c != nil {
		txn.CounterpartyID = c
	}
	if req.Comment != nil {
		txn.Comment = strings.TrimSpace(*req.Comment)
	}
	if req.Date != nil && !req.Date.IsZero() {
		txn.Date = *req.Date
	}
	// references left untouched may dangle after a category or counterparty was deleted
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	changed := domain.Transaction{CategoryID: nonEmpty(req.CategoryID), CounterpartyID: nonEmpty(req.CounterpartyID)}
	if req.AccountID != nil {
		changed.AccountID = txn.AccountID
	}
	if err := checkKnownReferences(snap, changed); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	if err := s.refresh(ctx, userID, snapshot.Transactions); err != nil {
		return nil, err
	}
	return &txn, nil
}

// DeleteTransaction removes a transaction. Deleting either leg of a transfer removes both.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string, userID string) error {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return err
	}
	txn, ok := snap.Transaction(transactionID)
	if !ok {
		return notFound("transaction", transactionID)
	}

	if txn.TransferID != nil {
		err = s.repo.DeleteTransfer(ctx, userID, *txn.TransferID)
	} else {
		err = s.repo.DeleteTransaction(ctx, userID, transactionID)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return err
	}
	return s.refresh(ctx, userID, snapshot.Transactions)
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
