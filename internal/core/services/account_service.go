package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/metrics"
	portsrepo "github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/SscSPs/moneyflow/internal/dto"
)

// OpeningBalanceComment is the comment of the transaction booking an account's opening balance.
const OpeningBalanceComment = "Opening balance"

type accountService struct {
	ledgerService
	accountRepo portsrepo.AccountWriter
	engine      *metrics.Engine
}

// NewAccountService creates a new account service
func NewAccountService(repo portsrepo.AccountWriter, session portssvc.SessionSvc, engine *metrics.Engine, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		ledgerService: newLedgerService(session, options...),
		accountRepo:   repo,
		engine:        engine,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.AccountBalance, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.engine.TotalBalance(snap).Accounts, nil
}

func (s *accountService) GetAccount(ctx context.Context, accountID string, userID string) (*domain.AccountBalance, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, row := range s.engine.TotalBalance(snap).Accounts {
		if row.AccountID == accountID {
			return &row, nil
		}
	}
	return nil, notFound("account", accountID)
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	account := domain.Account{
		AccountID:    s.newID(),
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		CurrencyCode: strings.ToUpper(req.CurrencyCode),
		Appearance:   domain.Appearance{Color: req.Color, Icon: req.Icon},
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	var opening *domain.Transaction
	if req.OpeningBalance != nil && !req.OpeningBalance.IsZero() {
		typ := domain.Income
		if req.OpeningBalance.IsNegative() {
			typ = domain.Expense
		}
		opening = &domain.Transaction{
			TransactionID: s.newID(),
			UserID:        userID,
			AccountID:     account.AccountID,
			Type:          typ,
			Amount:        req.OpeningBalance.Abs(),
			Comment:       OpeningBalanceComment,
			Date:          now,
			CreatedAt:     now,
		}
	}

	if err := s.accountRepo.SaveAccount(ctx, account, opening); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("user_id", userID))
		return nil, err
	}

	cols := []snapshot.Collection{snapshot.Accounts}
	if opening != nil {
		cols = append(cols, snapshot.Transactions)
	}
	if err := s.refresh(ctx, userID, cols...); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.Bool("opening_balance", opening != nil))
	return &account, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	account, ok := snap.Account(accountID)
	if !ok {
		return nil, notFound("account", accountID)
	}

	if req.Name != nil {
		account.Name = strings.TrimSpace(*req.Name)
	}
	if req.Color != nil {
		account.Color = *req.Color
	}
	if req.Icon != nil {
		account.Icon = *req.Icon
	}
	account.LastUpdatedAt = s.now()

	if err := s.accountRepo.UpdateAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	if err := s.refresh(ctx, userID, snapshot.Accounts); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := snap.Account(accountID); !ok {
		return notFound("account", accountID)
	}
	if err := s.accountRepo.DeleteAccount(ctx, userID, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	// transactions and recurring definitions on the account are removed with it
	if err := s.refresh(ctx, userID, snapshot.Accounts, snapshot.Transactions, snapshot.Recurring); err != nil {
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}
