package repositories

import (
	"context"

	"github.com/SscSPs/moneyflow/internal/core/domain"
)

// LedgerReader is the read side of the persistence service: one full-collection
// read per entity type, always scoped to a single user.
type LedgerReader interface {
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
	ListCounterparties(ctx context.Context, userID string) ([]domain.Counterparty, error)
	// ListTransactions returns transactions ordered by creation time, oldest first.
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
	ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error)
	ListDebts(ctx context.Context, userID string) ([]domain.Debt, error)
	ListRecurringDefinitions(ctx context.Context, userID string) ([]domain.RecurringDefinition, error)
	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)
	// GetSettings returns apperrors.ErrNotFound when the user never saved settings.
	GetSettings(ctx context.Context, userID string) (*domain.Settings, error)
}
