package repositories

import (
	"context"

	"github.com/SscSPs/moneyflow/internal/core/domain"
)

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. When opening is non-nil the opening-balance
	// transaction is stored in the same database transaction.
	SaveAccount(ctx context.Context, account domain.Account, opening *domain.Transaction) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account; its transactions are removed with it.
	DeleteAccount(ctx context.Context, userID, accountID string) error
}

// CategoryWriter defines write operations for categories.
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// CounterpartyWriter defines write operations for counterparties.
type CounterpartyWriter interface {
	SaveCounterparty(ctx context.Context, counterparty domain.Counterparty) error
	UpdateCounterparty(ctx context.Context, counterparty domain.Counterparty) error
	DeleteCounterparty(ctx context.Context, userID, counterpartyID string) error
}
