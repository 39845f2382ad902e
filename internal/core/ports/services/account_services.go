package services

import (
	"context"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// ListAccounts returns every account of the user with its derived balance.
	ListAccounts(ctx context.Context, userID string) ([]domain.AccountBalance, error)

	// GetAccount retrieves one account with its balance.
	GetAccount(ctx context.Context, accountID string, userID string) (*domain.AccountBalance, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account, booking the optional opening balance.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount removes an account together with its transactions.
	DeleteAccount(ctx context.Context, accountID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

// CategorySvc manages categories.
type CategorySvc interface {
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID string, userID string) error
}

// CounterpartySvc manages counterparties.
type CounterpartySvc interface {
	ListCounterparties(ctx context.Context, userID string) ([]domain.Counterparty, error)
	CreateCounterparty(ctx context.Context, req dto.CreateCounterpartyRequest, userID string) (*domain.Counterparty, error)
	UpdateCounterparty(ctx context.Context, counterpartyID string, req dto.UpdateCounterpartyRequest, userID string) (*domain.Counterparty, error)
	DeleteCounterparty(ctx context.Context, counterpartyID string, userID string) error
}
