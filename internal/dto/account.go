package dto

import (
	"time"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name           string           `json:"name" binding:"required,max=100"`
	CurrencyCode   string           `json:"currencyCode" binding:"required,len=3,alpha"`
	Color          string           `json:"color" binding:"max=32"`
	Icon           string           `json:"icon" binding:"max=64"`
	OpeningBalance *decimal.Decimal `json:"openingBalance"` // Optional; negative opens with an expense
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Color *string `json:"color" binding:"omitempty,max=32"`
	Icon  *string `json:"icon" binding:"omitempty,max=64"`
}

// AccountResponse defines the data returned for an account, with its derived balance.
type AccountResponse struct {
	AccountID     string          `json:"accountID"`
	Name          string          `json:"name"`
	CurrencyCode  string          `json:"currencyCode"`
	Color         string          `json:"color"`
	Icon          string          `json:"icon"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account and its balance to AccountResponse DTO
func ToAccountResponse(acc domain.Account, balance decimal.Decimal) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Name:          acc.Name,
		CurrencyCode:  acc.CurrencyCode,
		Color:         acc.Color,
		Icon:          acc.Icon,
		Balance:       balance,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts domain.AccountBalance rows to AccountResponse DTOs
func ToListAccountResponse(rows []domain.AccountBalance) []AccountResponse {
	res := make([]AccountResponse, len(rows))
	for i, row := range rows {
		res[i] = ToAccountResponse(row.Account, row.Balance)
	}
	return res
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID    string          `json:"accountID"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	BaseCurrency string          `json:"baseCurrency"`
	BaseBalance  decimal.Decimal `json:"baseBalance"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
