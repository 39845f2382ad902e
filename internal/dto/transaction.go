package dto

import (
	"time"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines a manual income or expense entry.
// Transfers go through TransferRequest instead.
type CreateTransactionRequest struct {
	AccountID      string                 `json:"accountID" binding:"required"`
	Type           domain.TransactionType `json:"type" binding:"required,oneof=income expense"`
	Amount         decimal.Decimal        `json:"amount"`
	CategoryID     *string                `json:"categoryID"`
	CounterpartyID *string                `json:"counterpartyID"`
	Comment        string                 `json:"comment" binding:"max=500"`
	Date           *time.Time             `json:"date"` // Optional, defaults to now
}

// UpdateTransactionRequest defines the fields of a transaction that can change.
// ClearClassifier removes both category and counterparty before applying the new ones.
type UpdateTransactionRequest struct {
	AccountID       *string          `json:"accountID"`
	Amount          *decimal.Decimal `json:"amount"`
	CategoryID      *string          `json:"categoryID"`
	CounterpartyID  *string          `json:"counterpartyID"`
	ClearClassifier bool             `json:"clearClassifier"`
	Comment         *string          `json:"comment" binding:"omitempty,max=500"`
	Date            *time.Time       `json:"date"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	AccountID string `form:"accountID"`
	Limit     int    `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken string `form:"nextToken"`
}

// ListTransactionsResponse is one page of transactions, newest first.
type ListTransactionsResponse struct {
	Transactions []domain.TransactionView `json:"transactions"`
	NextToken    string                   `json:"nextToken,omitempty"`
}

// TransferRequest moves money between two of the user's accounts.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Comment       string          `json:"comment" binding:"max=500"`
	Date          *time.Time      `json:"date"`
}

// TransferResponse returns both legs of a completed transfer.
type TransferResponse struct {
	TransferID string             `json:"transferID"`
	Out        domain.Transaction `json:"out"`
	In         domain.Transaction `json:"in"`
}
