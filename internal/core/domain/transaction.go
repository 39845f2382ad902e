package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType carries the direction of a transaction; amounts are always non-negative.
type TransactionType string

const (
	Income      TransactionType = "income"
	Expense     TransactionType = "expense"
	TransferIn  TransactionType = "transfer_in"
	TransferOut TransactionType = "transfer_out"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, TransferIn, TransferOut:
		return true
	}
	return false
}

// IsCredit reports whether the type adds to the account balance.
func (t TransactionType) IsCredit() bool {
	return t == Income || t == TransferIn
}

// Transaction is a single signed movement on one account.
type Transaction struct {
	TransactionID  string          `json:"transactionID"`
	UserID         string          `json:"userID"`
	AccountID      string          `json:"accountID"`
	Type           TransactionType `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	CategoryID     *string         `json:"categoryID,omitempty"`
	CounterpartyID *string         `json:"counterpartyID,omitempty"`
	TransferID     *string         `json:"transferID,omitempty"`  // shared by both legs of a transfer
	RecurringID    *string         `json:"recurringID,omitempty"` // set on automatic occurrences
	Comment        string          `json:"comment"`
	Date           time.Time       `json:"date"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// SignedAmount returns +Amount for income/transfer_in and -Amount for expense/transfer_out.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type.IsCredit() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Validate checks the invariants every stored transaction must satisfy.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("unknown transaction type %q", t.Type)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("transaction amount must not be negative")
	}
	if t.AccountID == "" {
		return fmt.Errorf("transaction account is required")
	}
	if t.CategoryID != nil && t.CounterpartyID != nil {
		return fmt.Errorf("transaction may reference a category or a counterparty, not both")
	}
	return nil
}
