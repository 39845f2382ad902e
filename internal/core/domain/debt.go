package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtType tells who owes whom.
type DebtType string

const (
	IOwe   DebtType = "i_owe"
	OwesMe DebtType = "owes_me"
)

// Debt tracks money borrowed or lent. PaidAmount only grows.
type Debt struct {
	DebtID     string          `json:"debtID"`
	UserID     string          `json:"userID"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
	Type       DebtType        `json:"type"`
	DueDate    *time.Time      `json:"dueDate,omitempty"`
	AuditFields
}

// IsClosed reports whether the debt has been paid in full.
func (d Debt) IsClosed() bool {
	return d.PaidAmount.GreaterThanOrEqual(d.Amount)
}

// Remaining returns the unpaid part of the debt, never below zero.
func (d Debt) Remaining() decimal.Decimal {
	r := d.Amount.Sub(d.PaidAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// PaymentTransactionType is the ledger direction of a repayment on this debt.
func (d Debt) PaymentTransactionType() TransactionType {
	if d.Type == IOwe {
		return Expense
	}
	return Income
}

// OpeningTransactionType is the ledger direction of the money that created the debt.
func (d Debt) OpeningTransactionType() TransactionType {
	if d.Type == IOwe {
		return Income
	}
	return Expense
}

// DebtSummary aggregates open debts per direction.
type DebtSummary struct {
	IOweTotal   decimal.Decimal `json:"iOweTotal"`
	OwesMeTotal decimal.Decimal `json:"owesMeTotal"`
	OpenCount   int             `json:"openCount"`
	ClosedCount int             `json:"closedCount"`
	Overdue     []Debt          `json:"overdue"`
}
