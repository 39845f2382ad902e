package domain_test

import (
	"testing"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_SignedAmount(t *testing.T) {
	tests := []struct {
		name   string
		txType domain.TransactionType
		want   decimal.Decimal
	}{
		{name: "income adds", txType: domain.Income, want: decimal.NewFromInt(250)},
		{name: "transfer in adds", txType: domain.TransferIn, want: decimal.NewFromInt(250)},
		{name: "expense subtracts", txType: domain.Expense, want: decimal.NewFromInt(-250)},
		{name: "transfer out subtracts", txType: domain.TransferOut, want: decimal.NewFromInt(-250)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := domain.Transaction{Type: tt.txType, Amount: decimal.NewFromInt(250)}
			assert.True(t, tt.want.Equal(txn.SignedAmount()), "got %s", txn.SignedAmount())
		})
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		txn     domain.Transaction
		wantErr bool
	}{
		{
			name: "valid expense",
			txn:  domain.Transaction{AccountID: "acc-1", Type: domain.Expense, Amount: decimal.NewFromInt(10), CategoryID: stringPtr("cat-1")},
		},
		{
			name: "zero amount is allowed",
			txn:  domain.Transaction{AccountID: "acc-1", Type: domain.Income, Amount: decimal.Zero},
		},
		{
			name:    "unknown type",
			txn:     domain.Transaction{AccountID: "acc-1", Type: "refund", Amount: decimal.NewFromInt(10)},
			wantErr: true,
		},
		{
			name:    "negative amount",
			txn:     domain.Transaction{AccountID: "acc-1", Type: domain.Expense, Amount: decimal.NewFromInt(-1)},
			wantErr: true,
		},
		{
			name:    "missing account",
			txn:     domain.Transaction{Type: domain.Expense, Amount: decimal.NewFromInt(10)},
			wantErr: true,
		},
		{
			name: "category and counterparty together",
			txn: domain.Transaction{
				AccountID:      "acc-1",
				Type:           domain.Expense,
				Amount:         decimal.NewFromInt(10),
				CategoryID:     stringPtr("cat-1"),
				CounterpartyID: stringPtr("cp-1"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.txn.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func stringPtr(s string) *string {
	return &s
}
