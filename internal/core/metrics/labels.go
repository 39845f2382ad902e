package metrics

import (
	"sort"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
)

// Placeholder labels for references that no longer resolve.
const (
	UncategorizedLabel = "uncategorized"
	UnknownLabel       = "unknown"
)

// CategoryLabel returns the category name, or UncategorizedLabel for nil or dangling ids.
func CategoryLabel(snap *snapshot.Snapshot, categoryID *string) string {
	if categoryID == nil {
		return UncategorizedLabel
	}
	c, ok := snap.Category(*categoryID)
	if !ok {
		return UncategorizedLabel
	}
	return c.Name
}

// AccountLabel returns the account name, or UnknownLabel when the account is gone.
func AccountLabel(snap *snapshot.Snapshot, accountID string) string {
	a, ok := snap.Account(accountID)
	if !ok {
		return UnknownLabel
	}
	return a.Name
}

// CounterpartyLabel returns the counterparty name. A nil id yields "" and a dangling one UnknownLabel.
func CounterpartyLabel(snap *snapshot.Snapshot, counterpartyID *string) string {
	if counterpartyID == nil {
		return ""
	}
	cp, ok := snap.Counterparty(*counterpartyID)
	if !ok {
		return UnknownLabel
	}
	return cp.Name
}

// TransactionViews joins transactions with their display labels, newest first by date.
// A transaction classified by counterparty gets the counterparty name as its category label.
func TransactionViews(snap *snapshot.Snapshot, txns []domain.Transaction) []domain.TransactionView {
	out := make([]domain.TransactionView, len(txns))
	for i, t := range txns {
		v := domain.TransactionView{
			Transaction:      t,
			AccountName:      AccountLabel(snap, t.AccountID),
			CategoryName:     CategoryLabel(snap, t.CategoryID),
			CounterpartyName: CounterpartyLabel(snap, t.CounterpartyID),
		}
		if t.CategoryID == nil && t.CounterpartyID != nil {
			v.CategoryName = v.CounterpartyName
		}
		out[i] = v
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
