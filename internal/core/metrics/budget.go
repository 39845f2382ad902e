package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BudgetProgress reports how much of a category's monthly budget has been spent,
// from the 1st of now's month through now. ok is false when the category has no budget,
// which callers must keep apart from a budget at 0%.
func BudgetProgress(snap *snapshot.Snapshot, categoryID string, now time.Time) (*domain.BudgetProgress, bool) {
	b, ok := snap.BudgetForCategory(categoryID)
	if !ok {
		return nil, false
	}
	w := domain.Window{Start: startOfMonth(now), End: now}

	spent := decimal.Zero
	for _, t := range snap.Transactions {
		if t.Type != domain.Expense || t.CategoryID == nil || *t.CategoryID != categoryID {
			continue
		}
		if w.Contains(t.Date) {
			spent = spent.Add(baseAmount(snap, t))
		}
	}
	return progressOf(b, CategoryLabel(snap, &categoryID), spent), true
}

func progressOf(b domain.Budget, name string, spent decimal.Decimal) *domain.BudgetProgress {
	var percent decimal.Decimal
	switch {
	case b.Amount.IsPositive():
		percent = spent.Mul(hundred).DivRound(b.Amount, 2)
	case spent.IsPositive():
		percent = hundred
	default:
		percent = decimal.Zero
	}
	return &domain.BudgetProgress{
		BudgetID:     b.BudgetID,
		CategoryID:   b.CategoryID,
		CategoryName: name,
		Limit:        b.Amount,
		Spent:        spent,
		Percent:      percent,
		Remaining:    b.Amount.Sub(spent),
		IsOver:       spent.GreaterThan(b.Amount),
	}
}

// AllBudgetProgress returns the progress of every budget, ordered by category name.
func AllBudgetProgress(snap *snapshot.Snapshot, now time.Time) []domain.BudgetProgress {
	out := make([]domain.BudgetProgress, 0, len(snap.Budgets))
	for _, b := range snap.Budgets {
		if p, ok := BudgetProgress(snap, b.CategoryID, now); ok {
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].CategoryName) < strings.ToLower(out[j].CategoryName)
	})
	return out
}
