package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/shopspring/decimal"
)

// UsageWindow is how far back TopUsedCategories counts transactions.
const UsageWindow = 30 * 24 * time.Hour

// FallbackCategories pads the top-used list, highest priority first.
var FallbackCategories = []string{
	"Food",
	"Transport",
	"Shopping",
	"Entertainment",
	"Health",
	"Utilities",
	"Housing",
}

// TopUsedCategories returns up to n categories ordered by how many expense transactions
// used them over the trailing 30 days. Equal counts keep the order in which the categories
// first appear in the ledger. When fewer than n categories were used the list is padded from
// FallbackCategories: an existing expense category whose name equals the entry (ignoring case)
// is preferred, then one whose name contains it, else a zero-count placeholder is added.
func TopUsedCategories(snap *snapshot.Snapshot, n int, now time.Time) []domain.CategoryUsage {
	if n <= 0 {
		return []domain.CategoryUsage{}
	}
	w := domain.Window{Start: now.Add(-UsageWindow), End: now}

	counts := map[string]int{}
	var order []string
	for _, t := range snap.Transactions {
		if t.Type != domain.Expense || t.CategoryID == nil || !w.Contains(t.Date) {
			continue
		}
		id := *t.CategoryID
		if _, ok := snap.Category(id); !ok {
			continue
		}
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > n {
		order = order[:n]
	}

	out := make([]domain.CategoryUsage, 0, n)
	taken := map[string]bool{}
	for _, id := range order {
		c, _ := snap.Category(id)
		out = append(out, domain.CategoryUsage{CategoryID: id, Name: c.Name, Count: counts[id]})
		taken[id] = true
	}

	for _, name := range FallbackCategories {
		if len(out) >= n {
			break
		}
		c, found, alreadyTaken := matchFallback(snap, name, taken)
		switch {
		case alreadyTaken:
			continue
		case found:
			out = append(out, domain.CategoryUsage{CategoryID: c.CategoryID, Name: c.Name, Count: counts[c.CategoryID]})
			taken[c.CategoryID] = true
		default:
			out = append(out, domain.CategoryUsage{Name: name, Placeholder: true})
		}
	}
	return out
}

// matchFallback finds the expense category for a fallback entry. alreadyTaken is true when
// the exact match is already in the list, so the entry is satisfied without a new row.
func matchFallback(snap *snapshot.Snapshot, name string, taken map[string]bool) (domain.Category, bool, bool) {
	for _, c := range snap.Categories {
		if c.Type == domain.CategoryExpense && strings.EqualFold(c.Name, name) {
			if taken[c.CategoryID] {
				return domain.Category{}, false, true
			}
			return c, true, false
		}
	}
	needle := strings.ToLower(name)
	for _, c := range snap.Categories {
		if c.Type == domain.CategoryExpense && !taken[c.CategoryID] && strings.Contains(strings.ToLower(c.Name), needle) {
			return c, true, false
		}
	}
	return domain.Category{}, false, false
}

// CategoryBreakdown totals transactions of one type per category over a named period,
// largest first. Share is each row's percentage of the breakdown total.
// Transactions without a resolvable category are grouped under UncategorizedLabel.
func CategoryBreakdown(snap *snapshot.Snapshot, period domain.Period, typ domain.TransactionType, now time.Time) ([]domain.CategoryTotal, error) {
	if typ != domain.Income && typ != domain.Expense {
		return nil, fmt.Errorf("breakdown is only defined for income and expense, got %q", typ)
	}
	w, err := PeriodWindow(period, now)
	if err != nil {
		return nil, err
	}

	rows := map[string]*domain.CategoryTotal{}
	var order []string
	grand := decimal.Zero
	for _, t := range snap.Transactions {
		if t.Type != typ || !w.Contains(t.Date) {
			continue
		}
		key := ""
		if t.CategoryID != nil {
			if _, ok := snap.Category(*t.CategoryID); ok {
				key = *t.CategoryID
			}
		}
		row, ok := rows[key]
		if !ok {
			row = &domain.CategoryTotal{CategoryID: key, Name: UncategorizedLabel, Total: decimal.Zero}
			if key != "" {
				row.Name = CategoryLabel(snap, &key)
			}
			rows[key] = row
			order = append(order, key)
		}
		amt := baseAmount(snap, t)
		row.Total = row.Total.Add(amt)
		row.Count++
		grand = grand.Add(amt)
	}

	out := make([]domain.CategoryTotal, 0, len(order))
	for _, key := range order {
		row := *rows[key]
		if grand.IsPositive() {
			row.Share = row.Total.Mul(hundred).DivRound(grand, 2)
		} else {
			row.Share = decimal.Zero
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out, nil
}
