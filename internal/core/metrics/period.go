package metrics

import (
	"fmt"
	"time"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/shopspring/decimal"
)

// PeriodWindow returns the window of a named period as seen at now, in now's location.
// Windows start at local midnight and end at now, except "today" which covers the whole day.
// Weeks start on Monday.
func PeriodWindow(period domain.Period, now time.Time) (domain.Window, error) {
	midnight := startOfDay(now)
	switch period {
	case domain.PeriodToday:
		return domain.Window{Start: midnight, End: midnight.AddDate(0, 0, 1).Add(-time.Nanosecond)}, nil
	case domain.PeriodWeek:
		back := (int(now.Weekday()) + 6) % 7
		return domain.Window{Start: midnight.AddDate(0, 0, -back), End: now}, nil
	case domain.PeriodMonth:
		return domain.Window{Start: startOfMonth(now), End: now}, nil
	case domain.PeriodYear:
		return domain.Window{Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), End: now}, nil
	}
	return domain.Window{}, fmt.Errorf("unknown period %q", period)
}

// PeriodIncome sums income transactions dated inside the window, in the base currency.
func PeriodIncome(snap *snapshot.Snapshot, w domain.Window) decimal.Decimal {
	return sumByType(snap, w, domain.Income)
}

// PeriodExpense sums expense transactions dated inside the window, in the base currency.
func PeriodExpense(snap *snapshot.Snapshot, w domain.Window) decimal.Decimal {
	return sumByType(snap, w, domain.Expense)
}

// PeriodProfit is income minus expense over the window.
func PeriodProfit(snap *snapshot.Snapshot, w domain.Window) decimal.Decimal {
	return PeriodIncome(snap, w).Sub(PeriodExpense(snap, w))
}

// Summary computes income, expense and profit for a named period.
func Summary(snap *snapshot.Snapshot, period domain.Period, now time.Time) (domain.PeriodSummary, error) {
	w, err := PeriodWindow(period, now)
	if err != nil {
		return domain.PeriodSummary{}, err
	}
	income := PeriodIncome(snap, w)
	expense := PeriodExpense(snap, w)
	return domain.PeriodSummary{
		Period:  period,
		Window:  w,
		Income:  income,
		Expense: expense,
		Profit:  income.Sub(expense),
	}, nil
}

func sumByType(snap *snapshot.Snapshot, w domain.Window, typ domain.TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, t := range snap.Transactions {
		if t.Type == typ && w.Contains(t.Date) {
			total = total.Add(baseAmount(snap, t))
		}
	}
	return total
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// daysIn returns the number of days of the month containing t.
func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
