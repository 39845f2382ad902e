package metrics

import (
	"math"
	"time"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/shopspring/decimal"
)

// DebtSummary totals the unpaid part of open debts per direction and lists open debts
// whose due date is before today.
func DebtSummary(snap *snapshot.Snapshot, now time.Time) domain.DebtSummary {
	res := domain.DebtSummary{
		IOweTotal:   decimal.Zero,
		OwesMeTotal: decimal.Zero,
		Overdue:     []domain.Debt{},
	}
	today := startOfDay(now)
	for _, d := range snap.Debts {
		if d.IsClosed() {
			res.ClosedCount++
			continue
		}
		res.OpenCount++
		switch d.Type {
		case domain.IOwe:
			res.IOweTotal = res.IOweTotal.Add(d.Remaining())
		case domain.OwesMe:
			res.OwesMeTotal = res.OwesMeTotal.Add(d.Remaining())
		}
		if d.DueDate != nil && d.DueDate.Before(today) {
			res.Overdue = append(res.Overdue, d)
		}
	}
	return res
}

// GoalProgress derives completion figures for one goal. With a deadline, DaysLeft counts
// whole days from today (negative once passed) and MonthlyNeeds spreads the remaining
// amount over the months left, at least one.
func GoalProgress(g domain.Goal, now time.Time) domain.GoalProgress {
	res := domain.GoalProgress{
		Goal:         g,
		Percent:      decimal.Zero,
		Remaining:    g.TargetAmount.Sub(g.CurrentAmount),
		Reached:      g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount),
		MonthlyNeeds: decimal.Zero,
	}
	if res.Remaining.IsNegative() {
		res.Remaining = decimal.Zero
	}
	if g.TargetAmount.IsPositive() {
		res.Percent = g.CurrentAmount.Mul(hundred).DivRound(g.TargetAmount, 2)
	}
	if g.Deadline == nil {
		return res
	}

	today := startOfDay(now)
	deadline := startOfDay(g.Deadline.In(now.Location()))
	days := int(math.Round(deadline.Sub(today).Hours() / 24))
	res.DaysLeft = &days

	if !res.Reached {
		months := (days + 29) / 30
		if months < 1 {
			months = 1
		}
		res.MonthlyNeeds = res.Remaining.DivRound(decimal.NewFromInt(int64(months)), 2)
	}
	return res
}

// AllGoalProgress derives progress for every goal in snapshot order.
func AllGoalProgress(snap *snapshot.Snapshot, now time.Time) []domain.GoalProgress {
	out := make([]domain.GoalProgress, 0, len(snap.Goals))
	for _, g := range snap.Goals {
		out = append(out, GoalProgress(g, now))
	}
	return out
}
