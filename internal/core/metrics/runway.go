package metrics

import (
	"time"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/shopspring/decimal"
)

// RunwayInfiniteDays is reported as Days when nothing was spent last month.
var RunwayInfiniteDays = decimal.NewFromInt(9999)

// BurnRateRunway divides the total base balance by the average daily spend of the
// previous calendar month. A balance at or below zero gives a runway of zero days.
func BurnRateRunway(snap *snapshot.Snapshot, now time.Time) domain.Runway {
	return runwayFromTotal(snap, TotalBalanceInBaseCurrency(snap).Total, now)
}

func runwayFromTotal(snap *snapshot.Snapshot, total decimal.Decimal, now time.Time) domain.Runway {
	thisMonth := startOfMonth(now)
	prevMonth := thisMonth.AddDate(0, -1, 0)
	w := domain.Window{Start: prevMonth, End: thisMonth.Add(-time.Nanosecond)}

	spend := PeriodExpense(snap, w)
	avg := spend.DivRound(decimal.NewFromInt(int64(daysIn(prevMonth))), divisionPrecision)

	res := domain.Runway{
		AverageDailySpend: avg,
		TotalBalance:      total,
	}
	switch {
	case !spend.IsPositive():
		res.Infinite = true
		res.Days = RunwayInfiniteDays
	case !total.IsPositive():
		res.Days = decimal.Zero
	default:
		res.Days = total.DivRound(avg, 1)
	}
	return res
}
