// Package recurring turns monthly recurring definitions into concrete transactions.
package recurring

import (
	"time"

	"github.com/SscSPs/moneyflow/internal/core/domain"
)

// DefaultMaxCatchUp bounds how many occurrences one definition may emit per run.
// Older backlog is picked up by later runs.
const DefaultMaxCatchUp = 3

// AutoCommentPrefix marks transactions created by the cursor.
const AutoCommentPrefix = "Auto: "

// NextDue returns the occurrence following anchor: the first month after anchor's month,
// on dayOfMonth clamped to that month's length, at midnight in anchor's location.
func NextDue(anchor time.Time, dayOfMonth int) time.Time {
	loc := anchor.Location()
	// day 1 keeps AddDate from normalising into the month after
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	return time.Date(first.Year(), first.Month(), clampDay(first, dayOfMonth), 0, 0, 0, 0, loc)
}

func clampDay(monthStart time.Time, dayOfMonth int) int {
	last := time.Date(monthStart.Year(), monthStart.Month()+1, 0, 0, 0, 0, 0, monthStart.Location()).Day()
	switch {
	case dayOfMonth < 1:
		return 1
	case dayOfMonth > last:
		return last
	}
	return dayOfMonth
}

// DueOccurrences lists the occurrence dates of def that are due at now, oldest first,
// at most limit of them. Inactive definitions have none.
func DueOccurrences(def domain.RecurringDefinition, now time.Time, limit int) []time.Time {
	if !def.Active || limit <= 0 {
		return nil
	}
	var out []time.Time
	next := NextDue(def.Anchor(), def.DayOfMonth)
	for !next.After(now) && len(out) < limit {
		out = append(out, next)
		next = NextDue(next, def.DayOfMonth)
	}
	return out
}

// OccurrenceTransaction builds the transaction for one occurrence of def.
func OccurrenceTransaction(def domain.RecurringDefinition, id string, date, createdAt time.Time) domain.Transaction {
	recurringID := def.RecurringID
	var categoryID *string
	if def.CategoryID != nil {
		c := *def.CategoryID
		categoryID = &c
	}
	return domain.Transaction{
		TransactionID: id,
		UserID:        def.UserID,
		AccountID:     def.AccountID,
		Type:          def.Type,
		Amount:        def.Amount,
		CategoryID:    categoryID,
		RecurringID:   &recurringID,
		Comment:       AutoCommentPrefix + def.Comment,
		Date:          date,
		CreatedAt:     createdAt,
	}
}
