package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringDefinition describes a monthly income or expense that the projection
// cursor turns into concrete transactions.
type RecurringDefinition struct {
	RecurringID string          `json:"recurringID"`
	UserID      string          `json:"userID"`
	AccountID   string          `json:"accountID"`
	CategoryID  *string         `json:"categoryID,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	DayOfMonth  int             `json:"dayOfMonth"` // 1..31, clamped to the month length
	Comment     string          `json:"comment"`
	LastRun     *time.Time      `json:"lastRun,omitempty"`
	Active      bool            `json:"active"`
	AuditFields
}

// Anchor is the date the cursor advances from: the last run, or creation if never run.
func (r RecurringDefinition) Anchor() time.Time {
	if r.LastRun != nil {
		return *r.LastRun
	}
	return r.CreatedAt
}
