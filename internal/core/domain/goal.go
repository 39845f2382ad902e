package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target. CurrentAmount only grows, through top-ups.
type Goal struct {
	GoalID        string          `json:"goalID"`
	UserID        string          `json:"userID"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	Appearance
	AuditFields
}

// GoalProgress is the derived view of a goal.
type GoalProgress struct {
	Goal
	Percent      decimal.Decimal `json:"percent"`
	Remaining    decimal.Decimal `json:"remaining"`
	Reached      bool            `json:"reached"`
	DaysLeft     *int            `json:"daysLeft,omitempty"`
	MonthlyNeeds decimal.Decimal `json:"monthlyNeeds"` // amount per remaining month to hit the deadline
}
