package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period names a bounded aggregation window.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// Window is a closed [Start, End] range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// PeriodSummary holds income, expense and profit for one window.
type PeriodSummary struct {
	Period  Period          `json:"period"`
	Window  Window          `json:"window"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

// AccountBalance is an account with its derived balance.
type AccountBalance struct {
	Account
	Balance     decimal.Decimal `json:"balance"`
	BaseBalance decimal.Decimal `json:"baseBalance"`
}

// TotalBalance is the sum of all account balances in the base currency.
type TotalBalance struct {
	BaseCurrency string           `json:"baseCurrency"`
	Total        decimal.Decimal  `json:"total"`
	Accounts     []AccountBalance `json:"accounts"`
	MissingRates []string         `json:"missingRates,omitempty"`
}

// Runway estimates how long the current balance lasts at last month's spend rate.
type Runway struct {
	AverageDailySpend decimal.Decimal `json:"averageDailySpend"`
	TotalBalance      decimal.Decimal `json:"totalBalance"`
	Days              decimal.Decimal `json:"days"`
	Infinite          bool            `json:"infinite"`
}

// CategoryUsage is how often a category was used recently.
type CategoryUsage struct {
	CategoryID  string `json:"categoryID,omitempty"` // empty for placeholders
	Name        string `json:"name"`
	Count       int    `json:"count"`
	Placeholder bool   `json:"placeholder"`
}

// CategoryTotal is one row of a per-category breakdown.
type CategoryTotal struct {
	CategoryID string          `json:"categoryID"`
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
	Share      decimal.Decimal `json:"share"` // percent of the breakdown total
	Count      int             `json:"count"`
}

// TransactionView is a transaction joined with display labels.
type TransactionView struct {
	Transaction
	AccountName      string `json:"accountName"`
	CategoryName     string `json:"categoryName"`
	CounterpartyName string `json:"counterpartyName,omitempty"`
}
