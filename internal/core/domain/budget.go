package domain

import "github.com/shopspring/decimal"

// Budget is a monthly spending limit for one category. There is at most one per category.
type Budget struct {
	BudgetID   string          `json:"budgetID"`
	UserID     string          `json:"userID"`
	CategoryID string          `json:"categoryID"`
	Amount     decimal.Decimal `json:"amount"`
	AuditFields
}

// BudgetProgress is the month-to-date consumption of a budget.
type BudgetProgress struct {
	BudgetID     string          `json:"budgetID"`
	CategoryID   string          `json:"categoryID"`
	CategoryName string          `json:"categoryName"`
	Limit        decimal.Decimal `json:"limit"`
	Spent        decimal.Decimal `json:"spent"`
	Percent      decimal.Decimal `json:"percent"`   // may exceed 100
	Remaining    decimal.Decimal `json:"remaining"` // may be negative
	IsOver       bool            `json:"isOver"`
}
