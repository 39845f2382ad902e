package domain

// Account represents a money container owned by a single user.
// Its balance is never stored; it is derived from the transactions referencing it.
type Account struct {
	AccountID    string `json:"accountID"`
	UserID       string `json:"userID"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"`
	Appearance
	AuditFields
}
