package domain

// CategoryType classifies what kind of transactions a category groups.
type CategoryType string

const (
	CategoryIncome   CategoryType = "income"
	CategoryExpense  CategoryType = "expense"
	CategoryTransfer CategoryType = "transfer"
)

// Category classifies transactions. Deleting one leaves referencing transactions dangling;
// display joins resolve those to a placeholder.
type Category struct {
	CategoryID string       `json:"categoryID"`
	UserID     string       `json:"userID"`
	Name       string       `json:"name"`
	Type       CategoryType `json:"type"`
	Appearance
	AuditFields
}

// CounterpartyType describes who is on the other side of a transaction.
type CounterpartyType string

const (
	Person       CounterpartyType = "person"
	Company      CounterpartyType = "company"
	Organization CounterpartyType = "organization"
)

// Counterparty is the alternative classifier to Category.
type Counterparty struct {
	CounterpartyID string           `json:"counterpartyID"`
	UserID         string           `json:"userID"`
	Name           string           `json:"name"`
	Type           CounterpartyType `json:"type"`
	IsFavorite     bool             `json:"isFavorite"`
	Appearance
	AuditFields
}
