package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// Appearance is the display decoration shared by accounts, categories, counterparties and goals.
type Appearance struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
}
