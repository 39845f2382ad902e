package dto

import "github.com/shopspring/decimal"

// UpdateSettingsRequest defines the settings fields that can change.
// CurrencyRates replaces the whole rate table when present.
type UpdateSettingsRequest struct {
	BaseCurrency  *string                    `json:"baseCurrency" binding:"omitempty,len=3,alpha"`
	CurrencyRates map[string]decimal.Decimal `json:"currencyRates"`
	PrivacyMode   *bool                      `json:"privacyMode"`
	Theme         *string                    `json:"theme" binding:"omitempty,oneof=dark light"`
}

// SyncRatesResponse reports the outcome of a reference rate sync.
type SyncRatesResponse struct {
	BaseCurrency string   `json:"baseCurrency"`
	Updated      []string `json:"updated"`
}
