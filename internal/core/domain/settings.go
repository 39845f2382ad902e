package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBaseCurrency is used for users that never saved settings.
const DefaultBaseCurrency = "UZS"

// Settings is the per-user singleton of display and currency preferences.
// CurrencyRates maps a currency code to the value of one unit of it in BaseCurrency.
type Settings struct {
	UserID        string                     `json:"userID"`
	BaseCurrency  string                     `json:"baseCurrency"`
	CurrencyRates map[string]decimal.Decimal `json:"currencyRates"`
	PrivacyMode   bool                       `json:"privacyMode"`
	Theme         string                     `json:"theme"`
}

// DefaultSettings returns the settings a brand-new user starts with.
func DefaultSettings(userID string) Settings {
	return Settings{
		UserID:        userID,
		BaseCurrency:  DefaultBaseCurrency,
		CurrencyRates: map[string]decimal.Decimal{},
		Theme:         "dark",
	}
}

// Rate returns the rate of code relative to the base currency.
// The base currency and unknown codes resolve to 1; ok is false for unknown codes.
func (s Settings) Rate(code string) (decimal.Decimal, bool) {
	code = strings.ToUpper(code)
	if code == strings.ToUpper(s.BaseCurrency) {
		return decimal.NewFromInt(1), true
	}
	r, ok := s.CurrencyRates[code]
	if !ok || !r.IsPositive() {
		return decimal.NewFromInt(1), false
	}
	return r, true
}

// ReferenceRates is a published table of exchange rates against one anchor currency.
type ReferenceRates struct {
	Anchor string                     `json:"anchor"`
	Date   time.Time                  `json:"date"`
	Rates  map[string]decimal.Decimal `json:"rates"` // units of the currency per one Anchor
}
