package services

import (
	"context"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/dto"
)

// SettingsSvc manages the per-user settings singleton.
type SettingsSvc interface {
	GetSettings(ctx context.Context, userID string) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest, userID string) (*domain.Settings, error)
	// SyncRates replaces the rate table with reference rates rebased to the user's base currency.
	SyncRates(ctx context.Context, userID string) (*dto.SyncRatesResponse, error)
}

// ReferenceRateProvider fetches reference exchange rates. Rates are quoted as units of
// each currency per one unit of the provider's anchor currency.
type ReferenceRateProvider interface {
	FetchRates(ctx context.Context) (*domain.ReferenceRates, error)
}
