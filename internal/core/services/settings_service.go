package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/domain"
	portsrepo "github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/SscSPs/moneyflow/internal/dto"
	"github.com/shopspring/decimal"
)

const ratePrecision = 8

// DefaultBridgeCurrency is used by SyncRates when the base currency is not published
// by the reference source.
const DefaultBridgeCurrency = "USD"

type settingsService struct {
	ledgerService
	repo     portsrepo.SettingsWriter
	provider portssvc.ReferenceRateProvider
	bridge   string
}

// NewSettingsService creates the settings service. provider may be nil, which disables SyncRates.
// bridge names the currency rates are converted through when the reference table lacks the
// base currency; empty means DefaultBridgeCurrency.
func NewSettingsService(repo portsrepo.SettingsWriter, provider portssvc.ReferenceRateProvider, bridge string, session portssvc.SessionSvc, options ...ServiceOption) portssvc.SettingsSvc {
	bridge = strings.ToUpper(strings.TrimSpace(bridge))
	if bridge == "" {
		bridge = DefaultBridgeCurrency
	}
	return &settingsService{
		ledgerService: newLedgerService(session, options...),
		repo:          repo,
		provider:      provider,
		bridge:        bridge,
	}
}

var _ portssvc.SettingsSvc = (*settingsService)(nil)

func (s *settingsService) GetSettings(ctx context.Context, userID string) (*domain.Settings, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings := copySettings(snap.Settings)
	return &settings, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest, userID string) (*domain.Settings, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings := copySettings(snap.Settings)
	settings.UserID = userID

	if req.BaseCurrency != nil {
		settings.BaseCurrency = strings.ToUpper(*req.BaseCurrency)
	}
	if req.CurrencyRates != nil {
		rates := make(map[string]decimal.Decimal, len(req.CurrencyRates))
		for code, rate := range req.CurrencyRates {
			code = strings.ToUpper(strings.TrimSpace(code))
			if len(code) != 3 {
				return nil, apperrors.Validationf("invalid currency code %q", code)
			}
			if !rate.IsPositive() {
				return nil, apperrors.Validationf("rate for %s must be greater than zero", code)
			}
			rates[code] = rate
		}
		settings.CurrencyRates = rates
	}
	delete(settings.CurrencyRates, settings.BaseCurrency)
	if req.PrivacyMode != nil {
		settings.PrivacyMode = *req.PrivacyMode
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}

	if err := s.save(ctx, settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *settingsService) SyncRates(ctx context.Context, userID string) (*dto.SyncRatesResponse, error) {
	if s.provider == nil {
		return nil, apperrors.Validationf("no reference rate source is configured")
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	ref, err := s.provider.FetchRates(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch reference rates")
		return nil, apperrors.Transient("fetch reference rates", err)
	}

	settings := copySettings(snap.Settings)
	settings.UserID = userID
	rebased, err := RebaseRates(ref, settings, s.bridge)
	if err != nil {
		return nil, err
	}

	updated := make([]string, 0, len(rebased))
	for code, rate := range rebased {
		settings.CurrencyRates[code] = rate
		updated = append(updated, code)
	}
	sort.Strings(updated)

	if err := s.save(ctx, settings); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Reference rates synced",
		slog.String("base_currency", settings.BaseCurrency),
		slog.Int("updated", len(updated)),
		slog.Time("published", ref.Date))
	return &dto.SyncRatesResponse{BaseCurrency: settings.BaseCurrency, Updated: updated}, nil
}

// RebaseRates converts a table quoted per one anchor unit into the value of one unit
// of each currency in the base currency of settings. The base currency itself is left out.
//
// When the table does not publish the base currency, the user's own rate for bridge is
// used to place the base in the table: one anchor buys table[bridge] units of bridge,
// each worth rates[bridge] of base. The bridge rate is then kept as the user set it.
func RebaseRates(ref *domain.ReferenceRates, settings domain.Settings, bridge string) (map[string]decimal.Decimal, error) {
	anchor := strings.ToUpper(ref.Anchor)
	base := strings.ToUpper(settings.BaseCurrency)
	bridge = strings.ToUpper(bridge)

	perAnchor := make(map[string]decimal.Decimal, len(ref.Rates)+1)
	for code, rate := range ref.Rates {
		if rate.IsPositive() {
			perAnchor[strings.ToUpper(code)] = rate
		}
	}
	perAnchor[anchor] = decimal.NewFromInt(1)

	baseRate, published := perAnchor[base]
	if !published {
		bridgeRate, known := settings.CurrencyRates[bridge]
		bridgePerAnchor, listed := perAnchor[bridge]
		if !known || !bridgeRate.IsPositive() || !listed {
			return nil, apperrors.Validationf(
				"base currency %s is not in the reference table; set a %s rate to convert through it", base, bridge)
		}
		baseRate = bridgePerAnchor.Mul(bridgeRate)
	}

	out := make(map[string]decimal.Decimal, len(perAnchor))
	for code, rate := range perAnchor {
		if code == base || (!published && code == bridge) {
			continue
		}
		out[code] = baseRate.DivRound(rate, ratePrecision)
	}
	return out, nil
}

func (s *settingsService) save(ctx context.Context, settings domain.Settings) error {
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		s.LogError(ctx, err, "Failed to save settings", slog.String("user_id", settings.UserID))
		return err
	}
	return s.refresh(ctx, settings.UserID, snapshot.Settings)
}

func copySettings(in domain.Settings) domain.Settings {
	out := in
	out.CurrencyRates = make(map[string]decimal.Decimal, len(in.CurrencyRates))
	for k, v := range in.CurrencyRates {
		out.CurrencyRates[k] = v
	}
	return out
}
