package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/domain"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/core/recurring"
	"github.com/SscSPs/moneyflow/internal/core/services"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/SscSPs/moneyflow/internal/dto"
	"github.com/SscSPs/moneyflow/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func ecbTable() *domain.ReferenceRates {
	return &domain.ReferenceRates{
		Anchor: "EUR",
		Date:   time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
		Rates: map[string]decimal.Decimal{
			"USD": dec("1.25"),
			"UZS": dec("15000"),
		},
	}
}

func settingsIn(base string, rates map[string]decimal.Decimal) domain.Settings {
	s := domain.DefaultSettings(testUser)
	s.BaseCurrency = base
	if rates != nil {
		s.CurrencyRates = rates
	}
	return s
}

func TestRebaseRates(t *testing.T) {
	rates, err := services.RebaseRates(ecbTable(), settingsIn("uzs", nil), "USD")
	require.NoError(t, err)

	assert.Len(t, rates, 2)
	assert.True(t, dec("12000").Equal(rates["USD"]), rates["USD"].String())
	assert.True(t, dec("15000").Equal(rates["EUR"]), rates["EUR"].String())
	_, hasBase := rates["UZS"]
	assert.False(t, hasBase)
}

func TestRebaseRates_AnchorAsBase(t *testing.T) {
	rates, err := services.RebaseRates(ecbTable(), settingsIn("EUR", nil), "USD")
	require.NoError(t, err)
	assert.True(t, dec("0.8").Equal(rates["USD"]), rates["USD"].String())
}

func TestRebaseRates_UnpublishedBase(t *testing.T) {
	table := &domain.ReferenceRates{
		Anchor: "EUR",
		Rates:  map[string]decimal.Decimal{"USD": dec("1.25"), "GBP": dec("0.8")},
	}

	t.Run("converts through the bridge rate", func(t *testing.T) {
		rates, err := services.RebaseRates(table, settingsIn("UZS", map[string]decimal.Decimal{"USD": dec("12000")}), "usd")
		require.NoError(t, err)

		// one EUR is 1.25 USD, i.e. 15000 UZS
		assert.True(t, dec("15000").Equal(rates["EUR"]), rates["EUR"].String())
		assert.True(t, dec("18750").Equal(rates["GBP"]), rates["GBP"].String())
		_, hasBridge := rates["USD"]
		assert.False(t, hasBridge, "the user's bridge rate is kept as set")
	})

	t.Run("without a bridge rate", func(t *testing.T) {
		_, err := services.RebaseRates(table, settingsIn("UZS", nil), "USD")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("bridge not in the table", func(t *testing.T) {
		_, err := services.RebaseRates(table, settingsIn("UZS", map[string]decimal.Decimal{"KZT": dec("25")}), "KZT")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

// --- Mock ReferenceRateProvider ---
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) FetchRates(ctx context.Context) (*domain.ReferenceRates, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferenceRates), args.Error(1)
}

var _ portssvc.ReferenceRateProvider = (*MockRateProvider)(nil)

type SettingsServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	provider *MockRateProvider
	settings portssvc.SettingsSvc
}

func (suite *SettingsServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	store := memory.NewStore()
	session := services.NewSessionService(snapshot.NewRegistry(store), recurring.NewRunner(store))
	suite.provider = new(MockRateProvider)
	suite.settings = services.NewSettingsService(store, suite.provider, services.DefaultBridgeCurrency, session)
}

// --- Test Cases ---

func (suite *SettingsServiceTestSuite) TestGetSettings_DefaultsForNewUser() {
	s, err := suite.settings.GetSettings(suite.ctx, testUser)
	suite.Require().NoError(err)
	suite.Equal(domain.DefaultBaseCurrency, s.BaseCurrency)
}

func (suite *SettingsServiceTestSuite) TestUpdateSettings_NormalizesRates() {
	s, err := suite.settings.UpdateSettings(suite.ctx, dto.UpdateSettingsRequest{
		BaseCurrency:  ptr("usd"),
		CurrencyRates: map[string]decimal.Decimal{"eur": dec("1.1"), "USD": dec("1")},
		Theme:         ptr("light"),
	}, testUser)
	suite.Require().NoError(err)

	suite.Equal("USD", s.BaseCurrency)
	suite.Equal("light", s.Theme)
	suite.True(dec("1.1").Equal(s.CurrencyRates["EUR"]))
	_, hasBase := s.CurrencyRates["USD"]
	suite.False(hasBase)

	reread, err := suite.settings.GetSettings(suite.ctx, testUser)
	suite.Require().NoError(err)
	suite.Equal("USD", reread.BaseCurrency)
}

func (suite *SettingsServiceTestSuite) TestUpdateSettings_RejectsNonPositiveRate() {
	_, err := suite.settings.UpdateSettings(suite.ctx, dto.UpdateSettingsRequest{
		CurrencyRates: map[string]decimal.Decimal{"USD": dec("0")},
	}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SettingsServiceTestSuite) TestSyncRates_KeepsCustomRates() {
	_, err := suite.settings.UpdateSettings(suite.ctx, dto.UpdateSettingsRequest{
		CurrencyRates: map[string]decimal.Decimal{"KGS": dec("140")},
	}, testUser)
	suite.Require().NoError(err)
	suite.provider.On("FetchRates", mock.Anything).Return(ecbTable(), nil).Once()

	resp, err := suite.settings.SyncRates(suite.ctx, testUser)
	suite.Require().NoError(err)
	suite.Equal([]string{"EUR", "USD"}, resp.Updated)

	s, err := suite.settings.GetSettings(suite.ctx, testUser)
	suite.Require().NoError(err)
	suite.True(dec("12000").Equal(s.CurrencyRates["USD"]))
	suite.True(dec("140").Equal(s.CurrencyRates["KGS"]))
}

func (suite *SettingsServiceTestSuite) TestSyncRates_DefaultBaseUsesBridge() {
	_, err := suite.settings.UpdateSettings(suite.ctx, dto.UpdateSettingsRequest{
		CurrencyRates: map[string]decimal.Decimal{"USD": dec("12600")},
	}, testUser)
	suite.Require().NoError(err)
	suite.provider.On("FetchRates", mock.Anything).Return(&domain.ReferenceRates{
		Anchor: "EUR",
		Rates:  map[string]decimal.Decimal{"USD": dec("1.2")},
	}, nil).Once()

	resp, err := suite.settings.SyncRates(suite.ctx, testUser)
	suite.Require().NoError(err)
	suite.Equal(domain.DefaultBaseCurrency, resp.BaseCurrency)
	suite.Equal([]string{"EUR"}, resp.Updated)

	s, err := suite.settings.GetSettings(suite.ctx, testUser)
	suite.Require().NoError(err)
	suite.True(dec("15120").Equal(s.CurrencyRates["EUR"]), s.CurrencyRates["EUR"].String())
	suite.True(dec("12600").Equal(s.CurrencyRates["USD"]))
}

func (suite *SettingsServiceTestSuite) TestSyncRates_ProviderFailureIsTransient() {
	suite.provider.On("FetchRates", mock.Anything).Return(nil, errors.New("503")).Once()

	_, err := suite.settings.SyncRates(suite.ctx, testUser)
	suite.ErrorIs(err, apperrors.ErrTransient)
}

func TestSettingsService(t *testing.T) {
	suite.Run(t, new(SettingsServiceTestSuite))
}
