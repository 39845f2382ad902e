package snapshot_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockLedgerReader is a mock implementation of repositories.LedgerReader
type MockLedgerReader struct {
	mock.Mock
}

func (m *MockLedgerReader) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockLedgerReader) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockLedgerReader) ListCounterparties(ctx context.Context, userID string) ([]domain.Counterparty, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Counterparty), args.Error(1)
}

func (m *MockLedgerReader) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockLedgerReader) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockLedgerReader) ListDebts(ctx context.Context, userID string) ([]domain.Debt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

func (m *MockLedgerReader) ListRecurringDefinitions(ctx context.Context, userID string) ([]domain.RecurringDefinition, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringDefinition), args.Error(1)
}

func (m *MockLedgerReader) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Goal), args.Error(1)
}

func (m *MockLedgerReader) GetSettings(ctx context.Context, userID string) (*domain.Settings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}

const testUserID = "user-1"

var (
	testAccounts = []domain.Account{
		{AccountID: "acc-1", UserID: testUserID, Name: "Cash", CurrencyCode: "UZS"},
		{AccountID: "acc-2", UserID: testUserID, Name: "Card", CurrencyCode: "USD"},
	}
	testTransactions = []domain.Transaction{
		{TransactionID: "t-1", UserID: testUserID, AccountID: "acc-1", Type: domain.Income, Amount: decimal.NewFromInt(500)},
	}
	testSettings = &domain.Settings{
		UserID:        testUserID,
		BaseCurrency:  "UZS",
		CurrencyRates: map[string]decimal.Decimal{"USD": decimal.NewFromInt(12500)},
	}
)

type ManagerTestSuite struct {
	suite.Suite
	reader  *MockLedgerReader
	manager *snapshot.Manager
	now     time.Time
}

func (s *ManagerTestSuite) SetupTest() {
	s.reader = new(MockLedgerReader)
	s.now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	s.manager = snapshot.NewManager(testUserID, s.reader, snapshot.WithClock(func() time.Time { return s.now }))
}

func (s *ManagerTestSuite) expectFullRead() {
	s.reader.On("ListAccounts", mock.Anything, testUserID).Return(testAccounts, nil)
	s.reader.On("ListCategories", mock.Anything, testUserID).Return([]domain.Category{}, nil)
	s.reader.On("ListCounterparties", mock.Anything, testUserID).Return([]domain.Counterparty{}, nil)
	s.reader.On("ListTransactions", mock.Anything, testUserID).Return(testTransactions, nil)
	s.reader.On("ListBudgets", mock.Anything, testUserID).Return([]domain.Budget{}, nil)
	s.reader.On("ListDebts", mock.Anything, testUserID).Return([]domain.Debt{}, nil)
	s.reader.On("ListRecurringDefinitions", mock.Anything, testUserID).Return([]domain.RecurringDefinition{}, nil)
	s.reader.On("ListGoals", mock.Anything, testUserID).Return([]domain.Goal{}, nil)
	s.reader.On("GetSettings", mock.Anything, testUserID).Return(testSettings, nil)
}

func (s *ManagerTestSuite) TestCurrent_BeforeRefresh() {
	snap := s.manager.Current()
	s.Require().NotNil(snap)
	s.Empty(snap.Accounts)
	s.Equal(domain.DefaultBaseCurrency, snap.Settings.BaseCurrency)
}

func (s *ManagerTestSuite) TestRefresh_LoadsEveryCollection() {
	s.expectFullRead()

	snap, err := s.manager.Refresh(context.Background())
	s.Require().NoError(err)

	s.Equal(testAccounts, snap.Accounts)
	s.Equal(testTransactions, snap.Transactions)
	s.Equal("UZS", snap.Settings.BaseCurrency)
	s.Equal(s.now, snap.FetchedAt())
	s.Same(snap, s.manager.Current())

	acc, ok := snap.Account("acc-2")
	s.True(ok)
	s.Equal("Card", acc.Name)
	s.reader.AssertExpectations(s.T())
}

func (s *ManagerTestSuite) TestRefresh_IsIdempotent() {
	s.expectFullRead()

	first, err := s.manager.Refresh(context.Background())
	s.Require().NoError(err)
	second, err := s.manager.Refresh(context.Background())
	s.Require().NoError(err)

	s.Equal(first.Collections, second.Collections)
	s.Greater(second.Version(), first.Version())
}

func (s *ManagerTestSuite) TestRefresh_FailureKeepsPreviousSnapshot() {
	s.expectFullRead()
	before, err := s.manager.Refresh(context.Background())
	s.Require().NoError(err)

	s.reader.ExpectedCalls = nil
	s.reader.On("ListTransactions", mock.Anything, testUserID).Return(nil, errors.New("connection reset"))

	_, err = s.manager.RefreshCollections(context.Background(), snapshot.Transactions)
	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrTransient))
	s.Same(before, s.manager.Current())
}

func (s *ManagerTestSuite) TestRefreshCollections_CopiesUntouchedCollections() {
	s.expectFullRead()
	before, err := s.manager.Refresh(context.Background())
	s.Require().NoError(err)

	s.reader.ExpectedCalls = nil
	updated := append([]domain.Transaction{}, testTransactions...)
	updated = append(updated, domain.Transaction{TransactionID: "t-2", AccountID: "acc-2", Type: domain.Expense, Amount: decimal.NewFromInt(3)})
	s.reader.On("ListTransactions", mock.Anything, testUserID).Return(updated, nil)

	after, err := s.manager.RefreshCollections(context.Background(), snapshot.Transactions)
	s.Require().NoError(err)

	s.Len(after.Transactions, 2)
	s.Equal(before.Accounts, after.Accounts)
	s.Equal(before.Settings, after.Settings)
	s.Greater(after.Version(), before.Version())
	s.reader.AssertNotCalled(s.T(), "ListAccounts", mock.Anything, testUserID)
}

func (s *ManagerTestSuite) TestRefresh_MissingSettingsUseDefaults() {
	s.reader.On("GetSettings", mock.Anything, testUserID).Return(nil, apperrors.ErrNotFound)

	snap, err := s.manager.RefreshCollections(context.Background(), snapshot.Settings)
	s.Require().NoError(err)
	s.Equal(domain.DefaultSettings(testUserID), snap.Settings)
}

func (s *ManagerTestSuite) TestRefresh_StaleResultIsDiscarded() {
	started := make(chan struct{})
	s.reader.On("ListTransactions", mock.Anything, testUserID).
		Return(nil, context.Canceled).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			close(started)
			<-ctx.Done()
		}).Once()
	s.reader.On("ListTransactions", mock.Anything, testUserID).Return(testTransactions, nil).Once()
	s.reader.On("ListAccounts", mock.Anything, testUserID).Return(testAccounts, nil).Once()

	staleErr := make(chan error, 1)
	go func() {
		_, err := s.manager.RefreshCollections(context.Background(), snapshot.Transactions)
		staleErr <- err
	}()
	<-started

	fresh, err := s.manager.RefreshCollections(context.Background(), snapshot.Accounts)
	s.Require().NoError(err)
	s.ErrorIs(<-staleErr, snapshot.ErrSuperseded)

	// the pending transactions read was carried over by the newer refresh
	s.Equal(testTransactions, fresh.Transactions)
	s.Equal(testAccounts, fresh.Accounts)
	s.Same(fresh, s.manager.Current())
}

func TestManagerTestSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func TestRegistry_OpenReusesSession(t *testing.T) {
	reader := new(MockLedgerReader)
	reader.On("ListAccounts", mock.Anything, mock.Anything).Return([]domain.Account{}, nil)
	reader.On("ListCategories", mock.Anything, mock.Anything).Return([]domain.Category{}, nil)
	reader.On("ListCounterparties", mock.Anything, mock.Anything).Return([]domain.Counterparty{}, nil)
	reader.On("ListTransactions", mock.Anything, mock.Anything).Return([]domain.Transaction{}, nil)
	reader.On("ListBudgets", mock.Anything, mock.Anything).Return([]domain.Budget{}, nil)
	reader.On("ListDebts", mock.Anything, mock.Anything).Return([]domain.Debt{}, nil)
	reader.On("ListRecurringDefinitions", mock.Anything, mock.Anything).Return([]domain.RecurringDefinition{}, nil)
	reader.On("ListGoals", mock.Anything, mock.Anything).Return([]domain.Goal{}, nil)
	reader.On("GetSettings", mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound)

	reg := snapshot.NewRegistry(reader)

	m1, opened, err := reg.Open(context.Background(), "b")
	require.NoError(t, err)
	assert.True(t, opened)

	m2, opened, err := reg.Open(context.Background(), "b")
	require.NoError(t, err)
	assert.False(t, opened)
	assert.Same(t, m1, m2)

	_, _, err = reg.Open(context.Background(), "a")
	require.NoError(t, err)

	sessions := reg.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "a", sessions[0].UserID())
	assert.Equal(t, "b", sessions[1].UserID())

	reg.Close("b")
	_, ok := reg.Get("b")
	assert.False(t, ok)
}

func TestRegistry_OpenFailureDoesNotRegister(t *testing.T) {
	reader := new(MockLedgerReader)
	reader.On("ListAccounts", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	reader.On("ListCategories", mock.Anything, mock.Anything).Return([]domain.Category{}, nil).Maybe()
	reader.On("ListCounterparties", mock.Anything, mock.Anything).Return([]domain.Counterparty{}, nil).Maybe()
	reader.On("ListTransactions", mock.Anything, mock.Anything).Return([]domain.Transaction{}, nil).Maybe()
	reader.On("ListBudgets", mock.Anything, mock.Anything).Return([]domain.Budget{}, nil).Maybe()
	reader.On("ListDebts", mock.Anything, mock.Anything).Return([]domain.Debt{}, nil).Maybe()
	reader.On("ListRecurringDefinitions", mock.Anything, mock.Anything).Return([]domain.RecurringDefinition{}, nil).Maybe()
	reader.On("ListGoals", mock.Anything, mock.Anything).Return([]domain.Goal{}, nil).Maybe()
	reader.On("GetSettings", mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound).Maybe()

	reg := snapshot.NewRegistry(reader)
	_, _, err := reg.Open(context.Background(), "u")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTransient)

	_, ok := reg.Get("u")
	assert.False(t, ok)
}
