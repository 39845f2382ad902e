package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/domain"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/dto"
	"github.com/SscSPs/moneyflow/internal/handlers"
	"github.com/SscSPs/moneyflow/internal/middleware"
	"github.com/SscSPs/moneyflow/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) ListAccounts(ctx context.Context, userID string) ([]domain.AccountBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountBalance), args.Error(1)
}
func (m *MockAccountService) GetAccount(ctx context.Context, accountID string, userID string) (*domain.AccountBalance, error) {
	args := m.Called(ctx, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock SettingsService ---
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetSettings(ctx context.Context, userID string) (*domain.Settings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}
func (m *MockSettingsService) UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest, userID string) (*domain.Settings, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}
func (m *MockSettingsService) SyncRates(ctx context.Context, userID string) (*dto.SyncRatesResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SyncRatesResponse), args.Error(1)
}

var _ portssvc.SettingsSvc = (*MockSettingsService)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockAccountService  *MockAccountService
	mockSettingsService *MockSettingsService
	jwtSecret           string
	userID              string
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.mockAccountService = new(MockAccountService)
	suite.mockSettingsService = new(MockSettingsService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterAccountRoutes(v1, suite.mockAccountService, suite.mockSettingsService)
}

func (suite *AccountHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	token, err := utils.GenerateJWT(suite.userID, suite.jwtSecret, time.Hour, "moneyflow-test")
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestListAccounts_Success() {
	rows := []domain.AccountBalance{
		{Account: domain.Account{AccountID: "a1", Name: "Wallet", CurrencyCode: "UZS"}, Balance: decimal.NewFromInt(150000)},
		{Account: domain.Account{AccountID: "a2", Name: "Card", CurrencyCode: "USD"}, Balance: decimal.NewFromInt(20)},
	}
	suite.mockAccountService.On("ListAccounts", mock.Anything, suite.userID).Return(rows, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Accounts, 2)
	suite.Equal("a1", resp.Accounts[0].AccountID)
	suite.True(decimal.NewFromInt(20).Equal(resp.Accounts[1].Balance))
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_WithOpeningBalance() {
	opening := decimal.NewFromInt(500)
	req := dto.CreateAccountRequest{Name: "Savings", CurrencyCode: "USD", OpeningBalance: &opening}
	created := &domain.Account{AccountID: uuid.NewString(), UserID: suite.userID, Name: "Savings", CurrencyCode: "USD"}
	suite.mockAccountService.On("CreateAccount", mock.Anything, mock.MatchedBy(func(r dto.CreateAccountRequest) bool {
		return r.Name == "Savings" && r.OpeningBalance != nil && r.OpeningBalance.Equal(opening)
	}), suite.userID).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.AccountID, resp.AccountID)
	suite.True(opening.Equal(resp.Balance))
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_InvalidBody() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", map[string]string{"name": "No currency"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("GetAccount", mock.Anything, accountID, suite.userID).
		Return(nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/"+accountID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestGetAccountBalance_IncludesBaseCurrency() {
	row := &domain.AccountBalance{
		Account:     domain.Account{AccountID: "a2", CurrencyCode: "USD"},
		Balance:     decimal.NewFromInt(10),
		BaseBalance: decimal.NewFromInt(125000),
	}
	suite.mockAccountService.On("GetAccount", mock.Anything, "a2", suite.userID).Return(row, nil).Once()
	suite.mockSettingsService.On("GetSettings", mock.Anything, suite.userID).
		Return(&domain.Settings{UserID: suite.userID, BaseCurrency: "UZS"}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/a2/balance", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountBalanceResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("UZS", resp.BaseCurrency)
	suite.True(decimal.NewFromInt(125000).Equal(resp.BaseBalance))
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount_Success() {
	suite.mockAccountService.On("DeleteAccount", mock.Anything, "a1", suite.userID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/accounts/a1", nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestTransientFailure_Returns503() {
	suite.mockAccountService.On("ListAccounts", mock.Anything, suite.userID).
		Return(nil, apperrors.Transient("refresh snapshot", fmt.Errorf("connection reset"))).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts", nil)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *AccountHandlerTestSuite) TestMissingToken_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts")
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
