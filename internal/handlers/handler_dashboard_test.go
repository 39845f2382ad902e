package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/domain"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/core/recurring"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/SscSPs/moneyflow/internal/dto"
	"github.com/SscSPs/moneyflow/internal/handlers"
	"github.com/SscSPs/moneyflow/internal/middleware"
	"github.com/SscSPs/moneyflow/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock DashboardService ---
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetDashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DashboardResponse), args.Error(1)
}
func (m *MockDashboardService) GetPeriodSummary(ctx context.Context, period domain.Period, userID string) (*domain.PeriodSummary, error) {
	args := m.Called(ctx, period, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodSummary), args.Error(1)
}
func (m *MockDashboardService) GetBudgetProgress(ctx context.Context, userID string) ([]domain.BudgetProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetProgress), args.Error(1)
}
func (m *MockDashboardService) GetTopCategories(ctx context.Context, n int, userID string) ([]domain.CategoryUsage, error) {
	args := m.Called(ctx, n, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryUsage), args.Error(1)
}
func (m *MockDashboardService) GetCategoryBreakdown(ctx context.Context, period domain.Period, txType domain.TransactionType, userID string) ([]domain.CategoryTotal, error) {
	args := m.Called(ctx, period, txType, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryTotal), args.Error(1)
}
func (m *MockDashboardService) GetDebtSummary(ctx context.Context, userID string) (*domain.DebtSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtSummary), args.Error(1)
}
func (m *MockDashboardService) GetGoalProgress(ctx context.Context, userID string) ([]domain.GoalProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GoalProgress), args.Error(1)
}

var _ portssvc.DashboardSvc = (*MockDashboardService)(nil)

// --- Mock SessionService ---
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) OpenSession(ctx context.Context, userID string) (*dto.SessionResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SessionResponse), args.Error(1)
}
func (m *MockSessionService) RefreshSession(ctx context.Context, userID string) (*dto.SessionResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SessionResponse), args.Error(1)
}
func (m *MockSessionService) Snapshot(ctx context.Context, userID string) (*snapshot.Snapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*snapshot.Snapshot), args.Error(1)
}
func (m *MockSessionService) Refresh(ctx context.Context, userID string, cols ...snapshot.Collection) (*snapshot.Snapshot, error) {
	args := m.Called(ctx, userID, cols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*snapshot.Snapshot), args.Error(1)
}
func (m *MockSessionService) RunRecurring(ctx context.Context, userID string) (recurring.Result, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(recurring.Result), args.Error(1)
}
func (m *MockSessionService) RunRecurringForAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockSessionService) OpenUserIDs() []string {
	return m.Called().Get(0).([]string)
}

var _ portssvc.SessionSvc = (*MockSessionService)(nil)

// --- Test Suite ---
type DashboardHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockDashboard *MockDashboardService
	mockSession   *MockSessionService
	token         string
	userID        string
}

func (suite *DashboardHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	secret := "test-secret-key-that-is-long-enough"
	suite.userID = "user-42"
	token, err := utils.GenerateJWT(suite.userID, secret, time.Hour, "moneyflow-test")
	suite.Require().NoError(err)
	suite.token = token

	suite.mockDashboard = new(MockDashboardService)
	suite.mockSession = new(MockSessionService)
	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(secret))
	handlers.RegisterDashboardRoutes(v1, suite.mockDashboard, suite.mockSession)
}

func (suite *DashboardHandlerTestSuite) do(method, url string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *DashboardHandlerTestSuite) TestGetDashboard_Success() {
	resp := &dto.DashboardResponse{
		SnapshotVersion: 7,
		Balance:         domain.TotalBalance{BaseCurrency: "UZS", Total: decimal.NewFromInt(1500)},
		Runway:          domain.Runway{Infinite: true, Days: decimal.NewFromInt(9999)},
	}
	suite.mockDashboard.On("GetDashboard", mock.Anything, suite.userID).Return(resp, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/dashboard")

	suite.Equal(http.StatusOK, w.Code)
	var body dto.DashboardResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(uint64(7), body.SnapshotVersion)
	suite.True(body.Runway.Infinite)
	suite.True(decimal.NewFromInt(1500).Equal(body.Balance.Total))
}

func (suite *DashboardHandlerTestSuite) TestGetPeriodSummary_UnknownPeriod() {
	suite.mockDashboard.On("GetPeriodSummary", mock.Anything, domain.Period("decade"), suite.userID).
		Return(nil, apperrors.Validationf("unknown period %q", "decade")).Once()

	w := suite.do(http.MethodGet, "/api/v1/dashboard/periods/decade")

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *DashboardHandlerTestSuite) TestGetTopCategories_DefaultsAndBounds() {
	suite.mockDashboard.On("GetTopCategories", mock.Anything, 6, suite.userID).
		Return([]domain.CategoryUsage{}, nil).Once()

	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/api/v1/dashboard/categories/top").Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/dashboard/categories/top?n=0").Code)
	suite.mockDashboard.AssertNumberOfCalls(suite.T(), "GetTopCategories", 1)
}

func (suite *DashboardHandlerTestSuite) TestGetCategoryBreakdown_RejectsTransferType() {
	w := suite.do(http.MethodGet, "/api/v1/dashboard/breakdown/month?type=transfer_in")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDashboard.AssertNotCalled(suite.T(), "GetCategoryBreakdown", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DashboardHandlerTestSuite) TestRefreshSession_ReportsBackfill() {
	suite.mockSession.On("RefreshSession", mock.Anything, suite.userID).
		Return(&dto.SessionResponse{UserID: suite.userID, SnapshotVersion: 3, RecurringAdded: 2}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/session/refresh")

	suite.Equal(http.StatusOK, w.Code)
	var body dto.SessionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(2, body.RecurringAdded)
}

func (suite *DashboardHandlerTestSuite) TestRefreshSession_Transient() {
	suite.mockSession.On("RefreshSession", mock.Anything, suite.userID).
		Return(nil, apperrors.Transient("refresh snapshot", context.DeadlineExceeded)).Once()

	w := suite.do(http.MethodPost, "/api/v1/session/refresh")

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func TestDashboardHandler(t *testing.T) {
	suite.Run(t, new(DashboardHandlerTestSuite))
}
