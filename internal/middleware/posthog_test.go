package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/moneyflow/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockEventSink struct {
	mock.Mock
}

func (m *MockEventSink) IsInitialized() bool {
	return m.Called().Bool(0)
}
func (m *MockEventSink) Enqueue(distinctID string, event string, properties map[string]any) {
	m.Called(distinctID, event, properties)
}

var _ middleware.EventSink = (*MockEventSink)(nil)

type PosthogMiddlewareTestSuite struct {
	suite.Suite
	sink   *MockEventSink
	router *gin.Engine
	status int
}

func (suite *PosthogMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.sink = new(MockEventSink)
	suite.sink.On("IsInitialized").Return(true).Maybe()
	suite.status = http.StatusCreated

	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(middleware.WithUserID(c.Request.Context(), "user-7"))
		c.Next()
	})
	suite.router.Use(middleware.PosthogMiddleware(suite.sink))
	suite.router.POST("/transfers", func(c *gin.Context) {
		middleware.RecordLedgerEvent(c, middleware.EventTransferCreated, map[string]any{"transfer_id": "tr-1"})
		c.Status(suite.status)
	})
	suite.router.GET("/accounts", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

func (suite *PosthogMiddlewareTestSuite) serve(method, path string) {
	req, _ := http.NewRequest(method, path, nil)
	suite.router.ServeHTTP(httptest.NewRecorder(), req)
}

func (suite *PosthogMiddlewareTestSuite) TestRecordedEvent_IsSent() {
	suite.sink.On("Enqueue", "user-7", middleware.EventTransferCreated, mock.MatchedBy(func(p map[string]any) bool {
		return p["transfer_id"] == "tr-1" && p["route"] == "/transfers" && p["status_code"] == http.StatusCreated
	})).Once()

	suite.serve(http.MethodPost, "/transfers")

	suite.sink.AssertExpectations(suite.T())
}

func (suite *PosthogMiddlewareTestSuite) TestFailedRequest_IsNotSent() {
	suite.status = http.StatusServiceUnavailable

	suite.serve(http.MethodPost, "/transfers")

	suite.sink.AssertNotCalled(suite.T(), "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PosthogMiddlewareTestSuite) TestRequestWithoutEvent_IsNotSent() {
	suite.serve(http.MethodGet, "/accounts")

	suite.sink.AssertNotCalled(suite.T(), "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func TestPosthogMiddleware(t *testing.T) {
	suite.Run(t, new(PosthogMiddlewareTestSuite))
}
