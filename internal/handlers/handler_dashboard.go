package handlers

import (
	"net/http"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/dto"
	"github.com/SscSPs/moneyflow/internal/middleware"
	"github.com/gin-gonic/gin"
)

type dashboardHandler struct {
	dashboard portssvc.DashboardSvc
	session   portssvc.SessionSvc
}

// RegisterDashboardRoutes registers the derived metric routes and the session refresh.
func RegisterDashboardRoutes(rg *gin.RouterGroup, dashboard portssvc.DashboardSvc, session portssvc.SessionSvc) {
	h := &dashboardHandler{dashboard: dashboard, session: session}

	d := rg.Group("/dashboard")
	{
		d.GET("", h.getDashboard)
		d.GET("/periods/:period", h.getPeriodSummary)
		d.GET("/budgets", h.getBudgetProgress)
		d.GET("/categories/top", h.getTopCategories)
		d.GET("/breakdown/:period", h.getCategoryBreakdown)
		d.GET("/debts", h.getDebtSummary)
		d.GET("/goals", h.getGoalProgress)
	}
	rg.POST("/session", h.openSession)
	rg.POST("/session/refresh", h.refreshSession)
}

// getDashboard godoc
// @Summary Get the dashboard
// @Description Returns the total balance in the base currency, this month's income and expense, the runway and the debt summary
// @Tags dashboard
// @Produce  json
// @Success 200 {object} dto.DashboardResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Ledger temporarily unavailable"
// @Security BearerAuth
// @Router /dashboard [get]
func (h *dashboardHandler) getDashboard(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.dashboard.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "build dashboard")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getPeriodSummary godoc
// @Summary Get income, expense and profit for a period
// @Tags dashboard
// @Produce  json
// @Param   period path string true "today, week, month or year"
// @Success 200 {object} domain.PeriodSummary
// @Failure 400 {object} map[string]string "Unknown period"
// @Security BearerAuth
// @Router /dashboard/periods/{period} [get]
func (h *dashboardHandler) getPeriodSummary(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	summary, err := h.dashboard.GetPeriodSummary(c.Request.Context(), domain.Period(c.Param("period")), userID)
	if err != nil {
		respondError(c, logger, err, "summarize period")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *dashboardHandler) getBudgetProgress(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	progress, err := h.dashboard.GetBudgetProgress(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "compute budget progress")
		return
	}
	c.JSON(http.StatusOK, dto.BudgetProgressResponse{Budgets: progress})
}

// getTopCategories godoc
// @Summary Get the most used categories
// @Description Expense categories used most in the last 30 days, padded with defaults
// @Tags dashboard
// @Produce  json
// @Param   n query int false "Number of categories" default(6)
// @Success 200 {object} dto.TopCategoriesResponse
// @Security BearerAuth
// @Router /dashboard/categories/top [get]
func (h *dashboardHandler) getTopCategories(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var params dto.TopCategoriesParams
	if !bindQuery(c, logger, &params) {
		return
	}
	cats, err := h.dashboard.GetTopCategories(c.Request.Context(), params.N, userID)
	if err != nil {
		respondError(c, logger, err, "compute top categories")
		return
	}
	c.JSON(http.StatusOK, dto.TopCategoriesResponse{Categories: cats})
}

func (h *dashboardHandler) getCategoryBreakdown(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var params dto.BreakdownParams
	if !bindQuery(c, logger, &params) {
		return
	}
	period := domain.Period(c.Param("period"))
	rows, err := h.dashboard.GetCategoryBreakdown(c.Request.Context(), period, params.Type, userID)
	if err != nil {
		respondError(c, logger, err, "compute category breakdown")
		return
	}
	c.JSON(http.StatusOK, dto.BreakdownResponse{Period: period, Type: params.Type, Rows: rows})
}

func (h *dashboardHandler) getDebtSummary(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	summary, err := h.dashboard.GetDebtSummary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "summarize debts")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *dashboardHandler) getGoalProgress(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	goals, err := h.dashboard.GetGoalProgress(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "compute goal progress")
		return
	}
	c.JSON(http.StatusOK, dto.GoalProgressResponse{Goals: goals})
}

func (h *dashboardHandler) openSession(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.session.OpenSession(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "open session")
		return
	}
	recordBackfill(c, resp)
	c.JSON(http.StatusOK, resp)
}

// refreshSession godoc
// @Summary Reload the ledger snapshot
// @Description Re-reads every collection and records any recurring occurrences that came due
// @Tags session
// @Produce  json
// @Success 200 {object} dto.SessionResponse
// @Failure 503 {object} map[string]string "Ledger temporarily unavailable"
// @Security BearerAuth
// @Router /session/refresh [post]
func (h *dashboardHandler) refreshSession(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.session.RefreshSession(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "refresh session")
		return
	}
	recordBackfill(c, resp)
	c.JSON(http.StatusOK, resp)
}

func recordBackfill(c *gin.Context, resp *dto.SessionResponse) {
	if resp.RecurringAdded == 0 && resp.RecurringFailed == 0 {
		return
	}
	middleware.RecordLedgerEvent(c, middleware.EventRecurringBackfill, map[string]any{
		"added":  resp.RecurringAdded,
		"failed": resp.RecurringFailed,
	})
}
