package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/dto"
	"github.com/SscSPs/moneyflow/internal/middleware"
	"github.com/gin-gonic/gin"
)

type planningHandler struct {
	budgets   portssvc.BudgetSvc
	debts     portssvc.DebtSvc
	recurring portssvc.RecurringSvc
	goals     portssvc.GoalSvc
}

// RegisterPlanningRoutes registers budget, debt, recurring and goal routes.
func RegisterPlanningRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &planningHandler{
		budgets:   services.Budget,
		debts:     services.Debt,
		recurring: services.Recurring,
		goals:     services.Goal,
	}

	budgets := rg.Group("/budgets")
	{
		budgets.GET("", h.listBudgets)
		budgets.PUT("", h.upsertBudget)
		budgets.DELETE("/:id", h.deleteBudget)
	}
	debts := rg.Group("/debts")
	{
		debts.GET("", h.listDebts)
		debts.POST("", h.createDebt)
		debts.POST("/:id/payments", h.recordDebtPayment)
		debts.DELETE("/:id", h.deleteDebt)
	}
	rec := rg.Group("/recurring")
	{
		rec.GET("", h.listRecurring)
		rec.POST("", h.createRecurring)
		rec.PUT("/:id", h.updateRecurring)
		rec.DELETE("/:id", h.deleteRecurring)
	}
	goals := rg.Group("/goals")
	{
		goals.GET("", h.listGoals)
		goals.POST("", h.createGoal)
		goals.PUT("/:id", h.updateGoal)
		goals.POST("/:id/top-ups", h.topUpGoal)
		goals.DELETE("/:id", h.deleteGoal)
	}
}

// --- Budgets ---

func (h *planningHandler) listBudgets(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	budgets, err := h.budgets.ListBudgets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "list budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ListBudgetsResponse{Budgets: budgets})
}

// upsertBudget godoc
// @Summary Set a category budget
// @Description Creates the monthly budget of a category or replaces its limit
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   budget body dto.UpsertBudgetRequest true "Budget"
// @Success 200 {object} domain.Budget
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Security BearerAuth
// @Router /budgets [put]
func (h *planningHandler) upsertBudget(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpsertBudgetRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	budget, err := h.budgets.UpsertBudget(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "save budget")
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (h *planningHandler) deleteBudget(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.budgets.DeleteBudget(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, logger, err, "delete budget")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Debts ---

func (h *planningHandler) listDebts(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	debts, err := h.debts.ListDebts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "list debts")
		return
	}
	c.JSON(http.StatusOK, dto.ListDebtsResponse{Debts: debts})
}

func (h *planningHandler) createDebt(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateDebtRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	debt, err := h.debts.CreateDebt(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create debt")
		return
	}
	c.JSON(http.StatusCreated, debt)
}

// recordDebtPayment godoc
// @Summary Record a debt payment
// @Description Books a repayment on an account; the payment may not exceed what is still owed
// @Tags debts
// @Accept  json
// @Produce  json
// @Param   id path string true "Debt ID"
// @Param   payment body dto.DebtPaymentRequest true "Payment"
// @Success 200 {object} domain.Debt
// @Failure 400 {object} map[string]string "Invalid input or overpayment"
// @Failure 404 {object} map[string]string "Debt not found"
// @Security BearerAuth
// @Router /debts/{id}/payments [post]
func (h *planningHandler) recordDebtPayment(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.DebtPaymentRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	debt, err := h.debts.RecordPayment(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "record debt payment")
		return
	}
	middleware.RecordLedgerEvent(c, middleware.EventDebtPayment, map[string]any{
		"debt_type": string(debt.Type),
		"closed":    debt.IsClosed(),
	})
	c.JSON(http.StatusOK, debt)
}

func (h *planningHandler) deleteDebt(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.debts.DeleteDebt(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, logger, err, "delete debt")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Recurring ---

func (h *planningHandler) listRecurring(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	defs, err := h.recurring.ListRecurring(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "list recurring definitions")
		return
	}
	c.JSON(http.StatusOK, dto.ListRecurringResponse{Recurring: defs})
}

func (h *planningHandler) createRecurring(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateRecurringRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	def, err := h.recurring.CreateRecurring(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create recurring definition")
		return
	}
	c.JSON(http.StatusCreated, def)
}

func (h *planningHandler) updateRecurring(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateRecurringRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	def, err := h.recurring.UpdateRecurring(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "update recurring definition")
		return
	}
	c.JSON(http.StatusOK, def)
}

func (h *planningHandler) deleteRecurring(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.recurring.DeleteRecurring(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, logger, err, "delete recurring definition")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Goals ---

func (h *planningHandler) listGoals(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	goals, err := h.goals.ListGoals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "list goals")
		return
	}
	c.JSON(http.StatusOK, dto.ListGoalsResponse{Goals: goals})
}

func (h *planningHandler) createGoal(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateGoalRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	goal, err := h.goals.CreateGoal(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create goal")
		return
	}
	c.JSON(http.StatusCreated, goal)
}

func (h *planningHandler) updateGoal(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateGoalRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	goal, err := h.goals.UpdateGoal(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "update goal")
		return
	}
	c.JSON(http.StatusOK, goal)
}

// topUpGoal godoc
// @Summary Top up a goal
// @Description Moves money from an account into a goal as an expense
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   id path string true "Goal ID"
// @Param   topUp body dto.GoalTopUpRequest true "Top-up"
// @Success 200 {object} domain.Goal
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Goal not found"
// @Security BearerAuth
// @Router /goals/{id}/top-ups [post]
func (h *planningHandler) topUpGoal(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.GoalTopUpRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	goal, err := h.goals.TopUpGoal(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "top up goal")
		return
	}
	middleware.RecordLedgerEvent(c, middleware.EventGoalTopUp, map[string]any{
		"reached": goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount),
	})
	c.JSON(http.StatusOK, goal)
}

func (h *planningHandler) deleteGoal(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.goals.DeleteGoal(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, logger, err, "delete goal")
		return
	}
	c.Status(http.StatusNoContent)
}
