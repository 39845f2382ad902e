package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	settings       portssvc.SettingsSvc
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, settings portssvc.SettingsSvc) {
	h := &accountHandler{accountService: accountService, settings: settings}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/:id/balance", h.getAccountBalance)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deleteAccount)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a new account for the logged-in user, optionally with an opening balance
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	logger.Info("Received request to create account", slog.String("account_name", req.Name), slog.String("currency_code", req.CurrencyCode))

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create account")
		return
	}

	balance := decimal.Zero
	if req.OpeningBalance != nil {
		balance = *req.OpeningBalance
	}
	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(*account, balance))
}

// listAccounts godoc
// @Summary List accounts for the logged-in user
// @Description Lists every account with its derived balance
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	rows, err := h.accountService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(rows)})
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves details for a specific account by its ID
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	row, err := h.accountService.GetAccount(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, logger, err, "retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(row.Account, row.Balance))
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Returns the derived balance in the account currency and in the base currency
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Security BearerAuth
// @Router /accounts/{id}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	row, err := h.accountService.GetAccount(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, logger, err, "retrieve balance")
		return
	}
	settings, err := h.settings.GetSettings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID:    row.AccountID,
		CurrencyCode: row.CurrencyCode,
		Balance:      row.Balance,
		BaseCurrency: settings.BaseCurrency,
		BaseBalance:  row.BaseBalance,
	})
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates the name, color or icon of an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to update account"
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	accountID := c.Param("id")
	if _, err := h.accountService.UpdateAccount(c.Request.Context(), accountID, req, userID); err != nil {
		respondError(c, logger, err, "update account")
		return
	}
	row, err := h.accountService.GetAccount(c.Request.Context(), accountID, userID)
	if err != nil {
		respondError(c, logger, err, "update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(row.Account, row.Balance))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes an account together with its transactions
// @Tags accounts
// @Param   id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to delete account"
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	accountID := c.Param("id")
	if err := h.accountService.DeleteAccount(c.Request.Context(), accountID, userID); err != nil {
		respondError(c, logger, err, "delete account")
		return
	}
	logger.Info("Account deleted", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}
