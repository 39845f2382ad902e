package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/dto"
	"github.com/SscSPs/moneyflow/internal/middleware"
	"github.com/gin-gonic/gin"
)

type transactionHandler struct {
	transactions portssvc.TransactionSvcFacade
	transfers    portssvc.TransferSvc
}

// RegisterTransactionRoutes registers the transaction and transfer routes.
func RegisterTransactionRoutes(rg *gin.RouterGroup, transactions portssvc.TransactionSvcFacade, transfers portssvc.TransferSvc) {
	h := &transactionHandler{transactions: transactions, transfers: transfers}

	txns := rg.Group("/transactions")
	{
		txns.GET("", h.listTransactions)
		txns.POST("", h.createTransaction)
		txns.GET("/:id", h.getTransaction)
		txns.PUT("/:id", h.updateTransaction)
		txns.DELETE("/:id", h.deleteTransaction)
	}
	rg.POST("/transfers", h.createTransfer)
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions newest first, optionally for one account, using token-based pagination
// @Tags transactions
// @Produce  json
// @Param   accountID query string false "Only transactions of this account"
// @Param   limit query int false "Maximum number of transactions to return" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if !bindQuery(c, logger, &params) {
		return
	}
	resp, err := h.transactions.ListTransactions(c.Request.Context(), params, userID)
	if err != nil {
		respondError(c, logger, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// createTransaction godoc
// @Summary Create an income or expense
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	txn, err := h.transactions.CreateTransaction(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create transaction")
		return
	}
	logger.Info("Transaction created", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, txn)
}

func (h *transactionHandler) getTransaction(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.transactions.GetTransaction(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, logger, err, "retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *transactionHandler) updateTransaction(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateTransactionRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	txn, err := h.transactions.UpdateTransaction(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "update transaction")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Deletes a transaction. Deleting one leg of a transfer deletes both legs.
// @Tags transactions
// @Param   id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.transactions.DeleteTransaction(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, logger, err, "delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// createTransfer godoc
// @Summary Transfer between accounts
// @Description Books a transfer_out and a transfer_in leg; across currencies the received amount is converted
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to transfer"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transactionHandler) createTransfer(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.TransferRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	resp, err := h.transfers.Transfer(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "transfer")
		return
	}
	middleware.RecordLedgerEvent(c, middleware.EventTransferCreated, map[string]any{
		"transfer_id": resp.TransferID,
		"converted":   !resp.Out.Amount.Equal(resp.In.Amount),
	})
	c.JSON(http.StatusCreated, resp)
}
