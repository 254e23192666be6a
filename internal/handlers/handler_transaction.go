package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/SscSPs/fintech_ledger/internal/dto"
	"github.com/SscSPs/fintech_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to ledger transactions.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ls portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{
		ledgerService: ls,
	}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(ledgerService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transactionID", h.getTransaction)
		transactions.PUT("/:transactionID", h.updateTransaction)
		transactions.DELETE("/:transactionID", h.deleteTransaction)
		transactions.POST("/:transactionID/reconcile", h.reconcileTransaction)
	}
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Records a transaction against one of the caller's accounts and applies it to the balance
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Success 202 {object} dto.PartialFailureResponse "Recorded, balance update pending reconciliation"
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to create transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", req.AccountID))
	tx, err := h.ledgerService.CreateTransaction(c.Request.Context(), ownerID, req.ToDraft())
	if err != nil {
		respondError(c, logger, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", tx.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(tx))
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	tx, err := h.ledgerService.GetTransaction(c.Request.Context(), ownerID, transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	if tx == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Transaction not found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(tx))
}

// listTransactions godoc
// @Summary List the caller's transactions
// @Description Newest first. Pass the returned nextToken to fetch the following page.
// @Tags transactions
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	txs, next, err := h.ledgerService.ListByOwner(c.Request.Context(), ownerID,
		domain.PageRequest{Limit: params.Limit, NextToken: params.NextToken})
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txs),
		NextToken:    next,
	})
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Replaces amount, type, currency, description and date. The account cannot change.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "New values"
// @Success 200 {object} dto.TransactionResponse
// @Success 202 {object} dto.PartialFailureResponse "Updated, balance update pending reconciliation"
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent modification"
// @Failure 500 {object} dto.ErrorResponse "Failed to update transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	tx, err := h.ledgerService.UpdateTransaction(c.Request.Context(), ownerID, transactionID, req.ToDraft())
	if err != nil {
		respondError(c, logger, err, "Failed to update transaction")
		return
	}
	if tx == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Transaction not found"})
		return
	}

	logger.Info("Transaction updated successfully", slog.Int64("revision", tx.Revision))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(tx))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Removes the transaction and reverses its balance contribution
// @Tags transactions
// @Param   transactionID path string true "Transaction ID"
// @Success 204 "No Content"
// @Success 202 {object} dto.PartialFailureResponse "Delete pending reconciliation"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent modification"
// @Failure 500 {object} dto.ErrorResponse "Failed to delete transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	deleted, err := h.ledgerService.DeleteTransaction(c.Request.Context(), ownerID, transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to delete transaction")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Transaction not found"})
		return
	}

	logger.Info("Transaction deleted successfully")
	c.Status(http.StatusNoContent)
}

// reconcileTransaction godoc
// @Summary Reconcile a transaction
// @Description Applies the transaction's current revision to the account balance if it is not applied yet. Safe to repeat.
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.ReconcileResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent modification"
// @Failure 500 {object} dto.ErrorResponse "Failed to reconcile transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID}/reconcile [post]
func (h *transactionHandler) reconcileTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	res, err := h.ledgerService.ReconcileTransaction(c.Request.Context(), ownerID, transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile transaction")
		return
	}
	if res == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Transaction not found"})
		return
	}

	logger.Info("Transaction reconciled",
		slog.Bool("applied", res.Applied),
		slog.Bool("removed", res.Removed))
	c.JSON(http.StatusOK, dto.ToReconcileResponse(res))
}
