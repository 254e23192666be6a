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

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, ls portssvc.LedgerSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
		ledgerService:  ls,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newAccountHandler(accountService, ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PUT("/:accountID", h.updateAccount)
		accounts.DELETE("/:accountID", h.deleteAccount)
		accounts.GET("/:accountID/transactions", h.listTransactionsByAccount)
		accounts.POST("/:accountID/reconcile", h.reconcileAccount)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a new account with a zero balance for the caller
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create account", slog.String("account_name", req.Name), slog.String("currency", string(req.Currency)))
	account, err := h.accountService.CreateAccount(c.Request.Context(), ownerID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	account, err := h.accountService.GetAccount(c.Request.Context(), ownerID, accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	if account == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Account not found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List the caller's accounts
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}

	logger.Info("Accounts listed successfully", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// updateAccount godoc
// @Summary Update an account
// @Description Renames an account or changes its type. The balance is left untouched.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID to update"
// @Param   account body dto.UpdateAccountRequest true "Account details to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent modification"
// @Failure 500 {object} dto.ErrorResponse "Failed to update account"
// @Security BearerAuth
// @Router /accounts/{accountID} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	account, err := h.accountService.UpdateAccount(c.Request.Context(), ownerID, accountID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update account")
		return
	}
	if account == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Account not found"})
		return
	}

	logger.Info("Account updated successfully")
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes an account that no transaction references
// @Tags accounts
// @Param   accountID path string true "Account ID to delete"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Account still has transactions"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to delete account"
// @Security BearerAuth
// @Router /accounts/{accountID} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	deleted, err := h.accountService.DeleteAccount(c.Request.Context(), ownerID, accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to delete account")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Account not found"})
		return
	}

	logger.Info("Account deleted successfully")
	c.Status(http.StatusNoContent)
}

// listTransactionsByAccount godoc
// @Summary List transactions of an account
// @Description Newest first. An account the caller does not own yields an empty page.
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list transactions"
// @Security BearerAuth
// @Router /accounts/{accountID}/transactions [get]
func (h *accountHandler) listTransactionsByAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactionsByAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	txs, next, err := h.ledgerService.ListByAccount(c.Request.Context(), ownerID, accountID,
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

// reconcileAccount godoc
// @Summary Recompute an account balance
// @Description Rebuilds the balance from the account's transactions
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent modification"
// @Failure 500 {object} dto.ErrorResponse "Failed to reconcile account"
// @Security BearerAuth
// @Router /accounts/{accountID}/reconcile [post]
func (h *accountHandler) reconcileAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	reconcileAccountFor(c, h.ledgerService, logger, ownerID, accountID)
}

// reconcileAccountFor is shared by the owner route and the admin route.
func reconcileAccountFor(c *gin.Context, ledgerService portssvc.LedgerReconcilerSvc, logger *slog.Logger, ownerID, accountID string) {
	logger = logger.With(slog.String("account_id", accountID))
	account, err := ledgerService.ReconcileAccount(c.Request.Context(), ownerID, accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile account")
		return
	}
	if account == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Account not found"})
		return
	}

	logger.Info("Account reconciled", slog.String("balance", account.Balance.String()))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
