package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/SscSPs/fintech_ledger/internal/dto"
	"github.com/SscSPs/fintech_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// adminHandler serves operator routes that read across all owners.
type adminHandler struct {
	anomalyService   portssvc.AnomalyDetectorSvc
	reportingService portssvc.ReportingService
	ledgerService    portssvc.LedgerReconcilerSvc
}

func newAdminHandler(as portssvc.AnomalyDetectorSvc, rs portssvc.ReportingService, ls portssvc.LedgerReconcilerSvc) *adminHandler {
	return &adminHandler{
		anomalyService:   as,
		reportingService: rs,
		ledgerService:    ls,
	}
}

// registerAdminRoutes registers the cross-tenant routes. The group must be
// guarded by middleware.AdminKeyMiddleware.
func registerAdminRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newAdminHandler(services.Anomaly, services.Reporting, services.Ledger)

	rg.GET("/anomalies", h.detectAnomalies)
	rg.GET("/reports/by-date-range", h.getTransactionsByDateRange)
	rg.POST("/accounts/:accountID/reconcile", h.reconcileAccount)
}

// detectAnomalies godoc
// @Summary Flag large transactions
// @Description Lists every owner's transactions whose amount is strictly greater than the threshold
// @Tags admin
// @Produce json
// @Param threshold query string true "Decimal threshold"
// @Success 200 {object} dto.TransactionReportResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid threshold"
// @Failure 401 {object} dto.ErrorResponse "Admin key missing"
// @Failure 403 {object} dto.ErrorResponse "Admin key rejected"
// @Failure 500 {object} dto.ErrorResponse "Failed to scan transactions"
// @Security AdminKey
// @Router /admin/anomalies [get]
func (h *adminHandler) detectAnomalies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.AnomalyParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	threshold, err := decimal.NewFromString(strings.TrimSpace(params.Threshold))
	if err != nil {
		logger.Warn("Invalid anomaly threshold", slog.String("threshold", params.Threshold))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "threshold must be a decimal number"})
		return
	}

	logger = logger.With(slog.String("threshold", threshold.String()))
	select {
	case res := <-h.anomalyService.DetectAnomaliesAsync(c.Request.Context(), threshold):
		if res.Err != nil {
			respondError(c, logger, res.Err, "Failed to scan transactions")
			return
		}
		c.JSON(http.StatusOK, dto.NewTransactionReportResponse(res.Transactions, h.reportingService.CalculateTotalAmount(res.Transactions)))
	case <-c.Request.Context().Done():
		logger.Warn("Client went away during anomaly scan")
		c.AbortWithStatus(http.StatusServiceUnavailable)
	}
}

// getTransactionsByDateRange godoc
// @Summary Transactions within a date range
// @Description Lists every owner's transactions dated within [start, end], both inclusive
// @Tags admin
// @Produce json
// @Param start query string true "RFC 3339 start"
// @Param end query string true "RFC 3339 end"
// @Success 200 {object} dto.TransactionReportResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid range"
// @Failure 401 {object} dto.ErrorResponse "Admin key missing"
// @Failure 403 {object} dto.ErrorResponse "Admin key rejected"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security AdminKey
// @Router /admin/reports/by-date-range [get]
func (h *adminHandler) getTransactionsByDateRange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind date range", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	txs, err := h.reportingService.GetTransactionsByDateRange(c.Request.Context(), params.Start, params.End)
	if err != nil {
		respondError(c, logger, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, dto.NewTransactionReportResponse(txs, h.reportingService.CalculateTotalAmount(txs)))
}

// reconcileAccount godoc
// @Summary Recompute any owner's account balance
// @Tags admin
// @Produce json
// @Param accountID path string true "Account ID"
// @Param ownerID query string true "Owner of the account"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "ownerID missing"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent modification"
// @Failure 500 {object} dto.ErrorResponse "Failed to reconcile account"
// @Security AdminKey
// @Router /admin/accounts/{accountID}/reconcile [post]
func (h *adminHandler) reconcileAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Query("ownerID")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "ownerID query parameter required"})
		return
	}
	reconcileAccountFor(c, h.ledgerService, logger.With(slog.String("owner_id", ownerID)), ownerID, c.Param("accountID"))
}
