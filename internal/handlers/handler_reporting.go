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

// reportingHandler handles HTTP requests for per-owner reports.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/by-type/:type", h.getTransactionsByType)
		reportingGroup.GET("/summary", h.getSummary)
	}
}

// getTransactionsByType godoc
// @Summary Transactions of one type
// @Description Lists the caller's transactions of the given type with their raw total
// @Tags reports
// @Produce json
// @Param type path string true "Transaction type" Enums(INCOME, EXPENSE, TRANSFER)
// @Success 200 {object} dto.TransactionReportResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown type"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/by-type/{type} [get]
func (h *reportingHandler) getTransactionsByType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	txType := domain.TransactionType(c.Param("type"))

	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("type", string(txType)))
	txs, err := h.reportingService.GetTransactionsByType(c.Request.Context(), txType, ownerID)
	if err != nil {
		respondError(c, logger, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, dto.NewTransactionReportResponse(txs, h.reportingService.CalculateTotalAmount(txs)))
}

// getSummary godoc
// @Summary Totals per transaction type
// @Tags reports
// @Produce json
// @Success 200 {object} dto.TypeSummaryResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, ok := requireOwner(c, logger)
	if !ok {
		return
	}

	summary, err := h.reportingService.SummarizeByType(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, logger, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, dto.ToTypeSummaryResponse(summary))
}
