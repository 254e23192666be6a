package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/fintech_ledger/internal/apperrors"
	"github.com/SscSPs/fintech_ledger/internal/dto"
	"github.com/SscSPs/fintech_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// toAppError maps a service error onto the status and message sent to clients.
// Store and unexpected errors never leak their cause.
func toAppError(err error, fallback string) *apperrors.AppError {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, apperrors.ErrValidation):
		return apperrors.NewAppError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.NewAppError(http.StatusNotFound, "Resource not found", err)
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return apperrors.NewAppError(http.StatusConflict, "Concurrent modification, please retry", err)
	default:
		return apperrors.NewAppError(http.StatusInternalServerError, fallback, err)
	}
}

// respondError writes the error reply for err. A partial failure is reported
// with 202: the transaction exists and only its balance effect is pending.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	if pf, ok := apperrors.AsPartialFailure(err); ok {
		logger.Error("Transaction stored but balance reconciliation is pending",
			slog.String("operation", pf.Op),
			slog.String("transaction_id", pf.TransactionID),
			slog.String("account_id", pf.AccountID),
			slog.String("error", err.Error()))
		c.JSON(http.StatusAccepted, dto.PartialFailureResponse{
			TransactionID:         pf.TransactionID,
			AccountID:             pf.AccountID,
			Operation:             pf.Op,
			ReconciliationPending: true,
			Message:               "Transaction recorded; balance update pending reconciliation",
		})
		return
	}

	appErr := toAppError(err, fallback)
	if appErr.Code >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
	} else {
		logger.Warn(appErr.Message, slog.String("error", err.Error()))
	}
	c.JSON(appErr.Code, dto.ErrorResponse{Error: appErr.Message})
}

// requireOwner reads the authenticated owner or aborts with 401.
func requireOwner(c *gin.Context, logger *slog.Logger) (string, bool) {
	ownerID, ok := middleware.GetOwnerIDFromContext(c)
	if !ok {
		logger.Error("Owner ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return ownerID, true
}
