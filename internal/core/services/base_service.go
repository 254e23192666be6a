package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/SscSPs/fintech_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Events portssvc.LedgerEventPublisher
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Publish hands an event to the configured publisher. Delivery is best
// effort: failures are logged and never reach the caller.
func (s *BaseService) Publish(ctx context.Context, event domain.LedgerEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.LogError(ctx, err, "Failed to publish ledger event",
			slog.String("event_type", string(event.Type)),
			slog.String("account_id", event.AccountID),
			slog.String("transaction_id", event.TransactionID))
	}
}
