// Package events delivers ledger events to a broker. Delivery is at most
// once; consumers that need exactness reconcile against the store.
package events

import (
	"context"
	"log/slog"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/SscSPs/fintech_ledger/internal/middleware"
)

// LogPublisher writes events to the request logger instead of a broker.
type LogPublisher struct {
	level slog.Level
}

func NewLogPublisher(level slog.Level) *LogPublisher {
	return &LogPublisher{level: level}
}

var _ portssvc.LedgerEventPublisher = (*LogPublisher)(nil)

func (p *LogPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	middleware.GetLoggerFromCtx(ctx).Log(ctx, p.level, "Ledger event",
		slog.String("event_type", string(event.Type)),
		slog.String("account_id", event.AccountID),
		slog.String("transaction_id", event.TransactionID),
		slog.String("delta", event.Delta.String()),
		slog.String("balance", event.Balance.String()),
		slog.Int64("version", event.Version))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
