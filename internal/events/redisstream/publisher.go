package redisstream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/redis/go-redis/v9"
)

// streamAdder is the part of the redis client the publisher uses.
type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Publisher appends ledger events to a capped Redis stream.
type Publisher struct {
	client streamAdder
	stream string
	maxLen int64
}

func NewPublisher(client redis.UniversalClient, stream string, maxLen int64) *Publisher {
	return &Publisher{client: client, stream: stream, maxLen: maxLen}
}

var _ portssvc.LedgerEventPublisher = (*Publisher)(nil)

func (p *Publisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: p.maxLen > 0,
		Values: map[string]any{
			"type":       string(event.Type),
			"account_id": event.AccountID,
			"event":      eventJSON,
		},
	}
	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close is a no-op; the client is shared and closed by its owner.
func (p *Publisher) Close() error { return nil }
