package events

import (
	"fmt"
	"log/slog"

	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/SscSPs/fintech_ledger/internal/events/kafka"
	"github.com/SscSPs/fintech_ledger/internal/events/redisstream"
	"github.com/SscSPs/fintech_ledger/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// StreamMaxLen caps the Redis stream; older entries are trimmed approximately.
const StreamMaxLen = 100_000

// NewPublisher selects the publisher named by cfg.EventsDriver. The redis
// driver needs rdb; the others ignore it.
func NewPublisher(cfg *config.Config, rdb redis.UniversalClient) (portssvc.LedgerEventPublisher, error) {
	switch cfg.EventsDriver {
	case config.EventsKafka:
		return kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case config.EventsRedis:
		if rdb == nil {
			return nil, fmt.Errorf("events driver %q needs a redis client", cfg.EventsDriver)
		}
		return redisstream.NewPublisher(rdb, cfg.RedisStream, StreamMaxLen), nil
	case config.EventsNone, "":
		return NewLogPublisher(slog.LevelDebug), nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.EventsDriver)
	}
}
