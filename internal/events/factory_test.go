package events_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/SscSPs/fintech_ledger/internal/events"
	"github.com/SscSPs/fintech_ledger/internal/events/kafka"
	"github.com/SscSPs/fintech_ledger/internal/events/redisstream"
	"github.com/SscSPs/fintech_ledger/internal/platform/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_SelectsDriver(t *testing.T) {
	p, err := events.NewPublisher(&config.Config{EventsDriver: config.EventsNone}, nil)
	require.NoError(t, err)
	assert.IsType(t, &events.LogPublisher{}, p)

	p, err = events.NewPublisher(&config.Config{EventsDriver: config.EventsKafka, KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "t"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &kafka.Publisher{}, p)
	require.NoError(t, p.Close())

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()
	p, err = events.NewPublisher(&config.Config{EventsDriver: config.EventsRedis, RedisStream: "s"}, rdb)
	require.NoError(t, err)
	assert.IsType(t, &redisstream.Publisher{}, p)
}

func TestNewPublisher_Errors(t *testing.T) {
	_, err := events.NewPublisher(&config.Config{EventsDriver: config.EventsRedis}, nil)
	assert.Error(t, err)

	_, err = events.NewPublisher(&config.Config{EventsDriver: "carrier-pigeon"}, nil)
	assert.ErrorContains(t, err, "unknown events driver")
}

func TestLogPublisher_NeverFails(t *testing.T) {
	p := events.NewLogPublisher(slog.LevelInfo)
	assert.NoError(t, p.Publish(context.Background(), domain.LedgerEvent{Type: domain.EventTransactionDeleted}))
	assert.NoError(t, p.Close())
}
