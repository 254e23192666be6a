package redisstream

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	added []*redis.XAddArgs
	err   error
}

func (f *fakeStream) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.added = append(f.added, a)
	return redis.NewStringResult("1700000000000-0", f.err)
}

func TestPublisher_AppendsToStream(t *testing.T) {
	fake := &fakeStream{}
	p := &Publisher{client: fake, stream: "ledger:events", maxLen: 1000}

	err := p.Publish(context.Background(), domain.LedgerEvent{
		Type:      domain.EventAccountRecomputed,
		AccountID: "acc-9",
		Balance:   decimal.NewFromInt(42),
	})
	require.NoError(t, err)
	require.Len(t, fake.added, 1)

	args := fake.added[0]
	assert.Equal(t, "ledger:events", args.Stream)
	assert.Equal(t, int64(1000), args.MaxLen)
	assert.True(t, args.Approx)

	values := args.Values.(map[string]any)
	assert.Equal(t, string(domain.EventAccountRecomputed), values["type"])
	assert.Equal(t, "acc-9", values["account_id"])

	var decoded domain.LedgerEvent
	require.NoError(t, json.Unmarshal(values["event"].([]byte), &decoded))
	assert.True(t, decoded.Balance.Equal(decimal.NewFromInt(42)))
}

func TestPublisher_ReportsRedisError(t *testing.T) {
	p := &Publisher{client: &fakeStream{err: errors.New("NOGROUP")}, stream: "s"}
	err := p.Publish(context.Background(), domain.LedgerEvent{})
	assert.ErrorContains(t, err, "NOGROUP")
}
