package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, EventsNone, cfg.EventsDriver)
	assert.Equal(t, 5, cfg.MaxBalanceRetries)
	assert.Equal(t, 10*time.Millisecond, cfg.RetryBackoff)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "file://migrations", cfg.MigrationsURL)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"STORE_DRIVER":               "Postgres",
		"PGSQL_URL":                  "postgres://localhost/ledger",
		"EVENTS_DRIVER":              "kafka",
		"KAFKA_BROKERS":              "k1:9092, k2:9092,",
		"LEDGER_MAX_BALANCE_RETRIES": 9,
		"LEDGER_RETRY_BACKOFF":       "25ms",
	}))
	require.NoError(t, err)

	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 9, cfg.MaxBalanceRetries)
	assert.Equal(t, 25*time.Millisecond, cfg.RetryBackoff)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := map[string]map[string]any{
		"postgres without url":   {"STORE_DRIVER": StorePostgres},
		"mysql without dsn":      {"STORE_DRIVER": StoreMySQL},
		"unknown store":          {"STORE_DRIVER": "sqlite"},
		"unknown events":         {"EVENTS_DRIVER": "nats"},
		"bad backoff":            {"LEDGER_RETRY_BACKOFF": "soon"},
		"negative retries":       {"LEDGER_MAX_BALANCE_RETRIES": -1},
		"default secret in prod": {"IS_PRODUCTION": true},
	}
	for name, overrides := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := fromViper(newViper(overrides))
			assert.Error(t, err)
		})
	}
}
