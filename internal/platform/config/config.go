package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMySQL    = "mysql"
)

// Event drivers.
const (
	EventsNone  = "none"
	EventsKafka = "kafka"
	EventsRedis = "redis"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	StoreDriver   string
	DatabaseURL   string
	EnableDBCheck bool
	MigrationsURL string
	MySQLDSN      string

	JWTSecret       string
	GoogleClientID  string
	AdminKeyHash    string
	FrontendBaseURL string

	MaxBalanceRetries int
	RetryBackoff      time.Duration

	EventsDriver  string
	KafkaBrokers  []string
	KafkaTopic    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisStream   string

	RateLimit      string
	RateLimitStore string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("MYSQL_DSN", "")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("ADMIN_API_KEY_HASH", "")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("LEDGER_MAX_BALANCE_RETRIES", 5)
	v.SetDefault("LEDGER_RETRY_BACKOFF", "10ms")
	v.SetDefault("EVENTS_DRIVER", EventsNone)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("LEDGER_EVENTS_TOPIC", "ledger-events")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LEDGER_EVENTS_STREAM", "ledger:events")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("RATE_LIMIT_STORE", "memory")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:              v.GetString("PORT"),
		IsProduction:      v.GetBool("IS_PRODUCTION"),
		StoreDriver:       strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseURL:       v.GetString("PGSQL_URL"),
		EnableDBCheck:     v.GetBool("ENABLE_DB_CHECK"),
		MigrationsURL:     v.GetString("MIGRATIONS_PATH"),
		MySQLDSN:          v.GetString("MYSQL_DSN"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		GoogleClientID:    v.GetString("GOOGLE_CLIENT_ID"),
		AdminKeyHash:      v.GetString("ADMIN_API_KEY_HASH"),
		FrontendBaseURL:   v.GetString("FRONTEND_BASE_URL"),
		MaxBalanceRetries: v.GetInt("LEDGER_MAX_BALANCE_RETRIES"),
		EventsDriver:      strings.ToLower(v.GetString("EVENTS_DRIVER")),
		KafkaTopic:        v.GetString("LEDGER_EVENTS_TOPIC"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		RedisStream:       v.GetString("LEDGER_EVENTS_STREAM"),
		RateLimit:         v.GetString("RATE_LIMIT"),
		RateLimitStore:    strings.ToLower(v.GetString("RATE_LIMIT_STORE")),
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	backoffStr := v.GetString("LEDGER_RETRY_BACKOFF")
	backoff, err := time.ParseDuration(backoffStr)
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_RETRY_BACKOFF %q: %w", backoffStr, err)
	}
	cfg.RetryBackoff = backoff
	if cfg.MaxBalanceRetries < 0 {
		return nil, fmt.Errorf("LEDGER_MAX_BALANCE_RETRIES must not be negative, got %d", cfg.MaxBalanceRetries)
	}

	for _, b := range strings.Split(v.GetString("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}

	switch cfg.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_DRIVER=%s", StorePostgres)
		}
	case StoreMySQL:
		if cfg.MySQLDSN == "" {
			return nil, fmt.Errorf("MYSQL_DSN is required when STORE_DRIVER=%s", StoreMySQL)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	switch cfg.EventsDriver {
	case EventsNone, EventsRedis:
	case EventsKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("KAFKA_BROKERS is required when EVENTS_DRIVER=%s", EventsKafka)
		}
	default:
		return nil, fmt.Errorf("unknown EVENTS_DRIVER %q", cfg.EventsDriver)
	}

	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.AdminKeyHash == "" {
		log.Println("Warning: ADMIN_API_KEY_HASH not set. Admin routes are disabled.")
	}

	return cfg, nil
}
