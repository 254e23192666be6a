package mysql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Client wraps the gorm DB handle.
type Client struct {
	db *gorm.DB
}

// NewClient connects to MySQL, retrying while the server comes up.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	gormConfig := &gorm.Config{
		// Writes that need atomicity open their own transaction.
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 newLogger(cfg.LogLevel),
	}

	attempts := max(cfg.ConnectAttempts, 1)
	var db *gorm.DB
	var err error
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
		if err == nil {
			rawDB, dbErr := db.DB()
			if dbErr == nil {
				if err = rawDB.PingContext(ctx); err == nil {
					break
				}
			} else {
				err = dbErr
			}
		}

		if i < attempts-1 {
			slog.Warn("Failed to connect to MySQL, retrying",
				slog.Int("attempt", i+1),
				slog.Int("max_attempts", attempts),
				slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(cfg.RetryInterval):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql after %d attempts: %w", attempts, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.db: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Client{db: db}, nil
}

// DB returns the gorm handle.
func (c *Client) DB() *gorm.DB {
	return c.db
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newLogger(level string) logger.Interface {
	var logLevel logger.LogLevel
	switch level {
	case "info":
		logLevel = logger.Info
	case "warn":
		logLevel = logger.Warn
	case "silent":
		logLevel = logger.Silent
	default:
		logLevel = logger.Error
	}
	return logger.Default.LogMode(logLevel)
}
