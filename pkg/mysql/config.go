package mysql

import (
	"fmt"
	"time"
)

// Config defines the MySQL connection and pool settings.
type Config struct {
	// DSN, when set, is used verbatim and the discrete fields are ignored.
	RawDSN string

	Host     string
	Port     int
	User     string
	Password string
	DBName   string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// ConnectAttempts bounds the startup retry loop; RetryInterval separates attempts.
	ConnectAttempts int
	RetryInterval   time.Duration

	// LogLevel is the gorm log level: "silent", "error", "warn" or "info".
	LogLevel string
}

// DefaultConfig returns pool settings suitable for a single service instance.
func DefaultConfig(dsn string) Config {
	return Config{
		RawDSN:          dsn,
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnectAttempts: 10,
		RetryInterval:   2 * time.Second,
		LogLevel:        "error",
	}
}

// DSN builds the data source name. Times are read and written as UTC.
func (c *Config) DSN() string {
	if c.RawDSN != "" {
		return c.RawDSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
	)
}
