// Package storage opens the repository provider selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/fintech_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/fintech_ledger/internal/platform/config"
	"github.com/SscSPs/fintech_ledger/internal/repositories/database/mysql"
	"github.com/SscSPs/fintech_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/fintech_ledger/internal/repositories/memory"
	"github.com/SscSPs/fintech_ledger/pkg/database"
	pkgmysql "github.com/SscSPs/fintech_ledger/pkg/mysql"
)

// Open connects the configured store, applies its schema and returns the
// repositories. The caller owns the provider and must call Close.
func Open(ctx context.Context, cfg *config.Config) (portsrepo.RepositoryProvider, error) {
	logger := slog.Default().With(slog.String("store", cfg.StoreDriver))

	switch cfg.StoreDriver {
	case config.StoreMemory, "":
		logger.Warn("Using in-memory store; data is lost on restart")
		return memory.NewRepositoryProvider(), nil

	case config.StorePostgres:
		if cfg.MigrationsURL != "" {
			logger.Info("Running database migrations...", slog.String("source", cfg.MigrationsURL))
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsURL); err != nil {
				return portsrepo.RepositoryProvider{}, err
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(pool), nil

	case config.StoreMySQL:
		client, err := pkgmysql.NewClient(ctx, pkgmysql.DefaultConfig(cfg.MySQLDSN))
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		if err := mysql.Migrate(client); err != nil {
			_ = client.Close()
			return portsrepo.RepositoryProvider{}, err
		}
		logger.Info("MySQL connection established.")
		return mysql.NewRepositoryProvider(client), nil

	default:
		return portsrepo.RepositoryProvider{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
