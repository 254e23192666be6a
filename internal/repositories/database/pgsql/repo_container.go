package pgsql

import (
	portsrepo "github.com/SscSPs/fintech_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgx repositories over one pool. Close
// releases the pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     NewAccountRepository(dbPool),
		TransactionRepo: NewTransactionRepository(dbPool),
		Close: func() error {
			dbPool.Close()
			return nil
		},
	}
}
