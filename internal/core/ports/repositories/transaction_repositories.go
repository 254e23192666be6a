package repositories

import (
	"context"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by ID, or apperrors.ErrNotFound.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns the transactions matching filter ordered by
	// transaction date descending, then ID descending.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)

	// CountByAccount returns the number of transactions referencing an account.
	CountByAccount(ctx context.Context, accountID string) (int64, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction inserts a new transaction.
	SaveTransaction(ctx context.Context, tx domain.Transaction) error

	// UpdateTransaction overwrites the mutable fields of tx, conditioned on the
	// stored revision equalling expectedRevision. Returns apperrors.ErrVersionConflict
	// on mismatch and apperrors.ErrNotFound if the record is gone.
	UpdateTransaction(ctx context.Context, tx domain.Transaction, expectedRevision int64) error

	// DeleteTransaction removes a transaction record.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepository combines all transaction-related repository interfaces
type TransactionRepository interface {
	TransactionReader
	TransactionWriter
}
