package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	// It returns apperrors.ErrNotFound when no such account exists.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccountsByOwner retrieves all accounts belonging to an owner, ordered by name.
	ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error)

	// FindAppliedEntry returns the applied marker for a transaction on an account,
	// or (nil, nil) if the transaction has never been applied.
	FindAppliedEntry(ctx context.Context, accountID, transactionID string) (*domain.AppliedEntry, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountDetails writes name, type and currency, conditioned on expectedVersion.
	// Returns apperrors.ErrVersionConflict if the stored version differs.
	UpdateAccountDetails(ctx context.Context, account domain.Account, expectedVersion int64) error

	// DeleteAccount removes an account, conditioned on expectedVersion.
	DeleteAccount(ctx context.Context, accountID string, expectedVersion int64) error
}

// AccountBalanceWriter defines the version-guarded balance operations.
type AccountBalanceWriter interface {
	// ApplyBalanceChange sets the balance and upserts change.Entry in one atomic step,
	// provided the stored version still equals change.ExpectedVersion.
	// Returns apperrors.ErrVersionConflict on mismatch and apperrors.ErrNotFound
	// if the account no longer exists.
	ApplyBalanceChange(ctx context.Context, change domain.BalanceChange) error

	// ResetBalance replaces the balance and the whole set of applied entries for an
	// account, conditioned on expectedVersion. Used when recomputing a balance
	// from the transaction stream.
	ResetBalance(ctx context.Context, accountID string, expectedVersion int64, balance decimal.Decimal, entries []domain.AppliedEntry, now time.Time) error
}

// AccountRepository combines all account-related repository interfaces
type AccountRepository interface {
	AccountReader
	AccountWriter
	AccountBalanceWriter
}
