package services

import (
	"context"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/SscSPs/fintech_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data.
// Accounts owned by someone else are reported exactly like missing ones.
type AccountReaderSvc interface {
	// GetAccount returns the owner's account, or (nil, nil) if it does not exist.
	GetAccount(ctx context.Context, ownerID, accountID string) (*domain.Account, error)

	// ListAccounts returns all accounts of the owner ordered by name.
	ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error)

	// AccountExists reports whether the owner has an account with this ID.
	AccountExists(ctx context.Context, ownerID, accountID string) (bool, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account with a zero balance.
	CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount changes an account's name or type. Returns (nil, nil) if not found.
	UpdateAccount(ctx context.Context, ownerID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeleteAccount removes an account that no transaction references.
	DeleteAccount(ctx context.Context, ownerID, accountID string) (bool, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
