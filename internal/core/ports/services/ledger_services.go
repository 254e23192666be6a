package services

import (
	"context"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
)

// LedgerWriterSvc mutates transactions and keeps account balances in step.
//
// Every successful call leaves the affected balance equal to the sum of the
// account's transaction contributions. When the transaction record was
// written but the balance step could not be confirmed, the error is an
// *apperrors.PartialFailureError and the transaction can be reconciled later.
type LedgerWriterSvc interface {
	CreateTransaction(ctx context.Context, ownerID string, draft domain.TransactionDraft) (*domain.Transaction, error)

	// UpdateTransaction returns (nil, nil) when the transaction does not exist
	// or belongs to another owner. Moving a transaction to another account is
	// rejected with apperrors.ErrValidation.
	UpdateTransaction(ctx context.Context, ownerID, transactionID string, values domain.TransactionDraft) (*domain.Transaction, error)

	// DeleteTransaction returns false when there was nothing the owner could delete.
	DeleteTransaction(ctx context.Context, ownerID, transactionID string) (bool, error)
}

// LedgerReaderSvc lists and fetches an owner's transactions.
type LedgerReaderSvc interface {
	// GetTransaction returns (nil, nil) when not found or not owned.
	GetTransaction(ctx context.Context, ownerID, transactionID string) (*domain.Transaction, error)

	// ListByOwner pages through the owner's transactions, newest first.
	ListByOwner(ctx context.Context, ownerID string, page domain.PageRequest) ([]domain.Transaction, *string, error)

	// ListByAccount pages through one of the owner's accounts, newest first.
	// An account the owner does not hold yields an empty page.
	ListByAccount(ctx context.Context, ownerID, accountID string, page domain.PageRequest) ([]domain.Transaction, *string, error)
}

// LedgerReconcilerSvc repairs balances after partial failures.
type LedgerReconcilerSvc interface {
	// ReconcileTransaction brings the account balance in line with the
	// transaction's current revision, or finishes a pending delete.
	// It is idempotent. Returns (nil, nil) when not found or not owned.
	ReconcileTransaction(ctx context.Context, ownerID, transactionID string) (*domain.ReconcileResult, error)

	// ReconcileAccount recomputes the balance from the account's transactions.
	ReconcileAccount(ctx context.Context, ownerID, accountID string) (*domain.Account, error)
}

// LedgerSvcFacade combines all ledger operations.
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
	LedgerReconcilerSvc
}

// LedgerEventPublisher delivers ledger events to downstream consumers.
type LedgerEventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
	Close() error
}
