package services

import (
	"context"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingService defines read-only aggregate views over transactions.
type ReportingService interface {
	// GetTransactionsByType returns the owner's transactions of one type, newest first.
	GetTransactionsByType(ctx context.Context, txType domain.TransactionType, ownerID string) ([]domain.Transaction, error)

	// GetTransactionsByDateRange returns all owners' transactions dated within
	// [start, end], newest first. start after end is a validation error.
	GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error)

	// CalculateTotalAmount sums raw amounts without applying any sign.
	CalculateTotalAmount(txs []domain.Transaction) decimal.Decimal

	// SummarizeByType totals the owner's transactions per type.
	SummarizeByType(ctx context.Context, ownerID string) (*domain.TypeSummary, error)
}
