package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/apperrors"
	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fintech_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/SscSPs/fintech_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	txRepo portsrepo.TransactionReader
}

// NewReportingService creates a new reporting service
func NewReportingService(txRepo portsrepo.TransactionReader) portssvc.ReportingService {
	return &reportingService{txRepo: txRepo}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// GetTransactionsByType returns the owner's transactions of one type
func (s *reportingService) GetTransactionsByType(ctx context.Context, txType domain.TransactionType, ownerID string) ([]domain.Transaction, error) {
	if !txType.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, txType)
	}
	if ownerID == "" {
		return []domain.Transaction{}, nil
	}

	txs, err := s.txRepo.ListTransactions(ctx, domain.TransactionFilter{OwnerID: ownerID, Type: txType})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve transactions by type",
			slog.String("owner_id", ownerID),
			slog.String("type", string(txType)))
		return nil, apperrors.StoreFailure("list transactions by type", err)
	}
	return nonNil(txs), nil
}

// GetTransactionsByDateRange returns every owner's transactions dated within [start, end]
func (s *reportingService) GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s", apperrors.ErrValidation,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	txs, err := s.txRepo.ListTransactions(ctx, domain.TransactionFilter{From: &start, To: &end})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve transactions by date range",
			slog.String("start", start.Format(time.RFC3339)),
			slog.String("end", end.Format(time.RFC3339)))
		return nil, apperrors.StoreFailure("list transactions by date range", err)
	}

	s.LogInfo(ctx, "Date range report generated successfully",
		slog.String("start", start.Format(time.RFC3339)),
		slog.String("end", end.Format(time.RFC3339)),
		slog.Int("row_count", len(txs)))
	return nonNil(txs), nil
}

// CalculateTotalAmount sums raw amounts as stored
func (s *reportingService) CalculateTotalAmount(txs []domain.Transaction) decimal.Decimal {
	return accounting.SumAmounts(txs)
}

// SummarizeByType totals the owner's transactions per type
func (s *reportingService) SummarizeByType(ctx context.Context, ownerID string) (*domain.TypeSummary, error) {
	summary := domain.TypeSummary{}
	if ownerID == "" {
		return &summary, nil
	}
	txs, err := s.txRepo.ListTransactions(ctx, domain.TransactionFilter{OwnerID: ownerID})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve transactions for summary", slog.String("owner_id", ownerID))
		return nil, apperrors.StoreFailure("list transactions", err)
	}
	summary = accounting.SummarizeByType(txs)
	return &summary, nil
}

func nonNil(txs []domain.Transaction) []domain.Transaction {
	if txs == nil {
		return []domain.Transaction{}
	}
	return txs
}
