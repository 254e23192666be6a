package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/fintech_ledger/internal/apperrors"
	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fintech_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// anomalyService implements the AnomalyDetectorSvc interface
type anomalyService struct {
	BaseService
	txRepo portsrepo.TransactionReader
}

// NewAnomalyService creates a new anomaly detector over the transaction store.
func NewAnomalyService(txRepo portsrepo.TransactionReader) portssvc.AnomalyDetectorSvc {
	return &anomalyService{txRepo: txRepo}
}

var _ portssvc.AnomalyDetectorSvc = (*anomalyService)(nil)

// DetectAnomalies waits for DetectAnomaliesAsync so both variants share one code path.
func (s *anomalyService) DetectAnomalies(ctx context.Context, threshold decimal.Decimal) ([]domain.Transaction, error) {
	result := <-s.DetectAnomaliesAsync(ctx, threshold)
	return result.Transactions, result.Err
}

func (s *anomalyService) DetectAnomaliesAsync(ctx context.Context, threshold decimal.Decimal) <-chan domain.AnomalyResult {
	out := make(chan domain.AnomalyResult, 1)
	go func() {
		defer close(out)
		out <- s.scan(ctx, threshold)
	}()
	return out
}

func (s *anomalyService) scan(ctx context.Context, threshold decimal.Decimal) domain.AnomalyResult {
	txs, err := s.txRepo.ListTransactions(ctx, domain.TransactionFilter{AmountGreaterThan: &threshold})
	if err != nil {
		s.LogError(ctx, err, "Anomaly scan failed", slog.String("threshold", threshold.String()))
		return domain.AnomalyResult{Err: apperrors.StoreFailure("scan transactions", err)}
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	s.LogInfo(ctx, "Anomaly scan completed",
		slog.String("threshold", threshold.String()),
		slog.Int("flagged", len(txs)))
	return domain.AnomalyResult{Transactions: txs}
}
