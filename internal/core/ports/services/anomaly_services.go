package services

import (
	"context"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AnomalyDetectorSvc flags transactions whose amount is strictly above a threshold.
// It scans every owner and is meant for privileged callers only.
type AnomalyDetectorSvc interface {
	DetectAnomalies(ctx context.Context, threshold decimal.Decimal) ([]domain.Transaction, error)

	// DetectAnomaliesAsync runs the scan in the background. The channel
	// receives exactly one result and is then closed.
	DetectAnomaliesAsync(ctx context.Context, threshold decimal.Decimal) <-chan domain.AnomalyResult
}
