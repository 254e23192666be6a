package dto

import (
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateRangeParams holds the inclusive bounds of a date-range report.
type DateRangeParams struct {
	Start time.Time `form:"start" time_format:"2006-01-02T15:04:05Z07:00" binding:"required"`
	End   time.Time `form:"end" time_format:"2006-01-02T15:04:05Z07:00" binding:"required"`
}

// AnomalyParams holds the threshold of an anomaly scan.
type AnomalyParams struct {
	Threshold string `form:"threshold" binding:"required"`
}

// TransactionReportResponse is a list of transactions together with their raw total.
type TransactionReportResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
	TotalAmount  decimal.Decimal       `json:"totalAmount"`
}

// NewTransactionReportResponse builds a report response.
func NewTransactionReportResponse(txns []domain.Transaction, total decimal.Decimal) TransactionReportResponse {
	return TransactionReportResponse{
		Transactions: ToTransactionResponses(txns),
		Count:        len(txns),
		TotalAmount:  total,
	}
}

// TypeSummaryResponse is the per-type totals of an owner.
type TypeSummaryResponse struct {
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Transfer decimal.Decimal `json:"transfer"`
	Net      decimal.Decimal `json:"net"`
}

// ToTypeSummaryResponse converts a domain.TypeSummary.
func ToTypeSummaryResponse(s *domain.TypeSummary) TypeSummaryResponse {
	return TypeSummaryResponse{
		Income:   s.Income,
		Expense:  s.Expense,
		Transfer: s.Transfer,
		Net:      s.Net,
	}
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
