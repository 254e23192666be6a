package dto

import (
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the payload for recording a transaction.
type CreateTransactionRequest struct {
	AccountID       string                 `json:"accountID" binding:"required"`
	Amount          decimal.Decimal        `json:"amount" binding:"decimal_gte0"`
	Currency        domain.Currency        `json:"currency" binding:"omitempty,currency"`
	Type            domain.TransactionType `json:"type" binding:"required,txtype"`
	Description     *string                `json:"description" binding:"omitempty,max=500"`
	TransactionDate time.Time              `json:"transactionDate" binding:"required"`
}

// ToDraft converts the request into the service-level draft.
func (r CreateTransactionRequest) ToDraft() domain.TransactionDraft {
	return domain.TransactionDraft{
		AccountID:       r.AccountID,
		Amount:          r.Amount,
		Currency:        r.Currency,
		Type:            r.Type,
		Description:     r.Description,
		TransactionDate: r.TransactionDate,
	}
}

// UpdateTransactionRequest carries the replacement values of a transaction.
// AccountID may be omitted; if present it must match the current account.
type UpdateTransactionRequest struct {
	AccountID       string                 `json:"accountID"`
	Amount          decimal.Decimal        `json:"amount" binding:"decimal_gte0"`
	Currency        domain.Currency        `json:"currency" binding:"omitempty,currency"`
	Type            domain.TransactionType `json:"type" binding:"required,txtype"`
	Description     *string                `json:"description" binding:"omitempty,max=500"`
	TransactionDate time.Time              `json:"transactionDate" binding:"required"`
}

// ToDraft converts the request into the service-level draft.
func (r UpdateTransactionRequest) ToDraft() domain.TransactionDraft {
	return domain.TransactionDraft{
		AccountID:       r.AccountID,
		Amount:          r.Amount,
		Currency:        r.Currency,
		Type:            r.Type,
		Description:     r.Description,
		TransactionDate: r.TransactionDate,
		IsUpdate:        true,
	}
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID   string                 `json:"transactionID"`
	AccountID       string                 `json:"accountID"`
	Amount          decimal.Decimal        `json:"amount"`
	Currency        domain.Currency        `json:"currency"`
	Type            domain.TransactionType `json:"type"`
	Description     *string                `json:"description,omitempty"`
	TransactionDate time.Time              `json:"transactionDate"`
	Revision        int64                  `json:"revision"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		AccountID:       txn.AccountID,
		Amount:          txn.Amount,
		Currency:        txn.Currency,
		Type:            txn.Type,
		Description:     txn.Description,
		TransactionDate: txn.TransactionDate,
		Revision:        txn.Revision,
		CreatedAt:       txn.CreatedAt,
		UpdatedAt:       txn.UpdatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// PartialFailureResponse is returned with 202 when a transaction was stored
// but its balance effect still needs reconciliation.
type PartialFailureResponse struct {
	TransactionID         string `json:"transactionID"`
	AccountID             string `json:"accountID"`
	Operation             string `json:"operation"`
	ReconciliationPending bool   `json:"reconciliationPending"`
	Message               string `json:"message"`
}

// ReconcileResponse reports the outcome of a reconcile call.
type ReconcileResponse struct {
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	Applied       bool            `json:"applied"`
	Removed       bool            `json:"removed"`
	Balance       decimal.Decimal `json:"balance"`
	Version       int64           `json:"version"`
}

// ToReconcileResponse converts a domain.ReconcileResult.
func ToReconcileResponse(r *domain.ReconcileResult) ReconcileResponse {
	return ReconcileResponse{
		TransactionID: r.TransactionID,
		AccountID:     r.AccountID,
		Applied:       r.Applied,
		Removed:       r.Removed,
		Balance:       r.Balance,
		Version:       r.Version,
	}
}
