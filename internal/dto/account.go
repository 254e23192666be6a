package dto

import (
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name        string             `json:"name" binding:"required,max=100"`
	AccountType domain.AccountType `json:"accountType" binding:"required,accounttype"`
	Currency    domain.Currency    `json:"currency" binding:"required,currency"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string             `json:"name" binding:"omitempty,max=100"`
	AccountType *domain.AccountType `json:"accountType" binding:"omitempty,accounttype"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID   string             `json:"accountID"`
	Name        string             `json:"name"`
	AccountType domain.AccountType `json:"accountType"`
	Balance     decimal.Decimal    `json:"balance"`
	Currency    domain.Currency    `json:"currency"`
	Version     int64              `json:"version"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   acc.AccountID,
		Name:        acc.Name,
		AccountType: acc.AccountType,
		Balance:     acc.Balance,
		Currency:    acc.Currency,
		Version:     acc.Version,
		CreatedAt:   acc.CreatedAt,
		UpdatedAt:   acc.UpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
