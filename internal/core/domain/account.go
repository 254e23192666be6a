package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies an account from the owner's point of view.
type AccountType string

const (
	Checking      AccountType = "CHECKING"
	Savings       AccountType = "SAVINGS"
	Credit        AccountType = "CREDIT"
	Investment    AccountType = "INVESTMENT"
	Loan          AccountType = "LOAN"
	Business      AccountType = "BUSINESS"
	Joint         AccountType = "JOINT"
	Cash          AccountType = "CASH"
	EmergencyFund AccountType = "EMERGENCY_FUND"
	Retirement    AccountType = "RETIREMENT"
)

var accountTypes = map[AccountType]struct{}{
	Checking: {}, Savings: {}, Credit: {}, Investment: {}, Loan: {},
	Business: {}, Joint: {}, Cash: {}, EmergencyFund: {}, Retirement: {},
}

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	_, ok := accountTypes[t]
	return ok
}

// Account is an owner's account together with its cached balance.
//
// Balance always equals the sum of the contributions of the account's current
// transactions. It is only ever written through a version-conditioned update.
type Account struct {
	AccountID   string          `json:"accountID"`
	OwnerID     string          `json:"ownerID"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    Currency        `json:"currency"`
	Version     int64           `json:"version"`
	Timestamps
}

// OwnedBy reports whether the account belongs to ownerID.
func (a *Account) OwnedBy(ownerID string) bool {
	return a != nil && ownerID != "" && a.OwnerID == ownerID
}
