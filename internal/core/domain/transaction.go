package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType encodes the direction of a transaction. Amounts are always
// non-negative; the type decides the sign of the balance effect.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
	// Transfer is accepted and stored but has no effect on the balance.
	Transfer TransactionType = "TRANSFER"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

// SignedAmount returns the signed contribution of amount under type t:
// +amount for Income, -amount for Expense and zero for Transfer.
// An unknown type is a programming error and panics.
func SignedAmount(t TransactionType, amount decimal.Decimal) decimal.Decimal {
	switch t {
	case Income:
		return amount
	case Expense:
		return amount.Neg()
	case Transfer:
		return decimal.Zero
	default:
		panic(fmt.Sprintf("domain: unknown transaction type %q", t))
	}
}

// Transaction is a single economic event recorded against one account.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	OwnerID         string          `json:"ownerID"`
	AccountID       string          `json:"accountID"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        Currency        `json:"currency"`
	Type            TransactionType `json:"type"`
	Description     *string         `json:"description,omitempty"`
	TransactionDate time.Time       `json:"transactionDate"`
	// Revision increases by one on every update. It guards concurrent
	// updates of the same record and keys balance application.
	Revision int64 `json:"revision"`
	// PendingDelete marks a record whose delete has claimed it but not yet
	// finished. Such records are invisible to owners and contribute nothing.
	PendingDelete bool `json:"-"`
	Timestamps
}

// Delta is the transaction's signed contribution to its account balance.
func (t Transaction) Delta() decimal.Decimal {
	return SignedAmount(t.Type, t.Amount)
}

// Contribution is what the record currently adds to its account balance:
// its Delta, or zero once a delete has claimed it.
func (t Transaction) Contribution() decimal.Decimal {
	if t.PendingDelete {
		return decimal.Zero
	}
	return t.Delta()
}

// OwnedBy reports whether the transaction belongs to ownerID.
func (t *Transaction) OwnedBy(ownerID string) bool {
	return t != nil && ownerID != "" && t.OwnerID == ownerID
}

// TransactionDraft carries caller-supplied values for creating or updating a
// transaction. On update AccountID must be empty or equal the existing one.
type TransactionDraft struct {
	AccountID       string          `validate:"required_without=IsUpdate"`
	Amount          decimal.Decimal `validate:"decimal_gte0"`
	Currency        Currency        `validate:"omitempty,currency"`
	Type            TransactionType `validate:"required,txtype"`
	Description     *string         `validate:"omitempty,max=500"`
	TransactionDate time.Time       `validate:"required"`
	IsUpdate        bool            `validate:"-"`
}
