package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppliedEntry records which revision of a transaction an account's balance
// currently reflects, and with which signed contribution. Stores write it
// atomically with the balance so re-applying the same revision is a no-op.
type AppliedEntry struct {
	AccountID     string          `json:"accountID"`
	TransactionID string          `json:"transactionID"`
	Revision      int64           `json:"revision"`
	Contribution  decimal.Decimal `json:"contribution"`
	AppliedAt     time.Time       `json:"appliedAt"`
}

// BalanceChange is a compare-and-swap request against an account balance.
// The write succeeds only while the stored version equals ExpectedVersion.
// On success the version becomes ExpectedVersion+1 and Entry is upserted.
type BalanceChange struct {
	AccountID       string
	ExpectedVersion int64
	NewBalance      decimal.Decimal
	Entry           AppliedEntry
	UpdatedAt       time.Time
}

// TransactionCursor is the keyset position used for pagination. Listings
// are ordered by TransactionDate descending, then TransactionID descending.
type TransactionCursor struct {
	TransactionDate time.Time
	TransactionID   string
}

// Before reports whether t sorts strictly after the cursor position.
func (c TransactionCursor) Before(t Transaction) bool {
	if t.TransactionDate.Equal(c.TransactionDate) {
		return t.TransactionID < c.TransactionID
	}
	return t.TransactionDate.Before(c.TransactionDate)
}

// TransactionFilter selects transactions. Zero-valued fields do not filter.
type TransactionFilter struct {
	OwnerID   string
	AccountID string
	Type      TransactionType
	// From and To bound TransactionDate inclusively.
	From *time.Time
	To   *time.Time
	// AmountGreaterThan keeps only amounts strictly above the value.
	AmountGreaterThan *decimal.Decimal
	Limit             int
	After             *TransactionCursor
	// IncludePendingDelete also returns records claimed by an unfinished delete.
	IncludePendingDelete bool
}

// ReconcileResult describes the outcome of reconciling one transaction.
type ReconcileResult struct {
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	Applied       bool            `json:"applied"`
	Removed       bool            `json:"removed"`
	Balance       decimal.Decimal `json:"balance"`
	Version       int64           `json:"version"`
}

// AnomalyResult is delivered by the non-blocking anomaly scan.
type AnomalyResult struct {
	Transactions []Transaction
	Err          error
}

// TypeSummary aggregates an owner's transactions per type.
type TypeSummary struct {
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Transfer decimal.Decimal `json:"transfer"`
	Net      decimal.Decimal `json:"net"`
}

// LedgerEventType names a ledger event.
type LedgerEventType string

const (
	EventTransactionCreated    LedgerEventType = "transaction.created"
	EventTransactionUpdated    LedgerEventType = "transaction.updated"
	EventTransactionDeleted    LedgerEventType = "transaction.deleted"
	EventTransactionReconciled LedgerEventType = "transaction.reconciled"
	EventAccountRecomputed     LedgerEventType = "account.recomputed"
)

// LedgerEvent is published after a balance change has been applied.
type LedgerEvent struct {
	Type          LedgerEventType `json:"type"`
	OwnerID       string          `json:"ownerID"`
	AccountID     string          `json:"accountID"`
	TransactionID string          `json:"transactionID,omitempty"`
	Delta         decimal.Decimal `json:"delta"`
	Balance       decimal.Decimal `json:"balance"`
	Version       int64           `json:"version"`
	OccurredAt    time.Time       `json:"occurredAt"`
}
