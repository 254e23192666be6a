package models

import (
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Transaction is the persisted row of a ledger transaction.
type Transaction struct {
	TransactionID   string          `db:"transaction_id" gorm:"column:transaction_id;primaryKey;size:36"`
	OwnerID         string          `db:"owner_id" gorm:"column:owner_id;size:128;not null;index:idx_transactions_owner_date,priority:1"`
	AccountID       string          `db:"account_id" gorm:"column:account_id;size:36;not null;index:idx_transactions_account_date,priority:1"`
	Amount          decimal.Decimal `db:"amount" gorm:"column:amount;type:decimal(24,8);not null"`
	Currency        string          `db:"currency" gorm:"column:currency;size:3;not null"`
	Type            string          `db:"type" gorm:"column:type;size:16;not null"`
	Description     *string         `db:"description" gorm:"column:description;size:500"`
	TransactionDate time.Time       `db:"transaction_date" gorm:"column:transaction_date;type:datetime(6);not null;index:idx_transactions_owner_date,priority:2;index:idx_transactions_account_date,priority:2"`
	Revision        int64           `db:"revision" gorm:"column:revision;not null"`
	PendingDelete   bool            `db:"pending_delete" gorm:"column:pending_delete;not null;default:false"`
	CreatedAt       time.Time       `db:"created_at" gorm:"column:created_at;not null"`
	UpdatedAt       time.Time       `db:"updated_at" gorm:"column:updated_at;not null"`

	// Account only carries the foreign key for gorm migrations.
	Account *Account `db:"-" gorm:"foreignKey:AccountID;references:AccountID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

func (Transaction) TableName() string { return "transactions" }

func FromDomainTransaction(d domain.Transaction) Transaction {
	return Transaction{
		TransactionID:   d.TransactionID,
		OwnerID:         d.OwnerID,
		AccountID:       d.AccountID,
		Amount:          d.Amount,
		Currency:        string(d.Currency),
		Type:            string(d.Type),
		Description:     d.Description,
		TransactionDate: d.TransactionDate,
		Revision:        d.Revision,
		PendingDelete:   d.PendingDelete,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (m Transaction) ToDomain() domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		OwnerID:         m.OwnerID,
		AccountID:       m.AccountID,
		Amount:          m.Amount,
		Currency:        domain.Currency(m.Currency),
		Type:            domain.TransactionType(m.Type),
		Description:     m.Description,
		TransactionDate: m.TransactionDate.UTC(),
		Revision:        m.Revision,
		PendingDelete:   m.PendingDelete,
		Timestamps:      domain.Timestamps{CreatedAt: m.CreatedAt.UTC(), UpdatedAt: m.UpdatedAt.UTC()},
	}
}

// ToDomainTransactions converts a slice of rows, never returning nil.
func ToDomainTransactions(ms []Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		out[i] = m.ToDomain()
	}
	return out
}
