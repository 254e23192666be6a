package models

import (
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Account is the persisted row of an account. The db tags drive the pgx
// repositories and the gorm tags the MySQL ones.
type Account struct {
	AccountID   string          `db:"account_id" gorm:"column:account_id;primaryKey;size:36"`
	OwnerID     string          `db:"owner_id" gorm:"column:owner_id;size:128;not null;index:idx_accounts_owner"`
	Name        string          `db:"name" gorm:"column:name;size:100;not null"`
	AccountType string          `db:"account_type" gorm:"column:account_type;size:32;not null"`
	Currency    string          `db:"currency" gorm:"column:currency;size:3;not null"`
	Balance     decimal.Decimal `db:"balance" gorm:"column:balance;type:decimal(24,8);not null"`
	Version     int64           `db:"version" gorm:"column:version;not null"`
	CreatedAt   time.Time       `db:"created_at" gorm:"column:created_at;not null"`
	UpdatedAt   time.Time       `db:"updated_at" gorm:"column:updated_at;not null"`
}

// TableName pins the gorm table name.
func (Account) TableName() string { return "accounts" }

// AppliedEntry is the persisted marker of the revision an account balance reflects.
type AppliedEntry struct {
	AccountID     string          `db:"account_id" gorm:"column:account_id;primaryKey;size:36"`
	TransactionID string          `db:"transaction_id" gorm:"column:transaction_id;primaryKey;size:36"`
	Revision      int64           `db:"revision" gorm:"column:revision;not null"`
	Contribution  decimal.Decimal `db:"contribution" gorm:"column:contribution;type:decimal(24,8);not null"`
	AppliedAt     time.Time       `db:"applied_at" gorm:"column:applied_at;not null"`
}

func (AppliedEntry) TableName() string { return "account_applied_transactions" }

func FromDomainAccount(d domain.Account) Account {
	return Account{
		AccountID:   d.AccountID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		AccountType: string(d.AccountType),
		Currency:    string(d.Currency),
		Balance:     d.Balance,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (m Account) ToDomain() domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		Currency:    domain.Currency(m.Currency),
		Balance:     m.Balance,
		Version:     m.Version,
		Timestamps:  domain.Timestamps{CreatedAt: m.CreatedAt.UTC(), UpdatedAt: m.UpdatedAt.UTC()},
	}
}

func FromDomainEntry(d domain.AppliedEntry) AppliedEntry {
	return AppliedEntry(d)
}

func (m AppliedEntry) ToDomain() domain.AppliedEntry {
	e := domain.AppliedEntry(m)
	e.AppliedAt = e.AppliedAt.UTC()
	return e
}
