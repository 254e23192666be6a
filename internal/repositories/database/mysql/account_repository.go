package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/apperrors"
	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fintech_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/fintech_ledger/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormAccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a gorm-backed account repository.
func NewAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

var _ portsrepo.AccountRepository = (*GormAccountRepository)(nil)

func (r *GormAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := models.FromDomainAccount(account)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

func (r *GormAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var m models.Account
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	acc := m.ToDomain()
	return &acc, nil
}

func (r *GormAccountRepository) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	var ms []models.Account
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("name, account_id").Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for owner %s: %w", ownerID, err)
	}
	accounts := make([]domain.Account, len(ms))
	for i, m := range ms {
		accounts[i] = m.ToDomain()
	}
	return accounts, nil
}

// FindAppliedEntry returns (nil, nil) when the account has never applied the transaction.
func (r *GormAccountRepository) FindAppliedEntry(ctx context.Context, accountID, transactionID string) (*domain.AppliedEntry, error) {
	var m models.AppliedEntry
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND transaction_id = ?", accountID, transactionID).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find applied entry %s/%s: %w", accountID, transactionID, err)
	}
	entry := m.ToDomain()
	return &entry, nil
}

func (r *GormAccountRepository) UpdateAccountDetails(ctx context.Context, account domain.Account, expectedVersion int64) error {
	res := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("account_id = ? AND version = ?", account.AccountID, expectedVersion).
		Updates(map[string]any{
			"name":         account.Name,
			"account_type": string(account.AccountType),
			"updated_at":   account.UpdatedAt,
			"version":      gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, res.Error)
	}
	if res.RowsAffected == 0 {
		return missingOrConflict(r.db.WithContext(ctx), &models.Account{}, "account_id = ?", account.AccountID)
	}
	return nil
}

// DeleteAccount removes the account and its applied entries together. The
// transactions foreign key rejects the delete while any row references it.
func (r *GormAccountRepository) DeleteAccount(ctx context.Context, accountID string, expectedVersion int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", accountID).Delete(&models.AppliedEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete applied entries of account %s: %w", accountID, err)
		}
		res := tx.Where("account_id = ? AND version = ?", accountID, expectedVersion).Delete(&models.Account{})
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return apperrors.ErrAccountInUse
		}
		if res.Error != nil {
			return fmt.Errorf("failed to delete account %s: %w", accountID, res.Error)
		}
		if res.RowsAffected == 0 {
			return missingOrConflict(tx, &models.Account{}, "account_id = ?", accountID)
		}
		return nil
	})
}

// ApplyBalanceChange sets the balance and upserts the applied entry in one
// transaction, guarded by the expected version.
func (r *GormAccountRepository) ApplyBalanceChange(ctx context.Context, change domain.BalanceChange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := guardedBalanceWrite(tx, change.AccountID, change.ExpectedVersion, change.NewBalance, change.UpdatedAt); err != nil {
			return err
		}
		entry := models.FromDomainEntry(change.Entry)
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to upsert applied entry for transaction %s: %w", entry.TransactionID, err)
		}
		return nil
	})
}

func (r *GormAccountRepository) ResetBalance(ctx context.Context, accountID string, expectedVersion int64, balance decimal.Decimal, entries []domain.AppliedEntry, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := guardedBalanceWrite(tx, accountID, expectedVersion, balance, now); err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", accountID).Delete(&models.AppliedEntry{}).Error; err != nil {
			return fmt.Errorf("failed to clear applied entries of account %s: %w", accountID, err)
		}
		if len(entries) == 0 {
			return nil
		}
		rows := make([]models.AppliedEntry, len(entries))
		for i, e := range entries {
			rows[i] = models.FromDomainEntry(e)
		}
		if err := tx.CreateInBatches(rows, 200).Error; err != nil {
			return fmt.Errorf("failed to rebuild applied entries of account %s: %w", accountID, err)
		}
		return nil
	})
}

func guardedBalanceWrite(tx *gorm.DB, accountID string, expectedVersion int64, balance decimal.Decimal, now time.Time) error {
	res := tx.Model(&models.Account{}).
		Where("account_id = ? AND version = ?", accountID, expectedVersion).
		Updates(map[string]any{
			"balance":    balance,
			"updated_at": now,
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, res.Error)
	}
	if res.RowsAffected == 0 {
		return missingOrConflict(tx, &models.Account{}, "account_id = ?", accountID)
	}
	return nil
}

// missingOrConflict explains a guarded write that touched no rows.
func missingOrConflict(db *gorm.DB, model any, cond string, id string) error {
	var n int64
	if err := db.Model(model).Where(cond, id).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check existence of %s: %w", id, err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrVersionConflict
}
