package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/fintech_ledger/internal/apperrors"
	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fintech_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/fintech_ledger/internal/models"
	"gorm.io/gorm"
)

type GormTransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a gorm-backed transaction repository.
func NewTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

var _ portsrepo.TransactionRepository = (*GormTransactionRepository)(nil)

func (r *GormTransactionRepository) SaveTransaction(ctx context.Context, tx domain.Transaction) error {
	m := models.FromDomainTransaction(tx)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, m.AccountID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

func (r *GormTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var m models.Transaction
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	tx := m.ToDomain()
	return &tx, nil
}

func (r *GormTransactionRepository) UpdateTransaction(ctx context.Context, tx domain.Transaction, expectedRevision int64) error {
	m := models.FromDomainTransaction(tx)
	res := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("transaction_id = ? AND revision = ?", m.TransactionID, expectedRevision).
		Updates(map[string]any{
			"amount":           m.Amount,
			"currency":         m.Currency,
			"type":             m.Type,
			"description":      m.Description,
			"transaction_date": m.TransactionDate,
			"revision":         m.Revision,
			"pending_delete":   m.PendingDelete,
			"updated_at":       m.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, res.Error)
	}
	if res.RowsAffected == 0 {
		return missingOrConflict(r.db.WithContext(ctx), &models.Transaction{}, "transaction_id = ?", m.TransactionID)
	}
	return nil
}

func (r *GormTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	res := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).Delete(&models.Transaction{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListTransactions returns matches newest first, keyset-paginated by (date, id).
func (r *GormTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	var ms []models.Transaction
	q := r.db.WithContext(ctx).Scopes(transactionFilterScope(filter)).
		Order("transaction_date DESC, transaction_id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	return models.ToDomainTransactions(ms), nil
}

func (r *GormTransactionRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("account_id = ?", accountID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions of account %s: %w", accountID, err)
	}
	return n, nil
}

func transactionFilterScope(f domain.TransactionFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !f.IncludePendingDelete {
			db = db.Where("pending_delete = ?", false)
		}
		if f.OwnerID != "" {
			db = db.Where("owner_id = ?", f.OwnerID)
		}
		if f.AccountID != "" {
			db = db.Where("account_id = ?", f.AccountID)
		}
		if f.Type != "" {
			db = db.Where("type = ?", string(f.Type))
		}
		if f.From != nil {
			db = db.Where("transaction_date >= ?", *f.From)
		}
		if f.To != nil {
			db = db.Where("transaction_date <= ?", *f.To)
		}
		if f.AmountGreaterThan != nil {
			db = db.Where("amount > ?", *f.AmountGreaterThan)
		}
		if f.After != nil {
			db = db.Where("(transaction_date < ? OR (transaction_date = ? AND transaction_id < ?))",
				f.After.TransactionDate, f.After.TransactionDate, f.After.TransactionID)
		}
		return db
	}
}
