package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/fintech_ledger/internal/apperrors"
	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fintech_ledger/internal/core/ports/repositories"
)

// TransactionRepository implements portsrepo.TransactionRepository in memory.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a transaction repository over s.
func NewTransactionRepository(s *Store) *TransactionRepository {
	return &TransactionRepository{store: s}
}

var _ portsrepo.TransactionRepository = (*TransactionRepository)(nil)

func (r *TransactionRepository) SaveTransaction(ctx context.Context, tx domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.transactions[tx.TransactionID]; exists {
		return apperrors.ErrDuplicate
	}
	if _, ok := r.store.accounts[tx.AccountID]; !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, tx.AccountID)
	}
	r.store.transactions[tx.TransactionID] = copyTransaction(tx)
	return nil
}

func (r *TransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tx, ok := r.store.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	tx = copyTransaction(tx)
	return &tx, nil
}

func (r *TransactionRepository) UpdateTransaction(ctx context.Context, tx domain.Transaction, expectedRevision int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.transactions[tx.TransactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if current.Revision != expectedRevision {
		return apperrors.ErrVersionConflict
	}
	tx.OwnerID = current.OwnerID
	tx.AccountID = current.AccountID
	tx.CreatedAt = current.CreatedAt
	r.store.transactions[tx.TransactionID] = copyTransaction(tx)
	return nil
}

func (r *TransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.transactions[transactionID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.store.transactions, transactionID)
	return nil
}

func (r *TransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	matched := make([]domain.Transaction, 0)
	for _, tx := range r.store.transactions {
		if matches(filter, tx) {
			matched = append(matched, copyTransaction(tx))
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.TransactionDate.Equal(b.TransactionDate) {
			return a.TransactionID > b.TransactionID
		}
		return a.TransactionDate.After(b.TransactionDate)
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *TransactionRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var n int64
	for _, tx := range r.store.transactions {
		if tx.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func matches(f domain.TransactionFilter, tx domain.Transaction) bool {
	switch {
	case tx.PendingDelete && !f.IncludePendingDelete:
		return false
	case f.OwnerID != "" && tx.OwnerID != f.OwnerID:
		return false
	case f.AccountID != "" && tx.AccountID != f.AccountID:
		return false
	case f.Type != "" && tx.Type != f.Type:
		return false
	case f.From != nil && tx.TransactionDate.Before(*f.From):
		return false
	case f.To != nil && tx.TransactionDate.After(*f.To):
		return false
	case f.AmountGreaterThan != nil && !tx.Amount.GreaterThan(*f.AmountGreaterThan):
		return false
	case f.After != nil && !f.After.Before(tx):
		return false
	}
	return true
}
