package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/apperrors"
	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fintech_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// AccountRepository implements portsrepo.AccountRepository in memory.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates an account repository over s.
func NewAccountRepository(s *Store) *AccountRepository {
	return &AccountRepository{store: s}
}

var _ portsrepo.AccountRepository = (*AccountRepository)(nil)

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.accounts[account.AccountID]; exists {
		return apperrors.ErrDuplicate
	}
	r.store.accounts[account.AccountID] = account
	return nil
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	account, ok := r.store.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (r *AccountRepository) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := make([]domain.Account, 0)
	for _, a := range r.store.accounts {
		if a.OwnerID == ownerID {
			accounts = append(accounts, a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Name == accounts[j].Name {
			return accounts[i].AccountID < accounts[j].AccountID
		}
		return accounts[i].Name < accounts[j].Name
	})
	return accounts, nil
}

func (r *AccountRepository) FindAppliedEntry(ctx context.Context, accountID, transactionID string) (*domain.AppliedEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entry, ok := r.store.applied[accountID][transactionID]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (r *AccountRepository) UpdateAccountDetails(ctx context.Context, account domain.Account, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, err := r.lockedVersionCheck(account.AccountID, expectedVersion)
	if err != nil {
		return err
	}
	current.Name = account.Name
	current.AccountType = account.AccountType
	current.Currency = account.Currency
	current.UpdatedAt = account.UpdatedAt
	current.Version = expectedVersion + 1
	r.store.accounts[current.AccountID] = current
	return nil
}

// DeleteAccount refuses while any transaction, pending deletes included,
// still references the account.
func (r *AccountRepository) DeleteAccount(ctx context.Context, accountID string, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, err := r.lockedVersionCheck(accountID, expectedVersion); err != nil {
		return err
	}
	for _, tx := range r.store.transactions {
		if tx.AccountID == accountID {
			return apperrors.ErrAccountInUse
		}
	}
	delete(r.store.accounts, accountID)
	delete(r.store.applied, accountID)
	return nil
}

func (r *AccountRepository) ApplyBalanceChange(ctx context.Context, change domain.BalanceChange) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, err := r.lockedVersionCheck(change.AccountID, change.ExpectedVersion)
	if err != nil {
		return err
	}
	current.Balance = change.NewBalance
	current.Version = change.ExpectedVersion + 1
	current.UpdatedAt = change.UpdatedAt
	r.store.accounts[current.AccountID] = current

	entries, ok := r.store.applied[current.AccountID]
	if !ok {
		entries = make(map[string]domain.AppliedEntry)
		r.store.applied[current.AccountID] = entries
	}
	entries[change.Entry.TransactionID] = change.Entry
	return nil
}

func (r *AccountRepository) ResetBalance(ctx context.Context, accountID string, expectedVersion int64, balance decimal.Decimal, entries []domain.AppliedEntry, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, err := r.lockedVersionCheck(accountID, expectedVersion)
	if err != nil {
		return err
	}
	current.Balance = balance
	current.Version = expectedVersion + 1
	current.UpdatedAt = now
	r.store.accounts[accountID] = current

	fresh := make(map[string]domain.AppliedEntry, len(entries))
	for _, e := range entries {
		fresh[e.TransactionID] = e
	}
	r.store.applied[accountID] = fresh
	return nil
}

// lockedVersionCheck must be called with the write lock held.
func (r *AccountRepository) lockedVersionCheck(accountID string, expectedVersion int64) (domain.Account, error) {
	current, ok := r.store.accounts[accountID]
	if !ok {
		return domain.Account{}, apperrors.ErrNotFound
	}
	if current.Version != expectedVersion {
		return domain.Account{}, apperrors.ErrVersionConflict
	}
	return current, nil
}
