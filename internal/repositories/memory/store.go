// Package memory holds mutex-guarded in-process implementations of the
// repository ports. Values are copied on the way in and out so callers never
// share state with the store.
package memory

import (
	"sync"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fintech_ledger/internal/core/ports/repositories"
)

// Store is the shared state behind the memory repositories.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	applied      map[string]map[string]domain.AppliedEntry // account -> transaction -> entry
	transactions map[string]domain.Transaction
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		applied:      make(map[string]map[string]domain.AppliedEntry),
		transactions: make(map[string]domain.Transaction),
	}
}

// NewRepositoryProvider wires both memory repositories over one fresh store.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	s := NewStore()
	return portsrepo.RepositoryProvider{
		AccountRepo:     NewAccountRepository(s),
		TransactionRepo: NewTransactionRepository(s),
		Close:           func() error { return nil },
	}
}

func copyTransaction(t domain.Transaction) domain.Transaction {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return t
}
