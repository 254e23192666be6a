package services_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/SscSPs/fintech_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so callers cannot mutate the fixture.
	acc := *args.Get(0).(*domain.Account)
	return &acc, args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAppliedEntry(ctx context.Context, accountID, transactionID string) (*domain.AppliedEntry, error) {
	args := m.Called(ctx, accountID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppliedEntry), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountDetails(ctx context.Context, account domain.Account, expectedVersion int64) error {
	args := m.Called(ctx, account, expectedVersion)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string, expectedVersion int64) error {
	args := m.Called(ctx, accountID, expectedVersion)
	return args.Error(0)
}

func (m *MockAccountRepository) ApplyBalanceChange(ctx context.Context, change domain.BalanceChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *MockAccountRepository) ResetBalance(ctx context.Context, accountID string, expectedVersion int64, balance decimal.Decimal, entries []domain.AppliedEntry, now time.Time) error {
	args := m.Called(ctx, accountID, expectedVersion, balance, entries, now)
	return args.Error(0)
}

// MockTransactionRepository is a mock type for the TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, tx domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, tx domain.Transaction, expectedRevision int64) error {
	args := m.Called(ctx, tx, expectedRevision)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

var errConnectionReset = errors.New("connection reset by peer")

// faultyAccountRepo is the memory repository with switchable balance write failures.
type faultyAccountRepo struct {
	*memory.AccountRepository
	mu          sync.Mutex
	failApplies int
	beforeApply func()
}

func (r *faultyAccountRepo) failNextApplies(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failApplies = n
}

func (r *faultyAccountRepo) ApplyBalanceChange(ctx context.Context, change domain.BalanceChange) error {
	r.mu.Lock()
	hook := r.beforeApply
	fail := r.failApplies > 0
	if fail {
		r.failApplies--
	}
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	if fail {
		return errConnectionReset
	}
	return r.AccountRepository.ApplyBalanceChange(ctx, change)
}

// faultyTransactionRepo is the memory repository with switchable delete failures.
type faultyTransactionRepo struct {
	*memory.TransactionRepository
	mu          sync.Mutex
	failDeletes int
	beforeSave  func()
}

func (r *faultyTransactionRepo) SaveTransaction(ctx context.Context, tx domain.Transaction) error {
	r.mu.Lock()
	hook := r.beforeSave
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return r.TransactionRepository.SaveTransaction(ctx, tx)
}

func (r *faultyTransactionRepo) failNextDeletes(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failDeletes = n
}

func (r *faultyTransactionRepo) DeleteTransaction(ctx context.Context, transactionID string) error {
	r.mu.Lock()
	fail := r.failDeletes > 0
	if fail {
		r.failDeletes--
	}
	r.mu.Unlock()

	if fail {
		return errConnectionReset
	}
	return r.TransactionRepository.DeleteTransaction(ctx, transactionID)
}
