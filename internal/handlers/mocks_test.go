package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/SscSPs/fintech_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, ownerID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) AccountExists(ctx context.Context, ownerID, accountID string) (bool, error) {
	args := m.Called(ctx, ownerID, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, ownerID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, ownerID, accountID string) (bool, error) {
	args := m.Called(ctx, ownerID, accountID)
	return args.Bool(0), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateTransaction(ctx context.Context, ownerID string, draft domain.TransactionDraft) (*domain.Transaction, error) {
	args := m.Called(ctx, ownerID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) UpdateTransaction(ctx context.Context, ownerID, transactionID string, values domain.TransactionDraft) (*domain.Transaction, error) {
	args := m.Called(ctx, ownerID, transactionID, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) DeleteTransaction(ctx context.Context, ownerID, transactionID string) (bool, error) {
	args := m.Called(ctx, ownerID, transactionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerService) GetTransaction(ctx context.Context, ownerID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, ownerID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) ListByOwner(ctx context.Context, ownerID string, page domain.PageRequest) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, ownerID, page)
	return txsArg(args, 0), strPtrArg(args, 1), args.Error(2)
}

func (m *MockLedgerService) ListByAccount(ctx context.Context, ownerID, accountID string, page domain.PageRequest) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, ownerID, accountID, page)
	return txsArg(args, 0), strPtrArg(args, 1), args.Error(2)
}

func (m *MockLedgerService) ReconcileTransaction(ctx context.Context, ownerID, transactionID string) (*domain.ReconcileResult, error) {
	args := m.Called(ctx, ownerID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconcileResult), args.Error(1)
}

func (m *MockLedgerService) ReconcileAccount(ctx context.Context, ownerID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GetTransactionsByType(ctx context.Context, txType domain.TransactionType, ownerID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, txType, ownerID)
	return txsArg(args, 0), args.Error(1)
}

func (m *MockReportingService) GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, start, end)
	return txsArg(args, 0), args.Error(1)
}

func (m *MockReportingService) CalculateTotalAmount(txs []domain.Transaction) decimal.Decimal {
	args := m.Called(txs)
	return args.Get(0).(decimal.Decimal)
}

func (m *MockReportingService) SummarizeByType(ctx context.Context, ownerID string) (*domain.TypeSummary, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TypeSummary), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock AnomalyService ---
type MockAnomalyService struct {
	mock.Mock
}

func (m *MockAnomalyService) DetectAnomalies(ctx context.Context, threshold decimal.Decimal) ([]domain.Transaction, error) {
	args := m.Called(ctx, threshold)
	return txsArg(args, 0), args.Error(1)
}

func (m *MockAnomalyService) DetectAnomaliesAsync(ctx context.Context, threshold decimal.Decimal) <-chan domain.AnomalyResult {
	args := m.Called(ctx, threshold)
	return args.Get(0).(<-chan domain.AnomalyResult)
}

var _ portssvc.AnomalyDetectorSvc = (*MockAnomalyService)(nil)

func txsArg(args mock.Arguments, i int) []domain.Transaction {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).([]domain.Transaction)
}

func strPtrArg(args mock.Arguments, i int) *string {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*string)
}
