package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/apperrors"
	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/SscSPs/fintech_ledger/internal/core/services"
	"github.com/SscSPs/fintech_ledger/internal/dto"
	"github.com/SscSPs/fintech_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	ledger  portssvc.LedgerSvcFacade
	service portssvc.AccountSvcFacade
	now     time.Time
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.now = time.Date(2024, 2, 2, 9, 0, 0, 0, time.UTC)
	accounts := memory.NewAccountRepository(suite.store)
	txs := memory.NewTransactionRepository(suite.store)
	suite.service = services.NewAccountService(accounts, txs,
		services.WithAccountClock(func() time.Time { return suite.now }))
	suite.ledger = services.NewLedgerService(accounts, txs, services.WithBalanceRetries(5, 0))
}

func (suite *AccountServiceTestSuite) create(owner, name string) *domain.Account {
	acc, err := suite.service.CreateAccount(suite.ctx, owner, dto.CreateAccountRequest{
		Name: name, AccountType: domain.Savings, Currency: domain.EUR,
	})
	suite.Require().NoError(err)
	return acc
}

func (suite *AccountServiceTestSuite) TestCreateAccount() {
	acc := suite.create(ownerA, "  Holiday fund ")

	suite.NotEmpty(acc.AccountID)
	suite.Equal("Holiday fund", acc.Name)
	suite.Equal(ownerA, acc.OwnerID)
	suite.Equal(domain.EUR, acc.Currency)
	suite.True(acc.Balance.IsZero())
	suite.Equal(int64(1), acc.Version)
	suite.Equal(suite.now, acc.CreatedAt)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Validation() {
	cases := map[string]dto.CreateAccountRequest{
		"blank name":   {Name: "  ", AccountType: domain.Cash, Currency: domain.USD},
		"bad type":     {Name: "x", AccountType: "ASSET", Currency: domain.USD},
		"bad currency": {Name: "x", AccountType: domain.Cash, Currency: "DOGE"},
	}
	for name, req := range cases {
		suite.Run(name, func() {
			acc, err := suite.service.CreateAccount(suite.ctx, ownerA, req)
			suite.Nil(acc)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (suite *AccountServiceTestSuite) TestGetAndList_AreOwnerScoped() {
	mine := suite.create(ownerA, "mine")
	suite.create(ownerB, "theirs")

	got, err := suite.service.GetAccount(suite.ctx, ownerA, mine.AccountID)
	suite.Require().NoError(err)
	suite.Equal("mine", got.Name)

	hidden, err := suite.service.GetAccount(suite.ctx, ownerB, mine.AccountID)
	suite.NoError(err)
	suite.Nil(hidden)

	exists, err := suite.service.AccountExists(suite.ctx, ownerB, mine.AccountID)
	suite.NoError(err)
	suite.False(exists)

	list, err := suite.service.ListAccounts(suite.ctx, ownerA)
	suite.Require().NoError(err)
	suite.Len(list, 1)

	empty, err := suite.service.ListAccounts(suite.ctx, "nobody")
	suite.NoError(err)
	suite.NotNil(empty)
	suite.Empty(empty)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_KeepsBalance() {
	acc := suite.create(ownerA, "before")
	_, err := suite.ledger.CreateTransaction(suite.ctx, ownerA, domain.TransactionDraft{
		AccountID: acc.AccountID, Amount: decimal.NewFromInt(30), Type: domain.Income, TransactionDate: suite.now,
	})
	suite.Require().NoError(err)

	name := "after"
	typ := domain.Investment
	updated, err := suite.service.UpdateAccount(suite.ctx, ownerA, acc.AccountID, dto.UpdateAccountRequest{Name: &name, AccountType: &typ})
	suite.Require().NoError(err)
	suite.Equal("after", updated.Name)
	suite.Equal(domain.Investment, updated.AccountType)
	suite.Equal("30", updated.Balance.String())
	suite.Equal(int64(3), updated.Version)

	other, err := suite.service.UpdateAccount(suite.ctx, ownerB, acc.AccountID, dto.UpdateAccountRequest{Name: &name})
	suite.NoError(err)
	suite.Nil(other)

	blank := " "
	_, err = suite.service.UpdateAccount(suite.ctx, ownerA, acc.AccountID, dto.UpdateAccountRequest{Name: &blank})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_InUse() {
	acc := suite.create(ownerA, "busy")
	tx, err := suite.ledger.CreateTransaction(suite.ctx, ownerA, domain.TransactionDraft{
		AccountID: acc.AccountID, Amount: decimal.NewFromInt(5), Type: domain.Expense, TransactionDate: suite.now,
	})
	suite.Require().NoError(err)

	deleted, err := suite.service.DeleteAccount(suite.ctx, ownerA, acc.AccountID)
	suite.False(deleted)
	suite.ErrorIs(err, apperrors.ErrAccountInUse)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.ledger.DeleteTransaction(suite.ctx, ownerA, tx.TransactionID)
	suite.Require().NoError(err)

	foreign, err := suite.service.DeleteAccount(suite.ctx, ownerB, acc.AccountID)
	suite.NoError(err)
	suite.False(foreign)

	deleted, err = suite.service.DeleteAccount(suite.ctx, ownerA, acc.AccountID)
	suite.Require().NoError(err)
	suite.True(deleted)

	gone, err := suite.service.GetAccount(suite.ctx, ownerA, acc.AccountID)
	suite.NoError(err)
	suite.Nil(gone)
}

// staleCount hides transactions from the pre-delete count.
type staleCount struct {
	*memory.TransactionRepository
}

func (staleCount) CountByAccount(context.Context, string) (int64, error) { return 0, nil }

func (suite *AccountServiceTestSuite) TestDeleteAccount_StoreRefusesWhenCountIsStale() {
	acc := suite.create(ownerA, "busy")
	_, err := suite.ledger.CreateTransaction(suite.ctx, ownerA, domain.TransactionDraft{
		AccountID: acc.AccountID, Amount: decimal.NewFromInt(5), Type: domain.Income, TransactionDate: suite.now,
	})
	suite.Require().NoError(err)

	svc := services.NewAccountService(memory.NewAccountRepository(suite.store),
		staleCount{memory.NewTransactionRepository(suite.store)})
	deleted, err := svc.DeleteAccount(suite.ctx, ownerA, acc.AccountID)
	suite.False(deleted)
	suite.ErrorIs(err, apperrors.ErrAccountInUse)
	suite.NotErrorIs(err, apperrors.ErrStore)

	still, err := suite.service.GetAccount(suite.ctx, ownerA, acc.AccountID)
	suite.Require().NoError(err)
	suite.NotNil(still)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func TestAccountService_UpdateRetriesOnVersionConflict(t *testing.T) {
	ctx := context.Background()
	accountRepo := new(MockAccountRepository)
	txRepo := new(MockTransactionRepository)
	svc := services.NewAccountService(accountRepo, txRepo, services.WithAccountRetries(1))

	stored := &domain.Account{AccountID: "acc-1", OwnerID: ownerA, Name: "old", AccountType: domain.Cash, Version: 7}
	accountRepo.On("FindAccountByID", ctx, "acc-1").Return(stored, nil)
	accountRepo.On("UpdateAccountDetails", ctx, mock.AnythingOfType("domain.Account"), int64(7)).
		Return(apperrors.ErrVersionConflict).Once()
	accountRepo.On("UpdateAccountDetails", ctx, mock.AnythingOfType("domain.Account"), int64(7)).
		Return(nil).Once()

	name := "new"
	updated, err := svc.UpdateAccount(ctx, ownerA, "acc-1", dto.UpdateAccountRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Name)
	assert.Equal(t, int64(8), updated.Version)
	accountRepo.AssertExpectations(t)
}

func TestAccountService_UpdateConflictExhausted(t *testing.T) {
	ctx := context.Background()
	accountRepo := new(MockAccountRepository)
	svc := services.NewAccountService(accountRepo, new(MockTransactionRepository), services.WithAccountRetries(2))

	accountRepo.On("FindAccountByID", ctx, "acc-1").
		Return(&domain.Account{AccountID: "acc-1", OwnerID: ownerA, Name: "n", AccountType: domain.Cash, Version: 1}, nil)
	accountRepo.On("UpdateAccountDetails", ctx, mock.Anything, int64(1)).Return(apperrors.ErrVersionConflict).Times(3)

	name := "x"
	updated, err := svc.UpdateAccount(ctx, ownerA, "acc-1", dto.UpdateAccountRequest{Name: &name})
	assert.Nil(t, updated)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	accountRepo.AssertExpectations(t)
}

func TestAccountService_CreateStoreError(t *testing.T) {
	ctx := context.Background()
	accountRepo := new(MockAccountRepository)
	svc := services.NewAccountService(accountRepo, new(MockTransactionRepository))
	accountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(errConnectionReset).Once()

	acc, err := svc.CreateAccount(ctx, ownerA, dto.CreateAccountRequest{Name: "n", AccountType: domain.Cash, Currency: domain.USD})
	assert.Nil(t, acc)
	assert.ErrorIs(t, err, apperrors.ErrStore)
	assert.ErrorIs(t, err, errConnectionReset)
}
