package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/apperrors"
	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/SscSPs/fintech_ledger/internal/core/services"
	"github.com/SscSPs/fintech_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	service portssvc.ReportingService
	day     time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.day = time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	seedAccounts(suite.T(), store, ownerA, ownerB)
	repo := memory.NewTransactionRepository(store)

	rows := []struct {
		id, owner string
		typ       domain.TransactionType
		amount    int64
		offset    int
	}{
		{"t1", ownerA, domain.Income, 200, 0},
		{"t2", ownerA, domain.Expense, 50, 1},
		{"t3", ownerA, domain.Expense, 30, 2},
		{"t4", ownerA, domain.Transfer, 70, 3},
		{"t5", ownerB, domain.Expense, 999, 1},
	}
	for _, r := range rows {
		suite.Require().NoError(repo.SaveTransaction(suite.ctx, domain.Transaction{
			TransactionID:   r.id,
			OwnerID:         r.owner,
			AccountID:       "acc-" + r.owner,
			Amount:          decimal.NewFromInt(r.amount),
			Currency:        domain.USD,
			Type:            r.typ,
			TransactionDate: suite.day.AddDate(0, 0, r.offset),
			Revision:        1,
		}))
	}
	suite.service = services.NewReportingService(repo)
}

func (suite *ReportingServiceTestSuite) TestGetTransactionsByType() {
	expenses, err := suite.service.GetTransactionsByType(suite.ctx, domain.Expense, ownerA)
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{"t2", "t3"}, transactionIDs(expenses))

	none, err := suite.service.GetTransactionsByType(suite.ctx, domain.Income, ownerB)
	suite.Require().NoError(err)
	suite.NotNil(none)
	suite.Empty(none)

	_, err = suite.service.GetTransactionsByType(suite.ctx, "REFUND", ownerA)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportingServiceTestSuite) TestGetTransactionsByDateRange_InclusiveAcrossOwners() {
	start := suite.day.AddDate(0, 0, 1)
	end := suite.day.AddDate(0, 0, 2)

	txs, err := suite.service.GetTransactionsByDateRange(suite.ctx, start, end)
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{"t2", "t3", "t5"}, transactionIDs(txs))

	single, err := suite.service.GetTransactionsByDateRange(suite.ctx, suite.day, suite.day)
	suite.Require().NoError(err)
	suite.Equal([]string{"t1"}, transactionIDs(single))
}

func (suite *ReportingServiceTestSuite) TestGetTransactionsByDateRange_StartAfterEnd() {
	txs, err := suite.service.GetTransactionsByDateRange(suite.ctx, suite.day.AddDate(0, 0, 1), suite.day)
	suite.Nil(txs)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportingServiceTestSuite) TestCalculateTotalAmount() {
	txs := []domain.Transaction{
		{Amount: decimal.NewFromInt(100)},
		{Amount: decimal.NewFromInt(250)},
		{Amount: decimal.NewFromInt(-50)},
	}
	suite.Equal("300", suite.service.CalculateTotalAmount(txs).String())
	suite.True(suite.service.CalculateTotalAmount(nil).IsZero())
}

func (suite *ReportingServiceTestSuite) TestSummarizeByType() {
	summary, err := suite.service.SummarizeByType(suite.ctx, ownerA)
	suite.Require().NoError(err)
	suite.Equal("200", summary.Income.String())
	suite.Equal("80", summary.Expense.String())
	suite.Equal("70", summary.Transfer.String())
	suite.Equal("120", summary.Net.String())

	empty, err := suite.service.SummarizeByType(suite.ctx, "nobody")
	suite.Require().NoError(err)
	suite.True(empty.Net.IsZero())
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func transactionIDs(txs []domain.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.TransactionID)
	}
	return out
}
