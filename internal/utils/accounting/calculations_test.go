package accounting

import (
	"testing"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amounts(values ...int64) []domain.Transaction {
	txs := make([]domain.Transaction, len(values))
	for i, v := range values {
		txs[i] = domain.Transaction{Amount: decimal.NewFromInt(v), Type: domain.Income}
	}
	return txs
}

func TestSumAmounts(t *testing.T) {
	assert.Equal(t, "300", SumAmounts(amounts(100, 250, -50)).String())
	assert.True(t, SumAmounts(nil).IsZero())
}

func TestDeriveBalance(t *testing.T) {
	now := time.Now()
	txs := []domain.Transaction{
		{TransactionID: "a", Type: domain.Income, Amount: decimal.NewFromInt(200), Revision: 1},
		{TransactionID: "b", Type: domain.Expense, Amount: decimal.NewFromInt(80), Revision: 2},
		{TransactionID: "c", Type: domain.Transfer, Amount: decimal.NewFromInt(999), Revision: 1},
		{TransactionID: "d", Type: domain.Income, Amount: decimal.NewFromInt(40), Revision: 3, PendingDelete: true},
	}

	balance, entries := DeriveBalance("acc", txs, now)
	assert.Equal(t, "120", balance.String())
	require.Len(t, entries, 4)
	assert.Equal(t, int64(2), entries[1].Revision)
	assert.Equal(t, "-80", entries[1].Contribution.String())
	assert.True(t, entries[3].Contribution.IsZero())
	assert.Equal(t, "acc", entries[0].AccountID)
}

func TestSummarizeByType(t *testing.T) {
	txs := []domain.Transaction{
		{Type: domain.Income, Amount: decimal.NewFromInt(200)},
		{Type: domain.Income, Amount: decimal.NewFromInt(50)},
		{Type: domain.Expense, Amount: decimal.NewFromInt(80)},
		{Type: domain.Transfer, Amount: decimal.NewFromInt(10)},
	}
	s := SummarizeByType(txs)
	assert.Equal(t, "250", s.Income.String())
	assert.Equal(t, "80", s.Expense.String())
	assert.Equal(t, "10", s.Transfer.String())
	assert.Equal(t, "170", s.Net.String())
}
