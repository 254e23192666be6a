package mysql

import (
	"testing"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/SscSPs/fintech_ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// dryRunDB renders SQL without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/ledger?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestTransactionFilterScope_DefaultHidesPendingDeletes(t *testing.T) {
	var ms []models.Transaction
	stmt := dryRunDB(t).Scopes(transactionFilterScope(domain.TransactionFilter{})).Find(&ms).Statement

	assert.Contains(t, stmt.SQL.String(), "pending_delete = ?")
	assert.Equal(t, []any{false}, stmt.Vars)
}

func TestTransactionFilterScope_AllFields(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	threshold := decimal.NewFromInt(100)
	cursor := domain.TransactionCursor{TransactionDate: to, TransactionID: "tx-5"}

	var ms []models.Transaction
	stmt := dryRunDB(t).Scopes(transactionFilterScope(domain.TransactionFilter{
		OwnerID:              "owner-1",
		AccountID:            "acc-1",
		Type:                 domain.Income,
		From:                 &from,
		To:                   &to,
		AmountGreaterThan:    &threshold,
		After:                &cursor,
		IncludePendingDelete: true,
	})).Find(&ms).Statement

	sql := stmt.SQL.String()
	assert.NotContains(t, sql, "pending_delete")
	for _, fragment := range []string{
		"owner_id = ?", "account_id = ?", "type = ?",
		"transaction_date >= ?", "transaction_date <= ?", "amount > ?",
		"(transaction_date < ? OR (transaction_date = ? AND transaction_id < ?))",
	} {
		assert.Contains(t, sql, fragment)
	}
	assert.Equal(t, []any{"owner-1", "acc-1", "INCOME", from, to, threshold, to, to, "tx-5"}, stmt.Vars)
}

func TestTransactionSchema_AccountForeignKeyRestrictsDelete(t *testing.T) {
	stmt := &gorm.Statement{DB: dryRunDB(t)}
	require.NoError(t, stmt.Parse(&models.Transaction{}))

	rel, ok := stmt.Schema.Relationships.Relations["Account"]
	require.True(t, ok)
	c := rel.ParseConstraint()
	require.NotNil(t, c)
	assert.Equal(t, "RESTRICT", c.OnDelete)
	assert.Equal(t, "accounts", c.ReferenceSchema.Table)
	require.Len(t, c.ForeignKeys, 1)
	assert.Equal(t, "account_id", c.ForeignKeys[0].DBName)
}
