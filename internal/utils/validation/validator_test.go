package validation_test

import (
	"testing"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/SscSPs/fintech_ledger/internal/utils/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validDraft() domain.TransactionDraft {
	return domain.TransactionDraft{
		AccountID:       "acc-1",
		Amount:          decimal.NewFromInt(25),
		Type:            domain.Expense,
		TransactionDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransactionDraft_Valid(t *testing.T) {
	assert.NoError(t, validation.Struct(validDraft()))

	zero := validDraft()
	zero.Amount = decimal.Zero
	assert.NoError(t, validation.Struct(zero), "zero amount is allowed")
}

func TestTransactionDraft_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *domain.TransactionDraft)
	}{
		{name: "negative amount", mutate: func(d *domain.TransactionDraft) { d.Amount = decimal.NewFromInt(-1) }},
		{name: "unknown type", mutate: func(d *domain.TransactionDraft) { d.Type = "REFUND" }},
		{name: "unknown currency", mutate: func(d *domain.TransactionDraft) { d.Currency = "ZZZ" }},
		{name: "missing account", mutate: func(d *domain.TransactionDraft) { d.AccountID = "" }},
		{name: "missing date", mutate: func(d *domain.TransactionDraft) { d.TransactionDate = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			assert.Error(t, validation.Struct(d))
		})
	}
}

func TestTransactionDraft_UpdateMayOmitAccount(t *testing.T) {
	d := validDraft()
	d.AccountID = ""
	d.IsUpdate = true
	assert.NoError(t, validation.Struct(d))
}
