package utils

import (
	"testing"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatWithCurrencyPrecision(t *testing.T) {
	amount := decimal.RequireFromString("12.3456")
	assert.Equal(t, "12.35", FormatWithCurrencyPrecision(amount, domain.USD))
	assert.Equal(t, "12", FormatWithCurrencyPrecision(amount, domain.Currency("JPY")))
	assert.Equal(t, "5.00", FormatWithCurrencyPrecision(decimal.NewFromInt(5), domain.EUR))
}

func TestFitsCurrencyPrecision(t *testing.T) {
	assert.True(t, FitsCurrencyPrecision(decimal.RequireFromString("10.25"), domain.USD))
	assert.True(t, FitsCurrencyPrecision(decimal.RequireFromString("10.50"), domain.USD))
	assert.False(t, FitsCurrencyPrecision(decimal.RequireFromString("10.255"), domain.USD))
	assert.False(t, FitsCurrencyPrecision(decimal.RequireFromString("1.5"), domain.Currency("JPY")))
}
