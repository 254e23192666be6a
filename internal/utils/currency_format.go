package utils

import (
	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatWithCurrencyPrecision formats an amount with the correct precision for a given currency
// Example: amount 12.3456 with USD (precision 2) returns "12.35"
// Example: amount 12.3456 with JPY (precision 0) returns "12"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) string {
	return amount.StringFixed(int32(currency.Fraction()))
}

// FitsCurrencyPrecision reports whether amount has no more decimal places
// than the currency's minor unit allows.
func FitsCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) bool {
	return amount.Equal(amount.Truncate(int32(currency.Fraction())))
}
