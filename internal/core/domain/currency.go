package domain

import (
	"strings"

	"github.com/Rhymond/go-money"
)

// Currency is an ISO-4217 currency code such as "USD".
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

// ParseCurrency normalises code and checks it against the known currency table.
func ParseCurrency(code string) (Currency, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" || money.GetCurrency(c) == nil {
		return "", false
	}
	return Currency(c), true
}

// IsValid reports whether c is a known currency code.
func (c Currency) IsValid() bool {
	_, ok := ParseCurrency(string(c))
	return ok
}

// Fraction returns the number of minor-unit digits for the currency (2 for USD).
func (c Currency) Fraction() int {
	cur := money.GetCurrency(string(c))
	if cur == nil {
		return 2
	}
	return cur.Fraction
}
