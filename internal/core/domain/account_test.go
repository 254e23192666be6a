package domain_test

import (
	"testing"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestAccountType_IsValid(t *testing.T) {
	for _, at := range []domain.AccountType{
		domain.Checking, domain.Savings, domain.Credit, domain.Investment, domain.Loan,
		domain.Business, domain.Joint, domain.Cash, domain.EmergencyFund, domain.Retirement,
	} {
		assert.True(t, at.IsValid(), string(at))
	}
	assert.False(t, domain.AccountType("ASSET").IsValid())
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		in     string
		want   domain.Currency
		wantOK bool
	}{
		{in: "USD", want: domain.USD, wantOK: true},
		{in: " eur ", want: domain.EUR, wantOK: true},
		{in: "gbp", want: domain.GBP, wantOK: true},
		{in: "XXQ", wantOK: false},
		{in: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := domain.ParseCurrency(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrency_Fraction(t *testing.T) {
	assert.Equal(t, 2, domain.USD.Fraction())
	assert.Equal(t, 0, domain.Currency("JPY").Fraction())
}
