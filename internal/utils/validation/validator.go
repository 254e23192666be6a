package validation

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator with the ledger's custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		if err := Register(instance); err != nil {
			panic(fmt.Sprintf("validation: registering custom rules: %v", err))
		}
	})
	return instance
}

// Struct validates s with the shared validator.
func Struct(s any) error {
	return Validator().Struct(s)
}

// RegisterWithGin installs the custom rules on gin's binding engine so that
// `binding:"..."` tags on request DTOs can use them.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

// Register adds the decimal type func and the decimal_gte0, currency,
// txtype and accounttype rules to v.
func Register(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})

	rules := map[string]validator.Func{
		"decimal_gte0": isNonNegativeDecimal,
		"currency":     isCurrency,
		"txtype":       isTransactionType,
		"accounttype":  isAccountType,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// decimalValue exposes decimals to the validator as their string form.
func decimalValue(field reflect.Value) any {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		return d.String()
	case decimal.NullDecimal:
		if d.Valid {
			return d.Decimal.String()
		}
	}
	return nil
}

func isNonNegativeDecimal(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

func isCurrency(fl validator.FieldLevel) bool {
	return domain.Currency(fl.Field().String()).IsValid()
}

func isTransactionType(fl validator.FieldLevel) bool {
	return domain.TransactionType(fl.Field().String()).IsValid()
}

func isAccountType(fl validator.FieldLevel) bool {
	return domain.AccountType(fl.Field().String()).IsValid()
}
