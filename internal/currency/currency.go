package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Code is an ISO 4217 currency code from the closed set the system accepts.
type Code string

const (
	PLN Code = "PLN"
	EUR Code = "EUR"
	USD Code = "USD"
)

// Base is the currency all monetary totals are normalized to.
const Base = PLN

var ErrUnsupportedCurrency = errors.New("unsupported currency")

var supported = []Code{PLN, EUR, USD}

// Supported returns the accepted currency codes.
func Supported() []Code {
	return supported
}

// Valid reports whether c is exactly one of the supported codes. Codes are
// stored uppercase; lowercase variants are only accepted by Parse.
func (c Code) Valid() bool {
	for _, s := range supported {
		if c == s {
			return true
		}
	}
	return false
}

// Parse matches a raw string against the supported set, case-insensitively.
// The returned code is always uppercase.
func Parse(s string) (Code, error) {
	code := Code(strings.ToUpper(strings.TrimSpace(s)))
	for _, c := range supported {
		if code == c {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
}

// Converter converts amounts to the base currency using a static rate table
// loaded once at startup. It is immutable and safe for concurrent use.
type Converter struct {
	rates map[Code]decimal.Decimal
}

// NewConverter builds a converter from a rate table. The base currency needs
// no entry; its rate is 1 by definition.
func NewConverter(rates map[Code]decimal.Decimal) *Converter {
	copied := make(map[Code]decimal.Decimal, len(rates))
	for code, rate := range rates {
		copied[code] = rate
	}
	return &Converter{rates: copied}
}

// DefaultRates returns the built-in exchange rate table to PLN.
func DefaultRates() map[Code]decimal.Decimal {
	return map[Code]decimal.Decimal{
		EUR: decimal.RequireFromString("4.30"),
		USD: decimal.RequireFromString("4.00"),
	}
}

// ConvertToBase converts an amount in the given currency to the base
// currency. The base currency is returned untouched. No rounding happens
// here; callers round running totals once, when finalizing them for output.
func (c *Converter) ConvertToBase(amount decimal.Decimal, code Code) (decimal.Decimal, error) {
	if code == Base {
		return amount, nil
	}
	rate, ok := c.rates[code]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
	}
	return amount.Mul(rate), nil
}
