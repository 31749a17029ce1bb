package domain

import "github.com/shopspring/decimal"

const (
	maxMoneyDigits = 9  // amounts stay below 1e9
	maxMoneyScale  = 12 // at most 12 fractional digits
)

// InMoneyRange reports whether d is small enough in magnitude and precision
// for cart arithmetic. Decimals carry an arbitrary exponent, and rounding or
// formatting one like 1e100000000 materializes a 10^N integer.
func InMoneyRange(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	if exp > maxMoneyDigits || exp < -maxMoneyScale {
		return false
	}
	if d.IsZero() {
		return true
	}
	return d.NumDigits()+exp <= maxMoneyDigits
}
