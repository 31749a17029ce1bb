package domain

import "github.com/shopspring/decimal"

const centPlaces = 2

// OrderTotals is derived on demand and never stored.
type OrderTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Tip      decimal.Decimal
	Total    decimal.Decimal
}

func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(centPlaces)
}
