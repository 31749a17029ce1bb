package service

import (
	"github.com/shopspring/decimal"

	"github.com/rl1809/restaurant-cart/internal/core/domain"
)

// DefaultTaxRate applies when no rate is configured.
var DefaultTaxRate = decimal.RequireFromString("0.08")

// CalculateTotals derives subtotal, tax, tip and total from a cart snapshot.
// It is pure and cheap; callers recompute on every cart or tip change.
func CalculateTotals(cart domain.Cart, tip domain.TipSelection, taxRate decimal.Decimal) domain.OrderTotals {
	subtotal := cart.TotalValue()
	tax := domain.RoundCents(subtotal.Mul(taxRate))

	var tipAmount decimal.Decimal
	switch tip.Mode {
	case domain.TipModeCustom:
		tipAmount = domain.ParseTipAmount(tip.CustomInput)
	case domain.TipModePercent:
		tipAmount = subtotal.Mul(tip.Percent)
	default:
		tipAmount = decimal.Zero
	}
	if tipAmount.IsNegative() {
		tipAmount = decimal.Zero
	}
	tipAmount = domain.RoundCents(tipAmount)

	return domain.OrderTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Tip:      tipAmount,
		Total:    subtotal.Add(tax).Add(tipAmount),
	}
}
