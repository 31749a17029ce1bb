package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rl1809/restaurant-cart/internal/core/domain"
)

// Checkout holds the tip selection of one checkout view. Totals are derived
// from a fresh read of the cart on every call and never cached.
type Checkout struct {
	store      *CartStore
	taxRate    decimal.Decimal
	defaultTip domain.TipSelection

	mu  sync.Mutex
	tip domain.TipSelection
}

func NewCheckout(store *CartStore, taxRate decimal.Decimal, tip domain.TipSelection) *Checkout {
	return &Checkout{
		store:      store,
		taxRate:    taxRate,
		defaultTip: tip,
		tip:        tip,
	}
}

func (c *Checkout) Cart() *CartStore { return c.store }

// SelectTipPercent switches to a preset; the tip is derived from the current
// subtotal, never from a previous custom amount.
func (c *Checkout) SelectTipPercent(ctx context.Context, p decimal.Decimal) domain.OrderTotals {
	tip := domain.PercentTip(p)
	c.setTip(tip)
	return c.TotalsWith(ctx, tip)
}

func (c *Checkout) SetCustomTip(ctx context.Context, raw string) domain.OrderTotals {
	tip := domain.CustomTip(raw)
	c.setTip(tip)
	return c.TotalsWith(ctx, tip)
}

// ResetTip restores the selection the checkout started with.
func (c *Checkout) ResetTip() {
	c.setTip(c.defaultTip)
}

func (c *Checkout) Tip() domain.TipSelection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tip
}

func (c *Checkout) Totals(ctx context.Context) domain.OrderTotals {
	return c.TotalsWith(ctx, c.Tip())
}

// TotalsWith quotes the cart with tip without changing the selection.
func (c *Checkout) TotalsWith(ctx context.Context, tip domain.TipSelection) domain.OrderTotals {
	return CalculateTotals(c.store.GetCart(ctx), tip, c.taxRate)
}

func (c *Checkout) setTip(tip domain.TipSelection) {
	c.mu.Lock()
	c.tip = tip
	c.mu.Unlock()
}
