package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/restaurant-cart/internal/core/domain"
)

func TestCheckout_TipModeSwitch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMockStorage())
	require.NoError(t, store.AddItem(ctx, domain.MenuItem{ID: "feast", Name: "Feast", Price: decimal.NewFromInt(100)}, "", ""))

	checkout := NewCheckout(store, DefaultTaxRate, domain.PercentTip(decimal.RequireFromString("0.15")))

	totals := checkout.SelectTipPercent(ctx, decimal.RequireFromString("0.20"))
	assertMoney(t, "8.00", totals.Tax)
	assertMoney(t, "20.00", totals.Tip)
	assertMoney(t, "128.00", totals.Total)

	totals = checkout.SetCustomTip(ctx, "7.50")
	assertMoney(t, "100.00", totals.Subtotal)
	assertMoney(t, "8.00", totals.Tax)
	assertMoney(t, "7.50", totals.Tip)
	assertMoney(t, "115.50", totals.Total)

	totals = checkout.SelectTipPercent(ctx, decimal.RequireFromString("0.20"))
	assertMoney(t, "20.00", totals.Tip)
	assertMoney(t, "128.00", totals.Total)
}

func TestCheckout_RecomputesOnCartChange(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMockStorage())
	item := domain.MenuItem{ID: "feast", Name: "Feast", Price: decimal.NewFromInt(50)}
	require.NoError(t, store.AddItem(ctx, item, "", ""))

	checkout := NewCheckout(store, DefaultTaxRate, domain.PercentTip(decimal.RequireFromString("0.10")))
	assertMoney(t, "5.00", checkout.Totals(ctx).Tip)

	require.NoError(t, store.AddItem(ctx, item, "", ""))
	totals := checkout.Totals(ctx)
	assertMoney(t, "100.00", totals.Subtotal)
	assertMoney(t, "10.00", totals.Tip)
	assertMoney(t, "118.00", totals.Total)

	// a custom tip does not follow the subtotal
	checkout.SetCustomTip(ctx, "3")
	require.NoError(t, store.SetQuantity(ctx, domain.NewItemKey("feast", "", ""), 1))
	totals = checkout.Totals(ctx)
	assertMoney(t, "50.00", totals.Subtotal)
	assertMoney(t, "3.00", totals.Tip)

	require.NoError(t, store.Clear(ctx))
	assertMoney(t, "0.00", checkout.Totals(ctx).Subtotal)
}

func TestCheckout_SeesWritesFromAnotherStore(t *testing.T) {
	ctx := context.Background()
	storage := newMockStorage()
	store := newTestStore(t, storage)
	require.NoError(t, store.AddItem(ctx, domain.MenuItem{ID: "feast", Name: "Feast", Price: decimal.NewFromInt(100)}, "", ""))

	checkout := NewCheckout(store, DefaultTaxRate, domain.PercentTip(decimal.RequireFromString("0.15")))
	assertMoney(t, "100.00", checkout.Totals(ctx).Subtotal)

	// another process empties the cart without going through this store
	require.NoError(t, storage.Save(ctx, "session-1", []byte(`{"version":1,"items":[]}`)))

	totals := checkout.Totals(ctx)
	assertMoney(t, "0.00", totals.Subtotal)
	assertMoney(t, "0.00", totals.Tip)
	assertMoney(t, "0.00", totals.Total)
}

func TestCheckout_TotalsWithLeavesSelection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMockStorage())
	require.NoError(t, store.AddItem(ctx, domain.MenuItem{ID: "feast", Name: "Feast", Price: decimal.NewFromInt(100)}, "", ""))

	checkout := NewCheckout(store, DefaultTaxRate, domain.PercentTip(decimal.RequireFromString("0.15")))
	totals := checkout.TotalsWith(ctx, domain.CustomTip("1"))
	assertMoney(t, "1.00", totals.Tip)

	assert.Equal(t, domain.TipModePercent, checkout.Tip().Mode)
	assertMoney(t, "15.00", checkout.Totals(ctx).Tip)
}

func TestCheckout_ResetTip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMockStorage())
	require.NoError(t, store.AddItem(ctx, domain.MenuItem{ID: "feast", Name: "Feast", Price: decimal.NewFromInt(100)}, "", ""))

	checkout := NewCheckout(store, DefaultTaxRate, domain.PercentTip(decimal.RequireFromString("0.15")))
	checkout.SetCustomTip(ctx, "9")
	require.Equal(t, domain.TipModeCustom, checkout.Tip().Mode)

	checkout.ResetTip()
	tip := checkout.Tip()
	assert.Equal(t, domain.TipModePercent, tip.Mode)
	assert.Empty(t, tip.CustomInput)
	assertMoney(t, "15.00", checkout.Totals(ctx).Tip)
}
