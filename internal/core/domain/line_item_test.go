package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeOptions(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"cheese", "cheese"},
		{"cheese, bacon", "bacon, cheese"},
		{"bacon,cheese", "bacon, cheese"},
		{" cheese ,, bacon ,", "bacon, cheese"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeOptions(tt.in))
		})
	}
}

func TestNewItemKey(t *testing.T) {
	assert.Equal(t,
		NewItemKey("burger", "cheese, bacon", "  no onions "),
		NewItemKey("burger", "bacon,cheese", "no onions"),
	)
	assert.NotEqual(t, NewItemKey("burger", "", ""), NewItemKey("burger", "", "no onions"))
	assert.NotEqual(t, NewItemKey("burger", "", ""), NewItemKey("fries", "", ""))
}

func TestCart_Totals(t *testing.T) {
	cart := Cart{Items: []LineItem{
		{ID: "burger", Price: decimal.RequireFromString("8.00"), Quantity: 2},
		{ID: "soda", Price: decimal.RequireFromString("1.25"), Quantity: 3, Options: "ice"},
	}}

	assert.Equal(t, 5, cart.TotalItemCount())
	assert.Equal(t, "19.75", cart.TotalValue().StringFixed(2))
	assert.Equal(t, 1, cart.Find(NewItemKey("soda", "ice", "")))
	assert.Equal(t, -1, cart.Find(NewItemKey("soda", "", "")))
	assert.False(t, cart.IsEmpty())
}

func TestCart_CloneIsIndependent(t *testing.T) {
	cart := Cart{Items: []LineItem{{ID: "burger", Quantity: 1}}}
	clone := cart.Clone()
	clone.Items[0].Quantity = 5

	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.NotNil(t, Cart{}.Clone().Items)
	assert.True(t, Cart{}.IsEmpty())
}
