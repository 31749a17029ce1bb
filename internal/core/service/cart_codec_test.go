package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/restaurant-cart/internal/core/domain"
)

func TestEncodeCart_WritesVersionAndNumericPrice(t *testing.T) {
	cart := domain.Cart{Items: []domain.LineItem{{
		ID:       "burger",
		Name:     "Burger",
		Price:    decimal.RequireFromString("8.50"),
		Quantity: 2,
		Options:  "cheese",
	}}}

	blob, err := encodeCart(cart)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"items":[{"id":"burger","name":"Burger","price":8.5,"quantity":2,"options":"cheese","instructions":""}]}`, string(blob))
}

func TestDecodeCart_LegacyArray(t *testing.T) {
	// older carts were a bare array and could omit options/instructions
	blob := []byte(`[{"id":"burger","name":"Burger","price":8,"image":"b.png","quantity":1}]`)

	cart, err := decodeCart(blob)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, domain.NewItemKey("burger", "", ""), cart.Items[0].Key())
	assert.Equal(t, "b.png", cart.Items[0].Image)
}

func TestDecodeCart_Sanitizes(t *testing.T) {
	blob := []byte(`{"version":1,"items":[
		{"id":"burger","name":"Burger","price":8,"quantity":1,"options":"cheese, bacon","instructions":""},
		{"id":"burger","name":"Other","price":9,"quantity":2,"options":"bacon,cheese"},
		{"id":"","name":"ghost","price":1,"quantity":1},
		{"id":"soda","name":"Soda","price":2,"quantity":0},
		{"id":"fries","name":"Fries","price":-1,"quantity":1},
		{"id":"gold","name":"Gold","price":1e100000000,"quantity":1},
		{"id":"tea","name":"Tea","price":2.25,"quantity":1}
	]}`)

	cart, err := decodeCart(blob)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	assert.Equal(t, "burger", cart.Items[0].ID)
	assert.Equal(t, "Burger", cart.Items[0].Name)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "bacon, cheese", cart.Items[0].Options)

	assert.Equal(t, "tea", cart.Items[1].ID)
	assert.True(t, cart.Items[1].Price.Equal(decimal.RequireFromString("2.25")))
}

func TestDecodeCart_Malformed(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"empty", ""},
		{"garbage", "not json"},
		{"truncated", `{"version":1,"items":[`},
		{"future version", `{"version":2,"items":[]}`},
		{"scalar", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeCart([]byte(tt.blob))
			assert.ErrorIs(t, err, ErrMalformedState)
		})
	}
}
