package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInMoneyRange(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"0", true},
		{"0e-100000000", false},
		{"8.00", true},
		{"-12.345", true},
		{"999999999", true},
		{"999999999.999999999999", true},
		{"1000000000", false},
		{"1e9", false},
		{"1e100000000", false},
		{"1e-100000000", false},
		{"0.000000000001", true},
		{"0.0000000000001", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, InMoneyRange(decimal.RequireFromString(tt.raw)))
		})
	}
}
