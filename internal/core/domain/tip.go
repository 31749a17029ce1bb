package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type TipMode string

const (
	TipModePercent TipMode = "percent"
	TipModeCustom  TipMode = "custom"
)

// TipSelection is transient checkout state and is never persisted.
type TipSelection struct {
	Mode        TipMode
	Percent     decimal.Decimal // fraction of subtotal, in [0,1]
	CustomInput string          // raw user input for TipModeCustom
}

const maxTipInput = 32

var (
	one = decimal.NewFromInt(1)

	// leading numeric prefix, as a browser number parse reads it
	amountPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
)

// PercentTip clamps p to [0,1]. Out-of-range decimals select no tip.
func PercentTip(p decimal.Decimal) TipSelection {
	if !InMoneyRange(p) || p.IsNegative() {
		p = decimal.Zero
	}
	if p.GreaterThan(one) {
		p = one
	}
	return TipSelection{Mode: TipModePercent, Percent: p}
}

func CustomTip(raw string) TipSelection {
	return TipSelection{Mode: TipModeCustom, CustomInput: raw}
}

// ParseTipAmount reads the numeric prefix of a user-entered amount, so
// "7.50abc" is 7.50. An optional leading "$" is allowed. Anything else,
// including amounts outside InMoneyRange, is zero.
func ParseTipAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxTipInput {
		return decimal.Zero
	}

	num := amountPrefix.FindString(s)
	if num == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(num)
	if err != nil || !InMoneyRange(d) {
		return decimal.Zero
	}
	return d
}
