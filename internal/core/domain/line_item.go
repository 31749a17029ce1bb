package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const optionSeparator = ", "

// ItemKey is the natural key of a cart line: two lines are the same slot
// iff all three fields are equal.
type ItemKey struct {
	ID           string
	Options      string
	Instructions string
}

// NewItemKey builds a normalized key. Option order is not significant, so
// options are split, trimmed, sorted and re-joined.
func NewItemKey(id, options, instructions string) ItemKey {
	return ItemKey{
		ID:           id,
		Options:      NormalizeOptions(options),
		Instructions: strings.TrimSpace(instructions),
	}
}

func NormalizeOptions(options string) string {
	if strings.TrimSpace(options) == "" {
		return ""
	}

	parts := strings.Split(options, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	sort.Strings(out)

	return strings.Join(out, optionSeparator)
}

// MenuItem carries the descriptive fields of a dish as shown on the menu.
type MenuItem struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Image string
}

type LineItem struct {
	ID           string
	Name         string
	Price        decimal.Decimal
	Image        string
	Quantity     int
	Options      string
	Instructions string
}

func (l LineItem) Key() ItemKey {
	return ItemKey{ID: l.ID, Options: l.Options, Instructions: l.Instructions}
}

func (l LineItem) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
