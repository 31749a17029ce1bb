package domain

import "github.com/shopspring/decimal"

// Cart is an ordered sequence of line items with unique natural keys.
// Order only matters for display.
type Cart struct {
	Items []LineItem
}

// Find returns the index of the line with the given key, or -1.
func (c Cart) Find(key ItemKey) int {
	for i, item := range c.Items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) TotalItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalValue is the pre-tax, pre-tip sum of price * quantity.
func (c Cart) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (c Cart) Clone() Cart {
	if c.Items == nil {
		return Cart{Items: []LineItem{}}
	}
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
