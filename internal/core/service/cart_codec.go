package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rl1809/restaurant-cart/internal/core/domain"
)

const cartSchemaVersion = 1

var ErrMalformedState = errors.New("malformed persisted cart")

type persistedCart struct {
	Version int             `json:"version"`
	Items   []persistedItem `json:"items"`
}

type persistedItem struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Price        json.Number `json:"price"`
	Image        string      `json:"image,omitempty"`
	Quantity     int         `json:"quantity"`
	Options      string      `json:"options"`
	Instructions string      `json:"instructions"`
}

func encodeCart(cart domain.Cart) ([]byte, error) {
	doc := persistedCart{
		Version: cartSchemaVersion,
		Items:   make([]persistedItem, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		doc.Items = append(doc.Items, persistedItem{
			ID:           item.ID,
			Name:         item.Name,
			Price:        json.Number(item.Price.String()),
			Image:        item.Image,
			Quantity:     item.Quantity,
			Options:      item.Options,
			Instructions: item.Instructions,
		})
	}

	blob, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return blob, nil
}

// decodeCart accepts the versioned envelope and the legacy bare array.
// Invalid entries are dropped and duplicate keys merged so the result always
// satisfies the cart invariants.
func decodeCart(blob []byte) (domain.Cart, error) {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 {
		return domain.Cart{}, ErrMalformedState
	}

	var items []persistedItem
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return domain.Cart{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
		}
	case '{':
		var doc persistedCart
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return domain.Cart{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
		}
		if doc.Version != cartSchemaVersion {
			return domain.Cart{}, fmt.Errorf("%w: unsupported version %d", ErrMalformedState, doc.Version)
		}
		items = doc.Items
	default:
		return domain.Cart{}, ErrMalformedState
	}

	cart := domain.Cart{Items: make([]domain.LineItem, 0, len(items))}
	for _, p := range items {
		if p.ID == "" || p.Quantity < 1 {
			continue
		}
		price, err := decimal.NewFromString(p.Price.String())
		if err != nil || !domain.InMoneyRange(price) || price.IsNegative() {
			continue
		}

		key := domain.NewItemKey(p.ID, p.Options, p.Instructions)
		if i := cart.Find(key); i >= 0 {
			cart.Items[i].Quantity += p.Quantity
			continue
		}
		cart.Items = append(cart.Items, domain.LineItem{
			ID:           key.ID,
			Name:         p.Name,
			Price:        price,
			Image:        p.Image,
			Quantity:     p.Quantity,
			Options:      key.Options,
			Instructions: key.Instructions,
		})
	}

	return cart, nil
}
