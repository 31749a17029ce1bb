package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/restaurant-cart/internal/core/domain"
	"github.com/rl1809/restaurant-cart/internal/port"
)

var (
	ErrStorageUnavailable = errors.New("cart storage unavailable")
	ErrInvalidItem        = errors.New("invalid menu item")
)

// CartStore owns the persisted cart of one session. Every read and write of
// the underlying blob goes through it.
type CartStore struct {
	storage port.CartStorage
	key     string
	logger  *zap.Logger

	mu        sync.Mutex
	notifyMu  sync.Mutex // keeps notifications in mutation order
	listeners map[int]func(domain.Cart)
	nextID    int
}

func NewCartStore(storage port.CartStorage, key string, logger *zap.Logger) *CartStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartStore{
		storage:   storage,
		key:       key,
		logger:    logger.With(zap.String("cart_key", key)),
		listeners: make(map[int]func(domain.Cart)),
	}
}

// Subscribe registers fn to be called with the new cart after every
// successful mutation. The returned func removes the listener. Listeners may
// read the store but must not mutate it.
func (s *CartStore) Subscribe(fn func(domain.Cart)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// GetCart never fails: missing or unreadable state is an empty cart.
func (s *CartStore) GetCart(ctx context.Context) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("reading cart failed, treating as empty", zap.Error(err))
		return domain.Cart{Items: []domain.LineItem{}}
	}
	return cart
}

func (s *CartStore) TotalItemCount(ctx context.Context) int {
	return s.GetCart(ctx).TotalItemCount()
}

func (s *CartStore) TotalValue(ctx context.Context) decimal.Decimal {
	return s.GetCart(ctx).TotalValue()
}

// AddItem increments the line matching (id, options, instructions) or appends
// a new line with quantity 1. Name, price and image of an existing line are
// left as first added.
func (s *CartStore) AddItem(ctx context.Context, item domain.MenuItem, options, instructions string) error {
	if item.ID == "" || !domain.InMoneyRange(item.Price) || item.Price.IsNegative() {
		return ErrInvalidItem
	}
	key := domain.NewItemKey(item.ID, options, instructions)

	return s.mutate(ctx, func(cart *domain.Cart) bool {
		if i := cart.Find(key); i >= 0 {
			cart.Items[i].Quantity++
			return true
		}
		cart.Items = append(cart.Items, domain.LineItem{
			ID:           key.ID,
			Name:         item.Name,
			Price:        item.Price,
			Image:        item.Image,
			Quantity:     1,
			Options:      key.Options,
			Instructions: key.Instructions,
		})
		return true
	})
}

// RemoveItem is a no-op when no line matches.
func (s *CartStore) RemoveItem(ctx context.Context, key domain.ItemKey) error {
	key = domain.NewItemKey(key.ID, key.Options, key.Instructions)

	return s.mutate(ctx, func(cart *domain.Cart) bool {
		return removeLine(cart, key)
	})
}

// SetQuantity deletes the line when quantity <= 0.
func (s *CartStore) SetQuantity(ctx context.Context, key domain.ItemKey, quantity int) error {
	key = domain.NewItemKey(key.ID, key.Options, key.Instructions)

	return s.mutate(ctx, func(cart *domain.Cart) bool {
		if quantity <= 0 {
			return removeLine(cart, key)
		}
		i := cart.Find(key)
		if i < 0 || cart.Items[i].Quantity == quantity {
			return false
		}
		cart.Items[i].Quantity = quantity
		return true
	})
}

// Clear unconditionally persists an empty cart.
func (s *CartStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	empty := domain.Cart{Items: []domain.LineItem{}}
	if err := s.save(ctx, empty); err != nil {
		s.mu.Unlock()
		return err
	}
	s.notifyLocked(empty)
	return nil
}

func (s *CartStore) mutate(ctx context.Context, apply func(cart *domain.Cart) bool) error {
	s.mu.Lock()

	cart, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !apply(&cart) {
		s.mu.Unlock()
		return nil
	}
	if err := s.save(ctx, cart); err != nil {
		s.mu.Unlock()
		return err
	}
	s.notifyLocked(cart)
	return nil
}

// load reports storage failures but recovers malformed blobs as empty.
func (s *CartStore) load(ctx context.Context) (domain.Cart, error) {
	blob, err := s.storage.Load(ctx, s.key)
	if errors.Is(err, port.ErrNotFound) {
		return domain.Cart{Items: []domain.LineItem{}}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%w: load: %w", ErrStorageUnavailable, err)
	}

	cart, err := decodeCart(blob)
	if err != nil {
		s.logger.Warn("discarding malformed cart", zap.Error(err))
		return domain.Cart{Items: []domain.LineItem{}}, nil
	}
	return cart, nil
}

func (s *CartStore) save(ctx context.Context, cart domain.Cart) error {
	blob, err := encodeCart(cart)
	if err != nil {
		return err
	}
	if err := s.storage.Save(ctx, s.key, blob); err != nil {
		s.logger.Error("persisting cart failed", zap.Error(err))
		return fmt.Errorf("%w: save: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// notifyLocked must be called with s.mu held; it releases s.mu before
// running the listeners.
func (s *CartStore) notifyLocked(cart domain.Cart) {
	listeners := make([]func(domain.Cart), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(cart.Clone())
	}
}

func removeLine(cart *domain.Cart, key domain.ItemKey) bool {
	i := cart.Find(key)
	if i < 0 {
		return false
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	return true
}
