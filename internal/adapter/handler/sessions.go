package handler

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/restaurant-cart/internal/core/domain"
	"github.com/rl1809/restaurant-cart/internal/core/service"
	"github.com/rl1809/restaurant-cart/internal/port"
)

const DefaultMaxSessions = 10000

// Session bundles the cart store and checkout view of one visitor.
type Session struct {
	ID       string
	Cart     *service.CartStore
	Checkout *service.Checkout
}

// Sessions builds one CartStore per session id on first use and keeps the
// most recently used maxSessions of them. An evicted session loses only its
// tip selection; the cart itself lives in storage.
type Sessions struct {
	storage    port.CartStorage
	taxRate    decimal.Decimal
	defaultTip domain.TipSelection
	logger     *zap.Logger

	mu    sync.Mutex // serializes get-or-create
	cache *lru.Cache
}

func NewSessions(storage port.CartStorage, taxRate, defaultTipPercent decimal.Decimal, maxSessions int, logger *zap.Logger) (*Sessions, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}

	s := &Sessions{
		storage:    storage,
		taxRate:    taxRate,
		defaultTip: domain.PercentTip(defaultTipPercent),
		logger:     logger,
	}
	cache, err := lru.NewWithEvict(maxSessions, func(key, _ interface{}) {
		logger.Debug("session evicted", zap.Any("session_id", key))
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	s.cache = cache
	return s, nil
}

func (s *Sessions) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(id); ok {
		return v.(*Session)
	}

	store := service.NewCartStore(s.storage, id, s.logger)
	log := s.logger.With(zap.String("session_id", id))
	store.Subscribe(func(cart domain.Cart) {
		log.Debug("cart updated",
			zap.Int("lines", len(cart.Items)),
			zap.Int("item_count", cart.TotalItemCount()),
		)
	})

	sess := &Session{
		ID:       id,
		Cart:     store,
		Checkout: service.NewCheckout(store, s.taxRate, s.defaultTip),
	}
	s.cache.Add(id, sess)
	return sess
}

func (s *Sessions) Len() int {
	return s.cache.Len()
}

// Close forgets every session.
func (s *Sessions) Close() {
	s.cache.Purge()
}
