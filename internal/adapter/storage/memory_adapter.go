package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rl1809/restaurant-cart/internal/port"
)

var ErrQuotaExceeded = errors.New("storage quota exceeded")

const sweepInterval = time.Minute

type memoryEntry struct {
	blob      []byte
	expiresAt time.Time // zero never expires
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryAdapter keeps carts in process memory. A positive quota caps the
// size of a single blob, mirroring a browser's per-origin storage limit.
// Carts expire after cartTTL when it is positive; idempotency keys always
// expire after a day, as in Redis.
type MemoryAdapter struct {
	mu        sync.Mutex
	blobs     map[string]memoryEntry
	seen      map[string]time.Time
	quota     int
	cartTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryAdapter(quota int, cartTTL time.Duration) *MemoryAdapter {
	return &MemoryAdapter{
		blobs:     make(map[string]memoryEntry),
		seen:      make(map[string]time.Time),
		quota:     quota,
		cartTTL:   cartTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (m *MemoryAdapter) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.blobs[key]
	if !ok || entry.expired(m.now()) {
		return nil, port.ErrNotFound
	}
	out := make([]byte, len(entry.blob))
	copy(out, entry.blob)
	return out, nil
}

func (m *MemoryAdapter) Save(ctx context.Context, key string, blob []byte) error {
	if m.quota > 0 && len(blob) > m.quota {
		return ErrQuotaExceeded
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	entry := memoryEntry{blob: make([]byte, len(blob))}
	copy(entry.blob, blob)
	if m.cartTTL > 0 {
		entry.expiresAt = now.Add(m.cartTTL)
	}
	m.blobs[key] = entry
	return nil
}

func (m *MemoryAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	if exp, ok := m.seen[key]; ok && now.Before(exp) {
		return false, nil
	}
	m.seen[key] = now.Add(idempotencyKeyTTL)
	return true, nil
}

func (m *MemoryAdapter) ReleaseIdempotency(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, key)
	return nil
}

// sweepLocked drops expired carts and keys at most once per sweepInterval.
func (m *MemoryAdapter) sweepLocked(now time.Time) {
	if now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now

	for k, e := range m.blobs {
		if e.expired(now) {
			delete(m.blobs, k)
		}
	}
	for k, exp := range m.seen {
		if !now.Before(exp) {
			delete(m.seen, k)
		}
	}
}
