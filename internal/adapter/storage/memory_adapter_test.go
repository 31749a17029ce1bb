package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/restaurant-cart/internal/port"
)

func TestMemoryAdapter_SaveLoad(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter(0, 0)

	_, err := adapter.Load(ctx, "session-1")
	assert.ErrorIs(t, err, port.ErrNotFound)

	blob := []byte("[]")
	require.NoError(t, adapter.Save(ctx, "session-1", blob))

	// callers may reuse their buffers
	blob[0] = 'x'
	got, err := adapter.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	got[0] = 'y'
	again, _ := adapter.Load(ctx, "session-1")
	assert.Equal(t, "[]", string(again))
}

func TestMemoryAdapter_Quota(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter(4, 0)

	require.NoError(t, adapter.Save(ctx, "session-1", []byte("[]")))

	err := adapter.Save(ctx, "session-1", []byte(`{"version":1}`))
	assert.True(t, errors.Is(err, ErrQuotaExceeded))

	got, err := adapter.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestMemoryAdapter_SetIdempotency(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter(0, 0)

	ok, err := adapter.SetIdempotency(ctx, "order:req-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = adapter.SetIdempotency(ctx, "order:req-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryAdapter_ReleaseIdempotency(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter(0, 0)

	_, err := adapter.SetIdempotency(ctx, "order:req-1")
	require.NoError(t, err)
	require.NoError(t, adapter.ReleaseIdempotency(ctx, "order:req-1"))

	ok, err := adapter.SetIdempotency(ctx, "order:req-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryAdapter_Expiry(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter(0, time.Hour)
	now := time.Now()
	adapter.now = func() time.Time { return now }

	require.NoError(t, adapter.Save(ctx, "session-1", []byte("[]")))
	_, err := adapter.SetIdempotency(ctx, "order:req-1")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = adapter.Load(ctx, "session-1")
	assert.ErrorIs(t, err, port.ErrNotFound)

	// a save after the sweep interval drops expired entries
	require.NoError(t, adapter.Save(ctx, "session-2", []byte("[]")))
	assert.Len(t, adapter.blobs, 1)

	ok, _ := adapter.SetIdempotency(ctx, "order:req-1")
	assert.False(t, ok, "idempotency keys live for a day")

	now = now.Add(25 * time.Hour)
	ok, _ = adapter.SetIdempotency(ctx, "order:req-1")
	assert.True(t, ok)
}
