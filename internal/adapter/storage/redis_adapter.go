package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/restaurant-cart/internal/port"
)

const (
	cartKeyPrefix     = "cart:"
	idempotencyKeyTTL = 24 * time.Hour
)

type RedisAdapter struct {
	client  *redis.Client
	cartTTL time.Duration
}

// NewRedisAdapter stores carts with the given TTL; zero keeps them forever.
func NewRedisAdapter(client *redis.Client, cartTTL time.Duration) *RedisAdapter {
	return &RedisAdapter{client: client, cartTTL: cartTTL}
}

func (r *RedisAdapter) Load(ctx context.Context, key string) ([]byte, error) {
	blob, err := r.client.Get(ctx, cartKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return blob, nil
}

func (r *RedisAdapter) Save(ctx context.Context, key string, blob []byte) error {
	return r.client.Set(ctx, cartKeyPrefix+key, blob, r.cartTTL).Err()
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) ReleaseIdempotency(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
