package port

import (
	"context"
	"errors"
)

// ErrNotFound is returned by CartStorage when no blob exists under the key.
var ErrNotFound = errors.New("cart blob not found")

type CartStorage interface {
	// Load returns the raw persisted blob for key, or ErrNotFound
	Load(ctx context.Context, key string) ([]byte, error)

	// Save overwrites the blob for key (last write wins)
	Save(ctx context.Context, key string, blob []byte) error
}
