package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/restaurant-cart/internal/port"
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) Load(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := m.db.QueryRowContext(ctx, `
		SELECT payload FROM cart_blobs WHERE cart_key = ?`, key,
	).Scan(&blob)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}

	return blob, nil
}

func (m *MySQLAdapter) Save(ctx context.Context, key string, blob []byte) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO cart_blobs (cart_key, payload, updated_at)
		VALUES (?, ?, NOW())
		ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = NOW()`,
		key, blob,
	)
	if err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}

	return nil
}
