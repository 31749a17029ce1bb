package port

import (
	"context"

	"github.com/rl1809/restaurant-cart/internal/core/domain"
)

type OrderSubmitter interface {
	// Submit hands a pending order to the kitchen; it must return ctx.Err() when cancelled
	Submit(ctx context.Context, order domain.Order) error
}
