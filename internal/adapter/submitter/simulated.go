package submitter

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/restaurant-cart/internal/core/domain"
)

// Simulated stands in for the kitchen: it accepts every order after a fixed
// delay. The timer is stopped when ctx is cancelled so nothing fires late.
type Simulated struct {
	delay  time.Duration
	logger *zap.Logger
}

func NewSimulated(delay time.Duration, logger *zap.Logger) *Simulated {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulated{delay: delay, logger: logger}
}

func (s *Simulated) Submit(ctx context.Context, order domain.Order) error {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		s.logger.Debug("order accepted",
			zap.String("order_id", order.ID),
			zap.Int("lines", len(order.Items)),
		)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
