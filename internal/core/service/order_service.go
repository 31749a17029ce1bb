package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/restaurant-cart/internal/core/domain"
	"github.com/rl1809/restaurant-cart/internal/port"
)

var (
	ErrDuplicateRequest = errors.New("duplicate request")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrQueueFull        = errors.New("order queue full")
	ErrServiceClosed    = errors.New("order service closed")
)

type PlaceOrderRequest struct {
	RequestID   string
	SessionID   string
	Checkout    *Checkout
	Fulfillment domain.Fulfillment
}

// Submission is the handle of one in-flight order. Cancelling it, or the
// context it was placed with, abandons the order and leaves the cart intact.
type Submission struct {
	ctx      context.Context
	cancel   context.CancelFunc
	checkout *Checkout
	done     chan struct{}

	mu    sync.Mutex
	order domain.Order
	err   error
}

func (s *Submission) Done() <-chan struct{} { return s.done }

func (s *Submission) Cancel() { s.cancel() }

func (s *Submission) Order() domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order
}

func (s *Submission) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until the submission finishes or ctx is done. A done ctx
// cancels the submission.
func (s *Submission) Wait(ctx context.Context) (domain.Order, error) {
	select {
	case <-s.done:
	case <-ctx.Done():
		s.cancel()
		<-s.done
	}
	return s.Order(), s.Err()
}

func (s *Submission) finish(status domain.OrderStatus, err error) {
	s.mu.Lock()
	s.order.Status = status
	s.order.UpdatedAt = time.Now()
	s.err = err
	s.mu.Unlock()

	s.cancel()
	close(s.done)
}

type OrderService struct {
	idempotency port.IdempotencyStore
	submitter   port.OrderSubmitter
	taxRate     decimal.Decimal
	logger      *zap.Logger

	orderQueue chan *Submission
	mu         sync.RWMutex
	closed     bool
	wg         sync.WaitGroup
}

func NewOrderService(idempotency port.IdempotencyStore, submitter port.OrderSubmitter, taxRate decimal.Decimal, queueSize int, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		idempotency: idempotency,
		submitter:   submitter,
		taxRate:     taxRate,
		logger:      logger,
		orderQueue:  make(chan *Submission, queueSize),
	}
}

// Start launches workerCount submission workers.
func (s *OrderService) Start(workerCount int) {
	for i := 0; i < workerCount; i++ {
		s.wg.Add(1)
		go func(id int) {
			defer s.wg.Done()
			s.workerLoop(id)
		}(i)
	}
}

// PlaceOrder validates the fulfillment details, snapshots the cart and its
// totals and queues the order for submission.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrServiceClosed
	}

	fulfillment, err := normalizeFulfillment(req.Fulfillment)
	if err != nil {
		return nil, err
	}

	tip := req.Checkout.Tip()
	cart := req.Checkout.Cart().GetCart(ctx)
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	idemKey := ""
	if req.RequestID != "" {
		idemKey = "order:" + req.RequestID
		ok, err := s.idempotency.SetIdempotency(ctx, idemKey)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return nil, ErrDuplicateRequest
		}
	}

	now := time.Now()
	order := domain.Order{
		ID:          uuid.NewString(),
		SessionID:   req.SessionID,
		Items:       cart.Items,
		Totals:      CalculateTotals(cart, tip, s.taxRate),
		Tip:         tip,
		Fulfillment: fulfillment,
		Status:      domain.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(ctx, cancel)
	sub := &Submission{
		ctx: subCtx,
		cancel: func() {
			stop()
			cancel()
		},
		checkout: req.Checkout,
		done:     make(chan struct{}),
		order:    order,
	}

	select {
	case s.orderQueue <- sub:
	default:
		sub.cancel()
		// the request was never accepted, so a retry must not be a duplicate
		if idemKey != "" {
			if err := s.idempotency.ReleaseIdempotency(context.WithoutCancel(ctx), idemKey); err != nil {
				s.logger.Warn("releasing idempotency key failed", zap.String("key", idemKey), zap.Error(err))
			}
		}
		return nil, ErrQueueFull
	}

	s.logger.Info("order queued",
		zap.String("order_id", order.ID),
		zap.String("session_id", req.SessionID),
		zap.String("order_type", string(fulfillment.Type)),
		zap.String("total", order.Totals.Total.StringFixed(2)),
	)
	return sub, nil
}

// Close stops accepting orders and waits for the workers to drain the queue.
func (s *OrderService) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.orderQueue)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *OrderService) workerLoop(id int) {
	for sub := range s.orderQueue {
		s.process(id, sub)
	}
}

func (s *OrderService) process(worker int, sub *Submission) {
	order := sub.Order()
	log := s.logger.With(zap.Int("worker", worker), zap.String("order_id", order.ID))

	if err := sub.ctx.Err(); err != nil {
		log.Info("order abandoned before submission")
		sub.finish(domain.OrderStatusCancelled, err)
		return
	}

	if err := s.submitter.Submit(sub.ctx, order); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Info("order submission cancelled")
			sub.finish(domain.OrderStatusCancelled, err)
			return
		}
		log.Error("order submission failed", zap.Error(err))
		sub.finish(domain.OrderStatusCancelled, fmt.Errorf("submit order: %w", err))
		return
	}

	sub.checkout.ResetTip()
	if err := sub.checkout.Cart().Clear(context.WithoutCancel(sub.ctx)); err != nil {
		// the order stays confirmed
		log.Error("clearing cart after order failed", zap.Error(err))
		sub.finish(domain.OrderStatusConfirmed, err)
		return
	}

	log.Info("order confirmed")
	sub.finish(domain.OrderStatusConfirmed, nil)
}
