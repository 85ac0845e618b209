package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/edu-checkout/internal/events"
	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/order"
)

// OrderRepositoryInterface defines the interface for order persistence.
type OrderRepositoryInterface interface {
	Insert(ctx context.Context, o *model.Order) error
}

// MetricsRecorder receives business metrics.
type MetricsRecorder interface {
	PromoValidated(result string)
	OrderCreated(o *model.Order)
	EventFailed()
}

type nopRecorder struct{}

func (nopRecorder) PromoValidated(string)      {}
func (nopRecorder) OrderCreated(*model.Order) {}
func (nopRecorder) EventFailed()              {}

// OrderService is the order submission endpoint shared by every entry point.
type OrderService struct {
	orders    OrderRepositoryInterface
	publisher events.Publisher
	metrics   MetricsRecorder
}

// NewOrderService creates a new OrderService. A nil publisher or recorder
// disables events or metrics.
func NewOrderService(orders OrderRepositoryInterface, publisher events.Publisher, metrics MetricsRecorder) *OrderService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &OrderService{orders: orders, publisher: publisher, metrics: metrics}
}

// Submit persists the order in one insert and then announces it.
// The order exists once the insert succeeds; a failed event publish is logged
// and counted but does not fail the submission.
func (s *OrderService) Submit(ctx context.Context, o *model.Order) error {
	if o == nil {
		return ErrInvalidRequest
	}

	if err := s.orders.Insert(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	s.metrics.OrderCreated(o)

	log.Info().
		Str("order_id", o.ID).
		Str("transaction_id", o.TransactionID).
		Str("source", string(o.Source)).
		Str("product_id", o.Line.Product.ID).
		Stringer("total", o.Pricing.Total).
		Msg("order created")

	if err := s.publisher.OrderCreated(ctx, order.Payload(o)); err != nil {
		s.metrics.EventFailed()
		log.Warn().Err(err).Str("transaction_id", o.TransactionID).Msg("failed to publish order event")
	}
	return nil
}
