package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/edu-checkout/internal/checkout"
	"github.com/fairyhunter13/edu-checkout/internal/delivery"
	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/money"
	"github.com/fairyhunter13/edu-checkout/internal/promo"
	"github.com/fairyhunter13/edu-checkout/internal/validator"
)

// CheckoutService runs storefront checkout sessions. Every request opens a
// fresh session, so the promo is re-validated against the registry when the
// order is placed.
type CheckoutService struct {
	deps    checkout.Deps
	metrics MetricsRecorder
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(deps checkout.Deps, metrics MetricsRecorder) *CheckoutService {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &CheckoutService{deps: deps, metrics: metrics}
}

// Quote prices the cart. A rejected promo code does not fail the quote; the
// rejection is reported next to the undiscounted pricing.
func (s *CheckoutService) Quote(ctx context.Context, req *model.CheckoutRequest) (*model.QuoteResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	sess, err := s.open(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.applyPromo(ctx, sess, req.PromoCode); err != nil {
		var rej *promo.RejectionError
		if !errors.As(err, &rej) {
			return nil, pricingError(err)
		}
	}

	q, err := sess.Quote()
	if err != nil {
		return nil, pricingError(err)
	}
	return &q, nil
}

// PlaceOrder validates the customer, prices the cart and submits the order.
// A promo code that no longer applies fails the order with its
// *promo.RejectionError instead of silently dropping the discount.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req *model.PlaceOrderRequest) (*model.Order, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	sess, err := s.open(ctx, &req.CheckoutRequest)
	if err != nil {
		return nil, err
	}

	if err := s.applyPromo(ctx, sess, req.PromoCode); err != nil {
		return nil, pricingError(err)
	}

	o, err := sess.Submit(ctx, model.SourceStorefront, req.Customer)
	if err != nil {
		return nil, pricingError(err)
	}
	return o, nil
}

func (s *CheckoutService) open(ctx context.Context, req *model.CheckoutRequest) (*checkout.Session, error) {
	sess, err := checkout.Open(ctx, s.deps, req.ProductID)
	if err != nil {
		return nil, err
	}
	sess.SetQuantity(req.Quantity)
	sess.SetDelivery(delivery.Selection{Method: req.PaymentMethod, Region: req.Region})
	return sess, nil
}

func (s *CheckoutService) applyPromo(ctx context.Context, sess *checkout.Session, code string) error {
	if strings.TrimSpace(code) == "" {
		return nil
	}

	err := sess.ApplyPromo(ctx, code)
	var rej *promo.RejectionError
	switch {
	case err == nil:
		s.metrics.PromoValidated("applied")
	case errors.As(err, &rej):
		s.metrics.PromoValidated(string(rej.Reason))
		log.Debug().Str("code", code).Str("reason", string(rej.Reason)).Msg("promo rejected at checkout")
	}
	return err
}

// pricingError turns an invalid delivery selection or an unrepresentable
// subtotal into field errors.
func pricingError(err error) error {
	var fe validator.FieldErrors
	switch {
	case errors.Is(err, money.ErrOutOfRange):
		fe.Add("quantity", "puts the subtotal above the maximum amount of "+money.MaxAmount.String())
	case errors.Is(err, delivery.ErrRegionRequired):
		fe.Add("region", "is required for cash on delivery")
	case errors.Is(err, delivery.ErrUnknownRegion):
		fe.Add("region", "must be one of: inside_region, outside_region, courier_channel")
	case errors.Is(err, delivery.ErrUnknownPaymentMethod):
		fe.Add("payment_method", "must be one of: cash_on_delivery, online_gateway")
	default:
		return err
	}
	return fe
}
