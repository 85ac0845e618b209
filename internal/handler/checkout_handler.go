package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/validator"
)

// CheckoutServiceInterface defines the interface for storefront checkout.
type CheckoutServiceInterface interface {
	Quote(ctx context.Context, req *model.CheckoutRequest) (*model.QuoteResponse, error)
	PlaceOrder(ctx context.Context, req *model.PlaceOrderRequest) (*model.Order, error)
}

// CheckoutHandler handles HTTP requests for quoting and placing orders.
type CheckoutHandler struct {
	service   CheckoutServiceInterface
	validator *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(svc CheckoutServiceInterface, v *validator.Validate) *CheckoutHandler {
	return &CheckoutHandler{service: svc, validator: v}
}

// Quote handles POST /api/checkout/quote.
func (h *CheckoutHandler) Quote(c *fiber.Ctx) error {
	var req model.CheckoutRequest
	if handled, err := parseBody(c, h.validator, &req); handled {
		return err
	}

	q, err := h.service.Quote(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "failed to quote checkout")
	}
	return c.JSON(q)
}

// PlaceOrder handles POST /api/orders.
func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	var req model.PlaceOrderRequest
	if handled, err := parseBody(c, h.validator, &req); handled {
		return err
	}

	o, err := h.service.PlaceOrder(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "failed to place order")
	}

	log.Info().
		Str("request_id", requestID(c)).
		Str("order_id", o.ID).
		Str("transaction_id", o.TransactionID).
		Msg("order placed")
	return c.Status(fiber.StatusCreated).JSON(o)
}
