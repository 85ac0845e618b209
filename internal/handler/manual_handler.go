package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/validator"
)

// ManualEntryServiceInterface defines the interface for back-office manual entry.
type ManualEntryServiceInterface interface {
	CreateOrder(ctx context.Context, req *model.ManualEntryRequest) (*model.Order, error)
	CreateEnrollment(ctx context.Context, req *model.ManualEntryRequest) (*model.Order, error)
}

// ManualEntryHandler handles the manual order and manual enrollment tools.
type ManualEntryHandler struct {
	service   ManualEntryServiceInterface
	validator *validator.Validate
}

// NewManualEntryHandler creates a new ManualEntryHandler.
func NewManualEntryHandler(svc ManualEntryServiceInterface, v *validator.Validate) *ManualEntryHandler {
	return &ManualEntryHandler{service: svc, validator: v}
}

// CreateOrder handles POST /api/admin/orders/manual.
func (h *ManualEntryHandler) CreateOrder(c *fiber.Ctx) error {
	return h.create(c, h.service.CreateOrder)
}

// CreateEnrollment handles POST /api/admin/enrollments/manual.
func (h *ManualEntryHandler) CreateEnrollment(c *fiber.Ctx) error {
	return h.create(c, h.service.CreateEnrollment)
}

func (h *ManualEntryHandler) create(c *fiber.Ctx, fn func(context.Context, *model.ManualEntryRequest) (*model.Order, error)) error {
	var req model.ManualEntryRequest
	if handled, err := parseBody(c, h.validator, &req); handled {
		return err
	}

	o, err := fn(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "failed to record manual entry")
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}
