package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/fairyhunter13/edu-checkout/internal/model"
	"github.com/fairyhunter13/edu-checkout/internal/promo"
	"github.com/fairyhunter13/edu-checkout/internal/validator"
)

// PromoServiceInterface defines the interface for promo code business logic.
type PromoServiceInterface interface {
	Validate(ctx context.Context, req *model.PromoValidationRequest) (*model.PromoValidationResponse, error)
	Create(ctx context.Context, req *model.PromoRequest) (*model.PromoCode, error)
	Update(ctx context.Context, code string, req *model.PromoRequest) (*model.PromoCode, error)
	SetStatus(ctx context.Context, code string, status model.PromoStatus) (*model.PromoCode, error)
	Get(ctx context.Context, code string) (*model.PromoCode, error)
	List(ctx context.Context, status model.PromoStatus) ([]model.PromoCode, error)
}

// PromoHandler handles the storefront promo check and the admin promo editor.
type PromoHandler struct {
	service   PromoServiceInterface
	validator *validator.Validate
}

// NewPromoHandler creates a new PromoHandler.
func NewPromoHandler(svc PromoServiceInterface, v *validator.Validate) *PromoHandler {
	return &PromoHandler{service: svc, validator: v}
}

// ValidatePromo handles POST /api/promos/validate.
// Rejections are answered with 422 and {"success": false, "message", "reason"}.
func (h *PromoHandler) ValidatePromo(c *fiber.Ctx) error {
	var req model.PromoValidationRequest
	if handled, err := parseBody(c, h.validator, &req); handled {
		return err
	}

	resp, err := h.service.Validate(c.UserContext(), &req)
	if err != nil {
		var rej *promo.RejectionError
		if errors.As(err, &rej) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"success": false,
				"message": rej.Message(),
				"reason":  rej.Reason,
			})
		}
		return respondError(c, err, "failed to validate promo")
	}
	return c.JSON(resp)
}

// CreatePromo handles POST /api/admin/promos.
func (h *PromoHandler) CreatePromo(c *fiber.Ctx) error {
	var req model.PromoRequest
	if handled, err := parseBody(c, h.validator, &req); handled {
		return err
	}

	p, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "failed to create promo")
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// UpdatePromo handles PUT /api/admin/promos/:code.
func (h *PromoHandler) UpdatePromo(c *fiber.Ctx) error {
	var req model.PromoRequest
	if handled, err := parseBody(c, h.validator, &req); handled {
		return err
	}

	p, err := h.service.Update(c.UserContext(), c.Params("code"), &req)
	if err != nil {
		return respondError(c, err, "failed to update promo")
	}
	return c.JSON(p)
}

// SetPromoStatus handles PATCH /api/admin/promos/:code/status.
func (h *PromoHandler) SetPromoStatus(c *fiber.Ctx) error {
	var req model.PromoStatusRequest
	if handled, err := parseBody(c, h.validator, &req); handled {
		return err
	}

	p, err := h.service.SetStatus(c.UserContext(), c.Params("code"), req.Status)
	if err != nil {
		return respondError(c, err, "failed to change promo status")
	}
	return c.JSON(p)
}

// GetPromo handles GET /api/admin/promos/:code.
func (h *PromoHandler) GetPromo(c *fiber.Ctx) error {
	p, err := h.service.Get(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, err, "failed to get promo")
	}
	return c.JSON(p)
}

// ListPromos handles GET /api/admin/promos with an optional ?status= filter.
func (h *PromoHandler) ListPromos(c *fiber.Ctx) error {
	promos, err := h.service.List(c.UserContext(), model.PromoStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err, "failed to list promos")
	}
	return c.JSON(fiber.Map{"promos": promos})
}
