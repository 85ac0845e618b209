package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/fairyhunter13/edu-checkout/internal/model"
)

// ProductServiceInterface defines the interface for catalog lookups.
type ProductServiceInterface interface {
	GetProduct(ctx context.Context, ref string) (*model.Product, error)
}

// ProductHandler handles HTTP requests for catalog products.
type ProductHandler struct {
	service ProductServiceInterface
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc ProductServiceInterface) *ProductHandler {
	return &ProductHandler{service: svc}
}

// GetProduct handles GET /api/products/:ref, where ref is an id or a slug.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	ref := c.Params("ref")
	if ref == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: ref is required"})
	}

	p, err := h.service.GetProduct(c.UserContext(), ref)
	if err != nil {
		return respondError(c, err, "failed to get product")
	}
	return c.JSON(p)
}
