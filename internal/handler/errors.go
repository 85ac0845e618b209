package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/edu-checkout/internal/checkout"
	"github.com/fairyhunter13/edu-checkout/internal/promo"
	"github.com/fairyhunter13/edu-checkout/internal/service"
	"github.com/fairyhunter13/edu-checkout/internal/validator"
)

// parseBody decodes the JSON body into dst and validates its tags.
// On failure the error response has already been written and handled is true.
func parseBody(c *fiber.Ctx, v *validator.Validate, dst any) (handled bool, err error) {
	if err := c.BodyParser(dst); err != nil {
		return true, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if fe := validator.Struct(v, dst); len(fe) > 0 {
		return true, fieldErrors(c, fe)
	}
	return false, nil
}

func fieldErrors(c *fiber.Ctx, fe validator.FieldErrors) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error":  "validation failed",
		"fields": fe,
	})
}

// respondError maps service errors to HTTP responses. Unexpected errors are
// logged with msg and reported as 500.
func respondError(c *fiber.Ctx, err error, msg string) error {
	var (
		fe  validator.FieldErrors
		rej *promo.RejectionError
	)
	switch {
	case errors.As(err, &fe):
		return fieldErrors(c, fe)
	case errors.As(err, &rej):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": rej.Message(),
			"promo": checkout.Rejection(rej),
		})
	case errors.Is(err, service.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	case errors.Is(err, service.ErrPromoNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "promo code not found"})
	case errors.Is(err, service.ErrPromoExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "promo code already exists"})
	case errors.Is(err, service.ErrOrderExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "order already exists"})
	case errors.Is(err, service.ErrWrongProductKind):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	log.Error().Err(err).
		Str("request_id", requestID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(msg)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return id
}
