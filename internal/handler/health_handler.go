package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Pinger is an interface for health check ping operations.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnStatus reports whether a long-lived connection is up.
type ConnStatus interface {
	IsConnected() bool
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	pool   Pinger
	events ConnStatus
}

// NewHealthHandler creates a new HealthHandler. events may be nil when order
// events are disabled.
func NewHealthHandler(pool Pinger, events ConnStatus) *HealthHandler {
	return &HealthHandler{pool: pool, events: events}
}

// Check pings the database and reports the event bus connection.
// Returns 503 only when the database is unreachable; orders are still
// accepted while the event bus reconnects.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.pool.Ping(c.UserContext()); err != nil {
		log.Error().Err(err).Msg("health check failed: database unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  "database connection failed",
		})
	}

	resp := fiber.Map{"status": "healthy", "database": "up"}
	if h.events != nil {
		events := "up"
		if !h.events.IsConnected() {
			events = "reconnecting"
			resp["status"] = "degraded"
		}
		resp["events"] = events
	}
	return c.JSON(resp)
}
