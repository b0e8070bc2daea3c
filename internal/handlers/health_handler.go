package handlers

import (
	"context"
	"time"

	"study/internal/paths"

	"github.com/gofiber/fiber/v2"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports whether the app and its database are reachable.
type HealthHandler struct {
	db Pinger // nil when accounts are kept in memory
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// RegisterRoutes registers the health route.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get(paths.Health, h.HandleHealth)
}

// HandleHealth responds with the service status.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	status, database := "healthy", "memory"
	code := fiber.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		database = "up"
		if err := h.db.PingContext(ctx); err != nil {
			status, database = "unhealthy", "down"
			code = fiber.StatusServiceUnavailable
		}
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"database": database,
		"time":     time.Now().Format(time.RFC3339),
	})
}
