package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/macrolens/macrolens/internal/models"
)

// Health reports liveness and the size of the loaded dataset
func (h *Handler) Health(c *fiber.Ctx) error {
	store := h.dashboard.Store()
	return c.JSON(models.HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().Format(time.RFC3339),
		Version:    Version,
		Records:    store.Len(),
		Indicators: len(store.Indicators()),
	})
}

// NotFound handles unknown routes
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: "Route not found",
			Path:    c.Path(),
		},
	})
}
