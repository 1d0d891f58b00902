package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/macrolens/macrolens/internal/models"
)

// Correlation handles GET /v1/correlation?a=&b=
func (h *Handler) Correlation(c *fiber.Ctx) error {
	res, err := h.dashboard.Correlation(c.UserContext(), c.Query("a"), c.Query("b"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(res)
}

// Regression handles GET /v1/regression?x=&y=
func (h *Handler) Regression(c *fiber.Ctx) error {
	x, y := c.Query("x"), c.Query("y")
	fit, err := h.dashboard.Regression(c.UserContext(), x, y)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.RegressionResponse{X: x, Y: y, Fit: fit})
}
