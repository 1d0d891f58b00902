package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/macrolens/macrolens/internal/models"
)

// RelationshipText handles GET /v1/explanations/relationship?a=&b=
func (h *Handler) RelationshipText(c *fiber.Ctx) error {
	res, err := h.dashboard.RelationshipText(c.UserContext(), c.Query("a"), c.Query("b"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(res)
}

// SeasonalText handles GET /v1/explanations/seasonal?indicator=
func (h *Handler) SeasonalText(c *fiber.Ctx) error {
	res, err := h.dashboard.SeasonalText(c.UserContext(), c.Query("indicator"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(res)
}

// Panel handles GET /v1/explanations/panel?chart=&indicators=
func (h *Handler) Panel(c *fiber.Ctx) error {
	panel, err := h.dashboard.Panel(c.UserContext(), c.Query("chart"), h.indicators(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(panel)
}

// Events handles GET /v1/events
func (h *Handler) Events(c *fiber.Ctx) error {
	return c.JSON(models.NewListResponse(h.dashboard.Events(c.UserContext())))
}
