package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/macrolens/macrolens/internal/models"
)

// indicatorParam decodes :indicator, which may carry escaped spaces or commas
func indicatorParam(c *fiber.Ctx) string {
	raw := c.Params("indicator")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}

// ListIndicators handles GET /v1/indicators
func (h *Handler) ListIndicators(c *fiber.Ctx) error {
	res, err := h.dashboard.Indicators(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(res)
}

// Stats handles GET /v1/indicators/:indicator/stats
func (h *Handler) Stats(c *fiber.Ctx) error {
	id := indicatorParam(c)
	summary, err := h.dashboard.Stats(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.StatsResponse{Indicator: id, Stats: summary})
}

// Profile handles GET /v1/indicators/:indicator/profile
func (h *Handler) Profile(c *fiber.Ctx) error {
	id := indicatorParam(c)
	profile, err := h.dashboard.Profile(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"indicator": id, "profile": profile})
}

// Yearly handles GET /v1/indicators/:indicator/yearly
func (h *Handler) Yearly(c *fiber.Ctx) error {
	years, err := h.dashboard.Yearly(c.UserContext(), indicatorParam(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.NewListResponse(years))
}

// Trend handles GET /v1/indicators/:indicator/trend?window=12
func (h *Handler) Trend(c *fiber.Ctx) error {
	window, _, err := queryInt(c, "window")
	if err != nil || window < 0 {
		return badRequest(c, "window must be a positive integer")
	}

	points, err := h.dashboard.Trend(c.UserContext(), indicatorParam(c), window)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.NewListResponse(points))
}

// Related handles GET /v1/indicators/:indicator/related?threshold=0.7
func (h *Handler) Related(c *fiber.Ctx) error {
	threshold, set, err := queryFloat(c, "threshold")
	if err != nil || (set && (threshold <= 0 || threshold >= 1)) {
		return badRequest(c, "threshold must be a number between 0 and 1")
	}

	related, err := h.dashboard.Related(c.UserContext(), indicatorParam(c), threshold)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.NewListResponse(related))
}
