package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/macrolens/macrolens/internal/models"
)

// ListCharts handles GET /v1/charts
func (h *Handler) ListCharts(c *fiber.Ctx) error {
	return c.JSON(models.NewListResponse(h.dashboard.Charts(c.UserContext())))
}

// RecommendCharts handles GET /v1/charts/recommend?indicators= or ?count=
func (h *Handler) RecommendCharts(c *fiber.Ctx) error {
	ids := h.indicators(c)
	count, set, err := queryInt(c, "count")
	if err != nil {
		return badRequest(c, "count must be an integer")
	}
	if len(ids) == 0 && !set {
		return badRequest(c, "indicators or count is required")
	}

	recs, err := h.dashboard.Recommend(c.UserContext(), ids, count)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.NewListResponse(recs))
}

// SelectChart handles POST /v1/charts/select
func (h *Handler) SelectChart(c *fiber.Ctx) error {
	var req models.SelectChartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_JSON",
				Message: "Failed to parse JSON body",
				Details: map[string]any{"error": err.Error()},
			},
		})
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := h.dashboard.SelectChart(c.UserContext(), req.Chart, req.Indicators)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(res)
}

// Series handles GET /v1/series/:chart?indicators=
func (h *Handler) Series(c *fiber.Ctx) error {
	raw, err := h.dashboard.Series(c.UserContext(), c.Params("chart"), h.indicators(c))
	if err != nil {
		return h.respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}
