// Package handlers exposes DashboardService over HTTP. Every handler
// parses its inputs, calls the service and renders the result or an
// ErrorResponse.
package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/macrolens/macrolens/internal/logging"
	"github.com/macrolens/macrolens/internal/models"
	"github.com/macrolens/macrolens/internal/services"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Handler contains all HTTP handlers
type Handler struct {
	logger    *logging.Logger
	dashboard *services.DashboardService
}

// New creates a new handler instance
func New(logger *logging.Logger, dashboard *services.DashboardService) *Handler {
	return &Handler{logger: logger, dashboard: dashboard}
}

// statusFor maps service error codes to HTTP statuses
func statusFor(code string) int {
	switch code {
	case services.CodeUnknownIndicator, services.CodeUnknownChart:
		return fiber.StatusNotFound
	case services.CodeSelectionRejected:
		return fiber.StatusUnprocessableEntity
	case services.CodeInvalidRequest:
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// respondError renders err as an ErrorResponse
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	var svcErr *services.ServiceError
	if !errors.As(err, &svcErr) {
		svcErr = services.NewServiceError(services.CodeInternal, err.Error())
	}

	status := statusFor(svcErr.Code)
	if status >= fiber.StatusInternalServerError {
		logging.FromContext(c.UserContext()).Error("Dashboard request failed", "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    svcErr.Code,
			Message: svcErr.Message,
			Details: svcErr.Details,
		},
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    services.CodeInvalidRequest,
			Message: message,
		},
	})
}

// indicators reads the selection from ?indicators=a,b and repeated
// ?indicator= parameters. Ids containing commas can always be passed
// through the repeated form.
func (h *Handler) indicators(c *fiber.Ctx) []string {
	ids := h.dashboard.SplitIndicators(c.Query("indicators"))
	for _, v := range c.Context().QueryArgs().PeekMulti("indicator") {
		if id := string(v); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// queryInt parses an optional integer parameter
func queryInt(c *fiber.Ctx, name string) (int, bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	return v, true, err
}

// queryFloat parses an optional float parameter
func queryFloat(c *fiber.Ctx, name string) (float64, bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	return v, true, err
}
