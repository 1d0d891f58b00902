package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/macrolens/macrolens/internal/logging"
	"github.com/macrolens/macrolens/internal/models"
)

// ErrorHandler renders errors that escaped the handlers as ErrorResponse
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		fields := []any{"path", c.Path(), "method", c.Method(), "status", code, "error", err}
		if code >= fiber.StatusInternalServerError {
			logging.FromContext(c.UserContext()).Error("Request error", fields...)
		} else {
			logger.Debug("Request error", fields...)
		}

		return c.Status(code).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    errorCode(code),
				Message: message,
				Path:    c.Path(),
			},
		})
	}
}

// errorCode turns a status into an upper snake case code, e.g. NOT_FOUND
func errorCode(status int) string {
	text := utils.StatusMessage(status)
	if text == "" || status == fiber.StatusInternalServerError {
		return "INTERNAL_ERROR"
	}
	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}
