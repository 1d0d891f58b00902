package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrolens/macrolens/internal/logging"
	"github.com/macrolens/macrolens/internal/models"
)

var validKey = strings.Repeat("k", MinAPIKeyLength)

func newAuthApp(keys []string, enabled bool) *fiber.App {
	app := fiber.New()
	app.Use(APIKeyAuth(logging.Nop(), keys, enabled))
	app.Get("/v1/charts", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestValidateAPIKey(t *testing.T) {
	assert.True(t, ValidateAPIKey(validKey))
	assert.True(t, ValidateAPIKey(validKey+"extra"))
	assert.False(t, ValidateAPIKey(validKey[1:]))
	assert.False(t, ValidateAPIKey(""))
	assert.False(t, ValidateAPIKey(strings.Repeat(" ", MinAPIKeyLength)))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "abcd****", maskAPIKey("abcdefgh"))
	assert.Equal(t, "****", maskAPIKey("abcd"))
	assert.Equal(t, "****", maskAPIKey(""))
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	app := newAuthApp(nil, false)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/charts", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAPIKeyAuth(t *testing.T) {
	app := newAuthApp([]string{validKey, "short"}, true)

	tests := []struct {
		name   string
		header string
		value  string
		status int
	}{
		{"x-api-key", "X-API-Key", validKey, fiber.StatusOK},
		{"bearer", "Authorization", "Bearer " + validKey, fiber.StatusOK},
		{"plain authorization", "Authorization", validKey, fiber.StatusOK},
		{"missing", "", "", fiber.StatusUnauthorized},
		{"wrong", "X-API-Key", strings.Repeat("x", MinAPIKeyLength), fiber.StatusUnauthorized},
		{"weak configured key is ignored", "X-API-Key", "short", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/charts", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.status == fiber.StatusUnauthorized {
				var body models.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logging.Nop())})
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrMethodNotAllowed })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("boom") })
	app.Get("/custom", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadRequest, "window must be a number") })

	tests := []struct {
		path    string
		status  int
		code    string
		message string
	}{
		{"/fiber", fiber.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method Not Allowed"},
		{"/plain", fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error"},
		{"/custom", fiber.StatusBadRequest, "BAD_REQUEST", "window must be a number"},
		{"/nowhere", fiber.StatusNotFound, "NOT_FOUND", "Cannot GET /nowhere"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
			assert.Equal(t, tt.path, body.Error.Path)
		})
	}
}
