package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/macrolens/macrolens/internal/logging"
	"github.com/macrolens/macrolens/internal/models"
)

// MinAPIKeyLength is the minimum accepted length of a configured key
const MinAPIKeyLength = 32

// ValidateAPIKey reports whether a configured key is long enough to use
func ValidateAPIKey(key string) bool {
	return len(key) >= MinAPIKeyLength && strings.TrimSpace(key) != ""
}

// requestAPIKey reads X-API-Key, then Authorization with or without Bearer
func requestAPIKey(c *fiber.Ctx) string {
	if key := c.Get("X-API-Key"); key != "" {
		return key
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return after
	}
	return auth
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{Code: "UNAUTHORIZED", Message: message},
	})
}

// APIKeyAuth guards the API with static keys. Disabled auth passes every
// request; configured keys shorter than MinAPIKeyLength are ignored.
func APIKeyAuth(logger *logging.Logger, apiKeys []string, enabled bool) fiber.Handler {
	if !enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	keys := make(map[string]struct{}, len(apiKeys))
	for _, key := range apiKeys {
		if key == "" {
			continue
		}
		if !ValidateAPIKey(key) {
			logger.Warn("Ignoring weak API key", "key_length", len(key), "min_required", MinAPIKeyLength, "key_prefix", maskAPIKey(key))
			continue
		}
		keys[key] = struct{}{}
	}
	if len(keys) == 0 {
		logger.Error("Auth is enabled but no usable API key is configured", "total_keys", len(apiKeys))
	}

	return func(c *fiber.Ctx) error {
		key := requestAPIKey(c)
		if key == "" {
			logger.Warn("API key missing", "path", c.Path(), "ip", c.IP())
			return unauthorized(c, "API key is required. Provide it via X-API-Key header or Authorization header.")
		}
		if _, ok := keys[key]; !ok {
			logger.Warn("Invalid API key", "path", c.Path(), "ip", c.IP(), "api_key_prefix", maskAPIKey(key))
			return unauthorized(c, "Invalid API key.")
		}
		return c.Next()
	}
}

// maskAPIKey keeps the first 4 characters for logs
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
