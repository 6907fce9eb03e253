package middleware

import (
	"strings"

	"bitebuddy-backend/internal/pkg/apperrors"
	"bitebuddy-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig lists who may call the API from a browser.
type CORSConfig struct {
	AllowedSuffix string // e.g. ".bitebuddy.app"
	DevPassword   string
}

func (cfg CORSConfig) allows(c *fiber.Ctx, origin string) bool {
	if cfg.AllowedSuffix != "" && strings.HasSuffix(strings.ToLower(origin), strings.ToLower(cfg.AllowedSuffix)) {
		return true
	}
	return cfg.DevPassword != "" && c.Get("dev-password") == cfg.DevPassword
}

func isLocalOrigin(origin string) bool {
	return strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")
}

// CORS allows credentialed requests from the frontend domain and from callers that
// present the dev password. Requests without an Origin pass through, and preflights
// from localhost are always answered so the dev frontend can send the password.
func CORS(cfg CORSConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" {
			return c.Next()
		}
		preflight := c.Method() == fiber.MethodOptions
		if preflight && isLocalOrigin(origin) || cfg.allows(c, origin) {
			c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
			c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
			c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type, dev-password, X-Trace-Id")
			c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Set(fiber.HeaderAccessControlExposeHeaders, traceIDHeader)
			c.Vary(fiber.HeaderOrigin)
			if preflight {
				return c.SendStatus(fiber.StatusNoContent)
			}
			return c.Next()
		}
		return response.FromError(c, apperrors.Forbidden("Not allowed by CORS"))
	}
}
