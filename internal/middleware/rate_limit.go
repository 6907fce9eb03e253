package middleware

import (
	"time"

	"bitebuddy-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// OrderRateLimit caps order requests per session user (or IP when anonymous) per minute.
// A max of 0 or less disables the limit.
func OrderRateLimit(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   time.Minute,
		KeyGenerator: RateLimitKey,
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, "Too many requests, please try again later", fiber.StatusTooManyRequests, nil)
		},
	})
}

// RateLimitKey keys by session email, falling back to the client IP.
func RateLimitKey(c *fiber.Ctx) string {
	if id, ok := CurrentIdentity(c); ok {
		return "user:" + id.Email
	}
	return "ip:" + c.IP()
}
