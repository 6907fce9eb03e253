package middleware

import (
	"strings"

	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth rejects requests without a session identity with 401.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentIdentity(c); !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the raw session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// CurrentIdentity returns the session identity. ok is false when there is no user
// or the user has no email.
func CurrentIdentity(c *fiber.Ctx) (domain.Identity, bool) {
	var id domain.Identity
	switch u := GetUser(c).(type) {
	case map[string]interface{}:
		id.Email, _ = u["email"].(string)
		id.Name, _ = u["fullname"].(string)
		id.PhotoURL, _ = u["photo_url"].(string)
	case SessionUser:
		id = domain.Identity{Email: u.Email, Name: u.Fullname, PhotoURL: u.PhotoURL}
	case *SessionUser:
		if u != nil {
			id = domain.Identity{Email: u.Email, Name: u.Fullname, PhotoURL: u.PhotoURL}
		}
	}
	id.Email = strings.TrimSpace(id.Email)
	return id, id.Email != ""
}
