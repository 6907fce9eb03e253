package middleware

import (
	"strings"

	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/pkg/apperrors"
	"bitebuddy-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequireSelf rejects a request whose query parameter param names someone other than
// the session user. Handlers behind it read the identity from the session, so a
// missing parameter means the session user.
func RequireSelf(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if v := strings.TrimSpace(c.Query(param)); v != "" && !domain.SameEmail(v, id.Email) {
			return response.FromError(c, apperrors.Forbidden("You can only access your own data"))
		}
		return c.Next()
	}
}
