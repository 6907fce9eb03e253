package auth

import (
	"strings"

	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/middleware"
	"bitebuddy-backend/internal/pkg/apperrors"
	"bitebuddy-backend/internal/pkg/response"
	"bitebuddy-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userSessionsPrefix = "user_sessions:"

// Handlers bridges the identity provider's Redis sessions. Sign-in itself happens
// at the provider; Session is only mounted outside production for local testing.
type Handlers struct {
	Rdb         *redis.Client
	Config      middleware.SessionConfig
	DevPassword string
}

// Session POST /api/v1/auth/session starts a session for the identity in the body.
// Requires the dev-password header.
func (h *Handlers) Session(c *fiber.Ctx) error {
	if h.Config.IsProduction || h.DevPassword == "" || c.Get("dev-password") != h.DevPassword {
		return response.FromError(c, apperrors.Forbidden("Dev sessions are disabled"))
	}
	var body domain.Identity
	if err := c.BodyParser(&body); err != nil {
		return response.FromError(c, apperrors.InvalidInput("Invalid request body", nil))
	}
	body.Email = strings.TrimSpace(body.Email)
	if !validation.IsValidEmail(body.Email) {
		return response.FromError(c, apperrors.InvalidInput("Validation failed", map[string]interface{}{"email": "a valid email is required"}))
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		Email:    body.Email,
		Fullname: body.Name,
		PhotoURL: body.PhotoURL,
	})
	if err := h.Rdb.SAdd(c.UserContext(), userSessionsPrefix+strings.ToLower(body.Email), sessionID).Err(); err != nil {
		log.Error().Err(err).Msg("track session")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return response.SuccessCreated(c, "Session started", fiber.Map{"user": body}, nil)
}

// Me GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		log.Debug().Bool("session_id_present", middleware.GetSessionID(c) != "").Msg("auth/me: not authenticated")
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": id}, nil)
}

// Logout DELETE /api/v1/auth/logout drops the Redis session and clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	ctx := c.UserContext()

	if sessionID != "" {
		if id, ok := middleware.CurrentIdentity(c); ok {
			_ = h.Rdb.SRem(ctx, userSessionsPrefix+strings.ToLower(id.Email), sessionID).Err()
		}
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}
