package listingevents

import (
	"strings"

	lesvc "bitebuddy-backend/internal/application/listingevents"
	"bitebuddy-backend/internal/middleware"
	"bitebuddy-backend/internal/pkg/params"
	"bitebuddy-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *lesvc.Service
}

// GET /api/v1/listing-events?listing_id=: audit trail of the session user's listings.
func (h *Handlers) GetOwnerEvents(c *fiber.Ctx) error {
	id, _ := middleware.CurrentIdentity(c)

	var listingID *uuid.UUID
	if raw := strings.TrimSpace(c.Query("listing_id")); raw != "" {
		parsed, err := params.ParseUUID("listing_id", raw)
		if err != nil {
			return response.FromError(c, err)
		}
		listingID = &parsed
	}

	events, err := h.Service.GetOwnerEvents(c.UserContext(), id.Email, listingID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing events fetched successfully", fiber.Map{"events": events}, nil)
}
