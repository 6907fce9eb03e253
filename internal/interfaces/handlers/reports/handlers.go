package reports

import (
	reportsvc "bitebuddy-backend/internal/application/reports"
	"bitebuddy-backend/internal/middleware"
	"bitebuddy-backend/internal/pkg/params"
	"bitebuddy-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *reportsvc.Service
}

// GET /api/v1/orders/chart?email=&role=&months=
func (h *Handlers) Chart(c *fiber.Ctx) error {
	id, _ := middleware.CurrentIdentity(c)
	months, err := params.QueryInt(c, "months")
	if err != nil {
		return response.FromError(c, err)
	}
	buckets, err := h.Service.Chart(c.UserContext(), id.Email, c.Query("role"), months)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Order chart fetched successfully", buckets, nil)
}

// GET /api/v1/orders/report?email=&role=&month=YYYY-MM: unpaginated, for export.
func (h *Handlers) Report(c *fiber.Ctx) error {
	id, _ := middleware.CurrentIdentity(c)
	rows, err := h.Service.Report(c.UserContext(), id.Email, c.Query("role"), c.Query("month"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Order report fetched successfully", rows, fiber.Map{"count": len(rows)})
}

// GET /api/v1/dashboard/stats
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	id, _ := middleware.CurrentIdentity(c)
	stats, err := h.Service.Dashboard(c.UserContext(), id.Email)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Dashboard stats fetched successfully", stats, nil)
}
