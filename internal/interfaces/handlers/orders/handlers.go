package orders

import (
	"strings"

	ordersvc "bitebuddy-backend/internal/application/orders"
	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/middleware"
	"bitebuddy-backend/internal/pkg/apperrors"
	"bitebuddy-backend/internal/pkg/params"
	"bitebuddy-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *ordersvc.Service
}

// CreateOrderRequest is the body of POST /api/v1/orders. Requester is optional and,
// when present, must name the session user.
type CreateOrderRequest struct {
	ListingID string           `json:"listingId"`
	Requester *domain.Identity `json:"requester"`
	Details   struct {
		Quantity     *int   `json:"quantity"`
		Address      string `json:"address"`
		DeliveryDate string `json:"deliveryDate"`
		Note         string `json:"note"`
	} `json:"details"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// POST /api/v1/orders: 201 with the new order, 409 when the listing is not available.
func (h *Handlers) Create(c *fiber.Ctx) error {
	session, _ := middleware.CurrentIdentity(c)

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	listingID, err := params.ParseUUID("listingId", req.ListingID)
	if err != nil {
		return response.FromError(c, err)
	}

	requester := session
	if req.Requester != nil {
		if email := strings.TrimSpace(req.Requester.Email); email != "" && !domain.SameEmail(email, session.Email) {
			return response.FromError(c, apperrors.Forbidden("Requester must be the signed-in user"))
		}
		if requester.Name == "" {
			requester.Name = req.Requester.Name
		}
	}

	order, err := h.Service.CreateOrder(c.UserContext(), requester, listingID, ordersvc.OrderDetails{
		Quantity:     req.Details.Quantity,
		Address:      req.Details.Address,
		DeliveryDate: req.Details.DeliveryDate,
		Note:         req.Details.Note,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Order created successfully", order, nil)
}

// GET /api/v1/orders?email=&role=&page=&limit=
func (h *Handlers) List(c *fiber.Ctx) error {
	id, _ := middleware.CurrentIdentity(c)
	page, limit, err := params.Page(c)
	if err != nil {
		return response.FromError(c, err)
	}
	items, meta, err := h.Service.List(c.UserContext(), id.Email, c.Query("role"), page, limit)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Orders fetched successfully", fiber.Map{"orders": items, "pagination": meta}, nil)
}

// GET /api/v1/orders/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, _ := middleware.CurrentIdentity(c)
	orderID, err := params.UUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	order, err := h.Service.GetOrder(c.UserContext(), id, orderID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Order fetched successfully", order, nil)
}

// PATCH /api/v1/orders/:id: donor only; 409 on an illegal transition.
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	id, _ := middleware.CurrentIdentity(c)
	orderID, err := params.UUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	order, err := h.Service.UpdateStatus(c.UserContext(), id, orderID, req.Status)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Order status updated successfully", order, nil)
}
