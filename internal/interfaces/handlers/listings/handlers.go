package listings

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	listsvc "bitebuddy-backend/internal/application/listings"
	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/middleware"
	"bitebuddy-backend/internal/pkg/apperrors"
	"bitebuddy-backend/internal/pkg/params"
	"bitebuddy-backend/internal/pkg/response"
	"bitebuddy-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *listsvc.Service
}

// listingBody is the JSON shape of a create or update request. Identity fields are
// read only so the service can reject attempts to change them.
type listingBody struct {
	FoodName    *string          `json:"foodName"`
	FoodImg     *string          `json:"foodImg"`
	Location    *string          `json:"location"`
	Quantity    *int             `json:"quantity"`
	ExDate      *string          `json:"exDate"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`

	ID            *string `json:"id"`
	OwnerEmail    *string `json:"ownerEmail"`
	OwnerName     *string `json:"ownerName"`
	OwnerImageURL *string `json:"ownerImageUrl"`
	Status        *string `json:"status"`
}

func invalidBody(field, msg string) error {
	return apperrors.InvalidInput("Invalid listing data", map[string]interface{}{field: msg})
}

func parseExDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := validation.ParseDate(*s)
	if err != nil {
		return nil, invalidBody("exDate", "must be a valid date")
	}
	return &t, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (b listingBody) input() (listsvc.ListingInput, error) {
	in := listsvc.ListingInput{
		FoodName:    deref(b.FoodName),
		FoodImg:     deref(b.FoodImg),
		Location:    deref(b.Location),
		Quantity:    deref(b.Quantity),
		Description: deref(b.Description),
		Price:       deref(b.Price),
	}
	ex, err := parseExDate(b.ExDate)
	if err != nil {
		return in, err
	}
	if ex != nil {
		in.ExDate = *ex
	}
	return in, nil
}

func (b listingBody) patch() (listsvc.ListingPatch, error) {
	ex, err := parseExDate(b.ExDate)
	if err != nil {
		return listsvc.ListingPatch{}, err
	}
	return listsvc.ListingPatch{
		FoodName:      b.FoodName,
		FoodImg:       b.FoodImg,
		Location:      b.Location,
		Quantity:      b.Quantity,
		ExDate:        ex,
		Description:   b.Description,
		Price:         b.Price,
		ID:            b.ID,
		OwnerEmail:    b.OwnerEmail,
		OwnerName:     b.OwnerName,
		OwnerImageURL: b.OwnerImageURL,
		Status:        b.Status,
	}, nil
}

// formBody reads a multipart listing form into the JSON body shape.
func formBody(c *fiber.Ctx) (listingBody, error) {
	var b listingBody
	str := func(key string) *string {
		if v := c.FormValue(key); v != "" {
			return &v
		}
		return nil
	}
	b.FoodName = str("foodName")
	b.FoodImg = str("foodImg")
	b.Location = str("location")
	b.ExDate = str("exDate")
	b.Description = str("description")
	if v := str("quantity"); v != nil {
		n, err := strconv.Atoi(strings.TrimSpace(*v))
		if err != nil {
			return b, invalidBody("quantity", "must be an integer")
		}
		b.Quantity = &n
	}
	if v := str("price"); v != nil {
		d, err := decimal.NewFromString(strings.TrimSpace(*v))
		if err != nil {
			return b, invalidBody("price", "must be a number")
		}
		b.Price = &d
	}
	return b, nil
}

func readImage(fh *multipart.FileHeader) (listsvc.ImageFile, error) {
	f, err := fh.Open()
	if err != nil {
		return listsvc.ImageFile{}, invalidBody("image", "could not be read")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return listsvc.ImageFile{}, invalidBody("image", "could not be read")
	}
	return listsvc.ImageFile{Name: fh.Filename, Data: data}, nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// GET /api/v1/listings: public browse with search, sort and pagination.
func (h *Handlers) Query(c *fiber.Ctx) error {
	page, limit, err := params.Page(c)
	if err != nil {
		return response.FromError(c, err)
	}
	items, meta, err := h.Service.Query(c.UserContext(), listsvc.ListingQuery{
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listings fetched successfully", fiber.Map{"items": items, "pagination": meta}, nil)
}

// GET /api/v1/listings/mine: the session user's own listings.
func (h *Handlers) Mine(c *fiber.Ctx) error {
	id, _ := middleware.CurrentIdentity(c)
	page, limit, err := params.Page(c)
	if err != nil {
		return response.FromError(c, err)
	}
	items, meta, err := h.Service.ListByOwner(c.UserContext(), id.Email, page, limit)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listings fetched successfully", fiber.Map{"items": items, "pagination": meta}, nil)
}

// GET /api/v1/listings/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	listingID, err := params.UUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	listing, err := h.Service.GetByID(c.UserContext(), listingID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing fetched successfully", listing, nil)
}

// POST /api/v1/listings: JSON, or multipart with an optional "image" file that is
// uploaded to the image host before the listing is stored.
func (h *Handlers) Create(c *fiber.Ctx) error {
	owner, _ := middleware.CurrentIdentity(c)

	var body listingBody
	var image *listsvc.ImageFile
	if isMultipart(c) {
		b, err := formBody(c)
		if err != nil {
			return response.FromError(c, err)
		}
		body = b
		if fh, err := c.FormFile("image"); err == nil {
			img, err := readImage(fh)
			if err != nil {
				return response.FromError(c, err)
			}
			image = &img
		}
	} else if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	in, err := body.input()
	if err != nil {
		return response.FromError(c, err)
	}
	ctx := c.UserContext()
	var created *domain.Listing
	if image != nil {
		created, err = h.Service.CreateWithImage(ctx, owner, in, *image)
	} else {
		created, err = h.Service.Create(ctx, owner, in)
	}
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Listing created successfully", created, nil)
}

// PUT /api/v1/listings/:id: owner only, mutable fields only.
func (h *Handlers) Update(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentIdentity(c)
	listingID, err := params.UUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var body listingBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	patch, err := body.patch()
	if err != nil {
		return response.FromError(c, err)
	}
	updated, err := h.Service.Update(c.UserContext(), actor, listingID, patch)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing updated successfully", updated, nil)
}

// DELETE /api/v1/listings/:id: owner only, 204 on success.
func (h *Handlers) Delete(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentIdentity(c)
	listingID, err := params.UUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), actor, listingID); err != nil {
		return response.FromError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
