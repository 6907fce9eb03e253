package uploads

import (
	"io"

	uploadsvc "bitebuddy-backend/internal/application/uploads"
	"bitebuddy-backend/internal/pkg/apperrors"
	"bitebuddy-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service *uploadsvc.Service
}

// UploadFoodImage POST /api/v1/uploads/food-image (multipart "image"): returns the hosted URL.
func (h *Handlers) UploadFoodImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return response.FromError(c, apperrors.InvalidInput("Image file is required", map[string]interface{}{"image": "is required"}))
	}
	f, err := fh.Open()
	if err != nil {
		return response.FromError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, uploadsvc.MaxImageBytes+1))
	if err != nil {
		return response.FromError(c, err)
	}

	res, err := h.Service.UploadFoodImage(c.UserContext(), fh.Filename, data)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Image uploaded successfully", res, nil)
}
