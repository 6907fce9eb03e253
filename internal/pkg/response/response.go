package response

import (
	"errors"

	"bitebuddy-backend/internal/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// SuccessBody is the standardized success JSON shape.
type SuccessBody struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// ErrorBody is the standardized error JSON shape.
type ErrorBody struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

// ErrorDetail is the nested error object.
type ErrorDetail struct {
	Message    string      `json:"message"`
	Kind       string      `json:"kind,omitempty"`
	StatusCode int         `json:"statusCode"`
	Details    interface{} `json:"details,omitempty"`
}

const statusSuccess = "success"
const statusError = "error"

// Success sends a 200 OK response with the standard success format.
func Success(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return c.Status(fiber.StatusOK).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// SuccessCreated sends a 201 Created response with the standard success format.
func SuccessCreated(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return c.Status(fiber.StatusCreated).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// Error sends a response with the standard error format.
func Error(c *fiber.Ctx, message string, statusCode int, details interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	return c.Status(statusCode).JSON(ErrorBody{
		Status: statusError,
		Error: ErrorDetail{
			Message:    message,
			StatusCode: statusCode,
			Details:    details,
		},
	})
}

// FromError renders a service error. Categorised errors keep their message and
// details; anything else is logged and collapsed to a 500.
func FromError(c *fiber.Ctx, err error) error {
	kind := apperrors.KindOf(err)
	code := apperrors.StatusCode(kind)
	traceID, _ := c.Locals("trace_id").(string)

	if kind == apperrors.KindInternal {
		log.Error().Err(err).Str("trace_id", traceID).Str("path", c.Path()).Msg("Unhandled service error")
		return Error(c, "Internal Server Error", code, nil)
	}

	var details interface{}
	var message string
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
		if appErr.Details != nil {
			details = appErr.Details
		}
	}
	ev := log.Warn()
	if code >= fiber.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).Str("trace_id", traceID).Str("kind", string(kind)).Str("path", c.Path()).Msg("Request failed")

	if details == nil {
		details = map[string]interface{}{}
	}
	return c.Status(code).JSON(ErrorBody{
		Status: statusError,
		Error: ErrorDetail{
			Message:    message,
			Kind:       string(kind),
			StatusCode: code,
			Details:    details,
		},
	})
}

// Unauthorized sends 401 with the same shape as other errors (status "error", error.message).
// Use this for auth middleware so all errors are consistent.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized, nil)
}
