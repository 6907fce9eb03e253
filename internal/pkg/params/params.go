// Package params parses path and query parameters into typed values, reporting
// failures as InvalidInput errors.
package params

import (
	"strconv"
	"strings"

	"bitebuddy-backend/internal/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UUID parses the path parameter name.
func UUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return ParseUUID(name, c.Params(name))
}

// ParseUUID parses s as the value of the named field.
func ParseUUID(name, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, apperrors.InvalidInput("Invalid "+name, map[string]interface{}{name: "must be a valid UUID"})
	}
	return id, nil
}

// QueryInt returns the integer query parameter name, or 0 when it is absent.
func QueryInt(c *fiber.Ctx, name string) (int, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.InvalidInput("Invalid "+name, map[string]interface{}{name: "must be an integer"})
	}
	return n, nil
}

// Page returns the page and limit query parameters.
func Page(c *fiber.Ctx) (page, limit int, err error) {
	if page, err = QueryInt(c, "page"); err != nil {
		return 0, 0, err
	}
	if limit, err = QueryInt(c, "limit"); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}
