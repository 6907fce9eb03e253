package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	traceIDHeader = "X-Trace-Id"
	traceIDLocal  = "trace_id"
)

// Tracing tags the request with a trace id, reusing a valid inbound X-Trace-Id so a
// caller can follow one request across services. The id is echoed in the response
// and a logger carrying it is attached to the user context.
func Tracing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := ""
		if id, err := uuid.Parse(c.Get(traceIDHeader)); err == nil {
			traceID = id.String()
		} else if id, err := uuid.NewV7(); err == nil {
			traceID = id.String()
		} else {
			traceID = uuid.NewString()
		}
		c.Locals(traceIDLocal, traceID)
		c.Set(traceIDHeader, traceID)

		logger := log.With().Str("trace_id", traceID).Logger()
		c.SetUserContext(logger.WithContext(c.UserContext()))
		return c.Next()
	}
}

// GetTraceID returns the request's trace id, empty outside Tracing.
func GetTraceID(c *fiber.Ctx) string {
	id, _ := c.Locals(traceIDLocal).(string)
	return id
}
