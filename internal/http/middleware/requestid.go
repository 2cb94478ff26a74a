package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// RequestIDHeader is the header used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the Fiber locals key holding the request ID.
	RequestIDLocalKey = "request_id"
	// RequestIDAttribute is the span attribute carrying the request ID.
	RequestIDAttribute = "http.request_id"

	maxRequestIDLen = 128
)

type requestIDKey struct{}

// RequestID ensures every request carries an ID that ties together the
// response header, the request log line, the audit row and the trace span.
//
// An incoming X-Request-ID is reused only when it is short printable ASCII;
// anything else is replaced with a fresh UUID. The ID is stored in locals and
// in the user context, and set as an attribute on the active span.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)

		ctx := context.WithValue(c.UserContext(), requestIDKey{}, id)
		trace.SpanFromContext(ctx).SetAttributes(attribute.String(RequestIDAttribute, id))
		c.SetUserContext(ctx)

		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}

// RequestIDFromContext returns the ID stored by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
