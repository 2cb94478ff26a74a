package handler

import (
	"github.com/gofiber/fiber/v2"

	"accomapi/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
// Error is always a plain string so simple clients can display it directly.
type errorPayload struct {
	RequestID   string       `json:"request_id"`
	Error       string       `json:"error"`
	Code        string       `json:"code"`
	Details     string       `json:"details,omitempty"`
	Diagnostics *diagnostics `json:"diagnostics,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without internal details.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "MISSING_FIELDS", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     message,
		Code:      code,
	})
}

// writeErrorDetail is writeError plus the underlying error message and, outside
// production, the diagnostic trace.
func writeErrorDetail(c *fiber.Ctx, status int, code, message, details string, diag *diagnostics) error {
	return c.Status(status).JSON(errorPayload{
		RequestID:   requestIDFromCtx(c),
		Error:       message,
		Code:        code,
		Details:     details,
		Diagnostics: diag,
	})
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", msgInternal)
		}
	}
}
