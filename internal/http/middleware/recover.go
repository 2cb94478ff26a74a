package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Recover turns a panic in a downstream handler into a 500 passed to the app
// error handler, logging the panic value with the request ID.
func Recover(log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				rid, _ := c.Locals(RequestIDLocalKey).(string)
				log.Error("panic recovered",
					zap.String("request_id", rid),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
				err = fiber.NewError(fiber.StatusInternalServerError, fmt.Sprint(r))
			}
		}()
		return c.Next()
	}
}
