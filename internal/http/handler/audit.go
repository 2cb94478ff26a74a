package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"accomapi/internal/service"
)

// HealthCheck reports readiness. When an audit database is wired it must answer a ping.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a dependency-free liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListAudits godoc
// @Summary  List generation audits
// @Tags     operations
// @Produce  json
// @Param    limit   query     int  false  "Page size"  default(10)
// @Param    offset  query     int  false  "Offset"     default(0)
// @Success  200     {object}  service.AuditListResult
// @Failure  400     {object}  errorPayload
// @Router   /api/audits [get]
func ListAudits(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", msgInternal)
		}
		return c.JSON(res)
	}
}

// GetDiagnostics godoc
// @Summary  Fetch the archived trace of a failed generation
// @Tags     operations
// @Produce  json
// @Param    id   path  string  true  "Generation ID"
// @Success  200
// @Failure  400  {object}  errorPayload
// @Failure  404  {object}  errorPayload
// @Router   /api/diagnostics/{id} [get]
func GetDiagnostics(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		rc, err := svc.Trace(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "trace not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", msgInternal)
		}

		c.Type("json")
		return c.SendStream(rc)
	}
}
