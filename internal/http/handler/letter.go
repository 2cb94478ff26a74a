package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"accomapi/internal/accommodation"
	"accomapi/internal/http/middleware"
	"accomapi/internal/model"
	"accomapi/internal/service"
)

const (
	// GenerationIDHeader carries the generation ID used for audit and trace lookups.
	GenerationIDHeader = "X-Generation-ID"

	msgInternal = "An internal server error occurred"
)

// diagnostics exposes how a generation went. It is never sent in production.
type diagnostics struct {
	Kind     string               `json:"kind,omitempty"`
	Degraded bool                 `json:"degraded,omitempty"`
	Raw      string               `json:"raw,omitempty"`
	Trace    *accommodation.Trace `json:"trace,omitempty"`
}

var kindCodes = map[accommodation.ErrorKind]string{
	accommodation.KindConfiguration:  "CONFIGURATION_ERROR",
	accommodation.KindTransport:      "TRANSPORT_ERROR",
	accommodation.KindUpstreamStatus: "UPSTREAM_ERROR",
	accommodation.KindUnparseable:    "GENERATION_ERROR",
	accommodation.KindInvalidShape:   "GENERATION_ERROR",
}

// GenerateLetter godoc
// @Summary      Generate an accommodation request letter
// @Description  Asks the configured model for ten accommodations and embeds them in a formal letter.
// @Tags         letters
// @Accept       json
// @Produce      json
// @Param        request  body      model.AccommodationRequest  true  "Person, disability and context"
// @Param        debug    query     bool                        false "Include diagnostics (non-production only)"
// @Success      200      {object}  model.LetterResponse
// @Failure      400      {object}  errorPayload
// @Failure      500      {object}  errorPayload
// @Router       /api/generate-letter [post]
func GenerateLetter(svc service.LetterService, production bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.AccommodationRequest
		if body := c.Body(); len(body) > 0 {
			if err := c.App().Config().JSONDecoder(body, &req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
			}
		}

		ctx := c.UserContext()
		res, err := svc.Generate(ctx, middleware.RequestIDFromContext(ctx), req)
		if err != nil {
			return writeGenerationError(c, err, production)
		}

		c.Set(GenerationIDHeader, res.GenerationID)

		out := model.LetterResponse{Letter: res.Letter, Accommodations: res.Accommodations}
		if !production && c.QueryBool("debug") {
			out.Diagnostics = &diagnostics{Degraded: res.Degraded, Trace: res.Trace}
		}
		return c.JSON(out)
	}
}

func writeGenerationError(c *fiber.Ctx, err error, production bool) error {
	if errors.Is(err, service.ErrMissingFields) {
		return writeError(c, fiber.StatusBadRequest, "MISSING_FIELDS", service.ErrMissingFields.Error())
	}

	var ge *accommodation.GenerationError
	if !errors.As(err, &ge) {
		return writeErrorDetail(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", msgInternal, err.Error(), nil)
	}

	var diag *diagnostics
	if !production {
		diag = &diagnostics{Kind: string(ge.Kind), Raw: ge.Raw, Trace: ge.Trace}
	}

	if ge.Kind == accommodation.KindConfiguration {
		return writeErrorDetail(c, fiber.StatusInternalServerError, kindCodes[ge.Kind], ge.Msg, "", diag)
	}
	return writeErrorDetail(c, fiber.StatusInternalServerError, kindCodes[ge.Kind], msgInternal, err.Error(), diag)
}

// MethodNotAllowed answers any method other than the allowed ones with 405 and an Allow header.
func MethodNotAllowed(allow string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAllow, allow)
		return writeError(c, fiber.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}
