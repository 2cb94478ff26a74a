package handler

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"accomapi/docs"
	"accomapi/internal/service"
)

// Deps are the collaborators RegisterRoutes needs. Optional parts may be nil.
type Deps struct {
	Letters service.LetterService
	// Audits backs the operator routes; they are registered only when
	// AuditsEnabled or ArchiveEnabled is set.
	Audits         service.AuditService
	AuditsEnabled  bool
	ArchiveEnabled bool
	DB             *sql.DB
	Gatherer       prometheus.Gatherer
	Production     bool
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/swagger/*", SwaggerUI())

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Post("/api/generate-letter", GenerateLetter(d.Letters, d.Production))
	app.All("/api/generate-letter", MethodNotAllowed(fiber.MethodPost))

	if d.Audits != nil && d.AuditsEnabled {
		app.Get("/api/audits", ListAudits(d.Audits))
	}
	// Traces include the raw model reply, so they stay off production listeners.
	if d.Audits != nil && d.ArchiveEnabled && !d.Production {
		app.Get("/api/diagnostics/:id", GetDiagnostics(d.Audits))
	}
}

// SwaggerUI serves the generated API docs with the host and scheme the caller used.
func SwaggerUI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	}
}
