package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"accomapi/internal/config"
	handlers "accomapi/internal/http/handler"
	"accomapi/internal/http/middleware"
	"accomapi/internal/logging"
	apiotel "accomapi/internal/otel"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context())
		},
	}
}

func newApp(cfg *config.AppConfig, log *zap.Logger, reg *prometheus.Registry, c *components) (*fiber.App, error) {
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "accomapi",
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
		BodyLimit:             64 * 1024,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(prom.Handler())
	app.Use(middleware.Recover(log))

	handlers.RegisterRoutes(app, handlers.Deps{
		Letters:        c.letters,
		Audits:         c.audits,
		AuditsEnabled:  c.db != nil,
		ArchiveEnabled: c.archive != nil,
		DB:             c.db,
		Gatherer:       reg,
		Production:     cfg.IsProduction(),
	})
	return app, nil
}

func runServer(ctx context.Context) error {
	cfg := config.Load()

	log, err := logging.New(cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := apiotel.Init(ctx, log)
	if err != nil {
		log.Error("tracing init failed", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c, err := buildComponents(ctx, cfg, log, reg, true)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}
	defer func() { _ = c.Close() }()

	if err := c.provider.Ready(); err != nil {
		// The server still starts; requests answer with a configuration error.
		log.Warn("LLM provider is not ready", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
	}

	app, err := newApp(cfg, log, reg, c)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening",
			zap.String("addr", ":"+cfg.Port),
			zap.String("env", cfg.AppEnv),
			zap.String("provider", cfg.LLM.Provider),
			zap.String("model", cfg.LLM.Model),
		)
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return app.ShutdownWithContext(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}
	return nil
}
