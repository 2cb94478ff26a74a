package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"accomapi/internal/accommodation"
	"accomapi/internal/config"
	"accomapi/internal/database"
	"accomapi/internal/database/migration"
	"accomapi/internal/llm"
	"accomapi/internal/repository"
	"accomapi/internal/repository/postgres"
	"accomapi/internal/service"
	"accomapi/internal/storage"
)

// components are the long-lived collaborators shared by the CLI commands.
type components struct {
	provider llm.Provider
	letters  service.LetterService
	audits   service.AuditService
	db       *sql.DB
	archive  storage.Storage
}

func (c *components) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func newGenerator(ctx context.Context, cfg *config.AppConfig, log *zap.Logger, reg prometheus.Registerer) (accommodation.Generator, llm.Provider, error) {
	provider, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, nil, err
	}

	var metrics *accommodation.Metrics
	if reg != nil {
		if metrics, err = accommodation.NewMetrics(reg); err != nil {
			return nil, nil, fmt.Errorf("register generation metrics: %w", err)
		}
	}

	gen := accommodation.NewGenerator(provider, accommodation.Options{
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	}, log, metrics)
	return gen, provider, nil
}

// buildComponents wires the generator, the optional audit database and the
// optional trace archive. Optional backends are skipped when unconfigured.
func buildComponents(ctx context.Context, cfg *config.AppConfig, log *zap.Logger, reg prometheus.Registerer, withBackends bool) (*components, error) {
	gen, provider, err := newGenerator(ctx, cfg, log, reg)
	if err != nil {
		return nil, err
	}

	c := &components{provider: provider}
	var auditRepo repository.AuditRepository

	if withBackends && cfg.Database.Enabled() {
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		c.db = db
		auditRepo = postgres.NewAuditPostgres(db)
		log.Info("audit log enabled", zap.String("db_host", cfg.Database.Host))
	}

	if withBackends && cfg.MinIO.Enabled() {
		archive, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		c.archive = archive
		log.Info("trace archive enabled", zap.String("bucket", cfg.MinIO.Bucket))
	}

	c.letters = service.NewLetterService(service.Deps{
		Generator: gen,
		Audits:    auditRepo,
		Archive:   c.archive,
		Log:       log,
		Location:  cfg.Location(),
	})
	c.audits = service.NewAuditService(auditRepo, c.archive)
	return c, nil
}
