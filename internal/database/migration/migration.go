// Package migration creates the audit schema on startup when it is missing.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_generation_audits",
		SQL: `CREATE TABLE IF NOT EXISTS generation_audits (
  id          UUID        PRIMARY KEY,
  request_id  TEXT        NOT NULL,
  provider    TEXT        NOT NULL,
  model       TEXT        NOT NULL,
  strategy    TEXT        NOT NULL DEFAULT '',
  item_count  INTEGER     NOT NULL CHECK (item_count >= 0),
  degraded    BOOLEAN     NOT NULL DEFAULT FALSE,
  outcome     TEXT        NOT NULL,
  error_kind  TEXT        NOT NULL DEFAULT '',
  duration_ms BIGINT      NOT NULL CHECK (duration_ms >= 0),
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_generation_audits_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_generation_audits_created_at ON generation_audits (created_at);`,
	},
	{
		Name: "create_index_generation_audits_outcome",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_generation_audits_outcome ON generation_audits (outcome);`,
	},
}

// EnsureMigrated runs the schema steps unless the generation_audits table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"))

	var exists bool
	const query = "SELECT to_regclass('public.generation_audits') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip", zap.String("reason", "schema already exists"))
		return nil
	}

	log.Info("db_migration_start", zap.Int("steps", len(steps)))
	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Duration("duration", time.Since(start)),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step",
			zap.String("migration_step", step.Name),
			zap.Duration("step_duration", time.Since(stepStart)),
		)
	}

	log.Info("db_migration_success", zap.Duration("duration", time.Since(start)))
	return nil
}
