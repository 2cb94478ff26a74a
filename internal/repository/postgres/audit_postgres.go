package postgres

import (
	"context"
	"database/sql"

	"accomapi/internal/model"
	"accomapi/internal/repository"
)

// AuditPostgres is a PostgreSQL implementation of repository.AuditRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type AuditPostgres struct {
	db *sql.DB
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

const auditColumns = `id, request_id, provider, model, strategy, item_count, degraded, outcome, error_kind, duration_ms, created_at`

func scanAudit(s interface{ Scan(dest ...any) error }) (*model.GenerationAudit, error) {
	var a model.GenerationAudit
	if err := s.Scan(
		&a.ID,
		&a.RequestID,
		&a.Provider,
		&a.Model,
		&a.Strategy,
		&a.ItemCount,
		&a.Degraded,
		&a.Outcome,
		&a.ErrorKind,
		&a.DurationMS,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new audit row and returns the stored record.
func (r *AuditPostgres) Create(ctx context.Context, a *model.GenerationAudit) (*model.GenerationAudit, error) {
	const q = `
		INSERT INTO generation_audits (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + auditColumns
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.RequestID,
		a.Provider,
		a.Model,
		a.Strategy,
		a.ItemCount,
		a.Degraded,
		a.Outcome,
		a.ErrorKind,
		a.DurationMS,
		a.CreatedAt,
	)
	return scanAudit(row)
}

// List returns audits using LIMIT/OFFSET pagination and a total count.
func (r *AuditPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.GenerationAudit], error) {
	const qCount = `SELECT COUNT(*) FROM generation_audits`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + auditColumns + `
		FROM generation_audits
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.GenerationAudit, 0)
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.GenerationAudit]{
		Items: items,
		Total: total,
	}, nil
}
