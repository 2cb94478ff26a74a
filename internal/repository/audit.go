package repository

import (
	"context"

	"accomapi/internal/model"
)

// AuditRepository stores generation audit rows using SQL queries only.
// No business logic here, strictly persistence operations.
type AuditRepository interface {
	// Create inserts a new audit record and returns the stored row.
	Create(ctx context.Context, a *model.GenerationAudit) (*model.GenerationAudit, error)

	// List returns a page of audits, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.GenerationAudit], error)
}
