package service

import (
	"context"
	"errors"
	"io"

	"accomapi/internal/model"
	"accomapi/internal/repository"
	"accomapi/internal/storage"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrNotFound         = errors.New("trace not found")
	ErrArchiveDisabled  = errors.New("trace archive is not configured")
	ErrAuditingDisabled = errors.New("audit log is not configured")
)

// AuditListResult is the service-level DTO for paginated audits.
type AuditListResult struct {
	Items []model.GenerationAudit `json:"data"`
	Total int                     `json:"total"`
}

// AuditService exposes operator read paths over the audit log and the trace archive.
type AuditService interface {
	// List returns audits using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*AuditListResult, error)

	// Trace streams the archived diagnostic trace of a failed generation.
	Trace(ctx context.Context, generationID string) (io.ReadCloser, error)
}

type auditService struct {
	repo    repository.AuditRepository
	archive storage.Storage
}

// NewAuditService constructs a new AuditService. Either collaborator may be nil.
func NewAuditService(repo repository.AuditRepository, archive storage.Storage) AuditService {
	return &auditService{repo: repo, archive: archive}
}

// List returns paginated audits without exposing repository types.
func (s *auditService) List(ctx context.Context, limit, offset int) (*AuditListResult, error) {
	if s.repo == nil {
		return nil, ErrAuditingDisabled
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &AuditListResult{Items: res.Items, Total: res.Total}, nil
}

// Trace returns the archived trace for a generation.
func (s *auditService) Trace(ctx context.Context, generationID string) (io.ReadCloser, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	if generationID == "" {
		return nil, ErrIDRequired
	}
	rc, _, err := s.archive.Get(ctx, storage.TraceKey(generationID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rc, nil
}
