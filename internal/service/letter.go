package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"accomapi/internal/accommodation"
	"accomapi/internal/letter"
	"accomapi/internal/model"
	"accomapi/internal/repository"
	"accomapi/internal/storage"
)

// ErrMissingFields is returned when name, disability or context is empty.
var ErrMissingFields = errors.New("Missing required fields")

// LetterResult is the service-level DTO of a successful generation.
type LetterResult struct {
	GenerationID   string
	Letter         string
	Accommodations []string
	Degraded       bool
	Trace          *accommodation.Trace
}

// LetterService runs the generator and the letter assembler for one request.
type LetterService interface {
	// Generate validates the request, asks the model for accommodations and renders the letter.
	// Failures from the generator are returned unchanged so callers can classify them.
	Generate(ctx context.Context, requestID string, req model.AccommodationRequest) (*LetterResult, error)
}

// Deps groups the collaborators of NewLetterService. Audits and Archive are optional.
type Deps struct {
	Generator accommodation.Generator
	Audits    repository.AuditRepository
	Archive   storage.Storage
	Log       *zap.Logger
	Location  *time.Location
	Now       func() time.Time
}

type letterService struct {
	gen     accommodation.Generator
	audits  repository.AuditRepository
	archive storage.Storage
	log     *zap.Logger
	loc     *time.Location
	now     func() time.Time
}

// NewLetterService constructs a new LetterService.
func NewLetterService(d Deps) LetterService {
	s := &letterService{
		gen:     d.Generator,
		audits:  d.Audits,
		archive: d.Archive,
		log:     d.Log,
		loc:     d.Location,
		now:     d.Now,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Validate reports ErrMissingFields when any field is empty or whitespace.
func Validate(req model.AccommodationRequest) error {
	if strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Disability) == "" ||
		strings.TrimSpace(req.Context) == "" {
		return ErrMissingFields
	}
	return nil
}

func (s *letterService) Generate(ctx context.Context, requestID string, req model.AccommodationRequest) (*LetterResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	genID := uuid.NewString()
	start := time.Now()
	log := s.log.With(zap.String("request_id", requestID), zap.String("generation_id", genID))

	res, err := s.gen.Generate(ctx, req.Disability, req.Context)
	if err != nil {
		var ge *accommodation.GenerationError
		errors.As(err, &ge)
		s.audit(ctx, log, auditFromFailure(genID, requestID, ge, time.Since(start), s.now()))
		if ge != nil && ge.Kind != accommodation.KindConfiguration {
			s.archiveTrace(ctx, log, genID, ge.Trace)
		}
		return nil, err
	}

	s.audit(ctx, log, &model.GenerationAudit{
		ID:         genID,
		RequestID:  requestID,
		Provider:   res.Trace.Provider,
		Model:      res.Trace.Model,
		Strategy:   string(res.Strategy),
		ItemCount:  len(res.Accommodations),
		Degraded:   res.Degraded,
		Outcome:    model.OutcomeSuccess,
		DurationMS: time.Since(start).Milliseconds(),
		CreatedAt:  s.now().UTC(),
	})

	return &LetterResult{
		GenerationID:   genID,
		Letter:         letter.Render(req.Name, req.Disability, res.Accommodations, req.Context, s.now().In(s.loc)),
		Accommodations: res.Accommodations,
		Degraded:       res.Degraded,
		Trace:          res.Trace,
	}, nil
}

func auditFromFailure(genID, requestID string, ge *accommodation.GenerationError, elapsed time.Duration, now time.Time) *model.GenerationAudit {
	a := &model.GenerationAudit{
		ID:         genID,
		RequestID:  requestID,
		Outcome:    model.OutcomeFailed,
		DurationMS: elapsed.Milliseconds(),
		CreatedAt:  now.UTC(),
	}
	if ge != nil {
		a.ErrorKind = string(ge.Kind)
		if ge.Trace != nil {
			a.Provider = ge.Trace.Provider
			a.Model = ge.Trace.Model
			a.Strategy = string(ge.Trace.Strategy)
		}
	}
	return a
}

// audit is best effort: a broken audit store never fails a letter request.
func (s *letterService) audit(ctx context.Context, log *zap.Logger, a *model.GenerationAudit) {
	if s.audits == nil {
		return
	}
	if _, err := s.audits.Create(ctx, a); err != nil {
		log.Warn("audit write failed", zap.Error(err))
	}
}

func (s *letterService) archiveTrace(ctx context.Context, log *zap.Logger, genID string, tr *accommodation.Trace) {
	if s.archive == nil || tr == nil {
		return
	}
	b, err := json.Marshal(tr)
	if err != nil {
		log.Warn("trace encode failed", zap.Error(err))
		return
	}
	if _, err := s.archive.Put(ctx, storage.TraceKey(genID), bytes.NewReader(b), storage.PutObjectOptions{
		Size:        int64(len(b)),
		ContentType: "application/json",
	}); err != nil {
		log.Warn("trace archive failed", zap.Error(err))
		return
	}
	log.Info("trace archived", zap.String("key", storage.TraceKey(genID)))
}
