package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"accomapi/internal/accommodation"
	genmocks "accomapi/internal/accommodation/mocks"
	"accomapi/internal/model"
	repomocks "accomapi/internal/repository/mocks"
	"accomapi/internal/storage"
	storemocks "accomapi/internal/storage/mocks"
)

var fixedNow = func() time.Time { return time.Date(2024, time.March, 5, 15, 0, 0, 0, time.UTC) }

func tenItems() []string {
	out := make([]string, model.TargetAccommodations)
	for i := range out {
		out[i] = "Item " + string(rune('A'+i))
	}
	return out
}

func validRequest() model.AccommodationRequest {
	return model.AccommodationRequest{Name: "Alex Rivera", Disability: "ADHD", Context: "university student"}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  model.AccommodationRequest
		want error
	}{
		{name: "all present", req: validRequest(), want: nil},
		{name: "missing name", req: model.AccommodationRequest{Disability: "ADHD", Context: "work"}, want: ErrMissingFields},
		{name: "missing disability", req: model.AccommodationRequest{Name: "A", Context: "work"}, want: ErrMissingFields},
		{name: "missing context", req: model.AccommodationRequest{Name: "A", Disability: "ADHD"}, want: ErrMissingFields},
		{name: "whitespace only", req: model.AccommodationRequest{Name: "A", Disability: "  \t", Context: "work"}, want: ErrMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.req))
		})
	}
}

func TestGenerate_Success(t *testing.T) {
	gen := new(genmocks.MockGenerator)
	audits := new(repomocks.MockAuditRepository)

	gen.On("Generate", mock.Anything, "ADHD", "university student").Return(&accommodation.Result{
		Accommodations: tenItems(),
		Strategy:       accommodation.StrategyDirect,
		Trace:          &accommodation.Trace{Provider: "anthropic", Model: "m"},
	}, nil)
	audits.On("Create", mock.Anything, mock.MatchedBy(func(a *model.GenerationAudit) bool {
		return a.RequestID == "req-1" && a.Outcome == model.OutcomeSuccess &&
			a.ItemCount == 10 && a.Strategy == "direct" && a.Provider == "anthropic" &&
			a.CreatedAt.Equal(fixedNow())
	})).Return(&model.GenerationAudit{}, nil)

	svc := NewLetterService(Deps{Generator: gen, Audits: audits, Now: fixedNow})
	res, err := svc.Generate(context.Background(), "req-1", validRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, res.GenerationID)
	assert.Len(t, res.Accommodations, 10)
	assert.False(t, res.Degraded)
	assert.True(t, strings.HasPrefix(res.Letter, "March 5, 2024"))
	assert.Contains(t, res.Letter, "Re: Accommodation Request for Alex Rivera")
	assert.Contains(t, res.Letter, "10. Item J")
	gen.AssertExpectations(t)
	audits.AssertExpectations(t)
}

func TestGenerate_UsesConfiguredLocation(t *testing.T) {
	gen := new(genmocks.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(&accommodation.Result{
		Accommodations: tenItems(),
		Trace:          &accommodation.Trace{},
	}, nil)

	loc := time.FixedZone("UTC+10", 10*60*60)
	svc := NewLetterService(Deps{Generator: gen, Location: loc, Now: fixedNow})
	res, err := svc.Generate(context.Background(), "req-1", validRequest())

	require.NoError(t, err)
	// 15:00 UTC is already the next day at UTC+10.
	assert.True(t, strings.HasPrefix(res.Letter, "March 6, 2024"))
}

func TestGenerate_MissingFieldsSkipsGenerator(t *testing.T) {
	gen := new(genmocks.MockGenerator)
	svc := NewLetterService(Deps{Generator: gen})

	res, err := svc.Generate(context.Background(), "req-1", model.AccommodationRequest{Name: "A", Disability: "ADHD"})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrMissingFields)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerate_FailureArchivesTrace(t *testing.T) {
	gen := new(genmocks.MockGenerator)
	audits := new(repomocks.MockAuditRepository)
	archive := new(storemocks.MockStorage)

	genErr := &accommodation.GenerationError{
		Kind:  accommodation.KindUnparseable,
		Msg:   "unparseable response",
		Raw:   "not json",
		Trace: &accommodation.Trace{Provider: "anthropic", Model: "m", RawReply: "not json"},
	}
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(nil, genErr)
	audits.On("Create", mock.Anything, mock.MatchedBy(func(a *model.GenerationAudit) bool {
		return a.Outcome == model.OutcomeFailed && a.ErrorKind == "unparseable" &&
			a.CreatedAt.Equal(fixedNow())
	})).Return(&model.GenerationAudit{}, nil)

	var archived string
	archive.On("Put", mock.Anything, mock.MatchedBy(func(k string) bool {
		return strings.HasPrefix(k, "traces/") && strings.HasSuffix(k, ".json")
	}), mock.Anything, mock.Anything).Return(func(_ context.Context, _ string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
		b, _ := io.ReadAll(r)
		archived = string(b)
		assert.Equal(t, "application/json", opt.ContentType)
		return storage.ObjectInfo{}
	}, nil)

	svc := NewLetterService(Deps{Generator: gen, Audits: audits, Archive: archive, Now: fixedNow})
	res, err := svc.Generate(context.Background(), "req-1", validRequest())

	assert.Nil(t, res)
	assert.Same(t, genErr, err)
	assert.Contains(t, archived, `"raw_reply":"not json"`)
	audits.AssertExpectations(t)
	archive.AssertExpectations(t)
}

func TestGenerate_ConfigurationFailureIsNotArchived(t *testing.T) {
	gen := new(genmocks.MockGenerator)
	archive := new(storemocks.MockStorage)

	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(nil, &accommodation.GenerationError{
		Kind:  accommodation.KindConfiguration,
		Msg:   "LLM API key is not set",
		Trace: &accommodation.Trace{},
	})

	svc := NewLetterService(Deps{Generator: gen, Archive: archive})
	_, err := svc.Generate(context.Background(), "req-1", validRequest())

	assert.True(t, accommodation.IsKind(err, accommodation.KindConfiguration))
	archive.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerate_AuditFailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	gen := new(genmocks.MockGenerator)
	audits := new(repomocks.MockAuditRepository)

	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(&accommodation.Result{
		Accommodations: []string{"only one"},
		Degraded:       true,
		Trace:          &accommodation.Trace{},
	}, nil)
	audits.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	svc := NewLetterService(Deps{Generator: gen, Audits: audits, Log: zap.New(core)})
	res, err := svc.Generate(context.Background(), "req-1", validRequest())

	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Contains(t, res.Letter, "1. only one")
	require.Equal(t, 1, logs.FilterMessage("audit write failed").Len())
	assert.Equal(t, "req-1", logs.FilterMessage("audit write failed").All()[0].ContextMap()["request_id"])
}
