package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"accomapi/internal/model"
	"accomapi/internal/repository"
	repomocks "accomapi/internal/repository/mocks"
	"accomapi/internal/storage"
	storemocks "accomapi/internal/storage/mocks"
)

func TestAuditList(t *testing.T) {
	tests := []struct {
		name          string
		limit, offset int
		wantQuery     repository.PageQuery
	}{
		{name: "explicit", limit: 5, offset: 10, wantQuery: repository.PageQuery{Limit: 5, Offset: 10}},
		{name: "defaults", limit: 0, offset: -3, wantQuery: repository.PageQuery{Limit: 10, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repomocks.MockAuditRepository)
			repo.On("List", mock.Anything, tt.wantQuery).Return(&repository.PageResult[model.GenerationAudit]{
				Items: []model.GenerationAudit{{ID: "g1"}},
				Total: 1,
			}, nil)

			res, err := NewAuditService(repo, nil).List(context.Background(), tt.limit, tt.offset)

			require.NoError(t, err)
			assert.Equal(t, 1, res.Total)
			assert.Equal(t, "g1", res.Items[0].ID)
			repo.AssertExpectations(t)
		})
	}
}

func TestAuditList_Disabled(t *testing.T) {
	_, err := NewAuditService(nil, nil).List(context.Background(), 10, 0)
	assert.ErrorIs(t, err, ErrAuditingDisabled)
}

func TestAuditTrace(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		archive := new(storemocks.MockStorage)
		archive.On("Get", mock.Anything, "traces/g1.json").
			Return(io.NopCloser(strings.NewReader(`{"steps":[]}`)), storage.ObjectInfo{}, nil)

		rc, err := NewAuditService(nil, archive).Trace(context.Background(), "g1")
		require.NoError(t, err)
		defer rc.Close()

		b, _ := io.ReadAll(rc)
		assert.Equal(t, `{"steps":[]}`, string(b))
	})

	t.Run("not found", func(t *testing.T) {
		archive := new(storemocks.MockStorage)
		archive.On("Get", mock.Anything, "traces/g2.json").Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)

		_, err := NewAuditService(nil, archive).Trace(context.Background(), "g2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("backend error", func(t *testing.T) {
		archive := new(storemocks.MockStorage)
		archive.On("Get", mock.Anything, "traces/g3.json").Return(nil, storage.ObjectInfo{}, errors.New("boom"))

		_, err := NewAuditService(nil, archive).Trace(context.Background(), "g3")
		assert.EqualError(t, err, "boom")
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := NewAuditService(nil, new(storemocks.MockStorage)).Trace(context.Background(), "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})

	t.Run("disabled", func(t *testing.T) {
		_, err := NewAuditService(nil, nil).Trace(context.Background(), "g1")
		assert.ErrorIs(t, err, ErrArchiveDisabled)
	})
}
