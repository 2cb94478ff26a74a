package mocks

import (
	"context"
	"io"

	"accomapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) List(ctx context.Context, limit, offset int) (*service.AuditListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuditListResult), args.Error(1)
}

func (m *MockAuditService) Trace(ctx context.Context, generationID string) (io.ReadCloser, error) {
	args := m.Called(ctx, generationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
