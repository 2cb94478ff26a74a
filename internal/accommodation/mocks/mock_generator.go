package mocks

import (
	"context"

	"accomapi/internal/accommodation"

	"github.com/stretchr/testify/mock"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, disability, roleContext string) (*accommodation.Result, error) {
	args := m.Called(ctx, disability, roleContext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accommodation.Result), args.Error(1)
}
