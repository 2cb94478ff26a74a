package mocks

import (
	"context"

	"accomapi/internal/model"
	"accomapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockLetterService struct {
	mock.Mock
}

func (m *MockLetterService) Generate(ctx context.Context, requestID string, req model.AccommodationRequest) (*service.LetterResult, error) {
	args := m.Called(ctx, requestID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LetterResult), args.Error(1)
}
