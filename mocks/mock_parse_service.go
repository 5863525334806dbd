package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"pretenz/internal/domain"
)

// MockParseService is a mock implementation of service.ParseService.
type MockParseService struct {
	mock.Mock
}

func (m *MockParseService) Parse(ctx context.Context, text string) (*domain.ParseRecord, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseRecord), args.Error(1)
}

func (m *MockParseService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParseRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseRecord), args.Error(1)
}

func (m *MockParseService) List(ctx context.Context, limit, offset int) ([]domain.ParseRecord, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParseRecord), args.Error(1)
}
