package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"pretenz/internal/domain"
)

// MockParseRecordRepository is a mock implementation of port.ParseRecordRepository.
type MockParseRecordRepository struct {
	mock.Mock
}

func (m *MockParseRecordRepository) Create(ctx context.Context, record *domain.ParseRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockParseRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParseRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseRecord), args.Error(1)
}

func (m *MockParseRecordRepository) List(ctx context.Context, limit, offset int) ([]domain.ParseRecord, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParseRecord), args.Error(1)
}
