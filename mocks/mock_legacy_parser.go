package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockLegacyParser is a mock implementation of port.LegacyParser.
type MockLegacyParser struct {
	mock.Mock
}

func (m *MockLegacyParser) Parse(ctx context.Context, text string) (map[string]string, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}
