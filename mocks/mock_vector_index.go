package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wahajaslm/tarco/internal/port"
)

// MockVectorIndex is a mock implementation of port.VectorIndex.
type MockVectorIndex struct {
	mock.Mock
}

func (m *MockVectorIndex) Index(ctx context.Context, points []port.IndexPoint) error {
	args := m.Called(ctx, points)
	return args.Error(0)
}

func (m *MockVectorIndex) Search(ctx context.Context, vector []float32, k int, filters map[string]string) ([]port.SearchResult, error) {
	args := m.Called(ctx, vector, k, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.SearchResult), args.Error(1)
}

func (m *MockVectorIndex) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
