package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEmbedder is a mock implementation of port.Embedder.
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbedder) Dimension() int {
	args := m.Called()
	return args.Int(0)
}
