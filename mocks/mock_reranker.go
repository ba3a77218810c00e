package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wahajaslm/tarco/internal/domain"
)

// MockReranker is a mock implementation of port.Reranker.
type MockReranker struct {
	mock.Mock
}

func (m *MockReranker) Rerank(ctx context.Context, query string, candidates []domain.Candidate, topK int) ([]domain.Candidate, error) {
	args := m.Called(ctx, query, candidates, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}
