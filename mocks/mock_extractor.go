package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wahajaslm/tarco/internal/domain"
	"github.com/wahajaslm/tarco/internal/port"
)

// MockQueryExtractor is a mock implementation of port.QueryExtractor.
type MockQueryExtractor struct {
	mock.Mock
}

func (m *MockQueryExtractor) Extract(ctx context.Context, message string) (*port.ExtractedQuery, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ExtractedQuery), args.Error(1)
}

// MockExplainer is a mock implementation of port.Explainer.
type MockExplainer struct {
	mock.Mock
}

func (m *MockExplainer) Annotate(ctx context.Context, resp *domain.ComplianceResponse) (*domain.Annotations, error) {
	args := m.Called(ctx, resp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Annotations), args.Error(1)
}
