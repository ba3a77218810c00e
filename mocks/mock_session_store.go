package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wahajaslm/tarco/internal/domain"
)

// MockSessionStore is a mock implementation of port.SessionStore.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Put(ctx context.Context, session *domain.ClarificationSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.ClarificationSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClarificationSession), args.Error(1)
}

func (m *MockSessionStore) Consume(ctx context.Context, id string) (*domain.ClarificationSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClarificationSession), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
