package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wahajaslm/tarco/internal/domain"
)

// MockReferenceRepository is a mock implementation of port.ReferenceRepository.
type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) GetItem(ctx context.Context, code string) (*domain.ReferenceItem, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferenceItem), args.Error(1)
}

func (m *MockReferenceRepository) ListLeafItems(ctx context.Context) ([]domain.ReferenceItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReferenceItem), args.Error(1)
}

func (m *MockReferenceRepository) ImportMeasures(ctx context.Context, code, origin string) ([]domain.ImportMeasure, error) {
	args := m.Called(ctx, code, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ImportMeasure), args.Error(1)
}

func (m *MockReferenceRepository) ExportMeasures(ctx context.Context, code, destination string) ([]domain.ExportMeasure, error) {
	args := m.Called(ctx, code, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExportMeasure), args.Error(1)
}

func (m *MockReferenceRepository) VATRates(ctx context.Context, country string) ([]domain.VATRate, error) {
	args := m.Called(ctx, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VATRate), args.Error(1)
}

func (m *MockReferenceRepository) MeasureConditions(ctx context.Context, code string) ([]domain.MeasureCondition, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MeasureCondition), args.Error(1)
}

func (m *MockReferenceRepository) HasReachMapping(ctx context.Context, prefix string) (bool, error) {
	args := m.Called(ctx, prefix)
	return args.Bool(0), args.Error(1)
}

func (m *MockReferenceRepository) LatestExchangeRates(ctx context.Context, isos []string) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, isos)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockReferenceRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
