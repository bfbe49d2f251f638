package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/lead-dashboard/internal/domain"
	"github.com/spec-kit/lead-dashboard/internal/query"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) InsertMany(ctx context.Context, leads []domain.Lead) error {
	return m.Called(ctx, leads).Error(0)
}

func (m *MockLeadRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, q query.Query) ([]domain.Lead, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) Count(ctx context.Context, filter query.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) CountByStage(ctx context.Context, filter query.Filter) ([]domain.StageCount, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StageCount), args.Error(1)
}

func (m *MockLeadRepository) CountByStatus(ctx context.Context, filter query.Filter) ([]domain.StatusCount, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusCount), args.Error(1)
}

type MockSummaryCache struct {
	mock.Mock
}

func (m *MockSummaryCache) Get(ctx context.Context, key string) (*domain.AnalyticsSummary, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.AnalyticsSummary), args.Bool(1), args.Error(2)
}

func (m *MockSummaryCache) Set(ctx context.Context, key string, summary *domain.AnalyticsSummary) error {
	return m.Called(ctx, key, summary).Error(0)
}

func (m *MockSummaryCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
