package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"nefera/internal/domain"
)

// MockEvaluationRepo is a mock implementation of port.EvaluationRepository.
type MockEvaluationRepo struct {
	mock.Mock
}

func (m *MockEvaluationRepo) Create(ctx context.Context, ev *domain.Evaluation) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockEvaluationRepo) Update(ctx context.Context, ev *domain.Evaluation) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockEvaluationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Evaluation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

func (m *MockEvaluationRepo) List(ctx context.Context, offset, limit int) ([]domain.Evaluation, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Evaluation), args.Int(1), args.Error(2)
}
