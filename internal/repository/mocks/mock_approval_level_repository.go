package mocks

import (
	"context"

	"docflow/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockApprovalLevelRepository struct {
	mock.Mock
}

func (m *MockApprovalLevelRepository) Create(ctx context.Context, l *model.ApprovalLevel) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockApprovalLevelRepository) ListByRequestID(ctx context.Context, requestID string) ([]model.ApprovalLevel, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ApprovalLevel), args.Error(1)
}

func (m *MockApprovalLevelRepository) Update(ctx context.Context, l *model.ApprovalLevel, expected model.LevelStatus) error {
	args := m.Called(ctx, l, expected)
	return args.Error(0)
}
