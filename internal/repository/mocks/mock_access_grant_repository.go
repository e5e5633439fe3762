package mocks

import (
	"context"

	"docflow/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockAccessGrantRepository struct {
	mock.Mock
}

func (m *MockAccessGrantRepository) ListByApprover(ctx context.Context, approverID string) ([]model.AccessGrant, error) {
	args := m.Called(ctx, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessGrant), args.Error(1)
}

func (m *MockAccessGrantRepository) ListByDepartment(ctx context.Context, department string) ([]model.AccessGrant, error) {
	args := m.Called(ctx, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessGrant), args.Error(1)
}

func (m *MockAccessGrantRepository) Upsert(ctx context.Context, g *model.AccessGrant) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}
