package mocks

import (
	"context"

	"docflow/internal/model"
	"docflow/internal/workflow"

	"github.com/stretchr/testify/mock"
)

type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) ResolveAccess(ctx context.Context, approverID string) (model.AccessMap, error) {
	args := m.Called(ctx, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.AccessMap), args.Error(1)
}

func (m *MockAccessService) Authorize(ctx context.Context, approverID, department string, level model.Level) error {
	args := m.Called(ctx, approverID, department, level)
	return args.Error(0)
}

func (m *MockAccessService) ApproversFor(ctx context.Context, department string) (map[model.Level]workflow.Assignee, error) {
	args := m.Called(ctx, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.Level]workflow.Assignee), args.Error(1)
}

func (m *MockAccessService) Grant(ctx context.Context, g *model.AccessGrant) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}
