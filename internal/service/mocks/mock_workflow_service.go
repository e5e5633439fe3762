package mocks

import (
	"context"

	"docflow/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) Decide(ctx context.Context, in service.DecideInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}
