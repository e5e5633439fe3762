package mocks

import (
	"context"

	"docflow/internal/model"
	"docflow/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) CreateRequest(ctx context.Context, in service.CreateRequestInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockRequestService) Submit(ctx context.Context, in service.SubmitInput) (*service.SubmitResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

func (m *MockRequestService) Get(ctx context.Context, requestID string) (*model.RequestWithLevels, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestWithLevels), args.Error(1)
}

func (m *MockRequestService) GetTimeline(ctx context.Context, requestID string) ([]model.ApprovalLevel, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ApprovalLevel), args.Error(1)
}

func (m *MockRequestService) FilterRequestsVisibleTo(ctx context.Context, approverID string, status model.LevelStatus) ([]model.Request, error) {
	args := m.Called(ctx, approverID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Request), args.Error(1)
}

func (m *MockRequestService) ListPendingFor(ctx context.Context, approverID string) ([]model.Request, error) {
	args := m.Called(ctx, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Request), args.Error(1)
}

func (m *MockRequestService) ListApprovedFor(ctx context.Context, approverID string) ([]model.Request, error) {
	args := m.Called(ctx, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Request), args.Error(1)
}

func (m *MockRequestService) ListRequestedBy(ctx context.Context, email string) ([]model.RequestWithLevels, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RequestWithLevels), args.Error(1)
}
