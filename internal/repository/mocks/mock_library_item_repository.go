package mocks

import (
	"context"

	"docflow/internal/model"
	"docflow/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockLibraryItemRepository struct {
	mock.Mock
}

func (m *MockLibraryItemRepository) Create(ctx context.Context, item *model.LibraryItem) (*model.LibraryItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LibraryItem), args.Error(1)
}

func (m *MockLibraryItemRepository) FindByID(ctx context.Context, id string) (*model.LibraryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LibraryItem), args.Error(1)
}

func (m *MockLibraryItemRepository) FindByRequestID(ctx context.Context, requestID string) (*model.LibraryItem, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LibraryItem), args.Error(1)
}

func (m *MockLibraryItemRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.LibraryItem], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.LibraryItem]), args.Error(1)
}

func (m *MockLibraryItemRepository) AttachRequest(ctx context.Context, id, requestID, status string) error {
	args := m.Called(ctx, id, requestID, status)
	return args.Error(0)
}

func (m *MockLibraryItemRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
