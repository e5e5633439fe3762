package mocks

import (
	"context"
	"io"

	"docflow/internal/model"
	"docflow/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockLibraryService struct {
	mock.Mock
}

func (m *MockLibraryService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.LibraryItem, error) {
	args := m.Called(ctx, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LibraryItem), args.Error(1)
}

func (m *MockLibraryService) List(ctx context.Context, limit, offset int) (*service.LibraryListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LibraryListResult), args.Error(1)
}

func (m *MockLibraryService) Get(ctx context.Context, id string) (*model.LibraryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LibraryItem), args.Error(1)
}

func (m *MockLibraryService) DownloadURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
