package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docflow/internal/model"
	"docflow/internal/repository"
	"docflow/internal/storage"
)

// UploadedStatus is the library status of a document not yet attached to a request.
const UploadedStatus = "Uploaded"

// LibraryListResult is the service-level DTO for paginated library items.
type LibraryListResult struct {
	Items []model.LibraryItem `json:"data"`
	Total int                 `json:"total"`
}

// LibraryService stores documents and serves the document library.
type LibraryService interface {
	// Upload streams the content to object storage, then saves its metadata. The stored
	// object is removed again if the metadata cannot be saved.
	// originalFilename only contributes its extension; the stored name is a UUID.
	Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64) (*model.LibraryItem, error)

	// List returns library items using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*LibraryListResult, error)

	// Get returns a single library item by its ID.
	Get(ctx context.Context, id string) (*model.LibraryItem, error)

	// DownloadURL returns a presigned GET URL for the item's object.
	DownloadURL(ctx context.Context, id string) (string, error)
}

type libraryService struct {
	store         storage.Storage
	items         repository.LibraryItemRepository
	presignExpiry time.Duration
	logger        *zap.Logger
}

// NewLibraryService constructs a LibraryService.
func NewLibraryService(store storage.Storage, items repository.LibraryItemRepository, presignExpiry time.Duration, logger *zap.Logger) LibraryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if presignExpiry <= 0 {
		presignExpiry = 15 * time.Minute
	}
	return &libraryService{store: store, items: items, presignExpiry: presignExpiry, logger: logger}
}

func (s *libraryService) Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64) (*model.LibraryItem, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	genName := uuid.New().String() + filepath.Ext(originalFilename)
	key := filepath.ToSlash(filepath.Join("documents", genName))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
		Tags: map[string]string{storage.StatusTag: UploadedStatus},
	})
	if err != nil {
		return nil, storeErr("upload to storage", err)
	}

	item := &model.LibraryItem{
		ID:          uuid.New().String(),
		Filename:    genName,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		Status:      UploadedStatus,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.items.Create(ctx, item)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Error("storage_rollback_failed", zap.String("key", key), zap.Error(delErr))
			return nil, storeErr("db save", fmt.Errorf("%v; rollback delete failed: %v", err, delErr))
		}
		return nil, storeErr("db save", err)
	}
	return stored, nil
}

func (s *libraryService) List(ctx context.Context, limit, offset int) (*LibraryListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.items.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, storeErr("list library items", err)
	}
	return &LibraryListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *libraryService) Get(ctx context.Context, id string) (*model.LibraryItem, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find library item "+id, err)
	}
	return item, nil
}

func (s *libraryService) DownloadURL(ctx context.Context, id string) (string, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, item.StoragePath, s.presignExpiry)
	if err != nil {
		return "", storeErr("presign download", err)
	}
	return u, nil
}
