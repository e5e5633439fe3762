// Package storage contains object storage abstractions for S3-compatible stores.
// Implementations avoid local disk and rely on streaming I/O only.
package storage

import (
	"context"
	"io"
	"time"
)

// StatusTag is the object tag that mirrors the approval status of a stored document.
const StatusTag = "status"

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
	Tags        map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object storage client. Implementations are safe for
// concurrent use.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// SetTags replaces the object's tag set.
	SetTags(ctx context.Context, key string, tags map[string]string) error
	// GetTags returns the object's tag set.
	GetTags(ctx context.Context, key string) (map[string]string, error)
}
