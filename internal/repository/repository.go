// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, memory) inside this directory.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"docflow/internal/model"
)

var (
	// ErrNotFound is returned when a lookup by key matches no row. It is sql.ErrNoRows so
	// both backends can be checked the same way.
	ErrNotFound = sql.ErrNoRows

	// ErrVersionMismatch is returned by conditional updates whose expected version
	// (or expected status) no longer matches the stored row.
	ErrVersionMismatch = errors.New("version mismatch")
)

// Transactor runs fn as one atomic unit. Nested calls join the outer unit.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RequestRepository persists Request rows. No business logic here.
type RequestRepository interface {
	// NextRequestID allocates the next "Req00001"-style identifier.
	NextRequestID(ctx context.Context) (string, error)

	// Create inserts a new request. The caller sets every field, Version included.
	Create(ctx context.Context, r *model.Request) error

	// FindByRequestID returns ErrNotFound when the request does not exist.
	FindByRequestID(ctx context.Context, requestID string) (*model.Request, error)

	// UpdateStatus writes Status and LevelStatus when the stored version equals r.Version,
	// then increments r.Version. Otherwise it returns ErrVersionMismatch.
	UpdateStatus(ctx context.Context, r *model.Request) error

	// ListByAssignment returns requests joined with the matching approval level,
	// newest request first.
	ListByAssignment(ctx context.Context, q AssignmentQuery) ([]model.Assignment, error)

	// ListByRequester returns the requests submitted by email, newest first.
	ListByRequester(ctx context.Context, email string) ([]model.Request, error)
}

// AssignmentQuery selects approval levels by approver and status. With ByActing the
// approver is matched against the acting approver instead of the assigned one.
type AssignmentQuery struct {
	ApproverID  string
	LevelStatus model.LevelStatus
	ByActing    bool
}

// ApprovalLevelRepository persists the per-level rows owned by a request.
type ApprovalLevelRepository interface {
	// Create inserts a level row. (RequestID, Level) is unique.
	Create(ctx context.Context, l *model.ApprovalLevel) error

	// ListByRequestID returns the rows of a request ordered by level.
	ListByRequestID(ctx context.Context, requestID string) ([]model.ApprovalLevel, error)

	// Update writes the mutable fields of l when the stored row still has l.Version and
	// expected as its LevelStatus, then increments l.Version.
	Update(ctx context.Context, l *model.ApprovalLevel, expected model.LevelStatus) error
}

// LibraryItemRepository persists stored documents and their mirrored status.
type LibraryItemRepository interface {
	Create(ctx context.Context, item *model.LibraryItem) (*model.LibraryItem, error)
	FindByID(ctx context.Context, id string) (*model.LibraryItem, error)
	FindByRequestID(ctx context.Context, requestID string) (*model.LibraryItem, error)

	// List returns a paginated list of items and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.LibraryItem], error)

	// AttachRequest links an item to its request and sets the initial status.
	AttachRequest(ctx context.Context, id, requestID, status string) error

	UpdateStatus(ctx context.Context, id, status string) error
}

// AccessGrantRepository reads and maintains approver grants.
type AccessGrantRepository interface {
	// ListByApprover returns the active grants of one approver.
	ListByApprover(ctx context.Context, approverID string) ([]model.AccessGrant, error)

	// ListByDepartment returns the active grants of a department, oldest first.
	ListByDepartment(ctx context.Context, department string) ([]model.AccessGrant, error)

	// Upsert inserts a grant or updates the name, email and active flag of an existing
	// (approver, department, level) grant.
	Upsert(ctx context.Context, g *model.AccessGrant) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
