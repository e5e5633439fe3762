package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"docflow/internal/model"
	"docflow/internal/repository"
	"docflow/internal/storage"
	"docflow/internal/workflow"
)

// CreateRequestInput is what a requester supplies when submitting a document.
// LibraryItemID, when set, links an already stored document to the new request.
type CreateRequestInput struct {
	FolderURL      string    `validate:"required"`
	RequesterName  string    `validate:"max=200"`
	RequesterEmail string    `validate:"required,email"`
	Department     string    `validate:"required,max=100"`
	RenewalDate    time.Time `validate:"required"`
	LibraryItemID  string
}

// SubmitInput carries an upload plus the request metadata.
type SubmitInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	Requester   model.User
	Department  string
	RenewalDate time.Time
}

// SubmitResult is returned by Submit.
type SubmitResult struct {
	RequestID string            `json:"request_id"`
	Item      model.LibraryItem `json:"library_item"`
}

// RequestService creates requests and answers the read-side questions about them.
type RequestService interface {
	// CreateRequest allocates the next request id and inserts the request with one
	// approval level per configured approver, atomically.
	CreateRequest(ctx context.Context, in CreateRequestInput) (string, error)

	// Submit uploads a document and creates its request in one step.
	Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error)

	// Get returns a request with its ordered levels.
	Get(ctx context.Context, requestID string) (*model.RequestWithLevels, error)

	// GetTimeline returns the full L1..Ln ladder for a request, padded with placeholders.
	GetTimeline(ctx context.Context, requestID string) ([]model.ApprovalLevel, error)

	// FilterRequestsVisibleTo returns the requests with a level in status that involves
	// approverID and that the approver's grants still cover, newest first.
	FilterRequestsVisibleTo(ctx context.Context, approverID string, status model.LevelStatus) ([]model.Request, error)

	// ListPendingFor returns requests waiting on approverID, newest first.
	ListPendingFor(ctx context.Context, approverID string) ([]model.Request, error)

	// ListApprovedFor returns requests approverID approved at some level, newest first.
	ListApprovedFor(ctx context.Context, approverID string) ([]model.Request, error)

	// ListRequestedBy returns the requests submitted by email with their levels.
	ListRequestedBy(ctx context.Context, email string) ([]model.RequestWithLevels, error)
}

type requestService struct {
	tx       repository.Transactor
	requests repository.RequestRepository
	levels   repository.ApprovalLevelRepository
	items    repository.LibraryItemRepository
	access   AccessService
	library  LibraryService
	store    storage.Storage
	logger   *zap.Logger
	now      func() time.Time
}

// RequestDeps groups the collaborators of RequestService.
type RequestDeps struct {
	Tx       repository.Transactor
	Requests repository.RequestRepository
	Levels   repository.ApprovalLevelRepository
	Items    repository.LibraryItemRepository
	Access   AccessService
	Library  LibraryService
	Store    storage.Storage
	Logger   *zap.Logger
}

func NewRequestService(d RequestDeps) RequestService {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &requestService{
		tx:       d.Tx,
		requests: d.Requests,
		levels:   d.Levels,
		items:    d.Items,
		access:   d.Access,
		library:  d.Library,
		store:    d.Store,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *requestService) CreateRequest(ctx context.Context, in CreateRequestInput) (requestID string, err error) {
	ctx, span := tracer.Start(ctx, "RequestService.CreateRequest")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	in.Department = strings.TrimSpace(in.Department)
	in.RequesterEmail = strings.TrimSpace(in.RequesterEmail)
	if err := validateStruct(in); err != nil {
		return "", err
	}

	var gateless bool
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		id, err := s.requests.NextRequestID(ctx)
		if err != nil {
			return storeErr("allocate request id", err)
		}
		now := s.now().UTC()

		req := &model.Request{
			RequestID:      id,
			FolderURL:      in.FolderURL,
			Status:         model.RequestInProgress,
			LevelStatus:    model.PendingSummary(model.LevelL1),
			RequesterName:  in.RequesterName,
			RequesterEmail: in.RequesterEmail,
			Department:     in.Department,
			RenewalDate:    in.RenewalDate.UTC(),
			Version:        1,
			Created:        now,
		}
		if err := s.requests.Create(ctx, req); err != nil {
			return storeErr("create request", err)
		}

		assignees, err := s.access.ApproversFor(ctx, in.Department)
		if err != nil {
			return err
		}
		levels := workflow.InitialLevels(id, assignees, now)
		for i := range levels {
			levels[i].ID = uuid.NewString()
			if err := s.levels.Create(ctx, &levels[i]); err != nil {
				return storeErr("create approval level", err)
			}
		}
		gateless = !workflow.HasActiveGate(levels)

		if in.LibraryItemID != "" {
			if err := s.items.AttachRequest(ctx, in.LibraryItemID, id, workflow.ProjectRequest(*req)); err != nil {
				return storeErr("attach library item", err)
			}
		}
		requestID = id
		return nil
	})
	if err != nil {
		return "", storeErr("create request", err)
	}

	span.SetAttributes(attribute.String("request.id", requestID), attribute.String("request.department", in.Department))
	if gateless {
		s.logger.Warn("request_without_active_gate",
			zap.String("request_id", requestID),
			zap.String("department", in.Department),
			zap.String("reason", "no L1 approver configured for department"),
		)
	}
	s.logger.Info("request_created", zap.String("request_id", requestID), zap.String("department", in.Department))
	return requestID, nil
}

func (s *requestService) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	var (
		requestID string
		item      *model.LibraryItem
	)
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		item, err = s.library.Upload(ctx, in.Reader, in.Filename, in.ContentType, in.Size)
		if err != nil {
			return err
		}
		requestID, err = s.CreateRequest(ctx, CreateRequestInput{
			FolderURL:      item.StoragePath,
			RequesterName:  in.Requester.Name,
			RequesterEmail: in.Requester.Email,
			Department:     in.Department,
			RenewalDate:    in.RenewalDate,
			LibraryItemID:  item.ID,
		})
		return err
	})
	if err != nil {
		if item != nil {
			if delErr := s.store.Delete(ctx, item.StoragePath); delErr != nil {
				s.logger.Error("storage_rollback_failed", zap.String("key", item.StoragePath), zap.Error(delErr))
			}
		}
		return nil, err
	}

	stored, err := s.items.FindByID(ctx, item.ID)
	if err != nil {
		return nil, storeErr("reload library item", err)
	}
	if err := s.store.SetTags(ctx, stored.StoragePath, map[string]string{storage.StatusTag: stored.Status}); err != nil {
		s.logger.Warn("status_tag_write_failed",
			zap.String("request_id", requestID),
			zap.String("key", stored.StoragePath),
			zap.Error(err),
		)
	}
	return &SubmitResult{RequestID: requestID, Item: *stored}, nil
}

func (s *requestService) Get(ctx context.Context, requestID string) (*model.RequestWithLevels, error) {
	if requestID == "" {
		return nil, ErrIDRequired
	}
	req, err := s.requests.FindByRequestID(ctx, requestID)
	if err != nil {
		return nil, storeErr("find request "+requestID, err)
	}
	levels, err := s.levels.ListByRequestID(ctx, requestID)
	if err != nil {
		return nil, storeErr("list approval levels", err)
	}
	return &model.RequestWithLevels{Request: *req, ApprovalLevels: levels}, nil
}

func (s *requestService) GetTimeline(ctx context.Context, requestID string) ([]model.ApprovalLevel, error) {
	rl, err := s.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return workflow.Timeline(rl.ApprovalLevels), nil
}

func (s *requestService) ListPendingFor(ctx context.Context, approverID string) ([]model.Request, error) {
	return s.FilterRequestsVisibleTo(ctx, approverID, model.LevelPending)
}

func (s *requestService) ListApprovedFor(ctx context.Context, approverID string) ([]model.Request, error) {
	return s.FilterRequestsVisibleTo(ctx, approverID, model.LevelApproved)
}

// FilterRequestsVisibleTo keeps the assignments whose (department, level) the approver
// is still granted. Grants win over stale assignment data. Decided levels match on the
// acting approver, open ones on the assignee.
func (s *requestService) FilterRequestsVisibleTo(ctx context.Context, approverID string, status model.LevelStatus) ([]model.Request, error) {
	q := repository.AssignmentQuery{
		ApproverID:  approverID,
		LevelStatus: status,
		ByActing:    status == model.LevelApproved || status == model.LevelRejected,
	}
	out := make([]model.Request, 0)
	if approverID == "" {
		return out, nil
	}
	access, err := s.access.ResolveAccess(ctx, approverID)
	if err != nil {
		return nil, err
	}
	if access.Empty() {
		return out, nil
	}

	assignments, err := s.requests.ListByAssignment(ctx, q)
	if err != nil {
		return nil, storeErr("list assignments", err)
	}
	seen := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		if seen[a.Request.RequestID] || !access.Allows(a.Request.Department, a.Level.Level) {
			continue
		}
		seen[a.Request.RequestID] = true
		out = append(out, a.Request)
	}
	return out, nil
}

func (s *requestService) ListRequestedBy(ctx context.Context, email string) ([]model.RequestWithLevels, error) {
	out := make([]model.RequestWithLevels, 0)
	if strings.TrimSpace(email) == "" {
		return out, nil
	}
	reqs, err := s.requests.ListByRequester(ctx, email)
	if err != nil {
		return nil, storeErr("list requests", err)
	}
	for _, r := range reqs {
		levels, err := s.levels.ListByRequestID(ctx, r.RequestID)
		if err != nil {
			return nil, storeErr("list approval levels", err)
		}
		out = append(out, model.RequestWithLevels{Request: r, ApprovalLevels: levels})
	}
	return out, nil
}

// isNotFound reports whether err is a missing-record error of either layer.
func isNotFound(err error) bool {
	return errors.Is(err, workflow.ErrNotFound) || errors.Is(err, repository.ErrNotFound)
}
