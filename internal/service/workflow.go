package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"docflow/internal/metrics"
	"docflow/internal/model"
	"docflow/internal/repository"
	"docflow/internal/storage"
	"docflow/internal/workflow"
)

// DecideInput is one approver's verdict on one level of a request.
type DecideInput struct {
	RequestID    string
	Level        model.Level
	Action       workflow.Action
	ApproverID   string
	ApproverName string
	Comments     string
}

// WorkflowService records approval decisions.
type WorkflowService interface {
	// Decide applies an Approve or Reject at one level together with its cascade:
	// the same-approver shortcut, opening the next gate, request completion or rejection
	// and the library status mirror. Either every write lands or none does.
	// The caller's grant for (department, level) is checked before the level itself, so a
	// caller without a grant gets Unauthorized even for a level the request lacks.
	// Conflict and StoreUnavailable are safe to retry after re-reading; the engine itself
	// never retries.
	Decide(ctx context.Context, in DecideInput) error
}

// WorkflowDeps groups the collaborators of WorkflowService.
type WorkflowDeps struct {
	Tx       repository.Transactor
	Requests repository.RequestRepository
	Levels   repository.ApprovalLevelRepository
	Items    repository.LibraryItemRepository
	Access   AccessService
	Store    storage.Storage
	Metrics  *metrics.Workflow
	Logger   *zap.Logger
}

type workflowService struct {
	tx       repository.Transactor
	requests repository.RequestRepository
	levels   repository.ApprovalLevelRepository
	items    repository.LibraryItemRepository
	access   AccessService
	store    storage.Storage
	metrics  *metrics.Workflow
	logger   *zap.Logger
	now      func() time.Time
}

func NewWorkflowService(d WorkflowDeps) WorkflowService {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &workflowService{
		tx:       d.Tx,
		requests: d.Requests,
		levels:   d.Levels,
		items:    d.Items,
		access:   d.Access,
		store:    d.Store,
		metrics:  d.Metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// tagWrite remembers an object tag overwritten inside the current decision.
type tagWrite struct {
	key      string
	previous string
}

func (s *workflowService) Decide(ctx context.Context, in DecideInput) (err error) {
	ctx, span := tracer.Start(ctx, "WorkflowService.Decide")
	span.SetAttributes(
		attribute.String("request.id", in.RequestID),
		attribute.String("approval.level", string(in.Level)),
		attribute.String("approval.action", string(in.Action)),
	)
	var cascade *workflow.Cascade
	defer func() {
		s.observe(in, cascade, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := validateDecision(in); err != nil {
		return err
	}

	var tagged *tagWrite
	txErr := s.tx.WithTx(ctx, func(ctx context.Context) error {
		req, err := s.requests.FindByRequestID(ctx, in.RequestID)
		if err != nil {
			return storeErr("find request "+in.RequestID, err)
		}
		if err := s.access.Authorize(ctx, in.ApproverID, req.Department, in.Level); err != nil {
			return err
		}
		levels, err := s.levels.ListByRequestID(ctx, in.RequestID)
		if err != nil {
			return storeErr("list approval levels", err)
		}

		c, err := workflow.Plan(*req, levels, workflow.Decision{
			Level:        in.Level,
			Action:       in.Action,
			ApproverID:   in.ApproverID,
			ApproverName: in.ApproverName,
			Comments:     in.Comments,
			At:           s.now(),
		})
		if err != nil {
			return err
		}
		if err := s.apply(ctx, c); err != nil {
			return err
		}
		tagged, err = s.mirror(ctx, c)
		if err != nil {
			return err
		}
		cascade = c
		return nil
	})
	if txErr != nil {
		cascade = nil
		if tagged != nil {
			return s.compensate(ctx, in.RequestID, tagged, txErr)
		}
		return storeErr("decide "+in.RequestID, txErr)
	}

	s.logger.Info("decision_applied",
		zap.String("request_id", in.RequestID),
		zap.String("level", in.Level.String()),
		zap.String("action", string(in.Action)),
		zap.String("approver_id", in.ApproverID),
		zap.String("request_status", string(cascade.Request.Status)),
		zap.String("level_status", cascade.Request.LevelStatus),
		zap.Int("auto_approved", cascade.AutoApprovals()),
	)
	return nil
}

func validateDecision(in DecideInput) error {
	if strings.TrimSpace(in.RequestID) == "" {
		return ErrIDRequired
	}
	if !in.Level.Valid() {
		return fmt.Errorf("%w: unknown level %q", workflow.ErrInvalidInput, in.Level)
	}
	if in.Action != workflow.ActionApprove && in.Action != workflow.ActionReject {
		return fmt.Errorf("%w: unknown action %q", workflow.ErrInvalidInput, in.Action)
	}
	if strings.TrimSpace(in.ApproverID) == "" {
		return fmt.Errorf("%w: approver identity is required", workflow.ErrUnauthorized)
	}
	return nil
}

// apply writes the cascade with compare-and-swap semantics. Any stale row aborts the
// whole unit with ErrConflict.
func (s *workflowService) apply(ctx context.Context, c *workflow.Cascade) error {
	for _, ch := range c.Levels {
		after := ch.After
		after.Version = ch.Before.Version
		if err := s.levels.Update(ctx, &after, ch.Before.LevelStatus); err != nil {
			return storeErr(fmt.Sprintf("update %s of %s", after.Level, after.RequestID), err)
		}
	}

	req := c.Request
	if err := s.requests.UpdateStatus(ctx, &req); err != nil {
		return storeErr("update request "+req.RequestID, err)
	}
	c.Request.Version = req.Version
	return nil
}

// mirror copies the projected status onto the library item and its object tag. The tag
// write is last so only it can need undoing when the unit fails to commit.
func (s *workflowService) mirror(ctx context.Context, c *workflow.Cascade) (*tagWrite, error) {
	item, err := s.items.FindByRequestID(ctx, c.Request.RequestID)
	if err != nil {
		if isNotFound(err) {
			s.logger.Warn("library_item_missing",
				zap.String("request_id", c.Request.RequestID),
				zap.String("status", c.LibraryStatus),
			)
			return nil, nil
		}
		return nil, storeErr("find library item", err)
	}
	if item.Status == c.LibraryStatus {
		return nil, nil
	}
	if err := s.items.UpdateStatus(ctx, item.ID, c.LibraryStatus); err != nil {
		return nil, storeErr("update library status", err)
	}
	if s.store == nil || item.StoragePath == "" {
		return nil, nil
	}
	if err := s.store.SetTags(ctx, item.StoragePath, map[string]string{storage.StatusTag: c.LibraryStatus}); err != nil {
		return nil, storeErr("tag library object", err)
	}
	return &tagWrite{key: item.StoragePath, previous: item.Status}, nil
}

// compensate restores an object tag after the unit it belonged to failed to commit.
func (s *workflowService) compensate(ctx context.Context, requestID string, w *tagWrite, cause error) error {
	restoreErr := s.store.SetTags(ctx, w.key, map[string]string{storage.StatusTag: w.previous})
	if restoreErr == nil {
		s.logger.Warn("decision_rolled_back",
			zap.String("request_id", requestID),
			zap.String("key", w.key),
			zap.Error(cause),
		)
		return storeErr("decide "+requestID, cause)
	}
	s.logger.Error("decision_partially_applied",
		zap.String("request_id", requestID),
		zap.String("key", w.key),
		zap.String("expected_tag", w.previous),
		zap.NamedError("cause", cause),
		zap.NamedError("restore_error", restoreErr),
	)
	return fmt.Errorf("decide %s: %w: %w; restore tag: %v", requestID, workflow.ErrPartialApply, cause, restoreErr)
}

func (s *workflowService) observe(in DecideInput, c *workflow.Cascade, err error) {
	outcome := metrics.OutcomeApplied
	switch {
	case err == nil:
	case errors.Is(err, workflow.ErrConflict),
		errors.Is(err, workflow.ErrStoreUnavailable),
		errors.Is(err, workflow.ErrPartialApply):
		outcome = metrics.OutcomeFailed
	default:
		outcome = metrics.OutcomeRefused
	}
	s.metrics.ObserveDecision(string(in.Level), string(in.Action), outcome)
	if c != nil {
		s.metrics.ObserveAutoApprovals(c.AutoApprovals())
	}
}
