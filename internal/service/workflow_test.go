package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docflow/internal/metrics"
	"docflow/internal/model"
	repoMocks "docflow/internal/repository/mocks"
	"docflow/internal/storage"
	storeMocks "docflow/internal/storage/mocks"
	"docflow/internal/workflow"
)

func TestDecide_ApproveOpensNextLevel(t *testing.T) {
	h := newHarness(t)
	h.acceptTags()
	h.ladder(t, "HR", "alice", "bob", "carol")
	id := h.newRequest(t, "HR", "dana")

	require.NoError(t, h.decide(id, model.LevelL1, workflow.ActionApprove, "alice", ""))

	rl, levels := h.load(t, id)
	assert.Equal(t, model.RequestInProgress, rl.Status)
	assert.Equal(t, "L2 Pending", rl.LevelStatus)
	assert.Equal(t, model.LevelApproved, levels[model.LevelL1].LevelStatus)
	assert.Equal(t, "alice", levels[model.LevelL1].ActingApproverID)
	require.NotNil(t, levels[model.LevelL1].DecidedAt)
	assert.Equal(t, model.LevelPending, levels[model.LevelL2].LevelStatus)
	assert.Equal(t, model.LevelNotStarted, levels[model.LevelL3].LevelStatus)
	assert.Equal(t, "L2 Approval Pending", h.itemStatus(t, id))
	h.objects.AssertCalled(t, "SetTags", mock.Anything, "documents/dana-HR.pdf",
		map[string]string{storage.StatusTag: "L2 Approval Pending"})
}

func TestDecide_RejectFreezesRemainingLevels(t *testing.T) {
	h := newHarness(t)
	h.acceptTags()
	h.ladder(t, "HR", "alice", "bob", "carol")
	id := h.newRequest(t, "HR", "dana")

	require.NoError(t, h.decide(id, model.LevelL1, workflow.ActionApprove, "alice", ""))
	require.NoError(t, h.decide(id, model.LevelL2, workflow.ActionReject, "bob", "missing signature"))

	rl, levels := h.load(t, id)
	assert.Equal(t, model.RequestRejected, rl.Status)
	assert.Equal(t, "L2 Rejected", rl.LevelStatus)
	assert.Equal(t, model.LevelRejected, levels[model.LevelL2].LevelStatus)
	assert.Equal(t, "missing signature", levels[model.LevelL2].Comments)
	assert.Equal(t, model.LevelNotStarted, levels[model.LevelL3].LevelStatus)
	assert.Equal(t, "L2 Approval Rejected", h.itemStatus(t, id))

	err := h.decide(id, model.LevelL3, workflow.ActionApprove, "carol", "")
	assert.ErrorIs(t, err, workflow.ErrInvalidState)
}

func TestDecide_SameApproverShortcut(t *testing.T) {
	h := newHarness(t)
	h.acceptTags()
	h.ladder(t, "HR", "alice", "alice", "carol")
	id := h.newRequest(t, "HR", "dana")

	require.NoError(t, h.decide(id, model.LevelL1, workflow.ActionApprove, "alice", ""))

	rl, levels := h.load(t, id)
	assert.Equal(t, "L3 Pending", rl.LevelStatus)
	assert.Equal(t, model.LevelApproved, levels[model.LevelL2].LevelStatus)
	assert.Equal(t, "alice", levels[model.LevelL2].ActingApproverID)
	assert.Equal(t, model.LevelPending, levels[model.LevelL3].LevelStatus)
	expected := `
# HELP approval_auto_approvals_total Levels approved through the same-approver shortcut.
# TYPE approval_auto_approvals_total counter
approval_auto_approvals_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(h.metrics, strings.NewReader(expected), "approval_auto_approvals_total"))
}

func TestDecide_SkipsUnconfiguredLevel(t *testing.T) {
	h := newHarness(t)
	h.acceptTags()
	h.ladder(t, "IT", "alice", "", "carol")
	id := h.newRequest(t, "IT", "dana")

	_, levels := h.load(t, id)
	_, hasL2 := levels[model.LevelL2]
	require.False(t, hasL2)

	require.NoError(t, h.decide(id, model.LevelL1, workflow.ActionApprove, "alice", ""))

	rl, levels := h.load(t, id)
	assert.Equal(t, "L3 Pending", rl.LevelStatus)
	assert.Equal(t, model.LevelPending, levels[model.LevelL3].LevelStatus)

	timeline, err := h.requests.GetTimeline(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, timeline, 3)
	assert.Equal(t, "placeholder-2", timeline[1].ID)
	assert.Equal(t, model.LevelNotStarted, timeline[1].LevelStatus)
}

func TestDecide_LastLevelCompletesRequest(t *testing.T) {
	h := newHarness(t)
	h.acceptTags()
	h.ladder(t, "HR", "alice", "bob", "carol")
	id := h.newRequest(t, "HR", "dana")

	require.NoError(t, h.decide(id, model.LevelL1, workflow.ActionApprove, "alice", ""))
	require.NoError(t, h.decide(id, model.LevelL2, workflow.ActionApprove, "bob", ""))
	require.NoError(t, h.decide(id, model.LevelL3, workflow.ActionApprove, "carol", "ok"))

	rl, _ := h.load(t, id)
	assert.Equal(t, model.RequestCompleted, rl.Status)
	assert.Equal(t, model.AllApproved, rl.LevelStatus)
	assert.Equal(t, "Completed", h.itemStatus(t, id))

	err := h.decide(id, model.LevelL3, workflow.ActionApprove, "carol", "")
	assert.ErrorIs(t, err, workflow.ErrInvalidState)
}

func TestDecide_Refusals(t *testing.T) {
	tests := []struct {
		name    string
		in      func(id string) DecideInput
		wantErr error
	}{
		{
			name:    "unknown request",
			in:      func(string) DecideInput { return DecideInput{RequestID: "Req99999", Level: model.LevelL1, Action: workflow.ActionApprove, ApproverID: "alice"} },
			wantErr: workflow.ErrNotFound,
		},
		{
			name:    "unknown level",
			in:      func(id string) DecideInput { return DecideInput{RequestID: id, Level: "L4", Action: workflow.ActionApprove, ApproverID: "alice"} },
			wantErr: workflow.ErrInvalidInput,
		},
		{
			name:    "unknown action",
			in:      func(id string) DecideInput { return DecideInput{RequestID: id, Level: model.LevelL1, Action: "Escalate", ApproverID: "alice"} },
			wantErr: workflow.ErrInvalidInput,
		},
		{
			name:    "missing approver",
			in:      func(id string) DecideInput { return DecideInput{RequestID: id, Level: model.LevelL1, Action: workflow.ActionApprove} },
			wantErr: workflow.ErrUnauthorized,
		},
		{
			name:    "approver without grant",
			in:      func(id string) DecideInput { return DecideInput{RequestID: id, Level: model.LevelL1, Action: workflow.ActionApprove, ApproverID: "mallory"} },
			wantErr: workflow.ErrUnauthorized,
		},
		{
			name:    "grant for another level",
			in:      func(id string) DecideInput { return DecideInput{RequestID: id, Level: model.LevelL1, Action: workflow.ActionApprove, ApproverID: "bob"} },
			wantErr: workflow.ErrUnauthorized,
		},
		{
			name:    "level not yet open",
			in:      func(id string) DecideInput { return DecideInput{RequestID: id, Level: model.LevelL2, Action: workflow.ActionApprove, ApproverID: "bob"} },
			wantErr: workflow.ErrInvalidState,
		},
		{
			name:    "reject without comments",
			in:      func(id string) DecideInput { return DecideInput{RequestID: id, Level: model.LevelL1, Action: workflow.ActionReject, ApproverID: "alice", Comments: "  "} },
			wantErr: workflow.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.acceptTags()
			h.ladder(t, "HR", "alice", "bob", "carol")
			id := h.newRequest(t, "HR", "dana")

			err := h.workflow.Decide(context.Background(), tt.in(id))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, workflow.Retryable(err))

			rl, levels := h.load(t, id)
			assert.Equal(t, "L1 Pending", rl.LevelStatus)
			assert.Equal(t, 1, rl.Version)
			assert.Equal(t, model.LevelPending, levels[model.LevelL1].LevelStatus)
			h.objects.AssertNotCalled(t, "SetTags", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDecide_GrantCheckedBeforeLevel(t *testing.T) {
	h := newHarness(t)
	h.acceptTags()
	h.ladder(t, "HR", "alice", "bob", "")
	id := h.newRequest(t, "HR", "dana")

	err := h.decide(id, model.LevelL3, workflow.ActionApprove, "mallory", "")
	assert.ErrorIs(t, err, workflow.ErrUnauthorized)

	h.grant(t, "carol", "HR", model.LevelL3)
	err = h.decide(id, model.LevelL3, workflow.ActionApprove, "carol", "")
	assert.ErrorIs(t, err, workflow.ErrNotFound)

	rl, _ := h.load(t, id)
	assert.Equal(t, "L1 Pending", rl.LevelStatus)
	assert.Equal(t, 1, rl.Version)
}

func TestDecide_StalePlanConflicts(t *testing.T) {
	h := newHarness(t)
	h.acceptTags()
	h.ladder(t, "HR", "alice", "bob", "carol")
	id := h.newRequest(t, "HR", "dana")
	ctx := context.Background()

	req, err := h.db.Requests().FindByRequestID(ctx, id)
	require.NoError(t, err)
	levels, err := h.db.Levels().ListByRequestID(ctx, id)
	require.NoError(t, err)

	first, err := workflow.Plan(*req, levels, workflow.Decision{Level: model.LevelL1, Action: workflow.ActionApprove, ApproverID: "alice", At: testNow})
	require.NoError(t, err)
	second, err := workflow.Plan(*req, levels, workflow.Decision{Level: model.LevelL1, Action: workflow.ActionReject, ApproverID: "alice", Comments: "no", At: testNow})
	require.NoError(t, err)

	require.NoError(t, h.db.WithTx(ctx, func(ctx context.Context) error { return h.workflow.apply(ctx, first) }))
	err = h.db.WithTx(ctx, func(ctx context.Context) error { return h.workflow.apply(ctx, second) })
	require.Error(t, err)
	assert.ErrorIs(t, err, workflow.ErrConflict)
	assert.True(t, workflow.Retryable(err))

	rl, byLevel := h.load(t, id)
	assert.Equal(t, "L2 Pending", rl.LevelStatus)
	assert.Equal(t, model.LevelApproved, byLevel[model.LevelL1].LevelStatus)
}

func TestDecide_ConcurrentDecisionsHaveOneWinner(t *testing.T) {
	h := newHarness(t)
	h.acceptTags()
	h.ladder(t, "HR", "alice", "bob", "carol")
	id := h.newRequest(t, "HR", "dana")

	const callers = 8
	var (
		wg   sync.WaitGroup
		errs = make([]error, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			action, comments := workflow.ActionApprove, ""
			if i%2 == 1 {
				action, comments = workflow.ActionReject, "duplicate"
			}
			errs[i] = h.decide(id, model.LevelL1, action, "alice", comments)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.True(t, errors.Is(err, workflow.ErrInvalidState) || errors.Is(err, workflow.ErrConflict), err)
	}
	assert.Equal(t, 1, winners)

	rl, _ := h.load(t, id)
	assert.Equal(t, 2, rl.Version)
}

func TestDecide_MissingLibraryItemIsSkipped(t *testing.T) {
	h := newHarness(t)
	h.ladder(t, "HR", "alice", "bob", "carol")
	id, err := h.requests.CreateRequest(context.Background(), CreateRequestInput{
		FolderURL:      "https://files.example.com/hr/1",
		RequesterEmail: "dana@example.com",
		Department:     "HR",
		RenewalDate:    testNow,
	})
	require.NoError(t, err)

	require.NoError(t, h.decide(id, model.LevelL1, workflow.ActionApprove, "alice", ""))
	assert.Equal(t, 1, h.logs.FilterMessage("library_item_missing").Len())
	h.objects.AssertNotCalled(t, "SetTags", mock.Anything, mock.Anything, mock.Anything)
}

func TestDecide_TagFailureAbortsDecision(t *testing.T) {
	h := newHarness(t)
	h.ladder(t, "HR", "alice", "bob", "carol")
	id := h.newRequest(t, "HR", "dana")
	h.objects.On("SetTags", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("minio down"))

	err := h.decide(id, model.LevelL1, workflow.ActionApprove, "alice", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, workflow.ErrStoreUnavailable)

	rl, levels := h.load(t, id)
	assert.Equal(t, "L1 Pending", rl.LevelStatus)
	assert.Equal(t, model.LevelPending, levels[model.LevelL1].LevelStatus)
	assert.Equal(t, "L1 Approval Pending", h.itemStatus(t, id))
}

// commitFailure builds a workflow service whose transaction fails at commit, with the
// records served by mocks.
func commitFailure(t *testing.T, restoreErr error) (*workflowService, *storeMocks.MockStorage) {
	t.Helper()
	req := model.Request{
		RequestID:   "Req00001",
		Status:      model.RequestInProgress,
		LevelStatus: "L1 Pending",
		Department:  "HR",
		Version:     1,
	}
	levels := []model.ApprovalLevel{
		{ID: "l1", RequestID: "Req00001", Level: model.LevelL1, LevelStatus: model.LevelPending, AssignedApproverID: "alice", Version: 1},
		{ID: "l2", RequestID: "Req00001", Level: model.LevelL2, LevelStatus: model.LevelNotStarted, AssignedApproverID: "bob", Version: 1},
	}
	item := &model.LibraryItem{ID: "item-1", RequestID: "Req00001", StoragePath: "documents/a.pdf", Status: "L1 Approval Pending"}

	tx := &repoMocks.MockTransactor{}
	tx.On("WithTx", mock.Anything).Return(nil, errors.New("commit transaction: connection reset"))
	requests := &repoMocks.MockRequestRepository{}
	requests.On("FindByRequestID", mock.Anything, "Req00001").Return(&req, nil)
	requests.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil)
	lvls := &repoMocks.MockApprovalLevelRepository{}
	lvls.On("ListByRequestID", mock.Anything, "Req00001").Return(levels, nil)
	lvls.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	items := &repoMocks.MockLibraryItemRepository{}
	items.On("FindByRequestID", mock.Anything, "Req00001").Return(item, nil)
	items.On("UpdateStatus", mock.Anything, "item-1", "L2 Approval Pending").Return(nil)
	grants := &repoMocks.MockAccessGrantRepository{}
	grants.On("ListByApprover", mock.Anything, "alice").Return([]model.AccessGrant{
		{ApproverID: "alice", Department: "HR", Level: model.LevelL1, Active: true},
	}, nil)

	objects := &storeMocks.MockStorage{}
	objects.On("SetTags", mock.Anything, "documents/a.pdf", map[string]string{storage.StatusTag: "L2 Approval Pending"}).Return(nil).Once()
	objects.On("SetTags", mock.Anything, "documents/a.pdf", map[string]string{storage.StatusTag: "L1 Approval Pending"}).Return(restoreErr).Once()

	wm, err := metrics.NewWorkflow(prometheus.NewRegistry())
	require.NoError(t, err)
	svc := NewWorkflowService(WorkflowDeps{
		Tx:       tx,
		Requests: requests,
		Levels:   lvls,
		Items:    items,
		Access:   NewAccessService(grants, nil),
		Store:    objects,
		Metrics:  wm,
	}).(*workflowService)
	return svc, objects
}

func TestDecide_CommitFailureRestoresTag(t *testing.T) {
	svc, objects := commitFailure(t, nil)

	err := svc.Decide(context.Background(), DecideInput{RequestID: "Req00001", Level: model.LevelL1, Action: workflow.ActionApprove, ApproverID: "alice"})
	require.Error(t, err)
	assert.ErrorIs(t, err, workflow.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, workflow.ErrPartialApply)
	objects.AssertExpectations(t)
}

func TestDecide_FailedRestoreIsPartialApply(t *testing.T) {
	svc, objects := commitFailure(t, errors.New("minio down"))

	err := svc.Decide(context.Background(), DecideInput{RequestID: "Req00001", Level: model.LevelL1, Action: workflow.ActionApprove, ApproverID: "alice"})
	require.Error(t, err)
	assert.ErrorIs(t, err, workflow.ErrPartialApply)
	assert.Contains(t, err.Error(), "minio down")
	objects.AssertExpectations(t)
}

func TestDecide_Metrics(t *testing.T) {
	h := newHarness(t)
	h.acceptTags()
	h.ladder(t, "HR", "alice", "bob", "carol")
	id := h.newRequest(t, "HR", "dana")

	require.NoError(t, h.decide(id, model.LevelL1, workflow.ActionApprove, "alice", ""))
	require.Error(t, h.decide(id, model.LevelL1, workflow.ActionApprove, "alice", ""))

	expected := `
# HELP approval_decisions_total Approval decisions by level, action and outcome.
# TYPE approval_decisions_total counter
approval_decisions_total{action="Approve",level="L1",outcome="applied"} 1
approval_decisions_total{action="Approve",level="L1",outcome="refused"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(h.metrics, strings.NewReader(expected), "approval_decisions_total"))
}
