package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"docflow/internal/metrics"
	"docflow/internal/model"
	"docflow/internal/repository/memory"
	storeMocks "docflow/internal/storage/mocks"
	"docflow/internal/workflow"
)

var testNow = time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)

// harness wires the services over the in-memory backend and a mocked object store.
type harness struct {
	db       *memory.Store
	objects  *storeMocks.MockStorage
	logs     *observer.ObservedLogs
	metrics  *prometheus.Registry
	access   AccessService
	library  LibraryService
	requests *requestService
	workflow *workflowService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	db := memory.New()
	objects := &storeMocks.MockStorage{}
	reg := prometheus.NewRegistry()
	wm, err := metrics.NewWorkflow(reg)
	require.NoError(t, err)

	access := NewAccessService(db.Grants(), logger)
	library := NewLibraryService(objects, db.LibraryItems(), time.Minute, logger)
	requests := NewRequestService(RequestDeps{
		Tx:       db,
		Requests: db.Requests(),
		Levels:   db.Levels(),
		Items:    db.LibraryItems(),
		Access:   access,
		Library:  library,
		Store:    objects,
		Logger:   logger,
	}).(*requestService)
	requests.now = func() time.Time { return testNow }

	wf := NewWorkflowService(WorkflowDeps{
		Tx:       db,
		Requests: db.Requests(),
		Levels:   db.Levels(),
		Items:    db.LibraryItems(),
		Access:   access,
		Store:    objects,
		Metrics:  wm,
		Logger:   logger,
	}).(*workflowService)
	wf.now = func() time.Time { return testNow.Add(time.Hour) }

	return &harness{
		db:       db,
		objects:  objects,
		logs:     logs,
		metrics:  reg,
		access:   access,
		library:  library,
		requests: requests,
		workflow: wf,
	}
}

// acceptTags makes every object tag write succeed.
func (h *harness) acceptTags() {
	h.objects.On("SetTags", mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

// grant gives approverID the level for department. Earlier calls get older grants.
func (h *harness) grant(t *testing.T, approverID, department string, level model.Level) {
	t.Helper()
	n := len(h.grantsOf(t, department))
	err := h.access.Grant(context.Background(), &model.AccessGrant{
		ApproverID:   approverID,
		ApproverName: approverID + " name",
		Department:   department,
		Level:        level,
		Active:       true,
		CreatedAt:    testNow.Add(-time.Duration(100-n) * time.Minute),
	})
	require.NoError(t, err)
}

func (h *harness) grantsOf(t *testing.T, department string) []model.AccessGrant {
	t.Helper()
	gs, err := h.db.Grants().ListByDepartment(context.Background(), department)
	require.NoError(t, err)
	return gs
}

// ladder grants a department one approver per level; an empty id leaves the level out.
func (h *harness) ladder(t *testing.T, department, l1, l2, l3 string) {
	t.Helper()
	for i, id := range []string{l1, l2, l3} {
		if id != "" {
			h.grant(t, id, department, model.Levels[i])
		}
	}
}

// newRequest stores a library item and creates a request for it.
func (h *harness) newRequest(t *testing.T, department, requester string) string {
	t.Helper()
	ctx := context.Background()
	item, err := h.db.LibraryItems().Create(ctx, &model.LibraryItem{
		Filename:    "contract.pdf",
		StoragePath: "documents/" + requester + "-" + department + ".pdf",
		ContentType: "application/pdf",
		Status:      UploadedStatus,
		CreatedAt:   testNow,
	})
	require.NoError(t, err)

	id, err := h.requests.CreateRequest(ctx, CreateRequestInput{
		FolderURL:      item.StoragePath,
		RequesterName:  requester,
		RequesterEmail: requester + "@example.com",
		Department:     department,
		RenewalDate:    testNow.AddDate(1, 0, 0),
		LibraryItemID:  item.ID,
	})
	require.NoError(t, err)
	return id
}

func (h *harness) decide(requestID string, level model.Level, action workflow.Action, approverID, comments string) error {
	in := DecideInput{
		RequestID:    requestID,
		Level:        level,
		Action:       action,
		ApproverID:   approverID,
		ApproverName: approverID + " name",
		Comments:     comments,
	}
	return h.workflow.Decide(context.Background(), in)
}

func (h *harness) load(t *testing.T, requestID string) (*model.RequestWithLevels, map[model.Level]model.ApprovalLevel) {
	t.Helper()
	rl, err := h.requests.Get(context.Background(), requestID)
	require.NoError(t, err)
	byLevel := make(map[model.Level]model.ApprovalLevel, len(rl.ApprovalLevels))
	for _, l := range rl.ApprovalLevels {
		byLevel[l.Level] = l
	}
	return rl, byLevel
}

func (h *harness) itemStatus(t *testing.T, requestID string) string {
	t.Helper()
	item, err := h.db.LibraryItems().FindByRequestID(context.Background(), requestID)
	require.NoError(t, err)
	return item.Status
}
