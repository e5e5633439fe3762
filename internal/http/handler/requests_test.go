package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docflow/internal/http/middleware"
	"docflow/internal/model"
	"docflow/internal/service"
	serviceMocks "docflow/internal/service/mocks"
	"docflow/internal/workflow"
)

func multipartBody(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if withFile {
		part, err := writer.CreateFormFile("file", "lease.pdf")
		require.NoError(t, err)
		_, _ = part.Write([]byte("%PDF-1.7"))
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestSubmitRequest(t *testing.T) {
	mockSvc := new(serviceMocks.MockRequestService)
	app := newApp()
	app.Post("/api/requests", middleware.Identity(), SubmitRequest(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Submit", mock.Anything, mock.MatchedBy(func(in service.SubmitInput) bool {
			return in.Filename == "lease.pdf" &&
				in.Department == "HR" &&
				in.Requester.Email == "alice@example.com" &&
				in.RenewalDate.Equal(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
		})).Return(&service.SubmitResult{
			RequestID: "Req00001",
			Item:      model.LibraryItem{ID: "item-1", RequestID: "Req00001", Status: "L1 Approval Pending"},
		}, nil).Once()

		body, ct := multipartBody(t, map[string]string{"department": "HR", "renewal_date": "2025-03-31"}, true)
		req := asAlice(httptest.NewRequest(http.MethodPost, "/api/requests", body))
		req.Header.Set("Content-Type", ct)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var res service.SubmitResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "Req00001", res.RequestID)
		assert.Equal(t, "L1 Approval Pending", res.Item.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"department": "HR", "renewal_date": "2025-03-31"}, false)
		req := asAlice(httptest.NewRequest(http.MethodPost, "/api/requests", body))
		req.Header.Set("Content-Type", ct)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("bad renewal date", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"department": "HR", "renewal_date": "next year"}, true)
		req := asAlice(httptest.NewRequest(http.MethodPost, "/api/requests", body))
		req.Header.Set("Content-Type", ct)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_RENEWAL_DATE", decodeError(t, resp).Error.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		mockSvc.On("Submit", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: department is required", workflow.ErrInvalidInput)).Once()

		body, ct := multipartBody(t, map[string]string{"renewal_date": "2025-03-31"}, true)
		req := asAlice(httptest.NewRequest(http.MethodPost, "/api/requests", body))
		req.Header.Set("Content-Type", ct)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "INVALID_INPUT", res.Error.Code)
		assert.Contains(t, res.Error.Message, "department is required")
		mockSvc.AssertExpectations(t)
	})
}

func TestDecide(t *testing.T) {
	mockWf := new(serviceMocks.MockWorkflowService)
	mockReq := new(serviceMocks.MockRequestService)
	app := newApp()
	app.Post("/api/requests/:requestId/levels/:level/decision", middleware.Identity(), Decide(mockWf, mockReq))

	post := func(level, body string) *http.Response {
		req := asAlice(httptest.NewRequest(http.MethodPost, "/api/requests/Req00001/levels/"+level+"/decision", strings.NewReader(body)))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("approve", func(t *testing.T) {
		mockWf.On("Decide", mock.Anything, service.DecideInput{
			RequestID:    "Req00001",
			Level:        model.LevelL1,
			Action:       workflow.ActionApprove,
			ApproverID:   "alice",
			ApproverName: "Alice",
		}).Return(nil).Once()
		mockReq.On("Get", mock.Anything, "Req00001").Return(&model.RequestWithLevels{
			Request: model.Request{RequestID: "Req00001", LevelStatus: "L2 Pending"},
		}, nil).Once()

		resp := post("l1", `{"action":"approve"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res model.RequestWithLevels
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "L2 Pending", res.LevelStatus)
		mockWf.AssertExpectations(t)
		mockReq.AssertExpectations(t)
	})

	t.Run("reject passes comments", func(t *testing.T) {
		mockWf.On("Decide", mock.Anything, mock.MatchedBy(func(in service.DecideInput) bool {
			return in.Action == workflow.ActionReject && in.Comments == "missing signature" && in.Level == model.LevelL2
		})).Return(nil).Once()
		mockReq.On("Get", mock.Anything, "Req00001").Return(&model.RequestWithLevels{}, nil).Once()

		resp := post("L2", `{"action":"Reject","comments":"missing signature"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("invalid level", func(t *testing.T) {
		resp := post("L7", `{"action":"approve"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LEVEL", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid action", func(t *testing.T) {
		resp := post("L1", `{"action":"escalate"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ACTION", decodeError(t, resp).Error.Code)
	})

	t.Run("conflict is retryable", func(t *testing.T) {
		mockWf.On("Decide", mock.Anything, mock.Anything).
			Return(fmt.Errorf("update L1 of Req00001: %w", workflow.ErrConflict)).Once()

		resp := post("L1", `{"action":"approve"}`)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "CONFLICT", res.Error.Code)
		assert.True(t, res.Error.Retryable)
	})

	t.Run("not authorized", func(t *testing.T) {
		mockWf.On("Decide", mock.Anything, mock.Anything).Return(workflow.ErrUnauthorized).Once()

		resp := post("L3", `{"action":"approve"}`)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestApprovalLists(t *testing.T) {
	mockReq := new(serviceMocks.MockRequestService)
	mockAccess := new(serviceMocks.MockAccessService)
	app := newApp()
	api := app.Group("/api", middleware.Identity())
	api.Get("/approvals/pending", PendingApprovals(mockReq))
	api.Get("/approvals/approved", ApprovedApprovals(mockReq))
	api.Get("/requests/mine", MyRequests(mockReq))
	api.Get("/requests/:requestId/timeline", Timeline(mockReq))
	api.Get("/me/access", MyAccess(mockAccess))

	get := func(path string) *http.Response {
		resp, err := app.Test(asAlice(httptest.NewRequest(http.MethodGet, path, nil)))
		require.NoError(t, err)
		return resp
	}

	t.Run("pending", func(t *testing.T) {
		mockReq.On("ListPendingFor", mock.Anything, "alice").Return([]model.Request{{RequestID: "Req00002"}, {RequestID: "Req00001"}}, nil).Once()

		resp := get("/api/approvals/pending")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var res []model.Request
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Len(t, res, 2)
	})

	t.Run("approved", func(t *testing.T) {
		mockReq.On("ListApprovedFor", mock.Anything, "alice").Return([]model.Request{}, nil).Once()

		resp := get("/api/approvals/approved")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("mine uses email", func(t *testing.T) {
		mockReq.On("ListRequestedBy", mock.Anything, "alice@example.com").Return([]model.RequestWithLevels{}, nil).Once()

		resp := get("/api/requests/mine")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("timeline not found", func(t *testing.T) {
		mockReq.On("GetTimeline", mock.Anything, "Req00404").Return(nil, fmt.Errorf("find request: %w", workflow.ErrNotFound)).Once()

		resp := get("/api/requests/Req00404/timeline")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("store unavailable", func(t *testing.T) {
		mockReq.On("ListPendingFor", mock.Anything, "alice").Return(nil, workflow.ErrStoreUnavailable).Once()

		resp := get("/api/approvals/pending")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.True(t, decodeError(t, resp).Error.Retryable)
	})

	t.Run("access map", func(t *testing.T) {
		mockAccess.On("ResolveAccess", mock.Anything, "alice").Return(model.AccessMap{"HR": {model.LevelL1, model.LevelL2}}, nil).Once()

		resp := get("/api/me/access")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var res map[string][]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, []string{"L1", "L2"}, res["HR"])
	})

	mockReq.AssertExpectations(t)
	mockAccess.AssertExpectations(t)
}
