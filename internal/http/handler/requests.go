package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"docflow/internal/http/middleware"
	"docflow/internal/model"
	"docflow/internal/service"
	"docflow/internal/workflow"
)

// renewalLayouts are the accepted renewal_date formats.
var renewalLayouts = []string{time.DateOnly, time.RFC3339}

func parseRenewalDate(s string) (time.Time, bool) {
	for _, layout := range renewalLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SubmitRequest godoc
// @Summary Submit a document for approval
// @Description Uploads the file, stores it in the library and opens an L1..L3 approval request.
// @Tags requests
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document"
// @Param department formData string true "Department routing the approval"
// @Param renewal_date formData string true "Renewal date (YYYY-MM-DD)"
// @Success 201 {object} service.SubmitResult
// @Failure 400 {object} errorPayload
// @Router /api/requests [post]
func SubmitRequest(requests service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := middleware.CurrentUser(c)

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		renewal, ok := parseRenewalDate(c.FormValue("renewal_date"))
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_RENEWAL_DATE", "renewal_date must be YYYY-MM-DD")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		res, err := requests.Submit(c.UserContext(), service.SubmitInput{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Requester:   user,
			Department:  c.FormValue("department"),
			RenewalDate: renewal,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// MyRequests godoc
// @Summary Requests submitted by the caller
// @Tags requests
// @Produce json
// @Success 200 {array} model.RequestWithLevels
// @Router /api/requests/mine [get]
func MyRequests(requests service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := middleware.CurrentUser(c)
		res, err := requests.ListRequestedBy(c.UserContext(), user.Email)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// Timeline godoc
// @Summary Approval timeline of a request
// @Description Levels L1..Ln in order; unconfigured levels appear as NotStarted placeholders.
// @Tags requests
// @Produce json
// @Param requestId path string true "Request ID, e.g. Req00001"
// @Success 200 {array} model.ApprovalLevel
// @Failure 404 {object} errorPayload
// @Router /api/requests/{requestId}/timeline [get]
func Timeline(requests service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		levels, err := requests.GetTimeline(c.UserContext(), c.Params("requestId"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(levels)
	}
}

type decisionBody struct {
	Action   string `json:"action"`
	Comments string `json:"comments"`
}

// Decide godoc
// @Summary Approve or reject one level
// @Tags approvals
// @Accept json
// @Produce json
// @Param requestId path string true "Request ID"
// @Param level path string true "L1, L2 or L3"
// @Param body body decisionBody true "Decision"
// @Success 200 {object} model.RequestWithLevels
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /api/requests/{requestId}/levels/{level}/decision [post]
func Decide(wf service.WorkflowService, requests service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := middleware.CurrentUser(c)

		level, err := model.ParseLevel(c.Params("level"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LEVEL", "level must be L1, L2 or L3")
		}
		var body decisionBody
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		action, err := workflow.ParseAction(body.Action)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ACTION", "action must be approve or reject")
		}

		requestID := c.Params("requestId")
		err = wf.Decide(c.UserContext(), service.DecideInput{
			RequestID:    requestID,
			Level:        level,
			Action:       action,
			ApproverID:   user.ID,
			ApproverName: user.Name,
			Comments:     body.Comments,
		})
		if err != nil {
			return respondError(c, err)
		}

		res, err := requests.Get(c.UserContext(), requestID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// PendingApprovals godoc
// @Summary Requests waiting on the caller
// @Tags approvals
// @Produce json
// @Success 200 {array} model.Request
// @Router /api/approvals/pending [get]
func PendingApprovals(requests service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := middleware.CurrentUser(c)
		res, err := requests.ListPendingFor(c.UserContext(), user.ID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// ApprovedApprovals godoc
// @Summary Requests the caller approved at some level
// @Tags approvals
// @Produce json
// @Success 200 {array} model.Request
// @Router /api/approvals/approved [get]
func ApprovedApprovals(requests service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := middleware.CurrentUser(c)
		res, err := requests.ListApprovedFor(c.UserContext(), user.ID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// MyAccess godoc
// @Summary Departments and levels the caller may decide
// @Description An empty object means the caller is not an approver.
// @Tags approvals
// @Produce json
// @Success 200 {object} model.AccessMap
// @Router /api/me/access [get]
func MyAccess(access service.AccessService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := middleware.CurrentUser(c)
		res, err := access.ResolveAccess(c.UserContext(), user.ID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}
