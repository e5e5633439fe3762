package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docflow/internal/http/middleware"
	"docflow/internal/workflow"
)

// errorPayload is the error response body shared by every endpoint.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// writeError writes an error envelope. message must be safe to show to callers.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

type errorMapping struct {
	kind    error
	status  int
	code    string
	message string
}

// An empty message means the error text itself is shown; those kinds only carry
// caller-facing detail.
var errorMappings = []errorMapping{
	{workflow.ErrPartialApply, fiber.StatusInternalServerError, "PARTIAL_APPLY", "decision was partially applied; contact an administrator"},
	{workflow.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT", ""},
	{workflow.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "resource not found"},
	{workflow.ErrUnauthorized, fiber.StatusForbidden, "FORBIDDEN", "not allowed to decide this level"},
	{workflow.ErrInvalidState, fiber.StatusConflict, "INVALID_STATE", ""},
	{workflow.ErrConflict, fiber.StatusConflict, "CONFLICT", "request was modified concurrently; reload and retry"},
	{workflow.ErrStoreUnavailable, fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE", "storage temporarily unavailable"},
}

// respondError maps a service error onto the envelope. The cause is left in locals for
// the access log.
func respondError(c *fiber.Ctx, err error) error {
	c.Locals(middleware.ErrorLocalKey, err)
	for _, m := range errorMappings {
		if !errors.Is(err, m.kind) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		return c.Status(m.status).JSON(errorPayload{
			RequestID: middleware.GetRequestID(c),
			Error:     errorEnvelope{Code: m.code, Message: msg, Retryable: workflow.Retryable(err)},
		})
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler is the Fiber error handler for errors that escape the handlers.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			return respondError(c, err)
		}

		switch fe.Code {
		case fiber.StatusBadRequest:
			return writeError(c, fe.Code, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, fe.Code, "UNAUTHENTICATED", fe.Message)
		case fiber.StatusNotFound:
			return writeError(c, fe.Code, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, fe.Code, "PAYLOAD_TOO_LARGE", "payload too large")
		default:
			return writeError(c, fe.Code, "INTERNAL_ERROR", "internal server error")
		}
	}
}
