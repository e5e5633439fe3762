package workflow

import "errors"

// Caller-visible failure kinds. Conflict and StoreUnavailable are retryable with fresh state;
// the others are returned immediately and never retried by the engine.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrConflict         = errors.New("concurrent modification")
	ErrUnauthorized     = errors.New("approver not authorized for level")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrPartialApply     = errors.New("decision partially applied")
	ErrInvalidInput     = errors.New("invalid input")
)

// Retryable reports whether the caller may retry the same call after re-reading state.
func Retryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrStoreUnavailable)
}
