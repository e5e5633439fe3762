package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"

	"docflow/internal/repository"
	"docflow/internal/workflow"
)

var (
	ErrIDRequired = fmt.Errorf("%w: id is required", workflow.ErrInvalidInput)
	ErrReaderNil  = fmt.Errorf("%w: reader is nil", workflow.ErrInvalidInput)
)

var tracer = otel.Tracer("docflow/internal/service")

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct wraps validation failures as ErrInvalidInput.
func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", workflow.ErrInvalidInput, err)
	}
	return nil
}

var taxonomy = []error{
	workflow.ErrNotFound,
	workflow.ErrInvalidState,
	workflow.ErrConflict,
	workflow.ErrUnauthorized,
	workflow.ErrStoreUnavailable,
	workflow.ErrPartialApply,
	workflow.ErrInvalidInput,
}

// storeErr classifies an error coming out of a repository or transaction.
// Errors that already carry a kind pass through unchanged.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range taxonomy {
		if errors.Is(err, kind) {
			return err
		}
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, workflow.ErrNotFound)
	case errors.Is(err, repository.ErrVersionMismatch):
		return fmt.Errorf("%s: %w", op, workflow.ErrConflict)
	default:
		return fmt.Errorf("%s: %w: %w", op, workflow.ErrStoreUnavailable, err)
	}
}
