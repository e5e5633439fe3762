package service

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"docflow/internal/repository"
	"docflow/internal/workflow"
)

func TestStoreErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: sql.ErrNoRows, want: workflow.ErrNotFound},
		{name: "wrapped no rows", err: fmt.Errorf("scan: %w", sql.ErrNoRows), want: workflow.ErrNotFound},
		{name: "version mismatch", err: repository.ErrVersionMismatch, want: workflow.ErrConflict},
		{name: "driver error", err: errors.New("conn reset"), want: workflow.ErrStoreUnavailable},
		{name: "already classified", err: fmt.Errorf("x: %w", workflow.ErrUnauthorized), want: workflow.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := storeErr("op", tt.err)
			assert.ErrorIs(t, got, tt.want)
		})
	}

	assert.NoError(t, storeErr("op", nil))
	assert.NotErrorIs(t, storeErr("op", fmt.Errorf("x: %w", workflow.ErrUnauthorized)), workflow.ErrStoreUnavailable)
}
