package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTransactor runs fn inline. Return(beginErr) fails before fn runs;
// Return(nil, commitErr) fails after fn succeeded.
type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		return err
	}
	if len(args) > 1 {
		return args.Error(1)
	}
	return nil
}
