package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxManager_WithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE dms_requests").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		m := NewTxManager(db, nil)
		err = m.WithTx(ctx, func(ctx context.Context) error {
			assert.NotNil(t, TxFrom(ctx))
			_, err := ExecutorFrom(ctx, db).ExecContext(ctx, "UPDATE dms_requests SET version = version + 1")
			return err
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err = NewTxManager(db, nil).WithTx(ctx, func(ctx context.Context) error { return boom })

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested call joins outer transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		m := NewTxManager(db, nil)
		err = m.WithTx(ctx, func(outer context.Context) error {
			return m.WithTx(outer, func(inner context.Context) error {
				assert.Same(t, TxFrom(outer), TxFrom(inner))
				return nil
			})
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin().WillReturnError(errors.New("conn refused"))

		called := false
		err = NewTxManager(db, nil).WithTx(ctx, func(ctx context.Context) error {
			called = true
			return nil
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "begin transaction: conn refused")
		assert.False(t, called)
	})

	t.Run("commit error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err = NewTxManager(db, nil).WithTx(ctx, func(ctx context.Context) error { return nil })

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "commit transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("panic rolls back and re-panics", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = NewTxManager(db, nil).WithTx(ctx, func(ctx context.Context) error { panic("bad") })
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestExecutorFrom_WithoutTx(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.Nil(t, TxFrom(context.Background()))
	assert.Equal(t, db, ExecutorFrom(context.Background(), db))
}
