package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WithTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := postgres.NewStore(db, postgres.WithLockTimeout(1500*time.Millisecond))
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("SET LOCAL lock_timeout = '1500ms'").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("UPDATE listings SET quantity").
			WithArgs(int32(-1), int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(0))
		mock.ExpectCommit()

		err := store.WithTx(ctx, func(ctx context.Context) error {
			_, err := store.Listings.AdjustQuantity(ctx, 1, -1)
			return err
		})
		assert.NoError(t, err)
	})

	t.Run("Rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectExec("SET LOCAL lock_timeout").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := store.WithTx(ctx, func(ctx context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Nested calls join the outer transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("SET LOCAL lock_timeout").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		calls := 0
		err := store.WithTx(ctx, func(ctx context.Context) error {
			return store.WithTx(ctx, func(ctx context.Context) error {
				calls++
				return nil
			})
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("Begin failure is transient", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(sqlmockConnErr{})

		err := store.WithTx(ctx, func(ctx context.Context) error { return nil })
		assert.ErrorIs(t, err, domain.ErrTransient)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

// sqlmockConnErr looks like a dropped connection to the classifier.
type sqlmockConnErr struct{}

func (sqlmockConnErr) Error() string   { return "connection reset" }
func (sqlmockConnErr) Timeout() bool   { return false }
func (sqlmockConnErr) Temporary() bool { return true }
