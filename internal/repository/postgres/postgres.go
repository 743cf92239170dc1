package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

// Store bundles the repositories with the transaction runner they share.
type Store struct {
	db          *sql.DB
	lockTimeout time.Duration

	Listings repository.ListingRepository
	Bookings repository.BookingRepository
	Wallets  repository.WalletRepository
}

type StoreOption func(*Store)

// WithLockTimeout bounds how long a transaction waits for a row lock.
func WithLockTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

func NewStore(db *sql.DB, opts ...StoreOption) *Store {
	s := &Store{
		db:          db,
		lockTimeout: 3 * time.Second,
		Listings:    NewListingRepository(db),
		Bookings:    NewBookingRepository(db),
		Wallets:     NewWalletRepository(db),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) DB() *sql.DB {
	return s.db
}

type txKey struct{}

// WithTx runs fn in a transaction. A context that already carries a
// transaction is reused so composed operations commit once.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin tx", err)
	}

	// SET LOCAL does not accept bind parameters.
	stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		_ = tx.Rollback()
		return classify("set lock timeout", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Warn("Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify("commit", err)
	}
	return nil
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func conn(ctx context.Context, db *sql.DB) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

type scanner interface {
	Scan(dest ...any) error
}

func pageOffset(page, pageSize int32) int32 {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
