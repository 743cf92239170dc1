package repository

import (
	"context"

	"rentshare-backend/internal/domain"
)

// Transactor runs fn inside one database transaction carried by the context.
// Nested calls join the outer transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id int32) (*domain.Listing, error)
	// GetForUpdate takes an exclusive row lock; it must run inside WithTx.
	GetForUpdate(ctx context.Context, id int32) (*domain.Listing, error)
	// AdjustQuantity changes the available quantity by delta and returns the new value.
	AdjustQuantity(ctx context.Context, id int32, delta int32) (int32, error)
	// AddStock raises both provisioned and available quantity by delta.
	AddStock(ctx context.Context, id int32, delta int32) (*domain.Listing, error)
	// Update overwrites the editable columns and both quantities.
	Update(ctx context.Context, listing *domain.Listing) error
	List(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Listing, error)
	FindStockDrift(ctx context.Context) ([]domain.StockDrift, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	// GetForUpdate takes an exclusive row lock; it must run inside WithTx.
	GetForUpdate(ctx context.Context, id int32) (*domain.Booking, error)
	// UpdateStatus only succeeds while the persisted status still equals from.
	UpdateStatus(ctx context.Context, id int32, from, to domain.BookingStatus) error
	SetEvidence(ctx context.Context, id int32, ref *string, claimedAmount *int64) error
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Booking, error)
	ListByRenter(ctx context.Context, renterID int32) ([]domain.Booking, error)
	ListByEvidenceRef(ctx context.Context, ref string) ([]domain.Booking, error)
	RecordTransition(ctx context.Context, t *domain.BookingTransition) error
	ListTransitions(ctx context.Context, bookingID int32) ([]domain.BookingTransition, error)
}

type WalletRepository interface {
	// Credit adds amount to the user's balance, creating the wallet on first use.
	Credit(ctx context.Context, userID int32, amount int64) error
	RecordSettlement(ctx context.Context, s *domain.Settlement) error
	GetBalance(ctx context.Context, userID int32) (int64, error)
	ListSettlements(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Settlement, int32, error)
}
