package service

import (
	"context"
	"time"

	"rentshare-backend/internal/domain"
)

type ListingService interface {
	CreateListing(ctx context.Context, ownerID int32, in CreateListingInput) (*domain.Listing, error)
	GetListing(ctx context.Context, id int32) (*domain.Listing, error)
	ListListings(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Listing, error)
	Restock(ctx context.Context, ownerID, listingID, delta int32) (*domain.Listing, error)
	// UpdateListing edits terms for future bookings; existing bookings keep their price.
	UpdateListing(ctx context.Context, ownerID, listingID int32, in UpdateListingInput) (*domain.Listing, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)
	SubmitPayment(ctx context.Context, bookingID, renterID int32, evidenceRef string, claimedAmount int64) (*domain.Booking, error)
	VerifyPayment(ctx context.Context, bookingID, ownerID int32, accept bool) (*domain.Booking, error)
	Advance(ctx context.Context, bookingID, actorID int32, target domain.BookingStatus) (*domain.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int32) (*domain.Booking, error)
	History(ctx context.Context, userID, bookingID int32) ([]domain.BookingTransition, error)
	ListForOwner(ctx context.Context, ownerID int32) ([]domain.Booking, error)
	ListForRenter(ctx context.Context, renterID int32) ([]domain.Booking, error)
	AuthorizeEvidence(ctx context.Context, userID int32, ref string) error
}

type WalletService interface {
	GetBalance(ctx context.Context, userID int32) (int64, error)
	ListSettlements(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Settlement, int32, error)
}

// EvidenceStore answers whether an uploaded payment slip exists.
type EvidenceStore interface {
	Exists(ctx context.Context, ref string) (bool, error)
}

// BookingCache holds the per-user booking lists. Implementations must treat
// every failure as a miss. GetBookings reports the generation it read; a
// SetBookings under that generation must never be served once Invalidate has
// run for the same user in between.
type BookingCache interface {
	GetBookings(ctx context.Context, role domain.Role, userID int32) ([]domain.Booking, int64, bool)
	SetBookings(ctx context.Context, role domain.Role, userID int32, gen int64, bookings []domain.Booking)
	Invalidate(ctx context.Context, ownerID, renterID int32)
}

type CreateListingInput struct {
	Title       string
	DayRate     int64
	Deposit     int64
	ShippingFee *int64
	Quantity    int32
}

// UpdateListingInput changes only the non-nil fields. Quantity is the new
// available quantity; the provisioned total moves by the same amount.
type UpdateListingInput struct {
	Title       *string
	DayRate     *int64
	Deposit     *int64
	ShippingFee *int64
	Quantity    *int32
}

type CreateBookingInput struct {
	RenterID  int32
	ListingID int32
	Range     domain.DateRange
	// RentalFee is an externally quoted fee; zero means price from the listing day rate.
	RentalFee int64
}

type BookingOptions struct {
	MaxRetries             int
	RetryBackoff           time.Duration
	RequirePaymentEvidence bool
}

func (o BookingOptions) withDefaults() BookingOptions {
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 50 * time.Millisecond
	}
	return o
}
