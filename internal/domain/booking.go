package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending             BookingStatus = "pending"
	BookingStatusWaitingVerification BookingStatus = "waiting_verification"
	BookingStatusApproved            BookingStatus = "approved"
	BookingStatusShipped             BookingStatus = "shipped"
	BookingStatusActive              BookingStatus = "active"
	BookingStatusReturned            BookingStatus = "returned"
	BookingStatusCompleted           BookingStatus = "completed"
	BookingStatusDamaged             BookingStatus = "damaged"
	BookingStatusRejected            BookingStatus = "rejected"
)

var bookingStatuses = map[BookingStatus]bool{
	BookingStatusPending:             true,
	BookingStatusWaitingVerification: true,
	BookingStatusApproved:            true,
	BookingStatusShipped:             true,
	BookingStatusActive:              true,
	BookingStatusReturned:            true,
	BookingStatusCompleted:           true,
	BookingStatusDamaged:             true,
	BookingStatusRejected:            true,
}

// ParseBookingStatus accepts only canonical status names.
func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(s)
	if !bookingStatuses[st] {
		return "", ErrUnknownStatus
	}
	return st, nil
}

// IsTerminal reports whether no further transition is legal from s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusDamaged || s == BookingStatusRejected
}

// HoldsReservation reports whether a booking in status s still holds a unit of stock.
func (s BookingStatus) HoldsReservation() bool {
	return bookingStatuses[s] && !s.IsTerminal()
}

// HoldingStatuses lists every status that keeps a listing unit reserved.
func HoldingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPending,
		BookingStatusWaitingVerification,
		BookingStatusApproved,
		BookingStatusShipped,
		BookingStatusActive,
		BookingStatusReturned,
	}
}

// DateRange is an inclusive range of rental days.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

const DateLayout = "2006-01-02"

// MaxRentalDays bounds a single booking.
const MaxRentalDays = 366

func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, ErrInvalidDateRange
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, ErrInvalidDateRange
	}
	r := DateRange{Start: s, End: e}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() || r.End.Before(r.Start) {
		return ErrInvalidDateRange
	}
	if r.Days() > MaxRentalDays {
		return ErrInvalidDateRange
	}
	return nil
}

// Days counts both the start and the end calendar date.
func (r DateRange) Days() int64 {
	return civilDay(r.End) - civilDay(r.Start) + 1
}

func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

type Booking struct {
	ID            int32         `json:"id"`
	ListingID     int32         `json:"listing_id"`
	RenterID      int32         `json:"renter_id"`
	OwnerID       int32         `json:"owner_id"`
	Range         DateRange     `json:"date_range"`
	RentalFee     int64         `json:"rental_fee"`
	Deposit       int64         `json:"deposit"`
	ShippingFee   int64         `json:"shipping_fee"`
	TotalPrice    int64         `json:"total_price"`
	Status        BookingStatus `json:"status"`
	EvidenceRef   *string       `json:"evidence_ref"`
	ClaimedAmount *int64        `json:"claimed_amount,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// OwnerPayout is the part of the total that is never escrowed as deposit.
func (b *Booking) OwnerPayout() int64 {
	return b.TotalPrice - b.Deposit
}

// PartyRole returns the role userID plays on the booking.
func (b *Booking) PartyRole(userID int32) (Role, bool) {
	switch userID {
	case b.OwnerID:
		return RoleOwner, true
	case b.RenterID:
		return RoleRenter, true
	}
	return "", false
}

// BookingTransition is one row of the status history.
type BookingTransition struct {
	ID        int32         `json:"id"`
	BookingID int32         `json:"booking_id"`
	From      BookingStatus `json:"from_status"`
	To        BookingStatus `json:"to_status"`
	ActorID   int32         `json:"actor_id"`
	CreatedAt time.Time     `json:"created_at"`
}
