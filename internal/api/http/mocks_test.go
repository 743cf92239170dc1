package http_test

import (
	"context"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, in service.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) SubmitPayment(ctx context.Context, bookingID, renterID int32, ref string, amount int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, renterID, ref, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) VerifyPayment(ctx context.Context, bookingID, ownerID int32, accept bool) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, ownerID, accept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) Advance(ctx context.Context, bookingID, actorID int32, target domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, actorID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) GetBooking(ctx context.Context, userID, bookingID int32) (*domain.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) History(ctx context.Context, userID, bookingID int32) ([]domain.BookingTransition, error) {
	args := m.Called(ctx, userID, bookingID)
	return args.Get(0).([]domain.BookingTransition), args.Error(1)
}
func (m *MockBookingService) ListForOwner(ctx context.Context, ownerID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingService) ListForRenter(ctx context.Context, renterID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, renterID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// MockListingService
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) CreateListing(ctx context.Context, ownerID int32, in service.CreateListingInput) (*domain.Listing, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) GetListing(ctx context.Context, id int32) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) ListListings(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Listing), args.Get(1).(int32), args.Error(2)
}
func (m *MockListingService) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Listing, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Listing), args.Error(1)
}
func (m *MockListingService) Restock(ctx context.Context, ownerID, listingID, delta int32) (*domain.Listing, error) {
	args := m.Called(ctx, ownerID, listingID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingService) UpdateListing(ctx context.Context, ownerID, listingID int32, in service.UpdateListingInput) (*domain.Listing, error) {
	args := m.Called(ctx, ownerID, listingID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockBookingService) AuthorizeEvidence(ctx context.Context, userID int32, ref string) error {
	args := m.Called(ctx, userID, ref)
	return args.Error(0)
}

// MockWalletService
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetBalance(ctx context.Context, userID int32) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockWalletService) ListSettlements(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Settlement, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Settlement), args.Get(1).(int32), args.Error(2)
}
