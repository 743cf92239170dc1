package service_test

import (
	"context"
	"testing"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListingService_CreateListing(t *testing.T) {
	ctx := context.Background()

	t.Run("Default shipping fee", func(t *testing.T) {
		repo := new(MockListingRepo)
		repo.On("Create", ctx, mock.MatchedBy(func(l *domain.Listing) bool {
			return l.OwnerID == ownerID && l.ShippingFee == service.DefaultShippingFee && l.Title == "Tent"
		})).Return(nil)

		l, err := service.NewListingService(new(MockTransactor), repo).CreateListing(ctx, ownerID, service.CreateListingInput{
			Title: " Tent ", DayRate: 300, Deposit: 200, Quantity: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(50), l.ShippingFee)
		repo.AssertExpectations(t)
	})

	t.Run("Explicit free shipping", func(t *testing.T) {
		repo := new(MockListingRepo)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil)
		free := int64(0)

		l, err := service.NewListingService(new(MockTransactor), repo).CreateListing(ctx, ownerID, service.CreateListingInput{
			DayRate: 300, ShippingFee: &free, Quantity: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), l.ShippingFee)
	})

	t.Run("Negative amounts", func(t *testing.T) {
		svc := service.NewListingService(new(MockTransactor), new(MockListingRepo))
		_, err := svc.CreateListing(ctx, ownerID, service.CreateListingInput{DayRate: -1})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		_, err = svc.CreateListing(ctx, ownerID, service.CreateListingInput{Quantity: -1})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Amounts above the cap", func(t *testing.T) {
		svc := service.NewListingService(new(MockTransactor), new(MockListingRepo))
		_, err := svc.CreateListing(ctx, ownerID, service.CreateListingInput{DayRate: domain.MaxAmount + 1})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		huge := domain.MaxAmount + 1
		_, err = svc.CreateListing(ctx, ownerID, service.CreateListingInput{DayRate: 1, ShippingFee: &huge})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

func TestListingService_Restock(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		tx := new(MockTransactor)
		tx.On("WithTx", ctx).Return()
		repo := new(MockListingRepo)
		repo.On("GetForUpdate", ctx, int32(1)).Return(&domain.Listing{ID: 1, OwnerID: ownerID, Quantity: 0, TotalQuantity: 2}, nil)
		repo.On("AddStock", ctx, int32(1), int32(3)).Return(&domain.Listing{ID: 1, OwnerID: ownerID, Quantity: 3, TotalQuantity: 5}, nil)

		l, err := service.NewListingService(tx, repo).Restock(ctx, ownerID, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, int32(5), l.TotalQuantity)
		tx.AssertExpectations(t)
	})

	t.Run("Someone else's listing", func(t *testing.T) {
		tx := new(MockTransactor)
		tx.On("WithTx", ctx).Return()
		repo := new(MockListingRepo)
		repo.On("GetForUpdate", ctx, int32(1)).Return(&domain.Listing{ID: 1, OwnerID: otherID}, nil)

		_, err := service.NewListingService(tx, repo).Restock(ctx, ownerID, 1, 3)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		repo.AssertNotCalled(t, "AddStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Non-positive delta", func(t *testing.T) {
		_, err := service.NewListingService(new(MockTransactor), new(MockListingRepo)).Restock(ctx, ownerID, 1, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestListingService_ListListings(t *testing.T) {
	ctx := context.Background()
	repo := new(MockListingRepo)
	repo.On("List", ctx, int32(1), int32(20)).Return([]domain.Listing{{ID: 1}}, int32(1), nil)

	listings, total, err := service.NewListingService(new(MockTransactor), repo).ListListings(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), total)
	assert.Len(t, listings, 1)
}

func TestListingService_UpdateListing(t *testing.T) {
	ctx := context.Background()
	int64p := func(v int64) *int64 { return &v }
	int32p := func(v int32) *int32 { return &v }

	t.Run("Existing bookings keep their price", func(t *testing.T) {
		h := newHarness(service.BookingOptions{})
		b := h.book(t, 800, 200, 2)
		listings := service.NewListingService(h.store, h.store.Listings())

		l, err := listings.UpdateListing(ctx, ownerID, b.ListingID, service.UpdateListingInput{
			DayRate: int64p(900), Deposit: int64p(5000), ShippingFee: int64p(0),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(900), l.DayRate)
		assert.Equal(t, int64(5000), l.Deposit)

		got, err := h.svc.GetBooking(ctx, renterID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), got.TotalPrice)
		assert.Equal(t, int64(200), got.Deposit)
	})

	t.Run("Quantity moves the total with it", func(t *testing.T) {
		h := newHarness(service.BookingOptions{})
		b := h.book(t, 800, 200, 2)
		listings := service.NewListingService(h.store, h.store.Listings())

		l, err := listings.UpdateListing(ctx, ownerID, b.ListingID, service.UpdateListingInput{Quantity: int32p(0)})
		require.NoError(t, err)
		assert.Equal(t, int32(0), l.Quantity)
		assert.Equal(t, int32(1), l.TotalQuantity)

		l, err = listings.UpdateListing(ctx, ownerID, b.ListingID, service.UpdateListingInput{Quantity: int32p(4)})
		require.NoError(t, err)
		assert.Equal(t, int32(5), l.TotalQuantity)

		drift, err := h.store.Listings().FindStockDrift(ctx)
		require.NoError(t, err)
		assert.Empty(t, drift)
	})

	t.Run("Negative quantity", func(t *testing.T) {
		h := newHarness(service.BookingOptions{})
		l := h.store.seedListing(domain.Listing{OwnerID: ownerID, DayRate: 100, Quantity: 1})
		listings := service.NewListingService(h.store, h.store.Listings())

		_, err := listings.UpdateListing(ctx, ownerID, l.ID, service.UpdateListingInput{Quantity: int32p(-1)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, int32(1), h.store.listing(l.ID).Quantity)
	})

	t.Run("Amount above the cap", func(t *testing.T) {
		svc := service.NewListingService(new(MockTransactor), new(MockListingRepo))
		_, err := svc.UpdateListing(ctx, ownerID, 1, service.UpdateListingInput{Deposit: int64p(domain.MaxAmount + 1)})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		blank := "  "
		_, err = svc.UpdateListing(ctx, ownerID, 1, service.UpdateListingInput{Title: &blank})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Someone else's listing", func(t *testing.T) {
		tx := new(MockTransactor)
		tx.On("WithTx", ctx).Return()
		repo := new(MockListingRepo)
		repo.On("GetForUpdate", ctx, int32(1)).Return(&domain.Listing{ID: 1, OwnerID: otherID, DayRate: 100}, nil)

		_, err := service.NewListingService(tx, repo).UpdateListing(ctx, ownerID, 1, service.UpdateListingInput{DayRate: int64p(1)})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
