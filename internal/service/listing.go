package service

import (
	"context"
	"fmt"
	"strings"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
)

// DefaultShippingFee applies when a listing is created without one.
const DefaultShippingFee int64 = 50

type listingService struct {
	tx       repository.Transactor
	listings repository.ListingRepository
}

func NewListingService(tx repository.Transactor, listings repository.ListingRepository) ListingService {
	return &listingService{tx: tx, listings: listings}
}

func (s *listingService) CreateListing(ctx context.Context, ownerID int32, in CreateListingInput) (*domain.Listing, error) {
	logger.EnterMethod("listingService.CreateListing", "ownerID", ownerID)

	shipping := DefaultShippingFee
	if in.ShippingFee != nil {
		shipping = *in.ShippingFee
	}
	if !domain.ValidAmount(in.DayRate) || !domain.ValidAmount(in.Deposit) || !domain.ValidAmount(shipping) {
		logger.ExitMethodWithError("listingService.CreateListing", domain.ErrInvalidAmount, "ownerID", ownerID)
		return nil, domain.ErrInvalidAmount
	}
	if in.Quantity < 0 {
		err := fmt.Errorf("%w: quantity must not be negative", domain.ErrInvalidInput)
		logger.ExitMethodWithError("listingService.CreateListing", err, "ownerID", ownerID)
		return nil, err
	}

	listing := &domain.Listing{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(in.Title),
		DayRate:     in.DayRate,
		Deposit:     in.Deposit,
		ShippingFee: shipping,
		Quantity:    in.Quantity,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		logger.ExitMethodWithError("listingService.CreateListing", err, "ownerID", ownerID)
		return nil, err
	}

	logger.ExitMethod("listingService.CreateListing", "listingID", listing.ID)
	return listing, nil
}

func (s *listingService) GetListing(ctx context.Context, id int32) (*domain.Listing, error) {
	return s.listings.GetByID(ctx, id)
}

func (s *listingService) ListListings(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.listings.List(ctx, page, pageSize)
}

func (s *listingService) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Listing, error) {
	return s.listings.ListByOwner(ctx, ownerID)
}

func (s *listingService) Restock(ctx context.Context, ownerID, listingID, delta int32) (*domain.Listing, error) {
	logger.EnterMethod("listingService.Restock", "ownerID", ownerID, "listingID", listingID, "delta", delta)

	if delta <= 0 {
		err := fmt.Errorf("%w: restock quantity must be positive", domain.ErrInvalidInput)
		logger.ExitMethodWithError("listingService.Restock", err, "listingID", listingID)
		return nil, err
	}

	var listing *domain.Listing
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.listings.GetForUpdate(ctx, listingID)
		if err != nil {
			return err
		}
		if current.OwnerID != ownerID {
			return fmt.Errorf("%w: listing %d belongs to another owner", domain.ErrForbidden, listingID)
		}
		listing, err = s.listings.AddStock(ctx, listingID, delta)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("listingService.Restock", err, "listingID", listingID)
		return nil, err
	}

	logger.Info("Listing restocked", "listing_id", listingID, "quantity", listing.Quantity, "total_quantity", listing.TotalQuantity)
	logger.ExitMethod("listingService.Restock", "listingID", listingID)
	return listing, nil
}

func (s *listingService) UpdateListing(ctx context.Context, ownerID, listingID int32, in UpdateListingInput) (*domain.Listing, error) {
	logger.EnterMethod("listingService.UpdateListing", "ownerID", ownerID, "listingID", listingID)

	for _, a := range []*int64{in.DayRate, in.Deposit, in.ShippingFee} {
		if a != nil && !domain.ValidAmount(*a) {
			logger.ExitMethodWithError("listingService.UpdateListing", domain.ErrInvalidAmount, "listingID", listingID)
			return nil, domain.ErrInvalidAmount
		}
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		err := fmt.Errorf("%w: quantity must not be negative", domain.ErrInvalidInput)
		logger.ExitMethodWithError("listingService.UpdateListing", err, "listingID", listingID)
		return nil, err
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		err := fmt.Errorf("%w: title must not be empty", domain.ErrInvalidInput)
		logger.ExitMethodWithError("listingService.UpdateListing", err, "listingID", listingID)
		return nil, err
	}

	var listing *domain.Listing
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		l, err := s.listings.GetForUpdate(ctx, listingID)
		if err != nil {
			return err
		}
		if l.OwnerID != ownerID {
			return fmt.Errorf("%w: listing %d belongs to another owner", domain.ErrForbidden, listingID)
		}
		if in.Title != nil {
			l.Title = strings.TrimSpace(*in.Title)
		}
		if in.DayRate != nil {
			l.DayRate = *in.DayRate
		}
		if in.Deposit != nil {
			l.Deposit = *in.Deposit
		}
		if in.ShippingFee != nil {
			l.ShippingFee = *in.ShippingFee
		}
		if in.Quantity != nil {
			// Units held by open bookings stay counted in the total.
			l.TotalQuantity += *in.Quantity - l.Quantity
			l.Quantity = *in.Quantity
		}
		if err := s.listings.Update(ctx, l); err != nil {
			return err
		}
		listing = l
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("listingService.UpdateListing", err, "listingID", listingID)
		return nil, err
	}

	logger.Info("Listing updated", "listing_id", listingID, "quantity", listing.Quantity, "total_quantity", listing.TotalQuantity)
	logger.ExitMethod("listingService.UpdateListing", "listingID", listingID)
	return listing, nil
}
