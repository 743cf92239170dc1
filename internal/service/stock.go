package service

import (
	"context"
	"fmt"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
)

// StockLedger owns the available quantity of every listing. Both operations
// must run inside a transaction; they hold the listing row lock until commit.
type StockLedger struct {
	listings repository.ListingRepository
}

func NewStockLedger(listings repository.ListingRepository) *StockLedger {
	return &StockLedger{listings: listings}
}

func (l *StockLedger) Reserve(ctx context.Context, listingID int32) (domain.Reservation, error) {
	listing, err := l.listings.GetForUpdate(ctx, listingID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if listing.Quantity < 1 {
		return domain.Reservation{}, fmt.Errorf("%w: listing %d", domain.ErrOutOfStock, listingID)
	}
	remaining, err := l.listings.AdjustQuantity(ctx, listingID, -1)
	if err != nil {
		return domain.Reservation{}, err
	}
	logger.Debug("Stock reserved", "listing_id", listingID, "remaining", remaining)
	return domain.Reservation{ListingID: listingID, Remaining: remaining}, nil
}

func (l *StockLedger) Release(ctx context.Context, listingID int32) error {
	if _, err := l.listings.GetForUpdate(ctx, listingID); err != nil {
		return err
	}
	remaining, err := l.listings.AdjustQuantity(ctx, listingID, 1)
	if err != nil {
		return err
	}
	logger.Debug("Stock released", "listing_id", listingID, "remaining", remaining)
	return nil
}
