package domain

import "time"

type Listing struct {
	ID            int32     `json:"id"`
	OwnerID       int32     `json:"owner_id"`
	Title         string    `json:"title"`
	DayRate       int64     `json:"day_rate"`
	Deposit       int64     `json:"deposit"`
	ShippingFee   int64     `json:"shipping_fee"`
	Quantity      int32     `json:"quantity"`
	TotalQuantity int32     `json:"total_quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

// Reservation is returned by a successful stock reservation.
type Reservation struct {
	ListingID int32 `json:"listing_id"`
	Remaining int32 `json:"remaining"`
}

// StockDrift reports a listing whose available quantity disagrees with its holders.
type StockDrift struct {
	ListingID     int32
	TotalQuantity int32
	Quantity      int32
	Holding       int32
}

func (d StockDrift) Expected() int32 {
	return d.TotalQuantity - d.Holding
}
