package domain

import "time"

type SettlementKind string

const (
	SettlementOwnerPayout    SettlementKind = "owner_payout"
	SettlementDepositRefund  SettlementKind = "deposit_refund"
	SettlementDepositForfeit SettlementKind = "deposit_forfeit"
)

type Wallet struct {
	UserID  int32 `json:"user_id"`
	Balance int64 `json:"balance"`
}

// Settlement records one wallet credit caused by a booking transition.
type Settlement struct {
	ID        int32          `json:"id"`
	BookingID int32          `json:"booking_id"`
	UserID    int32          `json:"user_id"`
	Amount    int64          `json:"amount"`
	Kind      SettlementKind `json:"kind"`
	CreatedAt time.Time      `json:"created_at"`
}
