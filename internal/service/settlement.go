package service

import (
	"context"
	"fmt"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
)

// SettlementEngine credits wallets. It only runs inside the transaction
// that moves the booking across a crediting edge.
type SettlementEngine struct {
	wallets repository.WalletRepository
}

func NewSettlementEngine(wallets repository.WalletRepository) *SettlementEngine {
	return &SettlementEngine{wallets: wallets}
}

// Credit records entry and adds its amount to the user's wallet. A zero
// amount writes nothing.
func (e *SettlementEngine) Credit(ctx context.Context, entry *domain.Settlement) error {
	if entry.Amount < 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidAmount, entry.Amount)
	}
	if entry.Amount == 0 {
		return nil
	}
	// The settlement row goes first: its (booking_id, kind) key rejects a
	// second credit before the wallet row is locked.
	if err := e.wallets.RecordSettlement(ctx, entry); err != nil {
		return err
	}
	if err := e.wallets.Credit(ctx, entry.UserID, entry.Amount); err != nil {
		return err
	}
	logger.Info("Wallet credited",
		"booking_id", entry.BookingID, "user_id", entry.UserID, "amount", entry.Amount, "kind", entry.Kind)
	return nil
}

// Settle applies the settlement of kind for booking b.
func (e *SettlementEngine) Settle(ctx context.Context, b *domain.Booking, kind domain.SettlementKind) error {
	return e.Credit(ctx, &domain.Settlement{
		BookingID: b.ID,
		UserID:    kind.BeneficiaryID(b),
		Amount:    kind.Amount(b),
		Kind:      kind,
	})
}
