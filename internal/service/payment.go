package service

import (
	"context"
	"fmt"
	"strings"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
	"rentshare-backend/internal/storage"
)

// PaymentGate attaches payment evidence to bookings and moves pending
// bookings to waiting_verification.
type PaymentGate struct {
	bookings repository.BookingRepository
	evidence EvidenceStore
	machine  *StateMachine
}

func NewPaymentGate(bookings repository.BookingRepository, evidence EvidenceStore, machine *StateMachine) *PaymentGate {
	return &PaymentGate{bookings: bookings, evidence: evidence, machine: machine}
}

// Check validates the submission before any row is locked. Only slips the
// renter uploaded themselves are accepted.
func (g *PaymentGate) Check(ctx context.Context, renterID int32, evidenceRef string, claimedAmount int64) error {
	if strings.TrimSpace(evidenceRef) == "" {
		return fmt.Errorf("%w: evidence reference is required", domain.ErrInvalidInput)
	}
	if !domain.ValidAmount(claimedAmount) {
		return domain.ErrInvalidAmount
	}
	if uploader, ok := storage.RefUploader(evidenceRef); !ok || uploader != renterID {
		return domain.ErrEvidenceNotOwned
	}
	if g.evidence == nil {
		return nil
	}
	ok, err := g.evidence.Exists(ctx, evidenceRef)
	if err != nil {
		return domain.Transient(fmt.Errorf("check evidence %q: %w", evidenceRef, err))
	}
	if !ok {
		return domain.ErrEvidenceMissing
	}
	return nil
}

// Submit must run inside a transaction. The claimed amount is stored as the
// renter reported it and is never compared with the total price.
func (g *PaymentGate) Submit(ctx context.Context, bookingID, renterID int32, evidenceRef string, claimedAmount int64) (*domain.Booking, error) {
	b, err := g.bookings.GetForUpdate(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.RenterID != renterID {
		return nil, fmt.Errorf("%w: only the renter can submit payment", domain.ErrForbidden)
	}
	if b.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: booking %d is %s", domain.ErrAlreadyTerminal, b.ID, b.Status)
	}

	if err := g.bookings.SetEvidence(ctx, b.ID, &evidenceRef, &claimedAmount); err != nil {
		return nil, err
	}
	b.EvidenceRef = &evidenceRef
	b.ClaimedAmount = &claimedAmount

	if b.Status != domain.BookingStatusPending {
		logger.WithBooking(b.ID).Info("Payment evidence replaced", "status", b.Status)
		return b, nil
	}

	edge, _, err := g.machine.Resolve(TransitionRequest{
		Booking:        b,
		ActorID:        renterID,
		Target:         domain.BookingStatusWaitingVerification,
		ViaPaymentGate: true,
	})
	if err != nil {
		return nil, err
	}
	if err := g.bookings.UpdateStatus(ctx, b.ID, edge.From, edge.To); err != nil {
		return nil, err
	}
	if err := g.bookings.RecordTransition(ctx, &domain.BookingTransition{
		BookingID: b.ID, From: edge.From, To: edge.To, ActorID: renterID,
	}); err != nil {
		return nil, err
	}
	b.Status = edge.To
	logger.WithBooking(b.ID).Info("Payment evidence submitted", "from", edge.From, "to", edge.To)
	return b, nil
}
