package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
	"rentshare-backend/internal/storage"
)

type bookingService struct {
	tx         repository.Transactor
	listings   repository.ListingRepository
	bookings   repository.BookingRepository
	stock      *StockLedger
	machine    *StateMachine
	settlement *SettlementEngine
	payments   *PaymentGate
	cache      BookingCache
	opts       BookingOptions
}

// NewBookingService wires the booking lifecycle. evidence and cache may be nil.
func NewBookingService(
	tx repository.Transactor,
	listings repository.ListingRepository,
	bookings repository.BookingRepository,
	wallets repository.WalletRepository,
	evidence EvidenceStore,
	cache BookingCache,
	opts BookingOptions,
) BookingService {
	opts = opts.withDefaults()
	machine := NewStateMachine(opts.RequirePaymentEvidence)
	return &bookingService{
		tx:         tx,
		listings:   listings,
		bookings:   bookings,
		stock:      NewStockLedger(listings),
		machine:    machine,
		settlement: NewSettlementEngine(wallets),
		payments:   NewPaymentGate(bookings, evidence, machine),
		cache:      cache,
		opts:       opts,
	}
}

// inTx runs fn in a fresh transaction, retrying from scratch while it fails
// with a transient error.
func (s *bookingService) inTx(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = s.tx.WithTx(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrTransient) || attempt >= s.opts.MaxRetries {
			return err
		}
		logger.Warn("Retrying transaction", "operation", op, "attempt", attempt+1, "error", err)
		select {
		case <-ctx.Done():
			return domain.Transient(ctx.Err())
		case <-time.After(s.opts.RetryBackoff * time.Duration(attempt+1)):
		}
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CreateBooking", "renterID", in.RenterID, "listingID", in.ListingID)

	if err := in.Range.Validate(); err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "renterID", in.RenterID)
		return nil, err
	}
	if !domain.ValidAmount(in.RentalFee) {
		logger.ExitMethodWithError("bookingService.CreateBooking", domain.ErrInvalidAmount, "renterID", in.RenterID)
		return nil, domain.ErrInvalidAmount
	}

	var booking *domain.Booking
	err := s.inTx(ctx, "create_booking", func(ctx context.Context) error {
		listing, err := s.listings.GetForUpdate(ctx, in.ListingID)
		if err != nil {
			return err
		}
		if listing.OwnerID == in.RenterID {
			return domain.ErrSelfBooking
		}
		fee, total, err := domain.BookingPrice(in.RentalFee, listing, in.Range)
		if err != nil {
			return err
		}
		if _, err := s.stock.Reserve(ctx, listing.ID); err != nil {
			return err
		}

		b := &domain.Booking{
			ListingID:   listing.ID,
			RenterID:    in.RenterID,
			OwnerID:     listing.OwnerID,
			Range:       in.Range,
			RentalFee:   fee,
			Deposit:     listing.Deposit,
			ShippingFee: listing.ShippingFee,
			TotalPrice:  total,
			Status:      domain.BookingStatusPending,
		}
		if err := s.bookings.Create(ctx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "renterID", in.RenterID, "listingID", in.ListingID)
		return nil, err
	}

	s.invalidate(ctx, booking)
	logger.WithBooking(booking.ID).Info("Booking created",
		"listing_id", booking.ListingID, "renter_id", booking.RenterID, "total_price", booking.TotalPrice)
	logger.ExitMethod("bookingService.CreateBooking", "bookingID", booking.ID)
	return booking, nil
}

func (s *bookingService) SubmitPayment(ctx context.Context, bookingID, renterID int32, evidenceRef string, claimedAmount int64) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.SubmitPayment", "bookingID", bookingID, "renterID", renterID)

	if err := s.payments.Check(ctx, renterID, evidenceRef, claimedAmount); err != nil {
		logger.ExitMethodWithError("bookingService.SubmitPayment", err, "bookingID", bookingID)
		return nil, err
	}

	var booking *domain.Booking
	err := s.inTx(ctx, "submit_payment", func(ctx context.Context) error {
		b, err := s.payments.Submit(ctx, bookingID, renterID, evidenceRef, claimedAmount)
		booking = b
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.SubmitPayment", err, "bookingID", bookingID)
		return nil, err
	}

	s.invalidate(ctx, booking)
	logger.ExitMethod("bookingService.SubmitPayment", "bookingID", bookingID, "status", booking.Status)
	return booking, nil
}

func (s *bookingService) VerifyPayment(ctx context.Context, bookingID, ownerID int32, accept bool) (*domain.Booking, error) {
	if accept {
		return s.Advance(ctx, bookingID, ownerID, domain.BookingStatusApproved)
	}
	return s.Advance(ctx, bookingID, ownerID, domain.BookingStatusPending)
}

func (s *bookingService) Advance(ctx context.Context, bookingID, actorID int32, target domain.BookingStatus) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.Advance", "bookingID", bookingID, "actorID", actorID, "target", target)

	var (
		booking *domain.Booking
		changed bool
	)
	err := s.inTx(ctx, "advance_booking", func(ctx context.Context) error {
		changed = false
		// Locks are taken listing first, so a rejection has to lock the
		// listing before it locks the booking.
		if target == domain.BookingStatusRejected {
			peek, err := s.bookings.GetByID(ctx, bookingID)
			if err != nil {
				return err
			}
			if _, err := s.listings.GetForUpdate(ctx, peek.ListingID); err != nil {
				return err
			}
		}

		b, err := s.bookings.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		edge, noop, err := s.machine.Resolve(TransitionRequest{Booking: b, ActorID: actorID, Target: target})
		if err != nil {
			return err
		}
		booking = b
		if noop {
			return nil
		}

		if err := s.bookings.UpdateStatus(ctx, b.ID, edge.From, edge.To); err != nil {
			return err
		}
		if edge.ReleaseStock {
			if err := s.stock.Release(ctx, b.ListingID); err != nil {
				return err
			}
		}
		if edge.ClearEvidence {
			if err := s.bookings.SetEvidence(ctx, b.ID, nil, nil); err != nil {
				return err
			}
			b.EvidenceRef, b.ClaimedAmount = nil, nil
		}
		if edge.Settle != "" {
			if err := s.settlement.Settle(ctx, b, edge.Settle); err != nil {
				return err
			}
		}
		if err := s.bookings.RecordTransition(ctx, &domain.BookingTransition{
			BookingID: b.ID, From: edge.From, To: edge.To, ActorID: actorID,
		}); err != nil {
			return err
		}
		b.Status = edge.To
		changed = true
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.Advance", err, "bookingID", bookingID, "target", target)
		return nil, err
	}

	if changed {
		s.invalidate(ctx, booking)
		logger.WithBooking(booking.ID).Info("Booking status changed", "status", booking.Status, "actor_id", actorID)
	}
	logger.ExitMethod("bookingService.Advance", "bookingID", bookingID, "status", booking.Status, "changed", changed)
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID int32) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, ok := b.PartyRole(userID); !ok {
		return nil, fmt.Errorf("%w: user %d is not a party to booking %d", domain.ErrForbidden, userID, bookingID)
	}
	return b, nil
}

func (s *bookingService) History(ctx context.Context, userID, bookingID int32) ([]domain.BookingTransition, error) {
	if _, err := s.GetBooking(ctx, userID, bookingID); err != nil {
		return nil, err
	}
	return s.bookings.ListTransitions(ctx, bookingID)
}

// AuthorizeEvidence lets the uploader and the parties to any booking the
// slip is attached to read it.
func (s *bookingService) AuthorizeEvidence(ctx context.Context, userID int32, ref string) error {
	if uploader, ok := storage.RefUploader(ref); ok && uploader == userID {
		return nil
	}
	bookings, err := s.bookings.ListByEvidenceRef(ctx, ref)
	if err != nil {
		return err
	}
	for i := range bookings {
		if _, ok := bookings[i].PartyRole(userID); ok {
			return nil
		}
	}
	return fmt.Errorf("%w: user %d may not read evidence %q", domain.ErrForbidden, userID, ref)
}

func (s *bookingService) ListForOwner(ctx context.Context, ownerID int32) ([]domain.Booking, error) {
	return s.listFor(ctx, domain.RoleOwner, ownerID, s.bookings.ListByOwner)
}

func (s *bookingService) ListForRenter(ctx context.Context, renterID int32) ([]domain.Booking, error) {
	return s.listFor(ctx, domain.RoleRenter, renterID, s.bookings.ListByRenter)
}

func (s *bookingService) listFor(ctx context.Context, role domain.Role, userID int32, load func(context.Context, int32) ([]domain.Booking, error)) ([]domain.Booking, error) {
	var gen int64
	if s.cache != nil {
		cached, g, ok := s.cache.GetBookings(ctx, role, userID)
		if ok {
			return cached, nil
		}
		gen = g
	}
	bookings, err := load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetBookings(ctx, role, userID, gen, bookings)
	}
	return bookings, nil
}

func (s *bookingService) invalidate(ctx context.Context, b *domain.Booking) {
	if s.cache != nil && b != nil {
		s.cache.Invalidate(ctx, b.OwnerID, b.RenterID)
	}
}
