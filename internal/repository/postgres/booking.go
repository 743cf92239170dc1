package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
)

const bookingColumns = `id, listing_id, renter_id, owner_id, start_date, end_date, rental_fee, deposit, shipping_fee, total_price, status, evidence_ref, claimed_amount, created_at, updated_at`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

// scanBooking reads one booking row. Bookings created before deposits
// existed carry a NULL deposit, which is read as zero.
func scanBooking(row scanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	var (
		deposit       sql.NullInt64
		evidenceRef   sql.NullString
		claimedAmount sql.NullInt64
		status        string
	)
	err := row.Scan(&b.ID, &b.ListingID, &b.RenterID, &b.OwnerID, &b.Range.Start, &b.Range.End,
		&b.RentalFee, &deposit, &b.ShippingFee, &b.TotalPrice, &status, &evidenceRef, &claimedAmount,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Status = domain.BookingStatus(status)
	if deposit.Valid {
		b.Deposit = deposit.Int64
	}
	if evidenceRef.Valid {
		ref := evidenceRef.String
		b.EvidenceRef = &ref
	}
	if claimedAmount.Valid {
		amt := claimedAmount.Int64
		b.ClaimedAmount = &amt
	}
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (listing_id, renter_id, owner_id, start_date, end_date, rental_fee, deposit, shipping_fee, total_price, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	logger.DatabaseCall("bookings.create", query, "listing_id", b.ListingID, "renter_id", b.RenterID)
	err := conn(ctx, r.db).QueryRowContext(ctx, query, b.ListingID, b.RenterID, b.OwnerID,
		b.Range.Start.Format(domain.DateLayout), b.Range.End.Format(domain.DateLayout),
		b.RentalFee, b.Deposit, b.ShippingFee, b.TotalPrice, b.Status, b.CreatedAt, b.UpdatedAt).Scan(&b.ID)
	return classify("create booking", err)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	return r.get(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *bookingRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Booking, error) {
	return r.get(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

func (r *bookingRepository) get(ctx context.Context, query string, id int32) (*domain.Booking, error) {
	b, err := scanBooking(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, classify("get booking", err)
	}
	return b, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return classify("update booking status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify("update booking status", err)
	}
	logger.DatabaseResult("bookings.update_status", n, nil, "booking_id", id, "from", from, "to", to)
	if n == 0 {
		return fmt.Errorf("%w: booking %d is no longer %s", domain.ErrInvalidTransition, id, from)
	}
	return nil
}

func (r *bookingRepository) SetEvidence(ctx context.Context, id int32, ref *string, claimedAmount *int64) error {
	query := `UPDATE bookings SET evidence_ref = $1, claimed_amount = $2, updated_at = $3 WHERE id = $4`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, ref, claimedAmount, time.Now().UTC(), id)
	if err != nil {
		return classify("set evidence", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (r *bookingRepository) ListByRenter(ctx context.Context, renterID int32) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE renter_id = $1 ORDER BY created_at DESC`, renterID)
}

// ListByEvidenceRef returns the bookings a payment slip is attached to.
func (r *bookingRepository) ListByEvidenceRef(ctx context.Context, ref string) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE evidence_ref = $1`, ref)
}

func (r *bookingRepository) list(ctx context.Context, query string, arg any) ([]domain.Booking, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, classify("list bookings", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, classify("scan booking", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate bookings", err)
	}
	return bookings, nil
}

func (r *bookingRepository) RecordTransition(ctx context.Context, t *domain.BookingTransition) error {
	query := `INSERT INTO booking_transitions (booking_id, from_status, to_status, actor_id, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	err := conn(ctx, r.db).QueryRowContext(ctx, query, t.BookingID, t.From, t.To, t.ActorID, t.CreatedAt).Scan(&t.ID)
	return classify("record transition", err)
}

func (r *bookingRepository) ListTransitions(ctx context.Context, bookingID int32) ([]domain.BookingTransition, error) {
	query := `SELECT id, booking_id, from_status, to_status, actor_id, created_at
	          FROM booking_transitions WHERE booking_id = $1 ORDER BY id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, classify("list transitions", err)
	}
	defer rows.Close()

	var out []domain.BookingTransition
	for rows.Next() {
		var t domain.BookingTransition
		var from, to string
		if err := rows.Scan(&t.ID, &t.BookingID, &from, &to, &t.ActorID, &t.CreatedAt); err != nil {
			return nil, classify("scan transition", err)
		}
		t.From, t.To = domain.BookingStatus(from), domain.BookingStatus(to)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate transitions", err)
	}
	return out, nil
}
