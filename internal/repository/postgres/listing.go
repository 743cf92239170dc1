package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
)

const listingColumns = `id, owner_id, title, day_rate, deposit, shipping_fee, quantity, total_quantity, created_at`

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

func scanListing(row scanner) (*domain.Listing, error) {
	l := &domain.Listing{}
	err := row.Scan(&l.ID, &l.OwnerID, &l.Title, &l.DayRate, &l.Deposit, &l.ShippingFee, &l.Quantity, &l.TotalQuantity, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	query := `INSERT INTO listings (owner_id, title, day_rate, deposit, shipping_fee, quantity, total_quantity, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	l.TotalQuantity = l.Quantity
	logger.DatabaseCall("listings.create", query, "owner_id", l.OwnerID)
	err := conn(ctx, r.db).QueryRowContext(ctx, query, l.OwnerID, l.Title, l.DayRate, l.Deposit, l.ShippingFee, l.Quantity, l.TotalQuantity, l.CreatedAt).Scan(&l.ID)
	return classify("create listing", err)
}

func (r *listingRepository) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *listingRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 FOR UPDATE`
	return r.get(ctx, query, id)
}

func (r *listingRepository) get(ctx context.Context, query string, id int32) (*domain.Listing, error) {
	l, err := scanListing(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, classify("get listing", err)
	}
	return l, nil
}

func (r *listingRepository) AdjustQuantity(ctx context.Context, id int32, delta int32) (int32, error) {
	query := `UPDATE listings SET quantity = quantity + $1 WHERE id = $2 RETURNING quantity`
	var remaining int32
	err := conn(ctx, r.db).QueryRowContext(ctx, query, delta, id).Scan(&remaining)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, domain.ErrListingNotFound
	case isCode(err, codeCheckViolation):
		return 0, domain.ErrOutOfStock
	case err != nil:
		return 0, classify("adjust quantity", err)
	}
	logger.DatabaseResult("listings.adjust_quantity", 1, nil, "listing_id", id, "delta", delta, "remaining", remaining)
	return remaining, nil
}

func (r *listingRepository) AddStock(ctx context.Context, id int32, delta int32) (*domain.Listing, error) {
	query := `UPDATE listings SET quantity = quantity + $1, total_quantity = total_quantity + $1 WHERE id = $2 RETURNING ` + listingColumns
	l, err := scanListing(conn(ctx, r.db).QueryRowContext(ctx, query, delta, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, classify("add stock", err)
	}
	return l, nil
}

func (r *listingRepository) Update(ctx context.Context, l *domain.Listing) error {
	query := `UPDATE listings SET title = $1, day_rate = $2, deposit = $3, shipping_fee = $4, quantity = $5, total_quantity = $6
	          WHERE id = $7`
	logger.DatabaseCall("listings.update", query, "listing_id", l.ID)
	res, err := conn(ctx, r.db).ExecContext(ctx, query, l.Title, l.DayRate, l.Deposit, l.ShippingFee, l.Quantity, l.TotalQuantity, l.ID)
	if isCode(err, codeCheckViolation) {
		return domain.ErrInvalidAmount
	}
	if err != nil {
		return classify("update listing", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify("update listing", err)
	}
	if n == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *listingRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error) {
	var count int32
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT count(*) FROM listings`).Scan(&count); err != nil {
		return nil, 0, classify("count listings", err)
	}

	query := `SELECT ` + listingColumns + ` FROM listings ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, pageSize, pageOffset(page, pageSize))
	if err != nil {
		return nil, 0, classify("list listings", err)
	}
	defer rows.Close()

	listings, err := collectListings(rows)
	if err != nil {
		return nil, 0, err
	}
	return listings, count, nil
}

func (r *listingRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, classify("list listings by owner", err)
	}
	defer rows.Close()
	return collectListings(rows)
}

func collectListings(rows *sql.Rows) ([]domain.Listing, error) {
	var listings []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, classify("scan listing", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate listings", err)
	}
	return listings, nil
}

func (r *listingRepository) FindStockDrift(ctx context.Context) ([]domain.StockDrift, error) {
	query := `
		SELECT l.id, l.total_quantity, l.quantity, COALESCE(h.holding, 0)
		FROM listings l
		LEFT JOIN (
			SELECT listing_id, count(*) AS holding
			FROM bookings
			WHERE status IN ('pending', 'waiting_verification', 'approved', 'shipped', 'active', 'returned')
			GROUP BY listing_id
		) h ON h.listing_id = l.id
		WHERE l.quantity <> l.total_quantity - COALESCE(h.holding, 0)`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, classify("find stock drift", err)
	}
	defer rows.Close()

	var drifts []domain.StockDrift
	for rows.Next() {
		var d domain.StockDrift
		if err := rows.Scan(&d.ListingID, &d.TotalQuantity, &d.Quantity, &d.Holding); err != nil {
			return nil, classify("scan stock drift", err)
		}
		drifts = append(drifts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate stock drift", err)
	}
	return drifts, nil
}
