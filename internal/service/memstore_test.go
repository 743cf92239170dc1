package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rentshare-backend/internal/domain"
)

// memStore is an in-memory stand-in for the postgres store. Row locks are
// per-row mutexes held until the owning transaction ends, and every write
// registers an undo step that runs when the transaction fails.
type memStore struct {
	mu          sync.Mutex
	nextID      int32
	listings    map[int32]domain.Listing
	bookings    map[int32]domain.Booking
	wallets     map[int32]int64
	settlements []domain.Settlement
	transitions []domain.BookingTransition
	rowLocks    map[string]*sync.Mutex
}

type memTx struct {
	held map[string]bool
	undo []func()
}

type memTxKey struct{}

func newMemStore() *memStore {
	return &memStore{
		listings: map[int32]domain.Listing{},
		bookings: map[int32]domain.Booking{},
		wallets:  map[int32]int64{},
		rowLocks: map[string]*sync.Mutex{},
	}
}

func (s *memStore) Listings() *memListings { return &memListings{s} }
func (s *memStore) Bookings() *memBookings { return &memBookings{s} }
func (s *memStore) Wallets() *memWallets   { return &memWallets{s} }

func (s *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		return fn(ctx)
	}
	tx := &memTx{held: map[string]bool{}}
	err := fn(context.WithValue(ctx, memTxKey{}, tx))
	if err != nil {
		s.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		s.mu.Unlock()
	}
	for key := range tx.held {
		s.rowLock(key).Unlock()
	}
	return err
}

func (s *memStore) rowLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rowLocks[key]
	if !ok {
		m = &sync.Mutex{}
		s.rowLocks[key] = m
	}
	return m
}

func (s *memStore) lock(ctx context.Context, key string) {
	tx, ok := ctx.Value(memTxKey{}).(*memTx)
	if !ok || tx.held[key] {
		return
	}
	s.rowLock(key).Lock()
	tx.held[key] = true
}

// onRollback must be called with s.mu held.
func (s *memStore) onRollback(ctx context.Context, undo func()) {
	if tx, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		tx.undo = append(tx.undo, undo)
	}
}

func (s *memStore) id() int32 {
	s.nextID++
	return s.nextID
}

func (s *memStore) seedListing(l domain.Listing) domain.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.id()
	l.TotalQuantity = l.Quantity
	s.listings[l.ID] = l
	return l
}

func (s *memStore) listing(id int32) domain.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listings[id]
}

func (s *memStore) balance(userID int32) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallets[userID]
}

func (s *memStore) settlementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.settlements)
}

type memListings struct{ s *memStore }

func listingKey(id int32) string { return fmt.Sprintf("listing:%d", id) }

func (r *memListings) Create(ctx context.Context, l *domain.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = r.s.id()
	l.TotalQuantity = l.Quantity
	l.CreatedAt = time.Now()
	r.s.listings[l.ID] = *l
	return nil
}

func (r *memListings) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return &l, nil
}

func (r *memListings) GetForUpdate(ctx context.Context, id int32) (*domain.Listing, error) {
	r.s.lock(ctx, listingKey(id))
	return r.GetByID(ctx, id)
}

func (r *memListings) AdjustQuantity(ctx context.Context, id int32, delta int32) (int32, error) {
	r.s.lock(ctx, listingKey(id))
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return 0, domain.ErrListingNotFound
	}
	if l.Quantity+delta < 0 {
		return 0, domain.ErrOutOfStock
	}
	prev := l
	l.Quantity += delta
	r.s.listings[id] = l
	r.s.onRollback(ctx, func() { r.s.listings[id] = prev })
	return l.Quantity, nil
}

func (r *memListings) AddStock(ctx context.Context, id int32, delta int32) (*domain.Listing, error) {
	r.s.lock(ctx, listingKey(id))
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	prev := l
	l.Quantity += delta
	l.TotalQuantity += delta
	r.s.listings[id] = l
	r.s.onRollback(ctx, func() { r.s.listings[id] = prev })
	return &l, nil
}

func (r *memListings) Update(ctx context.Context, l *domain.Listing) error {
	r.s.lock(ctx, listingKey(l.ID))
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.listings[l.ID]
	if !ok {
		return domain.ErrListingNotFound
	}
	r.s.listings[l.ID] = *l
	r.s.onRollback(ctx, func() { r.s.listings[l.ID] = prev })
	return nil
}

func (r *memListings) List(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Listing
	for _, l := range r.s.listings {
		out = append(out, l)
	}
	return out, int32(len(out)), nil
}

func (r *memListings) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Listing
	for _, l := range r.s.listings {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memListings) FindStockDrift(ctx context.Context) ([]domain.StockDrift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	holding := map[int32]int32{}
	for _, b := range r.s.bookings {
		if b.Status.HoldsReservation() {
			holding[b.ListingID]++
		}
	}
	var out []domain.StockDrift
	for _, l := range r.s.listings {
		d := domain.StockDrift{ListingID: l.ID, TotalQuantity: l.TotalQuantity, Quantity: l.Quantity, Holding: holding[l.ID]}
		if d.Quantity != d.Expected() {
			out = append(out, d)
		}
	}
	return out, nil
}

type memBookings struct{ s *memStore }

func bookingKey(id int32) string { return fmt.Sprintf("booking:%d", id) }

func (r *memBookings) Create(ctx context.Context, b *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = r.s.id()
	b.CreatedAt, b.UpdatedAt = time.Now(), time.Now()
	r.s.bookings[b.ID] = *b
	id := b.ID
	r.s.onRollback(ctx, func() { delete(r.s.bookings, id) })
	return nil
}

func (r *memBookings) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &b, nil
}

func (r *memBookings) GetForUpdate(ctx context.Context, id int32) (*domain.Booking, error) {
	r.s.lock(ctx, bookingKey(id))
	return r.GetByID(ctx, id)
}

func (r *memBookings) UpdateStatus(ctx context.Context, id int32, from, to domain.BookingStatus) error {
	r.s.lock(ctx, bookingKey(id))
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.Status != from {
		return domain.ErrInvalidTransition
	}
	prev := b
	b.Status = to
	r.s.bookings[id] = b
	r.s.onRollback(ctx, func() { r.s.bookings[id] = prev })
	return nil
}

func (r *memBookings) SetEvidence(ctx context.Context, id int32, ref *string, claimedAmount *int64) error {
	r.s.lock(ctx, bookingKey(id))
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	prev := b
	b.EvidenceRef, b.ClaimedAmount = ref, claimedAmount
	r.s.bookings[id] = b
	r.s.onRollback(ctx, func() { r.s.bookings[id] = prev })
	return nil
}

func (r *memBookings) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool { return b.OwnerID == ownerID }), nil
}

func (r *memBookings) ListByRenter(ctx context.Context, renterID int32) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool { return b.RenterID == renterID }), nil
}

func (r *memBookings) ListByEvidenceRef(ctx context.Context, ref string) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool { return b.EvidenceRef != nil && *b.EvidenceRef == ref }), nil
}

func (r *memBookings) filter(keep func(domain.Booking) bool) []domain.Booking {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Booking{}
	for _, b := range r.s.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (r *memBookings) RecordTransition(ctx context.Context, t *domain.BookingTransition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.id()
	r.s.transitions = append(r.s.transitions, *t)
	id := t.ID
	r.s.onRollback(ctx, func() {
		for i, existing := range r.s.transitions {
			if existing.ID == id {
				r.s.transitions = append(r.s.transitions[:i], r.s.transitions[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (r *memBookings) ListTransitions(ctx context.Context, bookingID int32) ([]domain.BookingTransition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.BookingTransition
	for _, t := range r.s.transitions {
		if t.BookingID == bookingID {
			out = append(out, t)
		}
	}
	return out, nil
}

type memWallets struct{ s *memStore }

func (r *memWallets) Credit(ctx context.Context, userID int32, amount int64) error {
	r.s.lock(ctx, fmt.Sprintf("wallet:%d", userID))
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.wallets[userID] += amount
	r.s.onRollback(ctx, func() { r.s.wallets[userID] -= amount })
	return nil
}

func (r *memWallets) RecordSettlement(ctx context.Context, st *domain.Settlement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.settlements {
		if existing.BookingID == st.BookingID && existing.Kind == st.Kind {
			return fmt.Errorf("%w: already settled", domain.ErrInvalidTransition)
		}
	}
	st.ID = r.s.id()
	r.s.settlements = append(r.s.settlements, *st)
	id := st.ID
	r.s.onRollback(ctx, func() {
		for i, existing := range r.s.settlements {
			if existing.ID == id {
				r.s.settlements = append(r.s.settlements[:i], r.s.settlements[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (r *memWallets) GetBalance(ctx context.Context, userID int32) (int64, error) {
	return r.s.balance(userID), nil
}

func (r *memWallets) ListSettlements(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Settlement, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Settlement
	for _, st := range r.s.settlements {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	return out, int32(len(out)), nil
}
