package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// BookingCache keeps each user's booking list as a JSON blob. Redis errors
// are logged and reported as misses; the database stays the source of truth.
//
// Every list key carries the user's generation. Invalidate bumps the
// generation, so a list loaded before a write lands under a key nobody reads
// again and expires with its TTL.
type BookingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBookingCache(client *redis.Client, ttl time.Duration) *BookingCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BookingCache{client: client, ttl: ttl}
}

func GenerationKey(role domain.Role, userID int32) string {
	return fmt.Sprintf("bookings:gen:%s:%d", role, userID)
}

func Key(role domain.Role, userID int32, gen int64) string {
	return fmt.Sprintf("bookings:%s:%d:%d", role, userID, gen)
}

// GetBookings returns the cached list and the generation it was looked up
// under. A negative generation means the cache is unusable and the caller
// must not write back.
func (c *BookingCache) GetBookings(ctx context.Context, role domain.Role, userID int32) ([]domain.Booking, int64, bool) {
	gen, err := c.client.Get(ctx, GenerationKey(role, userID)).Int64()
	if errors.Is(err, redis.Nil) {
		gen = 0
	} else if err != nil {
		logger.Warn("Booking cache generation read failed", "key", GenerationKey(role, userID), "error", err)
		return nil, -1, false
	}

	key := Key(role, userID, gen)
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false
	}
	if err != nil {
		logger.Warn("Booking cache read failed", "key", key, "error", err)
		return nil, gen, false
	}
	var bookings []domain.Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		logger.Warn("Booking cache entry is corrupt", "key", key, "error", err)
		return nil, gen, false
	}
	return bookings, gen, true
}

// SetBookings stores bookings under generation gen as returned by GetBookings.
func (c *BookingCache) SetBookings(ctx context.Context, role domain.Role, userID int32, gen int64, bookings []domain.Booking) {
	if gen < 0 {
		return
	}
	raw, err := json.Marshal(bookings)
	if err != nil {
		logger.Warn("Booking cache encode failed", "error", err)
		return
	}
	key := Key(role, userID, gen)
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Warn("Booking cache write failed", "key", key, "error", err)
	}
}

func (c *BookingCache) Invalidate(ctx context.Context, ownerID, renterID int32) {
	keys := []string{GenerationKey(domain.RoleOwner, ownerID), GenerationKey(domain.RoleRenter, renterID)}
	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			p.Incr(ctx, k)
		}
		return nil
	})
	if err != nil {
		logger.Warn("Booking cache invalidation failed", "keys", keys, "error", err)
	}
}

// PingContext reports whether Redis is reachable.
func (c *BookingCache) PingContext(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
