package repository

// Pending bookings bridge the two halves of the booking flow: the seat
// submission creates one, the food/confirm step consumes it.  They live in
// Redis with a TTL, so an abandoned checkout simply evaporates and the
// seats were never marked booked.  One pending booking per user: starting a
// new one replaces the old.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinebook/internal/seatmap"
)

// PendingBooking is the server-held state of a checkout in progress: the
// showtime, the priced seats as submitted, and their total.  Food and the
// grand total are only known at confirmation time and are not stored here.
type PendingBooking struct {
	ShowtimeID     uint64         `json:"showtime_id"`
	Seats          []seatmap.Seat `json:"seats"`
	SeatTotalCents uint32         `json:"seat_total_cents"`
	CreatedAt      time.Time      `json:"created_at"`
}

// PendingBookingRepo stores pending bookings in Redis, one key per user.
type PendingBookingRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPendingBookingRepo(rdb *redis.Client, ttl time.Duration) *PendingBookingRepo {
	return &PendingBookingRepo{rdb: rdb, ttl: ttl}
}

func pendingKey(userID uint64) string { return fmt.Sprintf("pending:booking:%d", userID) }

// Save writes the user's pending booking, replacing any previous one and
// resetting the TTL.
func (r *PendingBookingRepo) Save(ctx context.Context, userID uint64, pb PendingBooking) error {
	pb.CreatedAt = time.Now().UTC()
	body, err := json.Marshal(pb)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, pendingKey(userID), body, r.ttl).Err()
}

// Get returns the user's pending booking or ErrPendingNotFound when none
// exists (never created, expired, or already consumed).
func (r *PendingBookingRepo) Get(ctx context.Context, userID uint64) (PendingBooking, error) {
	body, err := r.rdb.Get(ctx, pendingKey(userID)).Bytes()
	if err == redis.Nil {
		return PendingBooking{}, ErrPendingNotFound
	}
	if err != nil {
		return PendingBooking{}, err
	}
	var pb PendingBooking
	if err := json.Unmarshal(body, &pb); err != nil {
		return PendingBooking{}, err
	}
	return pb, nil
}

// Delete removes the user's pending booking.  Deleting a missing key is not
// an error.
func (r *PendingBookingRepo) Delete(ctx context.Context, userID uint64) error {
	return r.rdb.Del(ctx, pendingKey(userID)).Err()
}
