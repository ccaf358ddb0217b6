package model

import "time"

// Booking statuses.  A booking is confirmed the moment it is created; it can
// only move to cancelled afterwards.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking records a user's confirmed seats for a showtime.  Seats and food
// items are stored as JSON text mirroring the submitted selection, so a
// cancelled booking can release exactly the seats it marked.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user who made the booking.
//  ShowtimeID – showtime being booked.
//  Seats      – JSON array of {row, col} seat positions.
//  FoodItems  – JSON array of {id, quantity} food selections (nullable).
//  TotalCents – grand total (seats + food) in cents.
//  Status     – confirmed or cancelled.
//  Attended   – whether the ticket was scanned at the door.
//  CreatedAt  – booking timestamp.
type Booking struct {
	ID         uint64    // bookings.id
	UserID     uint64    // bookings.user_id
	ShowtimeID uint64    // bookings.showtime_id
	Seats      string    // bookings.seats (JSON)
	FoodItems  *string   // bookings.food_items (JSON, nullable)
	TotalCents uint32    // bookings.total_cents
	Status     string    // bookings.status
	Attended   bool      // bookings.attended
	CreatedAt  time.Time // bookings.created_at
}
