// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as handlers
// to distinguish between failure scenarios: ErrConflict means an operation
// cannot proceed because of dependent records (e.g. deleting a showtime
// that still has confirmed bookings).
package repository

import "errors"

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// Not-found sentinels, one per aggregate, mapped to HTTP 404 by handlers.
var (
	ErrTheaterNotFound  = errors.New("theater not found")
	ErrMovieNotFound    = errors.New("movie not found")
	ErrShowtimeNotFound = errors.New("showtime not found")
	ErrLayoutNotFound   = errors.New("seat layout not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrFoodNotFound     = errors.New("food item not found")
	ErrPendingNotFound  = errors.New("pending booking not found")
)
