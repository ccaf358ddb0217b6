package model

import "time"

// Showtime represents a scheduled screening of a movie in a theater hall.
// Each showtime owns exactly one seat layout row whose grid dimensions match
// SeatRows x SeatCols.  Tier prices are stored in cents.
//
// Fields:
//  ID                 – primary key identifier.
//  MovieID            – movie being screened.
//  TheaterID          – theater hosting the screening.
//  StartsAt           – when the screening begins (UTC).
//  Hall               – name of the hall/screen within the theater.
//  SeatRows           – number of seat rows in the layout.
//  SeatCols           – number of seats per row.
//  PriceStandardCents – price of a standard seat.
//  PricePremiumCents  – price of a premium seat.
//  PriceVIPCents      – price of a VIP seat.
//  CreatedAt          – creation timestamp.
type Showtime struct {
	ID                 uint64    // showtimes.id
	MovieID            uint64    // showtimes.movie_id
	TheaterID          uint64    // showtimes.theater_id
	StartsAt           time.Time // showtimes.starts_at
	Hall               string    // showtimes.hall
	SeatRows           uint32    // showtimes.seat_rows
	SeatCols           uint32    // showtimes.seat_cols
	PriceStandardCents uint32    // showtimes.price_standard_cents
	PricePremiumCents  uint32    // showtimes.price_premium_cents
	PriceVIPCents      uint32    // showtimes.price_vip_cents
	CreatedAt          time.Time // showtimes.created_at
}

// SeatLayout stores the seat code grid of one showtime as JSON text.  The
// grid encodes tier and booked state per cell; internal/seatmap owns the
// encoding.
type SeatLayout struct {
	ID         uint64 // seat_layouts.id
	ShowtimeID uint64 // seat_layouts.showtime_id
	Layout     string // seat_layouts.layout (JSON 2D int array)
}
