package seatmap

import "fmt"

// Seat is one entry of a Selection: a grid position together with the tier
// and price that were derived from the layout when it was selected.  The
// Identifier is the "row-col" key that makes toggling idempotent.
type Seat struct {
	Row        int      `json:"row"`
	Col        int      `json:"col"`
	Identifier string   `json:"identifier"`
	Type       SeatType `json:"type"`
	PriceCents uint32   `json:"price_cents"`
}

// Ref returns the bare grid position of the seat.
func (s Seat) Ref() SeatRef { return SeatRef{Row: s.Row, Col: s.Col} }

// Selection tracks an insertion-ordered, duplicate-free set of seats chosen
// against one layout.  It is the state behind a seat-picking session: toggles
// flip membership, booked seats are refused, and the running total is always
// the sum of the member prices.  A Selection lives for one picking session
// and is discarded once the booking is submitted.
type Selection struct {
	grid   Grid
	prices PriceTable
	seats  []Seat
}

// NewSelection creates an empty selection over the given layout and prices.
func NewSelection(grid Grid, prices PriceTable) *Selection {
	return &Selection{grid: grid, prices: prices}
}

// Toggle flips the membership of the seat at (row, col).  Selecting a seat
// appends it with its derived tier and price; selecting it again removes it.
// Booked and out-of-range seats are never selectable; those toggles are
// no-ops and return false.  The boolean reports whether the selection
// changed.
func (s *Selection) Toggle(row, col int) bool {
	ref := SeatRef{Row: row, Col: col}
	cell, ok := s.grid.CellAt(ref, s.prices)
	if !ok || cell.Booked {
		return false
	}
	id := fmt.Sprintf("%d-%d", row, col)
	for i, seat := range s.seats {
		if seat.Identifier == id {
			s.seats = append(s.seats[:i], s.seats[i+1:]...)
			return true
		}
	}
	s.seats = append(s.seats, Seat{
		Row:        row,
		Col:        col,
		Identifier: id,
		Type:       cell.Type,
		PriceCents: cell.PriceCents,
	})
	return true
}

// Seats returns the selected seats in insertion order.  The returned slice
// is a copy; mutating it does not affect the selection.
func (s *Selection) Seats() []Seat {
	out := make([]Seat, len(s.seats))
	copy(out, s.seats)
	return out
}

// Refs returns the bare grid positions of the selected seats, in order.
func (s *Selection) Refs() []SeatRef {
	out := make([]SeatRef, len(s.seats))
	for i, seat := range s.seats {
		out[i] = seat.Ref()
	}
	return out
}

// Count returns the number of selected seats.
func (s *Selection) Count() int { return len(s.seats) }

// TotalCents returns the sum of the selected seats' prices in cents.
func (s *Selection) TotalCents() uint32 {
	var total uint32
	for _, seat := range s.seats {
		total += seat.PriceCents
	}
	return total
}
