// Package seatmap implements the seat layout model shared by showtime
// rendering and the booking flow.  A layout is a 2D grid of integer seat
// codes.  The code carries both the seat tier and the booked state:
//
//	0,1 -> STANDARD    2,3 -> PREMIUM    4,5 -> VIP
//
// and an odd code means the seat is booked.  Booking a seat increments its
// code by one (even -> odd) and releasing it decrements it back.  The rest
// of the codebase never touches raw codes; everything goes through this
// package so the encoding stays in exactly one place.
package seatmap

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// SeatType names the pricing tier of a seat.
type SeatType string

const (
	Standard SeatType = "standard"
	Premium  SeatType = "premium"
	VIP      SeatType = "vip"
)

// TypeOf derives the tier from a seat code.  Codes 2 and 3 are premium,
// 4 and 5 are VIP, everything else is standard.
func TypeOf(code int) SeatType {
	switch code {
	case 2, 3:
		return Premium
	case 4, 5:
		return VIP
	default:
		return Standard
	}
}

// Booked reports whether a seat code marks a booked seat.  Odd codes are
// booked, even codes are available.
func Booked(code int) bool { return code%2 != 0 }

// PriceTable holds the per-tier seat prices of one showtime, in cents.
type PriceTable struct {
	StandardCents uint32
	PremiumCents  uint32
	VIPCents      uint32
}

// For returns the price in cents for the given tier.
func (p PriceTable) For(t SeatType) uint32 {
	switch t {
	case Premium:
		return p.PremiumCents
	case VIP:
		return p.VIPCents
	default:
		return p.StandardCents
	}
}

// SeatRef identifies one seat by its zero-based grid position.  It is the
// wire form used in booking requests and in stored booking rows.
type SeatRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Label renders the human seat label used in messages and tickets, e.g. the
// seat at row 1, col 3 is "R2-S4" (labels are one-based).
func (s SeatRef) Label() string { return fmt.Sprintf("R%d-S%d", s.Row+1, s.Col+1) }

// Cell is the render view of a single grid position: everything a client
// needs to draw the seat and to price a selection.
type Cell struct {
	Row        int      `json:"row"`
	Col        int      `json:"col"`
	Type       SeatType `json:"type"`
	PriceCents uint32   `json:"price_cents"`
	Price      float64  `json:"price"`
	Booked     bool     `json:"booked"`
}

// Grid is a seat layout: rows of integer seat codes.
type Grid [][]int

// NewGrid builds a rows x cols layout of standard seats and then paints the
// given category positions: "premium" positions become code 2 and "vip"
// positions become code 4.  Positions outside the grid are ignored.
func NewGrid(rows, cols int, categories map[string][]SeatRef) Grid {
	g := make(Grid, rows)
	for r := range g {
		g[r] = make([]int, cols)
	}
	for cat, positions := range categories {
		var code int
		switch strings.ToLower(cat) {
		case "premium":
			code = 2
		case "vip":
			code = 4
		default:
			continue
		}
		for _, p := range positions {
			if p.Row >= 0 && p.Row < rows && p.Col >= 0 && p.Col < cols {
				g[p.Row][p.Col] = code
			}
		}
	}
	return g
}

// Parse decodes a layout grid from its stored JSON text.
func Parse(s string) (Grid, error) {
	var g Grid
	if err := json.Unmarshal([]byte(s), &g); err != nil {
		return nil, fmt.Errorf("seatmap: parse layout: %w", err)
	}
	return g, nil
}

// Encode serializes the grid to the JSON text stored in the database.
func (g Grid) Encode() (string, error) {
	b, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("seatmap: encode layout: %w", err)
	}
	return string(b), nil
}

// Rows reports the number of seat rows in the grid.
func (g Grid) Rows() int { return len(g) }

// Cols reports the number of seats per row.  A ragged grid never occurs in
// practice; Cols reads the first row.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Contains reports whether the position lies inside the grid.
func (g Grid) Contains(s SeatRef) bool {
	return s.Row >= 0 && s.Row < len(g) && s.Col >= 0 && s.Col < len(g[s.Row])
}

// CellAt returns the render view of one position.  The boolean is false when
// the position is out of range.
func (g Grid) CellAt(s SeatRef, prices PriceTable) (Cell, bool) {
	if !g.Contains(s) {
		return Cell{}, false
	}
	code := g[s.Row][s.Col]
	t := TypeOf(code)
	cents := prices.For(t)
	return Cell{
		Row:        s.Row,
		Col:        s.Col,
		Type:       t,
		PriceCents: cents,
		Price:      CentsToFloat(cents),
		Booked:     Booked(code),
	}, true
}

// Render materializes the full grid as cells, row by row and column by
// column, in the order a client draws them.
func (g Grid) Render(prices PriceTable) [][]Cell {
	out := make([][]Cell, len(g))
	for r, row := range g {
		out[r] = make([]Cell, len(row))
		for c := range row {
			cell, _ := g.CellAt(SeatRef{Row: r, Col: c}, prices)
			out[r][c] = cell
		}
	}
	return out
}

// SeatTakenError reports a booking attempt on a seat whose code turned odd
// between selection and confirmation.
type SeatTakenError struct {
	Seat SeatRef
}

func (e *SeatTakenError) Error() string {
	return fmt.Sprintf("seat %s was taken", e.Seat.Label())
}

// Book marks the given seats booked by incrementing their codes.  The whole
// operation fails without mutating the grid if any seat is out of range or
// already booked; on failure the first offending seat is reported.
func (g Grid) Book(seats []SeatRef) error {
	for _, s := range seats {
		if !g.Contains(s) {
			return fmt.Errorf("seatmap: seat %s is outside the layout", s.Label())
		}
		if Booked(g[s.Row][s.Col]) {
			return &SeatTakenError{Seat: s}
		}
	}
	for _, s := range seats {
		g[s.Row][s.Col]++
	}
	return nil
}

// Release frees previously booked seats by decrementing their codes.  Seats
// that are out of range or not currently booked are skipped, so releasing is
// safe to run against a layout that was regenerated since the booking.
func (g Grid) Release(seats []SeatRef) {
	for _, s := range seats {
		if g.Contains(s) && Booked(g[s.Row][s.Col]) {
			g[s.Row][s.Col]--
		}
	}
}

// CentsToFloat converts a price in cents to the decimal amount used on the
// wire, e.g. 25000 -> 250.00.
func CentsToFloat(cents uint32) float64 { return float64(cents) / 100 }

// FloatToCents converts a client-supplied decimal amount to cents, rounding
// to the nearest cent.
func FloatToCents(amount float64) uint32 {
	if amount <= 0 {
		return 0
	}
	return uint32(math.Round(amount * 100))
}

// FormatCents renders a cent amount with two decimals for display, e.g.
// 25000 -> "250.00".
func FormatCents(cents uint32) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
