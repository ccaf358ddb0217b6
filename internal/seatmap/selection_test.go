package seatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSelection() *Selection {
	// row 0: free standard, booked standard
	// row 1: free premium, booked vip
	// row 2: free vip, free standard
	g := Grid{{0, 1}, {2, 5}, {4, 0}}
	return NewSelection(g, testPrices)
}

func TestToggleAddsAndRemoves(t *testing.T) {
	sel := newTestSelection()

	require.True(t, sel.Toggle(0, 0))
	require.True(t, sel.Toggle(1, 0))
	assert.Equal(t, 2, sel.Count())
	assert.Equal(t, uint32(25000), sel.TotalCents())

	// toggling an already selected seat removes it
	require.True(t, sel.Toggle(0, 0))
	assert.Equal(t, 1, sel.Count())
	assert.Equal(t, uint32(15000), sel.TotalCents())

	seats := sel.Seats()
	require.Len(t, seats, 1)
	assert.Equal(t, "1-0", seats[0].Identifier)
	assert.Equal(t, Premium, seats[0].Type)
}

func TestToggleBookedSeatIsNoOp(t *testing.T) {
	sel := newTestSelection()
	assert.False(t, sel.Toggle(0, 1))
	assert.False(t, sel.Toggle(1, 1))
	assert.Equal(t, 0, sel.Count())
	assert.Equal(t, uint32(0), sel.TotalCents())
}

func TestToggleOutOfRangeIsNoOp(t *testing.T) {
	sel := newTestSelection()
	assert.False(t, sel.Toggle(-1, 0))
	assert.False(t, sel.Toggle(0, 9))
	assert.Equal(t, 0, sel.Count())
}

// After any toggle sequence the selection holds exactly the selectable seats
// toggled an odd number of times, each once.
func TestToggleSequencePairwiseIdempotent(t *testing.T) {
	sel := newTestSelection()
	seq := [][2]int{
		{0, 0}, {1, 0}, {2, 0}, // select three
		{1, 0}, {1, 0}, // premium off then on again
		{2, 1}, {2, 1}, // standard on then off
		{0, 0}, {0, 0}, // standard off then on
		{0, 1}, // booked, never counts
	}
	for _, p := range seq {
		sel.Toggle(p[0], p[1])
	}

	seats := sel.Seats()
	require.Len(t, seats, 3)
	ids := []string{seats[0].Identifier, seats[1].Identifier, seats[2].Identifier}
	assert.ElementsMatch(t, []string{"0-0", "1-0", "2-0"}, ids)
	assert.Equal(t, uint32(10000+15000+20000), sel.TotalCents())
}

func TestToggleOffThenOnRestoresTotal(t *testing.T) {
	sel := newTestSelection()
	sel.Toggle(0, 0)
	sel.Toggle(2, 0)
	before := sel.TotalCents()

	sel.Toggle(2, 0)
	assert.NotEqual(t, before, sel.TotalCents())
	sel.Toggle(2, 0)
	assert.Equal(t, before, sel.TotalCents())
}

func TestSelectionInsertionOrder(t *testing.T) {
	sel := newTestSelection()
	sel.Toggle(2, 0)
	sel.Toggle(0, 0)
	sel.Toggle(1, 0)

	refs := sel.Refs()
	require.Len(t, refs, 3)
	assert.Equal(t, SeatRef{Row: 2, Col: 0}, refs[0])
	assert.Equal(t, SeatRef{Row: 0, Col: 0}, refs[1])
	assert.Equal(t, SeatRef{Row: 1, Col: 0}, refs[2])
}

func TestSeatsReturnsCopy(t *testing.T) {
	sel := newTestSelection()
	sel.Toggle(0, 0)
	seats := sel.Seats()
	seats[0].PriceCents = 1
	assert.Equal(t, uint32(10000), sel.TotalCents())
}
