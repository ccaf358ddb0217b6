package seatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrices = PriceTable{StandardCents: 10000, PremiumCents: 15000, VIPCents: 20000}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, Standard, TypeOf(0))
	assert.Equal(t, Standard, TypeOf(1))
	assert.Equal(t, Premium, TypeOf(2))
	assert.Equal(t, Premium, TypeOf(3))
	assert.Equal(t, VIP, TypeOf(4))
	assert.Equal(t, VIP, TypeOf(5))
	// anything outside the known range falls back to standard
	assert.Equal(t, Standard, TypeOf(7))
}

func TestBookedParity(t *testing.T) {
	for code := 0; code <= 6; code++ {
		assert.Equal(t, code%2 != 0, Booked(code), "code %d", code)
	}
}

func TestRenderFixtureGrid(t *testing.T) {
	g := Grid{{0, 1}, {2, 5}}
	cells := g.Render(testPrices)
	require.Len(t, cells, 2)
	require.Len(t, cells[0], 2)

	assert.Equal(t, Standard, cells[0][0].Type)
	assert.False(t, cells[0][0].Booked)
	assert.Equal(t, uint32(10000), cells[0][0].PriceCents)

	assert.Equal(t, Standard, cells[0][1].Type)
	assert.True(t, cells[0][1].Booked)

	assert.Equal(t, Premium, cells[1][0].Type)
	assert.False(t, cells[1][0].Booked)
	assert.Equal(t, float64(150), cells[1][0].Price)

	assert.Equal(t, VIP, cells[1][1].Type)
	assert.True(t, cells[1][1].Booked)
	assert.Equal(t, uint32(20000), cells[1][1].PriceCents)
}

func TestNewGridPaintsCategories(t *testing.T) {
	g := NewGrid(3, 4, map[string][]SeatRef{
		"premium": {{Row: 1, Col: 0}, {Row: 1, Col: 1}},
		"vip":     {{Row: 2, Col: 3}, {Row: 9, Col: 9}}, // second one out of range
	})
	require.Equal(t, 3, g.Rows())
	require.Equal(t, 4, g.Cols())
	assert.Equal(t, 0, g[0][0])
	assert.Equal(t, 2, g[1][0])
	assert.Equal(t, 2, g[1][1])
	assert.Equal(t, 4, g[2][3])
}

func TestEncodeParseRoundTrip(t *testing.T) {
	g := NewGrid(2, 2, map[string][]SeatRef{"vip": {{Row: 1, Col: 1}}})
	s, err := g.Encode()
	require.NoError(t, err)
	got, err := Parse(s)
	require.NoError(t, err)
	assert.Equal(t, g, got)

	_, err = Parse("not json")
	assert.Error(t, err)
}

func TestBookMarksSeatsAndRefusesTaken(t *testing.T) {
	g := Grid{{0, 1}, {2, 5}}
	require.NoError(t, g.Book([]SeatRef{{Row: 0, Col: 0}, {Row: 1, Col: 0}}))
	assert.Equal(t, 1, g[0][0])
	assert.Equal(t, 3, g[1][0])

	// a second booking of the same seat fails and leaves the grid untouched
	err := g.Book([]SeatRef{{Row: 0, Col: 0}})
	var taken *SeatTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, SeatRef{Row: 0, Col: 0}, taken.Seat)
	assert.Equal(t, 1, g[0][0])
}

func TestBookIsAllOrNothing(t *testing.T) {
	g := Grid{{0, 1}}
	err := g.Book([]SeatRef{{Row: 0, Col: 0}, {Row: 0, Col: 1}})
	require.Error(t, err)
	// the free seat must not have been touched
	assert.Equal(t, 0, g[0][0])
}

func TestBookOutOfRange(t *testing.T) {
	g := Grid{{0}}
	assert.Error(t, g.Book([]SeatRef{{Row: 5, Col: 0}}))
	assert.Error(t, g.Book([]SeatRef{{Row: 0, Col: -1}}))
}

func TestReleaseDecrementsOnlyBookedSeats(t *testing.T) {
	g := Grid{{1, 0}, {3, 4}}
	g.Release([]SeatRef{
		{Row: 0, Col: 0}, // booked standard -> freed
		{Row: 0, Col: 1}, // already free -> untouched
		{Row: 1, Col: 0}, // booked premium -> freed
		{Row: 7, Col: 7}, // out of range -> skipped
	})
	assert.Equal(t, Grid{{0, 0}, {2, 4}}, g)
}

func TestSeatRefLabel(t *testing.T) {
	assert.Equal(t, "R1-S1", SeatRef{}.Label())
	assert.Equal(t, "R3-S12", SeatRef{Row: 2, Col: 11}.Label())
}

func TestMoneyHelpers(t *testing.T) {
	assert.Equal(t, uint32(25000), FloatToCents(250.00))
	assert.Equal(t, uint32(18050), FloatToCents(180.5))
	assert.Equal(t, uint32(0), FloatToCents(-3))
	assert.Equal(t, 250.0, CentsToFloat(25000))
	assert.Equal(t, "250.00", FormatCents(25000))
	assert.Equal(t, "0.05", FormatCents(5))
}
