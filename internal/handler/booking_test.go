package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinebook/internal/config"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/seatmap"
)

// ----- fakes -----

type fakeShowtimes struct {
	showtime model.Showtime
	grid     seatmap.Grid
}

func (f *fakeShowtimes) GetByID(_ context.Context, id uint64) (model.Showtime, error) {
	if id != f.showtime.ID {
		return model.Showtime{}, repository.ErrShowtimeNotFound
	}
	return f.showtime, nil
}

func (f *fakeShowtimes) GetLayout(_ context.Context, _ uint64) (seatmap.Grid, error) {
	// Hand out a copy so handlers can never mutate the fixture.
	out := make(seatmap.Grid, len(f.grid))
	for i, row := range f.grid {
		out[i] = append([]int(nil), row...)
	}
	return out, nil
}

type fakePending struct {
	saved   []repository.PendingBooking
	stored  *repository.PendingBooking
	deleted int
}

func (f *fakePending) Save(_ context.Context, _ uint64, pb repository.PendingBooking) error {
	f.saved = append(f.saved, pb)
	return nil
}

func (f *fakePending) Get(_ context.Context, _ uint64) (repository.PendingBooking, error) {
	if f.stored == nil {
		return repository.PendingBooking{}, repository.ErrPendingNotFound
	}
	return *f.stored, nil
}

func (f *fakePending) Delete(_ context.Context, _ uint64) error {
	f.deleted++
	return nil
}

type fakeBookings struct {
	byID map[uint64]model.Booking
}

func (f *fakeBookings) GetByID(_ context.Context, id uint64) (model.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return model.Booking{}, repository.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookings) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.byID {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

// fakeTx records everything the confirmation and cancellation paths do to a
// transaction so tests can assert on commit/rollback ordering.
type fakeTx struct {
	grid       seatmap.Grid
	layoutErr  error
	saved      []seatmap.Grid
	inserted   []model.Booking
	nextID     uint64
	cancelled  []uint64
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Layout(context.Context, uint64) (seatmap.Grid, error) {
	if t.layoutErr != nil {
		return nil, t.layoutErr
	}
	return t.grid, nil
}

func (t *fakeTx) SaveLayout(_ context.Context, _ uint64, g seatmap.Grid) error {
	t.saved = append(t.saved, g)
	return nil
}

func (t *fakeTx) InsertBooking(_ context.Context, b model.Booking) (uint64, error) {
	t.inserted = append(t.inserted, b)
	return t.nextID, nil
}

func (t *fakeTx) MarkCancelled(_ context.Context, id uint64) error {
	t.cancelled = append(t.cancelled, id)
	return nil
}

func (t *fakeTx) Commit() error   { t.committed = true; return nil }
func (t *fakeTx) Rollback() error { t.rolledBack = true; return nil }

type fakeTxStore struct {
	tx     *fakeTx
	begins int
}

func (s *fakeTxStore) Begin(context.Context) (repository.BookingTx, error) {
	s.begins++
	return s.tx, nil
}

type fakeFood struct {
	items []model.FoodItem
}

func (f *fakeFood) ListActive(context.Context) ([]model.FoodItem, error) { return f.items, nil }
func (f *fakeFood) GetByID(_ context.Context, id uint64) (model.FoodItem, error) {
	for _, it := range f.items {
		if it.ID == id {
			return it, nil
		}
	}
	return model.FoodItem{}, repository.ErrFoodNotFound
}

// ----- fixtures -----

const testUserID = 7

// Grid decoding fixture: (0,0) standard available, (0,1) standard booked,
// (1,0) premium available, (1,1) vip booked.
func fixtureHandler() (*BookingHandler, *fakeShowtimes, *fakePending) {
	st := &fakeShowtimes{
		showtime: model.Showtime{
			ID:                 3,
			MovieID:            1,
			TheaterID:          1,
			StartsAt:           time.Now().UTC().Add(48 * time.Hour),
			Hall:               "Hall 1",
			SeatRows:           2,
			SeatCols:           2,
			PriceStandardCents: 10000,
			PricePremiumCents:  15000,
			PriceVIPCents:      20000,
		},
		grid: seatmap.Grid{{0, 1}, {2, 5}},
	}
	pending := &fakePending{}
	h := &BookingHandler{
		Cfg:       config.Config{CancelBufferHours: 2},
		Showtimes: st,
		Bookings:  &fakeBookings{byID: map[uint64]model.Booking{}},
		Pending:   pending,
		Food:      &fakeFood{},
	}
	return h, st, pending
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, setup func(echo.Context)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(testUserID))
	if setup != nil {
		setup(c)
	}
	require.NoError(t, h(c))
	return rec
}

func decodeResp(t *testing.T, rec *httptest.ResponseRecorder) bookingResp {
	t.Helper()
	var resp bookingResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ----- StartBooking -----

func TestStartBookingEmptySelection(t *testing.T) {
	h, _, pending := fixtureHandler()

	rec := doJSON(t, h.StartBooking, http.MethodPost, "/v1/booking/start",
		`{"showtime_id":3,"seats":[],"total_price":0}`, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResp(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Please select at least one seat.", resp.Message)
	assert.Empty(t, pending.saved, "no pending booking may be written")
}

func TestStartBookingSuccess(t *testing.T) {
	h, _, pending := fixtureHandler()

	// One standard seat (0,0) and one premium seat (1,0): 100.00 + 150.00.
	body := `{"showtime_id":3,"seats":[{"row":0,"col":0},{"row":1,"col":0}],"total_price":250.00}`
	rec := doJSON(t, h.StartBooking, http.MethodPost, "/v1/booking/start", body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResp(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "/v1/booking/food", resp.RedirectURL)

	require.Len(t, pending.saved, 1)
	pb := pending.saved[0]
	assert.Equal(t, uint64(3), pb.ShowtimeID)
	assert.Equal(t, uint32(25000), pb.SeatTotalCents)
	require.Len(t, pb.Seats, 2)
	assert.Equal(t, seatmap.Standard, pb.Seats[0].Type)
	assert.Equal(t, uint32(10000), pb.Seats[0].PriceCents)
	assert.Equal(t, seatmap.Premium, pb.Seats[1].Type)
	assert.Equal(t, uint32(15000), pb.Seats[1].PriceCents)
}

func TestStartBookingBookedSeat(t *testing.T) {
	h, _, pending := fixtureHandler()

	// (0,1) has code 1: booked.
	body := `{"showtime_id":3,"seats":[{"row":0,"col":1}],"total_price":100.00}`
	rec := doJSON(t, h.StartBooking, http.MethodPost, "/v1/booking/start", body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResp(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "R1-S2")
	assert.Contains(t, resp.Message, "unavailable")
	assert.Empty(t, pending.saved)
}

func TestStartBookingPriceMismatch(t *testing.T) {
	h, _, pending := fixtureHandler()

	// Client claims the premium seat costs 1.00; server derives 150.00.
	body := `{"showtime_id":3,"seats":[{"row":1,"col":0,"type":"premium","price":1.00}],"total_price":1.00}`
	rec := doJSON(t, h.StartBooking, http.MethodPost, "/v1/booking/start", body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResp(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "Price mismatch")
	assert.Empty(t, pending.saved)
}

func TestStartBookingDuplicateSeat(t *testing.T) {
	h, _, pending := fixtureHandler()

	body := `{"showtime_id":3,"seats":[{"row":0,"col":0},{"row":0,"col":0}],"total_price":200.00}`
	rec := doJSON(t, h.StartBooking, http.MethodPost, "/v1/booking/start", body, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResp(t, rec)
	assert.False(t, resp.Success)
	assert.Empty(t, pending.saved)
}

func TestStartBookingUnknownShowtime(t *testing.T) {
	h, _, pending := fixtureHandler()

	body := `{"showtime_id":99,"seats":[{"row":0,"col":0}],"total_price":100.00}`
	rec := doJSON(t, h.StartBooking, http.MethodPost, "/v1/booking/start", body, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, pending.saved)
}

// ----- FoodMenu -----

func TestFoodMenuExpiredSession(t *testing.T) {
	h, _, _ := fixtureHandler()

	rec := doJSON(t, h.FoodMenu, http.MethodGet, "/v1/booking/food", "", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResp(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Booking session expired.", resp.Message)
}

func TestFoodMenuGroupsByCategory(t *testing.T) {
	h, _, pending := fixtureHandler()
	pending.stored = &repository.PendingBooking{
		ShowtimeID:     3,
		Seats:          []seatmap.Seat{{Row: 0, Col: 0, Identifier: "0-0", Type: seatmap.Standard, PriceCents: 10000}},
		SeatTotalCents: 10000,
	}
	h.Food = &fakeFood{items: []model.FoodItem{
		{ID: 1, Name: "Cola", PriceCents: 500, Category: "Drinks", IsActive: true},
		{ID: 2, Name: "Water", PriceCents: 300, Category: "Drinks", IsActive: true},
		{ID: 3, Name: "Popcorn", PriceCents: 800, Category: "Snacks", IsActive: true},
	}}

	rec := doJSON(t, h.FoodMenu, http.MethodGet, "/v1/booking/food", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Menu []struct {
			Category string `json:"category"`
			Items    []struct {
				Name  string  `json:"name"`
				Price float64 `json:"price"`
			} `json:"items"`
		} `json:"menu"`
		Pending struct {
			ShowtimeID uint64   `json:"showtime_id"`
			Seats      []string `json:"seats"`
			SeatTotal  float64  `json:"seat_total"`
		} `json:"pending"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body.Menu, 2)
	assert.Equal(t, "Drinks", body.Menu[0].Category)
	assert.Len(t, body.Menu[0].Items, 2)
	assert.Equal(t, "Snacks", body.Menu[1].Category)
	assert.Equal(t, []string{"R1-S1"}, body.Pending.Seats)
	assert.InDelta(t, 100.00, body.Pending.SeatTotal, 0.001)
}

// ----- ConfirmBooking -----

func pendingStandardSeat() *repository.PendingBooking {
	return &repository.PendingBooking{
		ShowtimeID:     3,
		Seats:          []seatmap.Seat{{Row: 0, Col: 0, Identifier: "0-0", Type: seatmap.Standard, PriceCents: 10000}},
		SeatTotalCents: 10000,
	}
}

func TestConfirmBookingSuccess(t *testing.T) {
	h, _, pending := fixtureHandler()
	pending.stored = pendingStandardSeat()
	h.Food = &fakeFood{items: []model.FoodItem{
		{ID: 1, Name: "Cola", PriceCents: 500, Category: "Drinks", IsActive: true},
	}}
	tx := &fakeTx{grid: seatmap.Grid{{0, 1}, {2, 5}}, nextID: 55}
	h.Txns = &fakeTxStore{tx: tx}

	body := `{"food_items":[{"id":1,"quantity":2}]}`
	rec := doJSON(t, h.ConfirmBooking, http.MethodPost, "/v1/booking/confirm", body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResp(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "/v1/bookings/55", resp.RedirectURL)

	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	require.Len(t, tx.saved, 1)
	assert.Equal(t, 1, tx.saved[0][0][0], "booked seat code must turn odd")
	require.Len(t, tx.inserted, 1)
	b := tx.inserted[0]
	assert.Equal(t, uint64(testUserID), b.UserID)
	assert.Equal(t, uint32(11000), b.TotalCents, "two colas on top of the seat")
	require.NotNil(t, b.FoodItems)
	assert.Contains(t, *b.FoodItems, `"quantity":2`)
	assert.Equal(t, 1, pending.deleted)
}

func TestConfirmBookingSeatTaken(t *testing.T) {
	h, _, pending := fixtureHandler()
	pending.stored = pendingStandardSeat()
	// Another confirmation got there first: (0,0) is odd in the locked read.
	tx := &fakeTx{grid: seatmap.Grid{{1, 1}, {2, 5}}}
	h.Txns = &fakeTxStore{tx: tx}

	rec := doJSON(t, h.ConfirmBooking, http.MethodPost, "/v1/booking/confirm", `{}`, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResp(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Seat R1-S1 was taken. Please try again.", resp.Message)

	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
	assert.Empty(t, tx.saved)
	assert.Empty(t, tx.inserted)
	assert.Equal(t, 1, pending.deleted, "the stale pending booking must be cleared")
}

func TestConfirmBookingFoodQuantityOverflowRejected(t *testing.T) {
	h, _, pending := fixtureHandler()
	pending.stored = pendingStandardSeat()
	h.Food = &fakeFood{items: []model.FoodItem{
		{ID: 1, Name: "Cola", PriceCents: 500, Category: "Drinks", IsActive: true},
	}}
	txs := &fakeTxStore{tx: &fakeTx{grid: seatmap.Grid{{0, 1}, {2, 5}}}}
	h.Txns = txs

	// 500¢ × 8589935 wraps uint32 to 204¢; the quantity cap must reject it
	// long before any arithmetic or transaction.
	body := `{"food_items":[{"id":1,"quantity":8589935}]}`
	rec := doJSON(t, h.ConfirmBooking, http.MethodPost, "/v1/booking/confirm", body, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResp(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid food quantity.", resp.Message)
	assert.Zero(t, txs.begins, "no transaction may be opened")
	assert.Zero(t, pending.deleted)
}

// ----- booking access and cancellation -----

func TestGetBookingForbiddenForStranger(t *testing.T) {
	h, _, _ := fixtureHandler()
	h.Bookings = &fakeBookings{byID: map[uint64]model.Booking{
		12: {ID: 12, UserID: 99, ShowtimeID: 3, Seats: "[]", Status: model.BookingConfirmed},
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/12", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("12")
	c.Set("user_id", float64(testUserID))
	c.Set("role", model.RoleCustomer)

	require.NoError(t, h.GetBooking(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCancelBookingInsideBuffer(t *testing.T) {
	h, st, _ := fixtureHandler()
	st.showtime.StartsAt = time.Now().UTC().Add(time.Hour) // inside the 2h buffer
	h.Bookings = &fakeBookings{byID: map[uint64]model.Booking{
		12: {ID: 12, UserID: testUserID, ShowtimeID: 3, Seats: `[{"row":0,"col":0}]`, Status: model.BookingConfirmed},
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings/12/cancel", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("12")
	c.Set("user_id", float64(testUserID))

	require.NoError(t, h.CancelBooking(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResp(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "2 hours")
}

func TestCancelBookingReleasesSeats(t *testing.T) {
	h, _, _ := fixtureHandler()
	h.Bookings = &fakeBookings{byID: map[uint64]model.Booking{
		12: {ID: 12, UserID: testUserID, ShowtimeID: 3, Seats: `[{"row":0,"col":0}]`, Status: model.BookingConfirmed},
	}}
	tx := &fakeTx{grid: seatmap.Grid{{1, 1}, {2, 5}}}
	h.Txns = &fakeTxStore{tx: tx}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings/12/cancel", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("12")
	c.Set("user_id", float64(testUserID))

	require.NoError(t, h.CancelBooking(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResp(t, rec)
	assert.True(t, resp.Success)

	assert.True(t, tx.committed)
	require.Len(t, tx.saved, 1)
	assert.Equal(t, 0, tx.saved[0][0][0], "released seat code must turn even")
	assert.Equal(t, []uint64{12}, tx.cancelled)
}

func TestCancelBookingAlreadyCancelled(t *testing.T) {
	h, _, _ := fixtureHandler()
	h.Bookings = &fakeBookings{byID: map[uint64]model.Booking{
		12: {ID: 12, UserID: testUserID, ShowtimeID: 3, Seats: "[]", Status: model.BookingCancelled},
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings/12/cancel", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("12")
	c.Set("user_id", float64(testUserID))

	require.NoError(t, h.CancelBooking(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
