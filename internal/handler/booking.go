package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/config"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/queue"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/seatmap"
	queue_publisher "github.com/iliyamo/cinebook/internal/service"
)

// The booking flow has two halves.  StartBooking validates a seat selection
// against the live layout and parks it as a pending booking in Redis;
// FoodMenu and ConfirmBooking consume it.  Confirmation is the only step
// that writes seats: it re-checks every seat's parity under a row lock so
// two confirmations of the same showtime cannot double-book.

// Store interfaces keep the handler testable; the concrete repositories
// satisfy them.
type showtimeStore interface {
	GetByID(ctx context.Context, id uint64) (model.Showtime, error)
	GetLayout(ctx context.Context, showtimeID uint64) (seatmap.Grid, error)
}

type bookingStore interface {
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
}

type txStore interface {
	Begin(ctx context.Context) (repository.BookingTx, error)
}

type pendingStore interface {
	Save(ctx context.Context, userID uint64, pb repository.PendingBooking) error
	Get(ctx context.Context, userID uint64) (repository.PendingBooking, error)
	Delete(ctx context.Context, userID uint64) error
}

type foodStore interface {
	ListActive(ctx context.Context) ([]model.FoodItem, error)
	GetByID(ctx context.Context, id uint64) (model.FoodItem, error)
}

// BookingHandler bundles dependencies for the customer booking flow.
type BookingHandler struct {
	Cfg       config.Config
	Showtimes showtimeStore
	Bookings  bookingStore
	Pending   pendingStore
	Food      foodStore
	Txns      txStore
	Movies    *repository.MovieRepo
	Theaters  *repository.TheaterRepo
	Users     *repository.UserRepo

	// Publishers are fields so tests can stub them out.
	PublishConfirmed func(ctx context.Context, ev queue.BookingConfirmedEvent) error
	PublishCancelled func(ctx context.Context, ev queue.BookingCancelledEvent) error
}

func NewBookingHandler(cfg config.Config, st showtimeStore, b bookingStore, p pendingStore, f foodStore, txns txStore,
	movies *repository.MovieRepo, theaters *repository.TheaterRepo, users *repository.UserRepo) *BookingHandler {
	return &BookingHandler{
		Cfg: cfg, Showtimes: st, Bookings: b, Pending: p, Food: f, Txns: txns,
		Movies: movies, Theaters: theaters, Users: users,
		PublishConfirmed: queue_publisher.PublishBookingConfirmed,
		PublishCancelled: queue_publisher.PublishBookingCancelled,
	}
}

// ----- DTOs -----

// maxFoodQuantity caps a single order line.  Anything above it is a client
// bug or abuse, not a concession order.
const maxFoodQuantity = 50

// bookingResp is the uniform response shape of the booking-flow endpoints.
type bookingResp struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Message     string `json:"message,omitempty"`
}

type startSeatReq struct {
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	Type  string  `json:"type"`
	Price float64 `json:"price"`
}
type startBookingReq struct {
	ShowtimeID uint64         `json:"showtime_id"`
	Seats      []startSeatReq `json:"seats"`
	TotalPrice float64        `json:"total_price"`
}

type confirmFoodReq struct {
	ID       uint64 `json:"id"`
	Quantity int    `json:"quantity"`
}
type confirmReq struct {
	FoodItems []confirmFoodReq `json:"food_items"`
}

// foodOrderLine is what a booking stores per ordered food item.
type foodOrderLine struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents uint32 `json:"price_cents"`
}

// bookingView is a booking in list and detail responses.
type bookingView struct {
	ID         uint64          `json:"id"`
	ShowtimeID uint64          `json:"showtime_id"`
	Seats      []seatmap.Seat  `json:"seats"`
	FoodItems  json.RawMessage `json:"food_items,omitempty"`
	Total      float64         `json:"total"`
	Status     string          `json:"status"`
	Attended   bool            `json:"attended"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toBookingView(b model.Booking) bookingView {
	v := bookingView{
		ID: b.ID, ShowtimeID: b.ShowtimeID,
		Total:  seatmap.CentsToFloat(b.TotalCents),
		Status: b.Status, Attended: b.Attended, CreatedAt: b.CreatedAt,
	}
	_ = json.Unmarshal([]byte(b.Seats), &v.Seats)
	if b.FoodItems != nil {
		v.FoodItems = json.RawMessage(*b.FoodItems)
	}
	return v
}

// StartBooking validates a submitted seat selection against the stored
// layout and parks it as the caller's pending booking.  Tier and price are
// re-derived server-side; the client's figures are only used for the total
// cross-check.  Business failures come back as success:false with a message
// and leave no state behind.
func (h *BookingHandler) StartBooking(c echo.Context) error {
	uid := getUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req startBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, bookingResp{Success: false, Message: "Invalid request body."})
	}
	if len(req.Seats) == 0 {
		return c.JSON(http.StatusOK, bookingResp{Success: false, Message: "Please select at least one seat."})
	}

	ctx := c.Request().Context()
	s, err := h.Showtimes.GetByID(ctx, req.ShowtimeID)
	if err != nil {
		if err == repository.ErrShowtimeNotFound {
			return c.JSON(http.StatusNotFound, bookingResp{Success: false, Message: "Showtime not found."})
		}
		return c.JSON(http.StatusInternalServerError, bookingResp{Success: false, Message: "Something went wrong. Please try again."})
	}
	grid, err := h.Showtimes.GetLayout(ctx, req.ShowtimeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, bookingResp{Success: false, Message: "Something went wrong. Please try again."})
	}

	sel := seatmap.NewSelection(grid, repository.Prices(s))
	for _, seat := range req.Seats {
		ref := seatmap.SeatRef{Row: seat.Row, Col: seat.Col}
		before := sel.Count()
		if !sel.Toggle(seat.Row, seat.Col) {
			return c.JSON(http.StatusOK, bookingResp{
				Success: false,
				Message: fmt.Sprintf("Seat %s is unavailable. Please refresh and try again.", ref.Label()),
			})
		}
		if sel.Count() != before+1 {
			// The same seat twice in one request toggles itself back off.
			return c.JSON(http.StatusBadRequest, bookingResp{Success: false, Message: "Duplicate seat in selection."})
		}
	}

	if sel.TotalCents() != seatmap.FloatToCents(req.TotalPrice) {
		return c.JSON(http.StatusOK, bookingResp{Success: false, Message: "Price mismatch. Please refresh and try again."})
	}

	pb := repository.PendingBooking{
		ShowtimeID:     req.ShowtimeID,
		Seats:          sel.Seats(),
		SeatTotalCents: sel.TotalCents(),
	}
	if err := h.Pending.Save(ctx, uid, pb); err != nil {
		return c.JSON(http.StatusInternalServerError, bookingResp{Success: false, Message: "Something went wrong. Please try again."})
	}

	return c.JSON(http.StatusOK, bookingResp{Success: true, RedirectURL: "/v1/booking/food"})
}

// foodGroup is one category of the concession menu.
type foodGroup struct {
	Category string     `json:"category"`
	Items    []foodView `json:"items"`
}
type foodView struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// FoodMenu returns the active concession menu grouped by category together
// with a summary of the caller's pending booking.
func (h *BookingHandler) FoodMenu(c echo.Context) error {
	uid := getUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := c.Request().Context()
	pb, err := h.Pending.Get(ctx, uid)
	if err != nil {
		if err == repository.ErrPendingNotFound {
			return c.JSON(http.StatusBadRequest, bookingResp{Success: false, Message: "Booking session expired."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session store error"})
	}

	items, err := h.Food.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// Items arrive ordered by category then name; group sequentially.
	var groups []foodGroup
	for _, f := range items {
		view := foodView{ID: f.ID, Name: f.Name, Description: f.Description,
			Price: seatmap.CentsToFloat(f.PriceCents), ImageURL: f.ImageURL}
		if n := len(groups); n > 0 && groups[n-1].Category == f.Category {
			groups[n-1].Items = append(groups[n-1].Items, view)
			continue
		}
		groups = append(groups, foodGroup{Category: f.Category, Items: []foodView{view}})
	}

	labels := make([]string, len(pb.Seats))
	for i, seat := range pb.Seats {
		labels[i] = seat.Ref().Label()
	}
	return c.JSON(http.StatusOK, echo.Map{
		"menu": groups,
		"pending": echo.Map{
			"showtime_id": pb.ShowtimeID,
			"seats":       labels,
			"seat_total":  seatmap.CentsToFloat(pb.SeatTotalCents),
		},
	})
}

// ConfirmBooking finalizes the caller's pending booking.  Inside one
// transaction it re-reads the layout under a row lock, re-checks every
// seat's parity, increments the codes and inserts the booking row.  A seat
// that turned odd in the meantime fails the whole confirmation and the
// selection must be restarted.
func (h *BookingHandler) ConfirmBooking(c echo.Context) error {
	uid := getUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req confirmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, bookingResp{Success: false, Message: "Invalid request body."})
	}

	ctx := c.Request().Context()
	pb, err := h.Pending.Get(ctx, uid)
	if err != nil {
		if err == repository.ErrPendingNotFound {
			return c.JSON(http.StatusBadRequest, bookingResp{Success: false, Message: "Booking session expired."})
		}
		return c.JSON(http.StatusInternalServerError, bookingResp{Success: false, Message: "Something went wrong. Please try again."})
	}

	s, err := h.Showtimes.GetByID(ctx, pb.ShowtimeID)
	if err != nil {
		_ = h.Pending.Delete(ctx, uid)
		return c.JSON(http.StatusNotFound, bookingResp{Success: false, Message: "Showtime not found."})
	}

	// Price the food order before touching the layout.  Totals accumulate
	// in uint64 so an absurd order can never wrap the grand total.
	var foodCents uint64
	var order []foodOrderLine
	for _, line := range req.FoodItems {
		if line.Quantity <= 0 {
			continue
		}
		if line.Quantity > maxFoodQuantity {
			return c.JSON(http.StatusBadRequest, bookingResp{Success: false, Message: "Invalid food quantity."})
		}
		f, err := h.Food.GetByID(ctx, line.ID)
		if err != nil || !f.IsActive {
			return c.JSON(http.StatusBadRequest, bookingResp{Success: false, Message: "Unknown food item."})
		}
		foodCents += uint64(f.PriceCents) * uint64(line.Quantity)
		order = append(order, foodOrderLine{ID: f.ID, Name: f.Name, Quantity: line.Quantity, PriceCents: f.PriceCents})
	}
	totalCents := uint64(pb.SeatTotalCents) + foodCents
	if totalCents > math.MaxUint32 {
		return c.JSON(http.StatusBadRequest, bookingResp{Success: false, Message: "Invalid food quantity."})
	}

	txn, err := h.Txns.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, bookingResp{Success: false, Message: "Something went wrong. Please try again."})
	}
	committed := false
	defer func() {
		if !committed {
			_ = txn.Rollback()
		}
	}()

	grid, err := txn.Layout(ctx, pb.ShowtimeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, bookingResp{Success: false, Message: "Something went wrong. Please try again."})
	}

	refs := make([]seatmap.SeatRef, len(pb.Seats))
	for i, seat := range pb.Seats {
		refs[i] = seat.Ref()
	}
	if err := grid.Book(refs); err != nil {
		var taken *seatmap.SeatTakenError
		if errors.As(err, &taken) {
			_ = h.Pending.Delete(ctx, uid)
			return c.JSON(http.StatusOK, bookingResp{
				Success: false,
				Message: fmt.Sprintf("Seat %s was taken. Please try again.", taken.Seat.Label()),
			})
		}
		return c.JSON(http.StatusInternalServerError, bookingResp{Success: false, Message: "Something went wrong. Please try again."})
	}
	if err := txn.SaveLayout(ctx, pb.ShowtimeID, grid); err != nil {
		return c.JSON(http.StatusInternalServerError, bookingResp{Success: false, Message: "Something went wrong. Please try again."})
	}

	seatsJSON, err := json.Marshal(pb.Seats)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, bookingResp{Success: false, Message: "Something went wrong. Please try again."})
	}
	var foodJSON *string
	if len(order) > 0 {
		raw, err := json.Marshal(order)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, bookingResp{Success: false, Message: "Something went wrong. Please try again."})
		}
		str := string(raw)
		foodJSON = &str
	}

	bookingID, err := txn.InsertBooking(ctx, model.Booking{
		UserID:     uid,
		ShowtimeID: pb.ShowtimeID,
		Seats:      string(seatsJSON),
		FoodItems:  foodJSON,
		TotalCents: uint32(totalCents),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, bookingResp{Success: false, Message: "Something went wrong. Please try again."})
	}
	if err := txn.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, bookingResp{Success: false, Message: "Something went wrong. Please try again."})
	}
	committed = true

	_ = h.Pending.Delete(ctx, uid)

	h.publishConfirmed(c, s, pb, bookingID, uint32(totalCents))

	return c.JSON(http.StatusOK, bookingResp{Success: true, RedirectURL: fmt.Sprintf("/v1/bookings/%d", bookingID)})
}

// publishConfirmed emits the booking.confirmed event.  Enrichment lookups
// and the publish itself are best-effort; a broker outage must not fail a
// committed booking.
func (h *BookingHandler) publishConfirmed(c echo.Context, s model.Showtime, pb repository.PendingBooking, bookingID uint64, totalCents uint32) {
	if h.PublishConfirmed == nil {
		return
	}
	ctx := c.Request().Context()
	uid := getUserID(c)

	ev := queue.BookingConfirmedEvent{
		BookingID:   bookingID,
		UserID:      uid,
		ShowtimeID:  pb.ShowtimeID,
		Hall:        s.Hall,
		StartsAt:    s.StartsAt.UTC().Format(time.RFC3339),
		TotalCents:  totalCents,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	ev.SeatLabels = make([]string, len(pb.Seats))
	for i, seat := range pb.Seats {
		ev.SeatLabels[i] = seat.Ref().Label()
	}
	if m, err := h.Movies.GetByID(ctx, s.MovieID); err == nil {
		ev.MovieTitle = m.Title
	}
	if t, err := h.Theaters.GetByID(ctx, s.TheaterID); err == nil {
		ev.TheaterName = t.Name
	}
	if u, err := h.Users.GetByID(ctx, uid); err == nil {
		ev.UserEmail = u.Email
	}
	if err := h.PublishConfirmed(ctx, ev); err != nil {
		c.Logger().Warnf("booking %d: publish confirmed event failed: %v", bookingID, err)
	}
}

// ListBookings returns the caller's bookings, newest first.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	uid := getUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Bookings.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingView(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetBooking returns one booking.  Owner or admin only.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	uid := getUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if b.UserID != uid && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toBookingView(b))
}

// CancelBooking cancels the caller's confirmed booking and releases its
// seats.  Cancellation closes a configurable buffer before the showtime.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	uid := getUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if b.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if b.Status != model.BookingConfirmed {
		return c.JSON(http.StatusConflict, bookingResp{Success: false, Message: "Booking is already cancelled."})
	}

	s, err := h.Showtimes.GetByID(ctx, b.ShowtimeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	buffer := time.Duration(h.Cfg.CancelBufferHours) * time.Hour
	if time.Until(s.StartsAt) < buffer {
		return c.JSON(http.StatusBadRequest, bookingResp{
			Success: false,
			Message: fmt.Sprintf("Bookings can only be cancelled up to %d hours before the showtime.", h.Cfg.CancelBufferHours),
		})
	}

	if err := h.cancelAndRelease(ctx, b); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, bookingResp{Success: false, Message: "Booking is already cancelled."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	h.publishCancelled(c, b, s)

	return c.JSON(http.StatusOK, bookingResp{Success: true, Message: "Booking cancelled."})
}

// cancelAndRelease flips the booking to cancelled and decrements its seats'
// codes in one transaction.
func (h *BookingHandler) cancelAndRelease(ctx context.Context, b model.Booking) error {
	var seats []seatmap.Seat
	if err := json.Unmarshal([]byte(b.Seats), &seats); err != nil {
		return err
	}
	refs := make([]seatmap.SeatRef, len(seats))
	for i, seat := range seats {
		refs[i] = seat.Ref()
	}

	txn, err := h.Txns.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = txn.Rollback()
		}
	}()

	grid, err := txn.Layout(ctx, b.ShowtimeID)
	if err != nil {
		return err
	}
	grid.Release(refs)
	if err := txn.SaveLayout(ctx, b.ShowtimeID, grid); err != nil {
		return err
	}
	if err := txn.MarkCancelled(ctx, b.ID); err != nil {
		return err
	}
	if err := txn.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (h *BookingHandler) publishCancelled(c echo.Context, b model.Booking, s model.Showtime) {
	if h.PublishCancelled == nil {
		return
	}
	ctx := c.Request().Context()

	ev := queue.BookingCancelledEvent{
		BookingID:   b.ID,
		UserID:      b.UserID,
		ShowtimeID:  b.ShowtimeID,
		TotalCents:  b.TotalCents,
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	}
	var seats []seatmap.Seat
	if err := json.Unmarshal([]byte(b.Seats), &seats); err == nil {
		ev.SeatLabels = make([]string, len(seats))
		for i, seat := range seats {
			ev.SeatLabels[i] = seat.Ref().Label()
		}
	}
	if m, err := h.Movies.GetByID(ctx, s.MovieID); err == nil {
		ev.MovieTitle = m.Title
	}
	if err := h.PublishCancelled(ctx, ev); err != nil {
		c.Logger().Warnf("booking %d: publish cancelled event failed: %v", b.ID, err)
	}
}
