package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/seatmap"
)

// BookingTx is one open transaction spanning a showtime's seat layout and
// the bookings table.  Confirmation and cancellation go through it so the
// parity check, the layout write and the booking row always commit or roll
// back together.
type BookingTx interface {
	Layout(ctx context.Context, showtimeID uint64) (seatmap.Grid, error)
	SaveLayout(ctx context.Context, showtimeID uint64, g seatmap.Grid) error
	InsertBooking(ctx context.Context, b model.Booking) (uint64, error)
	MarkCancelled(ctx context.Context, bookingID uint64) error
	Commit() error
	Rollback() error
}

// BookingUnit begins BookingTx transactions over the shared database handle,
// delegating the statements to the showtime and booking repositories' Tx
// variants.
type BookingUnit struct {
	db        *sql.DB
	showtimes *ShowtimeRepo
	bookings  *BookingRepo
}

func NewBookingUnit(db *sql.DB, s *ShowtimeRepo, b *BookingRepo) *BookingUnit {
	return &BookingUnit{db: db, showtimes: s, bookings: b}
}

// Begin opens a transaction.  The caller must Commit or Rollback.
func (u *BookingUnit) Begin(ctx context.Context) (BookingTx, error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &bookingTx{tx: tx, unit: u}, nil
}

type bookingTx struct {
	tx   *sql.Tx
	unit *BookingUnit
}

// Layout reads the seat grid under a row lock; see GetLayoutTx.
func (t *bookingTx) Layout(ctx context.Context, showtimeID uint64) (seatmap.Grid, error) {
	return t.unit.showtimes.GetLayoutTx(ctx, t.tx, showtimeID)
}

func (t *bookingTx) SaveLayout(ctx context.Context, showtimeID uint64, g seatmap.Grid) error {
	return t.unit.showtimes.UpdateLayoutTx(ctx, t.tx, showtimeID, g)
}

func (t *bookingTx) InsertBooking(ctx context.Context, b model.Booking) (uint64, error) {
	return t.unit.bookings.CreateTx(ctx, t.tx, b)
}

func (t *bookingTx) MarkCancelled(ctx context.Context, bookingID uint64) error {
	return t.unit.bookings.CancelTx(ctx, t.tx, bookingID)
}

func (t *bookingTx) Commit() error   { return t.tx.Commit() }
func (t *bookingTx) Rollback() error { return t.tx.Rollback() }
