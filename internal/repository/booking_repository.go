package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinebook/internal/model"
)

// BookingRepo encapsulates database operations for bookings.  Creation and
// cancellation run inside caller-owned transactions because they must be
// atomic with the seat layout update.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = "id,user_id,showtime_id,seats,food_items,total_cents,status,attended,created_at"

func scanBooking(scan func(dest ...interface{}) error) (model.Booking, error) {
	var b model.Booking
	err := scan(&b.ID, &b.UserID, &b.ShowtimeID, &b.Seats, &b.FoodItems,
		&b.TotalCents, &b.Status, &b.Attended, &b.CreatedAt)
	return b, err
}

// CreateTx inserts a confirmed booking inside the caller's transaction and
// returns its ID.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b model.Booking) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (user_id, showtime_id, seats, food_items, total_cents, status) VALUES (?,?,?,?,?,?)",
		b.UserID, b.ShowtimeID, b.Seats, b.FoodItems, b.TotalCents, model.BookingConfirmed)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches one booking or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? LIMIT 1", id).Scan)
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// ListByUser returns a user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE user_id=? ORDER BY created_at DESC", userID)
}

// ListAll returns every booking, newest first.  Admin listings only.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingColumns+" FROM bookings ORDER BY created_at DESC")
}

func (r *BookingRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CancelTx marks a booking cancelled inside the caller's transaction.  The
// caller is responsible for releasing the booking's seats in the same
// transaction.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status=? WHERE id=? AND status=?",
		model.BookingCancelled, id, model.BookingConfirmed)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// MarkAttended flags the ticket as scanned at the door.
func (r *BookingRepo) MarkAttended(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE bookings SET attended=1 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// ConfirmedRevenueCents sums the totals of all confirmed bookings.
func (r *BookingRepo) ConfirmedRevenueCents(ctx context.Context) (uint64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT SUM(total_cents) FROM bookings WHERE status=?", model.BookingConfirmed).Scan(&total)
	if err != nil {
		return 0, err
	}
	if !total.Valid {
		return 0, nil
	}
	return uint64(total.Int64), nil
}
