package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/seatmap"
)

// ShowtimeRepo encapsulates database operations for showtimes and their seat
// layouts.  A showtime and its layout row are created together; booking and
// cancellation update the layout inside a caller-owned transaction so the
// parity check and the code increments are atomic.
type ShowtimeRepo struct{ db *sql.DB }

func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

const showtimeColumns = `id,movie_id,theater_id,starts_at,hall,seat_rows,seat_cols,
	price_standard_cents,price_premium_cents,price_vip_cents,created_at`

func scanShowtime(scan func(dest ...interface{}) error) (model.Showtime, error) {
	var s model.Showtime
	err := scan(&s.ID, &s.MovieID, &s.TheaterID, &s.StartsAt, &s.Hall, &s.SeatRows, &s.SeatCols,
		&s.PriceStandardCents, &s.PricePremiumCents, &s.PriceVIPCents, &s.CreatedAt)
	return s, err
}

// GetByID fetches one showtime or ErrShowtimeNotFound.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (model.Showtime, error) {
	s, err := scanShowtime(r.db.QueryRowContext(ctx,
		"SELECT "+showtimeColumns+" FROM showtimes WHERE id=? LIMIT 1", id).Scan)
	if err == sql.ErrNoRows {
		return model.Showtime{}, ErrShowtimeNotFound
	}
	return s, err
}

// ListByMovie returns upcoming showtimes of a movie, optionally restricted
// to one theater, ordered by start time.
func (r *ShowtimeRepo) ListByMovie(ctx context.Context, movieID uint64, theaterID uint64) ([]model.Showtime, error) {
	query := "SELECT " + showtimeColumns + " FROM showtimes WHERE movie_id=? AND starts_at > UTC_TIMESTAMP()"
	args := []interface{}{movieID}
	if theaterID != 0 {
		query += " AND theater_id=?"
		args = append(args, theaterID)
	}
	query += " ORDER BY starts_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Showtime
	for rows.Next() {
		s, err := scanShowtime(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Create inserts a showtime together with its seat layout in one
// transaction and returns the new showtime ID.
func (r *ShowtimeRepo) Create(ctx context.Context, s model.Showtime, layout string) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO showtimes (movie_id, theater_id, starts_at, hall, seat_rows, seat_cols,
		 price_standard_cents, price_premium_cents, price_vip_cents)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		s.MovieID, s.TheaterID, s.StartsAt, s.Hall, s.SeatRows, s.SeatCols,
		s.PriceStandardCents, s.PricePremiumCents, s.PriceVIPCents)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO seat_layouts (showtime_id, layout) VALUES (?,?)", id, layout); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(id), nil
}

// Delete removes a showtime.  It refuses with ErrConflict while confirmed
// bookings exist; the layout row cascades.
func (r *ShowtimeRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE showtime_id=? AND status=?",
		id, model.BookingConfirmed).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM showtimes WHERE id=?", id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrShowtimeNotFound
	}
	return nil
}

// GetLayout returns the parsed seat grid of a showtime.
func (r *ShowtimeRepo) GetLayout(ctx context.Context, showtimeID uint64) (seatmap.Grid, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		"SELECT layout FROM seat_layouts WHERE showtime_id=? LIMIT 1", showtimeID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrLayoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return seatmap.Parse(raw)
}

// GetLayoutTx reads the seat grid inside a transaction with a row lock, so
// two confirmations of the same showtime serialize on the layout row.
func (r *ShowtimeRepo) GetLayoutTx(ctx context.Context, tx *sql.Tx, showtimeID uint64) (seatmap.Grid, error) {
	var raw string
	err := tx.QueryRowContext(ctx,
		"SELECT layout FROM seat_layouts WHERE showtime_id=? FOR UPDATE", showtimeID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrLayoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return seatmap.Parse(raw)
}

// UpdateLayoutTx writes back a mutated seat grid inside the caller's
// transaction.
func (r *ShowtimeRepo) UpdateLayoutTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, g seatmap.Grid) error {
	raw, err := g.Encode()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE seat_layouts SET layout=? WHERE showtime_id=?", raw, showtimeID)
	return err
}

// Prices returns the showtime's tier price table.
func Prices(s model.Showtime) seatmap.PriceTable {
	return seatmap.PriceTable{
		StandardCents: s.PriceStandardCents,
		PremiumCents:  s.PricePremiumCents,
		VIPCents:      s.PriceVIPCents,
	}
}
