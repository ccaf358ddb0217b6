package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinebook/internal/model"
)

// ReviewRepo encapsulates database operations for movie reviews.  A user
// has at most one review per movie (unique key), so Save is an upsert.  The
// movie's average rating is recomputed in the same transaction as the write
// that changed it.
type ReviewRepo struct{ db *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Save writes or replaces the user's review for a movie and refreshes the
// movie's average rating.  It returns ErrMovieNotFound when the movie does
// not exist.
func (r *ReviewRepo) Save(ctx context.Context, userID, movieID uint64, rating uint8, comment string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM movies WHERE id=?", movieID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrMovieNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO reviews (user_id, movie_id, rating, comment) VALUES (?,?,?,?)
		 ON DUPLICATE KEY UPDATE rating=VALUES(rating), comment=VALUES(comment)`,
		userID, movieID, rating, comment); err != nil {
		return err
	}

	// AVG over an empty set is NULL; that cannot happen right after an
	// insert, but COALESCE keeps the statement total.
	if _, err := tx.ExecContext(ctx,
		`UPDATE movies SET rating = (SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE movie_id=?) WHERE id=?`,
		movieID, movieID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListByMovie returns a movie's reviews, newest first.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,user_id,movie_id,rating,comment,created_at FROM reviews WHERE movie_id=? ORDER BY created_at DESC",
		movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.MovieID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
