package model

import "time"

// Review is a user's rating and comment for a movie.  Each user may have at
// most one review per movie; submitting again replaces the previous one.
type Review struct {
	ID        uint64    // reviews.id
	UserID    uint64    // reviews.user_id
	MovieID   uint64    // reviews.movie_id
	Rating    uint8     // reviews.rating (1..5)
	Comment   *string   // reviews.comment (nullable)
	CreatedAt time.Time // reviews.created_at
}
