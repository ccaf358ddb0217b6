package model

import "time"

// Movie represents a film in the catalogue.  Movies can be deactivated
// instead of deleted so historic bookings keep their titles.  Rating is the
// running average of the movie's reviews, recomputed whenever a review is
// written.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – movie title.
//  Genre       – genre label used for filtering.
//  DurationMin – runtime in minutes.
//  Description – optional synopsis.
//  PosterURL   – optional poster image.
//  Language    – audio language, defaults to English.
//  Rating      – average review rating (0.0 when unreviewed).
//  Director    – optional director name.
//  Cast        – optional comma-separated cast list.
//  TrailerURL  – optional trailer link.
//  IsActive    – whether the movie is currently listed.
//  CreatedAt   – creation timestamp.
type Movie struct {
	ID          uint64    // movies.id
	Title       string    // movies.title
	Genre       string    // movies.genre
	DurationMin int       // movies.duration_min
	Description *string   // movies.description (nullable)
	PosterURL   *string   // movies.poster_url (nullable)
	Language    string    // movies.language
	Rating      float64   // movies.rating
	Director    *string   // movies.director (nullable)
	Cast        *string   // movies.cast_list (nullable)
	TrailerURL  *string   // movies.trailer_url (nullable)
	IsActive    bool      // movies.is_active
	CreatedAt   time.Time // movies.created_at
}
