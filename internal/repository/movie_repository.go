package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/cinebook/internal/model"
)

// MovieRepo encapsulates database operations for movies.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

const movieColumns = "id,title,genre,duration_min,description,poster_url,language,rating,director,cast_list,trailer_url,is_active,created_at"

func scanMovie(scan func(dest ...interface{}) error) (model.Movie, error) {
	var m model.Movie
	err := scan(&m.ID, &m.Title, &m.Genre, &m.DurationMin, &m.Description, &m.PosterURL,
		&m.Language, &m.Rating, &m.Director, &m.Cast, &m.TrailerURL, &m.IsActive, &m.CreatedAt)
	return m, err
}

// MovieFilter narrows List results.  Zero values mean "no filter".  Search
// matches a substring of the title, case-insensitively.
type MovieFilter struct {
	Search     string
	Genre      string
	ActiveOnly bool
}

// List returns movies matching the filter, newest first.
func (r *MovieRepo) List(ctx context.Context, f MovieFilter) ([]model.Movie, error) {
	query := "SELECT " + movieColumns + " FROM movies WHERE 1=1"
	var args []interface{}
	if f.ActiveOnly {
		query += " AND is_active=1"
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		query += " AND LOWER(title) LIKE ?"
		args = append(args, "%"+strings.ToLower(s)+"%")
	}
	if g := strings.TrimSpace(f.Genre); g != "" {
		query += " AND genre=?"
		args = append(args, g)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Movie
	for rows.Next() {
		m, err := scanMovie(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetByID fetches one movie or ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	m, err := scanMovie(r.DB.QueryRowContext(ctx,
		"SELECT "+movieColumns+" FROM movies WHERE id=? LIMIT 1", id).Scan)
	if err == sql.ErrNoRows {
		return model.Movie{}, ErrMovieNotFound
	}
	return m, err
}

// Create inserts a movie and returns its ID.
func (r *MovieRepo) Create(ctx context.Context, m model.Movie) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO movies (title, genre, duration_min, description, poster_url, language, director, cast_list, trailer_url)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		m.Title, m.Genre, m.DurationMin, m.Description, m.PosterURL, m.Language, m.Director, m.Cast, m.TrailerURL)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update replaces the editable fields of a movie.
func (r *MovieRepo) Update(ctx context.Context, m model.Movie) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE movies SET title=?, genre=?, duration_min=?, description=?, poster_url=?,
		 language=?, director=?, cast_list=?, trailer_url=?, is_active=? WHERE id=?`,
		m.Title, m.Genre, m.DurationMin, m.Description, m.PosterURL,
		m.Language, m.Director, m.Cast, m.TrailerURL, m.IsActive, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// Deactivate hides a movie from listings without deleting its history.
func (r *MovieRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE movies SET is_active=0 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

