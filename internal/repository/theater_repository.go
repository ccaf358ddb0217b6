package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/cinebook/internal/model"
)

// TheaterRepo encapsulates database operations for theaters.
type TheaterRepo struct{ DB *sql.DB }

func NewTheaterRepo(db *sql.DB) *TheaterRepo { return &TheaterRepo{DB: db} }

// ListAll returns every theater ordered by name.
func (r *TheaterRepo) ListAll(ctx context.Context) ([]model.Theater, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,address,city,image_url,created_at FROM theaters ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Theater
	for rows.Next() {
		var t model.Theater
		if err := rows.Scan(&t.ID, &t.Name, &t.Address, &t.City, &t.ImageURL, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID fetches one theater or ErrTheaterNotFound.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (model.Theater, error) {
	var t model.Theater
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,address,city,image_url,created_at FROM theaters WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.Name, &t.Address, &t.City, &t.ImageURL, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Theater{}, ErrTheaterNotFound
	}
	return t, err
}

// Create inserts a theater and returns its ID.  Duplicate names map to
// ErrConflict.
func (r *TheaterRepo) Create(ctx context.Context, name, address, city string, imageURL *string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO theaters (name, address, city, image_url) VALUES (?,?,?,?)",
		name, address, city, imageURL)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
