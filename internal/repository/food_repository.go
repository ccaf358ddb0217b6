package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinebook/internal/model"
)

// FoodRepo encapsulates database operations for concession items.
type FoodRepo struct{ DB *sql.DB }

func NewFoodRepo(db *sql.DB) *FoodRepo { return &FoodRepo{DB: db} }

const foodColumns = "id,name,description,price_cents,category,image_url,is_active"

func scanFood(scan func(dest ...interface{}) error) (model.FoodItem, error) {
	var f model.FoodItem
	err := scan(&f.ID, &f.Name, &f.Description, &f.PriceCents, &f.Category, &f.ImageURL, &f.IsActive)
	return f, err
}

// ListActive returns the menu shown during the booking flow, grouped by
// category through ordering.
func (r *FoodRepo) ListActive(ctx context.Context) ([]model.FoodItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+foodColumns+" FROM food_items WHERE is_active=1 ORDER BY category, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FoodItem
	for rows.Next() {
		f, err := scanFood(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ListAll returns the whole menu including deactivated items.  Admin
// listings only.
func (r *FoodRepo) ListAll(ctx context.Context) ([]model.FoodItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+foodColumns+" FROM food_items ORDER BY category, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FoodItem
	for rows.Next() {
		f, err := scanFood(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetByID fetches one item or ErrFoodNotFound.
func (r *FoodRepo) GetByID(ctx context.Context, id uint64) (model.FoodItem, error) {
	f, err := scanFood(r.DB.QueryRowContext(ctx,
		"SELECT "+foodColumns+" FROM food_items WHERE id=? LIMIT 1", id).Scan)
	if err == sql.ErrNoRows {
		return model.FoodItem{}, ErrFoodNotFound
	}
	return f, err
}

// Create inserts a food item and returns its ID.
func (r *FoodRepo) Create(ctx context.Context, f model.FoodItem) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO food_items (name, description, price_cents, category, image_url) VALUES (?,?,?,?,?)",
		f.Name, f.Description, f.PriceCents, f.Category, f.ImageURL)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update replaces the editable fields of a food item.
func (r *FoodRepo) Update(ctx context.Context, f model.FoodItem) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE food_items SET name=?, description=?, price_cents=?, category=?, image_url=?, is_active=? WHERE id=?",
		f.Name, f.Description, f.PriceCents, f.Category, f.ImageURL, f.IsActive, f.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFoodNotFound
	}
	return nil
}

// Deactivate removes an item from the menu without deleting booking history.
func (r *FoodRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE food_items SET is_active=0 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFoodNotFound
	}
	return nil
}
