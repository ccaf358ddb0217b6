package model

// FoodItem is a concession item offered during the booking flow.
type FoodItem struct {
	ID          uint64  // food_items.id
	Name        string  // food_items.name
	Description *string // food_items.description (nullable)
	PriceCents  uint32  // food_items.price_cents
	Category    string  // food_items.category (Snacks, Drinks, Combo)
	ImageURL    *string // food_items.image_url (nullable)
	IsActive    bool    // food_items.is_active
}
