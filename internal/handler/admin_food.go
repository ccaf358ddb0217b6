// Admin concession menu management.

package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/seatmap"
)

// AdminFoodHandler bundles dependencies for concession administration.
type AdminFoodHandler struct {
	Food *repository.FoodRepo
}

type foodReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    *string `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
}

// ListFood returns the whole menu including deactivated items.
func (h *AdminFoodHandler) ListFood(c echo.Context) error {
	items, err := h.Food.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateFood adds an item to the menu.
func (h *AdminFoodHandler) CreateFood(c echo.Context) error {
	var req foodReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" || req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, category and positive price required"})
	}

	id, err := h.Food.Create(c.Request().Context(), model.FoodItem{
		Name: strings.TrimSpace(req.Name), Description: req.Description,
		PriceCents: seatmap.FloatToCents(req.Price),
		Category:   strings.TrimSpace(req.Category), ImageURL: req.ImageURL,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create food item failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateFood replaces the editable fields of a menu item.
func (h *AdminFoodHandler) UpdateFood(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req foodReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" || req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, category and positive price required"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	err := h.Food.Update(c.Request().Context(), model.FoodItem{
		ID: id, Name: strings.TrimSpace(req.Name), Description: req.Description,
		PriceCents: seatmap.FloatToCents(req.Price),
		Category:   strings.TrimSpace(req.Category), ImageURL: req.ImageURL, IsActive: active,
	})
	if err != nil {
		if err == repository.ErrFoodNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "food item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update food item failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeactivateFood removes an item from the menu without touching booking
// history.
func (h *AdminFoodHandler) DeactivateFood(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Food.Deactivate(c.Request().Context(), id); err != nil {
		if err == repository.ErrFoodNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "food item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate food item failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
