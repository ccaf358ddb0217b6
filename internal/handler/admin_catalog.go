// Admin catalogue management: theaters and movies.  All routes in this file
// sit behind the ADMIN role guard.

package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
)

// AdminCatalogHandler bundles dependencies for catalogue administration.
type AdminCatalogHandler struct {
	Theaters *repository.TheaterRepo
	Movies   *repository.MovieRepo
}

type theaterReq struct {
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	City     string  `json:"city"`
	ImageURL *string `json:"image_url"`
}

type movieReq struct {
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	DurationMin int     `json:"duration_min"`
	Description *string `json:"description"`
	PosterURL   *string `json:"poster_url"`
	Language    string  `json:"language"`
	Director    *string `json:"director"`
	Cast        *string `json:"cast"`
	TrailerURL  *string `json:"trailer_url"`
	IsActive    *bool   `json:"is_active"`
}

// CreateTheater adds a venue.  Names are unique.
func (h *AdminCatalogHandler) CreateTheater(c echo.Context) error {
	var req theaterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || strings.TrimSpace(req.City) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city required"})
	}

	id, err := h.Theaters.Create(c.Request().Context(), req.Name, req.Address, req.City, req.ImageURL)
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "theater name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create theater failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// ListMovies returns the full catalogue including deactivated movies.
func (h *AdminCatalogHandler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context(), repository.MovieFilter{
		Search: c.QueryParam("search"),
		Genre:  c.QueryParam("genre"),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// CreateMovie adds a movie to the catalogue.
func (h *AdminCatalogHandler) CreateMovie(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Genre) == "" || req.DurationMin <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, genre and duration_min required"})
	}
	if req.Language == "" {
		req.Language = "English"
	}

	id, err := h.Movies.Create(c.Request().Context(), model.Movie{
		Title: strings.TrimSpace(req.Title), Genre: strings.TrimSpace(req.Genre),
		DurationMin: req.DurationMin, Description: req.Description, PosterURL: req.PosterURL,
		Language: req.Language, Director: req.Director, Cast: req.Cast, TrailerURL: req.TrailerURL,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateMovie replaces the editable fields of a movie.
func (h *AdminCatalogHandler) UpdateMovie(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Genre) == "" || req.DurationMin <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, genre and duration_min required"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	err := h.Movies.Update(c.Request().Context(), model.Movie{
		ID: id, Title: strings.TrimSpace(req.Title), Genre: strings.TrimSpace(req.Genre),
		DurationMin: req.DurationMin, Description: req.Description, PosterURL: req.PosterURL,
		Language: req.Language, Director: req.Director, Cast: req.Cast, TrailerURL: req.TrailerURL,
		IsActive: active,
	})
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update movie failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeactivateMovie hides a movie from public listings.  Historic bookings
// keep their data.
func (h *AdminCatalogHandler) DeactivateMovie(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Movies.Deactivate(c.Request().Context(), id); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate movie failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
