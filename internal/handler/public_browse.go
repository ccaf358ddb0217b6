// This file defines the public browsing API: theaters, the movie catalogue
// with search and genre filters, movie detail with showtimes and reviews,
// and the rendered seat map of a showtime.  None of these routes require
// authentication; sensitive fields never leave the handlers.

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/seatmap"
)

// PublicHandler aggregates the repositories needed for unauthenticated
// browsing.
type PublicHandler struct {
	Theaters  *repository.TheaterRepo
	Movies    *repository.MovieRepo
	Showtimes *repository.ShowtimeRepo
	Reviews   *repository.ReviewRepo
}

// PublicTheater is a theater exposed via the public API.
type PublicTheater struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	City     string  `json:"city"`
	ImageURL *string `json:"image_url,omitempty"`
}

// PublicMovie is a catalogue entry in list and detail responses.
type PublicMovie struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	DurationMin int     `json:"duration_min"`
	Description *string `json:"description,omitempty"`
	PosterURL   *string `json:"poster_url,omitempty"`
	Language    string  `json:"language"`
	Rating      float64 `json:"rating"`
	Director    *string `json:"director,omitempty"`
	Cast        *string `json:"cast,omitempty"`
	TrailerURL  *string `json:"trailer_url,omitempty"`
}

// PublicShowtime is one scheduled screening in list responses.
type PublicShowtime struct {
	ID            uint64    `json:"id"`
	TheaterID     uint64    `json:"theater_id"`
	StartsAt      time.Time `json:"starts_at"`
	Hall          string    `json:"hall"`
	PriceStandard float64   `json:"price_standard"`
	PricePremium  float64   `json:"price_premium"`
	PriceVIP      float64   `json:"price_vip"`
}

// PublicReview is one review in a movie detail response.
type PublicReview struct {
	Rating    uint8     `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func publicMovie(m model.Movie) PublicMovie {
	return PublicMovie{
		ID: m.ID, Title: m.Title, Genre: m.Genre, DurationMin: m.DurationMin,
		Description: m.Description, PosterURL: m.PosterURL, Language: m.Language,
		Rating: m.Rating, Director: m.Director, Cast: m.Cast, TrailerURL: m.TrailerURL,
	}
}

func publicShowtime(s model.Showtime) PublicShowtime {
	return PublicShowtime{
		ID: s.ID, TheaterID: s.TheaterID, StartsAt: s.StartsAt, Hall: s.Hall,
		PriceStandard: seatmap.CentsToFloat(s.PriceStandardCents),
		PricePremium:  seatmap.CentsToFloat(s.PricePremiumCents),
		PriceVIP:      seatmap.CentsToFloat(s.PriceVIPCents),
	}
}

// ListTheaters returns every theater.
func (h *PublicHandler) ListTheaters(c echo.Context) error {
	theaters, err := h.Theaters.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicTheater, 0, len(theaters))
	for _, t := range theaters {
		out = append(out, PublicTheater{ID: t.ID, Name: t.Name, Address: t.Address, City: t.City, ImageURL: t.ImageURL})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListMovies returns active movies, optionally filtered by title substring
// (?search=) and genre (?genre=).
func (h *PublicHandler) ListMovies(c echo.Context) error {
	filter := repository.MovieFilter{
		Search:     c.QueryParam("search"),
		Genre:      c.QueryParam("genre"),
		ActiveOnly: true,
	}
	movies, err := h.Movies.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicMovie, 0, len(movies))
	for _, m := range movies {
		out = append(out, publicMovie(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetMovie returns one movie with its upcoming showtimes (optionally
// restricted to ?theater_id=) and its reviews.
func (h *PublicHandler) GetMovie(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	var theaterID uint64
	if q := c.QueryParam("theater_id"); q != "" {
		// An unparsable filter is treated as "all theaters".
		if n, err := strconv.ParseUint(q, 10, 64); err == nil {
			theaterID = n
		}
	}
	showtimes, err := h.Showtimes.ListByMovie(ctx, id, theaterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	reviews, err := h.Reviews.ListByMovie(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	sts := make([]PublicShowtime, 0, len(showtimes))
	for _, s := range showtimes {
		sts = append(sts, publicShowtime(s))
	}
	rvs := make([]PublicReview, 0, len(reviews))
	for _, r := range reviews {
		rvs = append(rvs, PublicReview{Rating: r.Rating, Comment: r.Comment, CreatedAt: r.CreatedAt})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"movie":     publicMovie(m),
		"showtimes": sts,
		"reviews":   rvs,
	})
}

// GetShowtime returns one showtime together with its rendered seat map:
// per-cell tier, price and booked state, plus the tier price table.
func (h *PublicHandler) GetShowtime(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	s, err := h.Showtimes.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrShowtimeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	grid, err := h.Showtimes.GetLayout(ctx, id)
	if err != nil {
		if err == repository.ErrLayoutNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat layout not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	prices := repository.Prices(s)
	return c.JSON(http.StatusOK, echo.Map{
		"showtime": publicShowtime(s),
		"seat_map": grid.Render(prices),
		"prices": echo.Map{
			"standard": seatmap.CentsToFloat(prices.StandardCents),
			"premium":  seatmap.CentsToFloat(prices.PremiumCents),
			"vip":      seatmap.CentsToFloat(prices.VIPCents),
		},
	})
}
