// Admin showtime management.  Creating a showtime also creates its seat
// layout: a rows x cols code grid with optional premium/vip category
// positions painted in.

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/seatmap"
)

// AdminShowtimeHandler bundles dependencies for showtime administration.
type AdminShowtimeHandler struct {
	Showtimes *repository.ShowtimeRepo
	Movies    *repository.MovieRepo
	Theaters  *repository.TheaterRepo
}

type seatPosReq struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type showtimeReq struct {
	MovieID       uint64       `json:"movie_id"`
	TheaterID     uint64       `json:"theater_id"`
	StartsAt      time.Time    `json:"starts_at"`
	Hall          string       `json:"hall"`
	Rows          int          `json:"rows"`
	Cols          int          `json:"cols"`
	PriceStandard float64      `json:"price_standard"`
	PricePremium  float64      `json:"price_premium"`
	PriceVIP      float64      `json:"price_vip"`
	PremiumSeats  []seatPosReq `json:"premium_seats"`
	VIPSeats      []seatPosReq `json:"vip_seats"`
}

// CreateShowtime schedules a screening and generates its seat layout.
func (h *AdminShowtimeHandler) CreateShowtime(c echo.Context) error {
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == 0 || req.TheaterID == 0 || req.Hall == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id, theater_id and hall required"})
	}
	if req.Rows <= 0 || req.Cols <= 0 || req.Rows > 100 || req.Cols > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows and cols must be between 1 and 100"})
	}
	if req.StartsAt.Before(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be in the future"})
	}

	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.Theaters.GetByID(ctx, req.TheaterID); err != nil {
		if err == repository.ErrTheaterNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	categories := map[string][]seatmap.SeatRef{
		"premium": toRefs(req.PremiumSeats),
		"vip":     toRefs(req.VIPSeats),
	}
	layout, err := seatmap.NewGrid(req.Rows, req.Cols, categories).Encode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encode layout failed"})
	}

	id, err := h.Showtimes.Create(ctx, model.Showtime{
		MovieID:            req.MovieID,
		TheaterID:          req.TheaterID,
		StartsAt:           req.StartsAt.UTC(),
		Hall:               req.Hall,
		SeatRows:           uint32(req.Rows),
		SeatCols:           uint32(req.Cols),
		PriceStandardCents: seatmap.FloatToCents(req.PriceStandard),
		PricePremiumCents:  seatmap.FloatToCents(req.PricePremium),
		PriceVIPCents:      seatmap.FloatToCents(req.PriceVIP),
	}, layout)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create showtime failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// DeleteShowtime removes a screening.  Blocked while confirmed bookings
// exist.
func (h *AdminShowtimeHandler) DeleteShowtime(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Showtimes.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrShowtimeNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "showtime has confirmed bookings"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete showtime failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func toRefs(positions []seatPosReq) []seatmap.SeatRef {
	out := make([]seatmap.SeatRef, len(positions))
	for i, p := range positions {
		out[i] = seatmap.SeatRef{Row: p.Row, Col: p.Col}
	}
	return out
}
