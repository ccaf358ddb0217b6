// Admin booking oversight: list everything, cancel on a customer's behalf
// (no time buffer), mark tickets as attended at the door, and a small
// revenue summary.

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
)

// AdminBookingHandler bundles dependencies for booking administration.  It
// reuses the BookingHandler's transactional cancel so seats are always
// released together with the status flip.
type AdminBookingHandler struct {
	Bookings *repository.BookingRepo
	Flow     *BookingHandler
}

// ListBookings returns every booking, newest first.
func (h *AdminBookingHandler) ListBookings(c echo.Context) error {
	bookings, err := h.Bookings.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingView(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// CancelBooking cancels any confirmed booking and releases its seats.  The
// customer-facing time buffer does not apply here.
func (h *AdminBookingHandler) CancelBooking(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if b.Status != model.BookingConfirmed {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is already cancelled"})
	}

	if err := h.Flow.cancelAndRelease(ctx, b); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is already cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	if s, err := h.Flow.Showtimes.GetByID(ctx, b.ShowtimeID); err == nil {
		h.Flow.publishCancelled(c, b, s)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAttended flags a ticket as scanned at the door.
func (h *AdminBookingHandler) MarkAttended(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Bookings.MarkAttended(c.Request().Context(), id); err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Revenue returns the confirmed-booking revenue total.
func (h *AdminBookingHandler) Revenue(c echo.Context) error {
	cents, err := h.Bookings.ConfirmedRevenueCents(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"revenue_cents": cents,
		"revenue":       float64(cents) / 100,
	})
}
