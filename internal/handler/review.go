package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/repository"
)

// ReviewHandler bundles dependencies for the review endpoint.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
}

type reviewReq struct {
	Rating  uint8  `json:"rating"`
	Comment string `json:"comment"`
}

// CreateReview writes or replaces the caller's review of a movie and
// refreshes the movie's average rating.  Rating must be 1..5 and the comment
// must not be empty.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	uid := getUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "comment required"})
	}

	if err := h.Reviews.Save(c.Request().Context(), uid, movieID, req.Rating, comment); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save review failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "review saved"})
}
