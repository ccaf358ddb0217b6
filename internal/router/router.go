// Package router defines how HTTP routes are registered for the API.  The
// surface splits by audience: health, public browsing, the authenticated
// customer booking flow and the admin group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/handler"
	"github.com/iliyamo/cinebook/internal/middleware"
	"github.com/iliyamo/cinebook/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check used by
// load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts a refresh_token body without a JWT, or revokes every
	// session when called with a bearer token and no body.
	g.POST("/logout", a.Logout, middleware.OptionalJWT(jwtSecret))

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: theaters,
// the movie catalogue, movie detail and the rendered seat map of a showtime.
// The cache middleware, when configured, is applied to this group only.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/theaters", p.ListTheaters)
	g.GET("/movies", p.ListMovies)
	g.GET("/movies/:id", p.GetMovie)
	g.GET("/showtimes/:id", p.GetShowtime)
}

// RegisterBooking registers the customer booking flow and reviews.  Every
// route requires a valid access token; both customer and admin roles may
// book.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, r *handler.ReviewHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))

	g.POST("/booking/start", b.StartBooking)
	g.GET("/booking/food", b.FoodMenu)
	g.POST("/booking/confirm", b.ConfirmBooking)

	g.GET("/bookings", b.ListBookings)
	g.GET("/bookings/:id", b.GetBooking)
	g.POST("/bookings/:id/cancel", b.CancelBooking)

	g.POST("/movies/:id/reviews", r.CreateReview)
}

// RegisterAdmin registers the catalogue, showtime, concession and booking
// administration routes behind the ADMIN role guard.
func RegisterAdmin(e *echo.Echo, cat *handler.AdminCatalogHandler, st *handler.AdminShowtimeHandler,
	food *handler.AdminFoodHandler, bk *handler.AdminBookingHandler, jwtSecret string) {
	g := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin))

	g.POST("/theaters", cat.CreateTheater)

	g.GET("/movies", cat.ListMovies)
	g.POST("/movies", cat.CreateMovie)
	g.PUT("/movies/:id", cat.UpdateMovie)
	g.DELETE("/movies/:id", cat.DeactivateMovie)

	g.POST("/showtimes", st.CreateShowtime)
	g.DELETE("/showtimes/:id", st.DeleteShowtime)

	g.GET("/food", food.ListFood)
	g.POST("/food", food.CreateFood)
	g.PUT("/food/:id", food.UpdateFood)
	g.DELETE("/food/:id", food.DeactivateFood)

	g.GET("/bookings", bk.ListBookings)
	g.POST("/bookings/:id/cancel", bk.CancelBooking)
	g.POST("/bookings/:id/attended", bk.MarkAttended)
	g.GET("/revenue", bk.Revenue)
}
