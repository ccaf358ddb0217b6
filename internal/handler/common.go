// Package handler exposes the HTTP handlers for the booking API: auth,
// public browsing, the booking flow, reviews and the admin surface.
package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/model"
)

// getUserID extracts the authenticated user's ID from the context values set
// by the JWT middleware.  Numeric JWT claims decode as float64; zero means
// no authenticated user.
func getUserID(c echo.Context) uint64 {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v)
	case uint64:
		return v
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// isAdmin reports whether the JWT role claim marks the caller as an admin.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleAdmin
}

// pathID parses the named path parameter as an unsigned integer ID.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}
