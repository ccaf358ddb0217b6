package middleware

// identity.go defines helpers shared across middleware files.  currentUserID
// formats the user identifier that JWTAuth stored in the context; JWT number
// claims decode as float64, so both string and numeric forms are handled.
// Unauthenticated requests key as "anon".

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}
