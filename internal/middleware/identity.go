package middleware

// identity.go holds helpers shared across middleware files:
// currentUserID resolves the authenticated user for rate-limit keying.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a string form of the user id stored by JWTAuth,
// or "anon" when the request is unauthenticated. JWT numeric claims
// decode as float64, so the value is normalized through Sprint.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return fmt.Sprintf("%.0f", t)
	case uint64, int64, int:
		return fmt.Sprint(t)
	}
	return "anon"
}
