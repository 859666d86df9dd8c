package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Token scopes.
const (
	ScopeRead  = "read"
	ScopeWrite = "write"
)

// RequireScope rejects requests whose token lacks any of the given scopes.
// It must run after Auth.
func RequireScope(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			granted, _ := c.Get(ctxScopes).([]string)
			have := make(map[string]struct{}, len(granted))
			for _, s := range granted {
				have[s] = struct{}{}
			}
			for _, s := range required {
				if _, ok := have[s]; !ok {
					return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
				}
			}
			return next(c)
		}
	}
}
