package routes

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// BearerAuth guards a route group with a static API token. An empty token
// disables the guard, which is only acceptable in local development.
func BearerAuth(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token == "" {
				return next(c)
			}
			presented, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				return c.JSON(http.StatusUnauthorized, map[string]any{
					"ok":      false,
					"message": "unauthorized",
				})
			}
			return next(c)
		}
	}
}

func bearerToken(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(trimmed, bearerPrefix))
	return token, token != ""
}
