package middleware

import (
	"net/http"
	"strings"

	"github.com/Dreadfxl/imagensd-api/internal/service"

	"github.com/labstack/echo/v4"
)

// ContextUserKey is where RequireAuth stores the verified claims.
const ContextUserKey = "user"

// RequireAuth verifies the bearer token and injects the user id and
// premium flag into the request context. A missing token is 401; a
// present but invalid or expired one is 403.
func RequireAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
			}
			claims, err := service.VerifyAccessToken(parts[1], secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
			}
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// RequirePremium gates a route on the premium entitlement carried in the
// token. It must run after RequireAuth.
func RequirePremium(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(ContextUserKey).(*service.CustomClaims)
		if !ok || !claims.IsPremium {
			return echo.NewHTTPError(http.StatusForbidden, "premium subscription required")
		}
		return next(c)
	}
}
