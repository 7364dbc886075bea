package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campussutras/campus-api/internal/api/metrics"
)

// RequireAdmin enforces the admin role on claims stored by a gate. It must be
// chained after UserGate.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenNotFound)
			}
			if !claims.IsAdmin {
				metrics.GateRejectionsTotal.WithLabelValues("admin", "not_admin").Inc()
				return echo.NewHTTPError(http.StatusForbidden, msgNotAdmin)
			}
			return next(c)
		}
	}
}
