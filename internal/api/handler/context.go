package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/campussutras/campus-api/internal/api/middleware"
	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/security"
)

// ctxClaims returns the claims a gate stored on the request. Handlers behind a
// gate always have them; the check guards against a route wired without one.
func ctxClaims(c echo.Context) (*security.Claims, error) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok || claims.AccountID == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
