package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campussutras/campus-api/internal/api/metrics"
	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/security"
)

// ClaimsKey is the echo context key holding the verified *security.Claims.
const ClaimsKey = "claims"

const (
	msgTokenNotFound = "User token not found"
	msgTokenInvalid  = "Invalid or expired token"
	msgMissingID     = "Invalid access token"
	msgNotAdmin      = "You are not authorized to access this resource"
)

// TokenSource reads the presented access token from a request.
type TokenSource interface {
	Token(c echo.Context) (string, bool)
}

// TokenVerifier checks a token of the given kind.
type TokenVerifier interface {
	Verify(kind security.TokenKind, token string) (*security.Claims, error)
}

// UserGate admits requests carrying a valid access token and stores its
// claims under ClaimsKey. It never reads storage, so a role change is only
// seen once the holder gets a new token.
func UserGate(src TokenSource, verifier TokenVerifier) echo.MiddlewareFunc {
	return gate("user", src, verifier)
}

// AdminGate is UserGate followed by RequireAdmin.
func AdminGate(src TokenSource, verifier TokenVerifier) echo.MiddlewareFunc {
	user := gate("admin", src, verifier)
	admin := RequireAdmin()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return user(admin(next))
	}
}

// ClaimsFromContext returns the claims stored by a gate.
func ClaimsFromContext(c echo.Context) (*security.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*security.Claims)
	return claims, ok && claims != nil
}

func gate(name string, src TokenSource, verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := src.Token(c)
			if !ok {
				metrics.GateRejectionsTotal.WithLabelValues(name, "missing_cookie").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenNotFound)
			}

			claims, err := verifier.Verify(security.TokenAccess, token)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, domain.ErrTokenExpired) {
					reason = "expired"
				}
				metrics.GateRejectionsTotal.WithLabelValues(name, reason).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenInvalid)
			}

			if claims.AccountID == "" {
				metrics.GateRejectionsTotal.WithLabelValues(name, "missing_id").Inc()
				return echo.NewHTTPError(http.StatusBadRequest, msgMissingID)
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}
