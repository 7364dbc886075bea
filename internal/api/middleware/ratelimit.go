package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campussutras/campus-api/internal/api/metrics"
	"github.com/campussutras/campus-api/internal/core/ports"
)

// RateLimit rejects clients that exceed the limiter's budget with 429.
// Clients are keyed by real IP. A limiter failure lets the request through.
func RateLimit(limiter ports.RateLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
			reset := int(time.Until(d.ResetAt).Seconds())
			if reset < 0 {
				reset = 0
			}
			h.Set("RateLimit-Reset", strconv.Itoa(reset))

			if !d.Allowed {
				metrics.RateLimitedTotal.Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, please try again later.")
			}
			return next(c)
		}
	}
}
