// Package response renders the JSON envelope shared by every endpoint and
// maps errors onto it.
package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campussutras/campus-api/internal/core/domain"
)

// Envelope is the body of every API response.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes data and message with the given status.
func JSON(c echo.Context, code int, data any, message string) error {
	return c.JSON(code, Envelope{Data: data, Message: message})
}

// Message writes a message-only envelope.
func Message(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{Message: message})
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the envelope with only the error field set.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, Envelope{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, gate rejections, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, c, err)
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "You are not authorized to access this resource"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid credentials"
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusBadRequest, "User with this email already exists"
	case errors.Is(err, domain.ErrIncorrectOldPassword):
		return http.StatusBadRequest, "Old password is incorrect"
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "Token has expired"
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusBadRequest, "Invalid token"
	}

	logUnhandled(log, c, err)
	return http.StatusInternalServerError, "internal server error"
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
