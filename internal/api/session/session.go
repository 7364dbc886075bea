// Package session carries the access token between browser and server in an
// HttpOnly cookie. The server keeps no session state.
package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	DefaultCookieName = "campus"
	DefaultTTL        = 7 * 24 * time.Hour
)

// Config describes the session cookie.
type Config struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager attaches, reads and clears the session cookie. The cookie lifetime
// is independent of the token it carries; an expired token in a live cookie
// is rejected by the auth gate.
type Manager struct {
	cfg Config
	now func() time.Time
}

func NewManager(cfg Config) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Manager{cfg: cfg, now: time.Now}
}

// CookieName returns the configured cookie name.
func (m *Manager) CookieName() string {
	return m.cfg.CookieName
}

// Attach sets the session cookie to token.
func (m *Manager) Attach(c echo.Context, token string) {
	c.SetCookie(m.cookie(token, m.now().Add(m.cfg.TTL), int(m.cfg.TTL/time.Second)))
}

// Clear expires the session cookie. It is safe to call without a session.
func (m *Manager) Clear(c echo.Context) {
	c.SetCookie(m.cookie("", time.Unix(0, 0), -1))
}

// Token returns the cookie value, if a non-empty one was sent.
func (m *Manager) Token(c echo.Context) (string, bool) {
	ck, err := c.Cookie(m.cfg.CookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func (m *Manager) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
