package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campussutras/campus-api/internal/api/middleware"
	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/ports"
	"github.com/campussutras/campus-api/internal/core/security"
)

// stubAccountService embeds the port so tests only implement what they call.
type stubAccountService struct {
	ports.AccountService

	signupFn         func(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error)
	loginFn          func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	verifyEmailFn    func(ctx context.Context, token string) error
	resetPasswordFn  func(ctx context.Context, token, newPassword string) error
	changePasswordFn func(ctx context.Context, accountID, oldPassword, newPassword string) error
	profileFn        func(ctx context.Context, accountID string) (*ports.ProfileView, error)
	updateProfileFn  func(ctx context.Context, accountID string, u domain.ProfileUpdate) (*domain.Account, error)
	promoteFn        func(ctx context.Context, actorID, targetID string) (*domain.Account, error)
}

func (s *stubAccountService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAccountService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAccountService) VerifyEmail(ctx context.Context, token string) error {
	return s.verifyEmailFn(ctx, token)
}

func (s *stubAccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.resetPasswordFn(ctx, token, newPassword)
}

func (s *stubAccountService) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	return s.changePasswordFn(ctx, accountID, oldPassword, newPassword)
}

func (s *stubAccountService) Profile(ctx context.Context, accountID string) (*ports.ProfileView, error) {
	return s.profileFn(ctx, accountID)
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, accountID string, u domain.ProfileUpdate) (*domain.Account, error) {
	return s.updateProfileFn(ctx, accountID, u)
}

func (s *stubAccountService) PromoteToAdmin(ctx context.Context, actorID, targetID string) (*domain.Account, error) {
	return s.promoteFn(ctx, actorID, targetID)
}

// recordingSessions records cookie writes instead of touching the response.
type recordingSessions struct {
	attached string
	cleared  bool
}

func (r *recordingSessions) Attach(_ echo.Context, token string) {
	r.attached = token
}

func (r *recordingSessions) Clear(_ echo.Context) {
	r.cleared = true
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func withClaims(c echo.Context, id string, admin bool) {
	c.Set(middleware.ClaimsKey, &security.Claims{AccountID: id, IsAdmin: admin, IsVerified: true})
}
