package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campussutras/campus-api/internal/api/metrics"
	"github.com/campussutras/campus-api/internal/api/response"
	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/ports"
)

// SessionWriter attaches and clears the session cookie.
type SessionWriter interface {
	Attach(c echo.Context, token string)
	Clear(c echo.Context)
}

// AccountHandler exposes the account lifecycle over HTTP.
type AccountHandler struct {
	service  ports.AccountService
	sessions SessionWriter
}

func NewAccountHandler(service ports.AccountService, sessions SessionWriter) *AccountHandler {
	return &AccountHandler{service: service, sessions: sessions}
}

// Signup creates an account and starts a session.
//
// @Summary      Sign up
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /api/v1/user/signup [post]
func (h *AccountHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Signup(c.Request().Context(), ports.SignupInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    req.Password,
		ProfileType: domain.ProfileType(req.ProfileType),
		Profile:     req.profileFields.toDomain(),
	})
	metrics.AuthEventsTotal.WithLabelValues("signup", metrics.AuthResult(err)).Inc()
	if err != nil {
		return err
	}

	h.sessions.Attach(c, res.AccessToken)
	return response.JSON(c, http.StatusCreated, res.Account, "User created successfully")
}

// Login authenticates by email and password and starts a session.
//
// @Summary      Login
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /api/v1/user/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	metrics.AuthEventsTotal.WithLabelValues("login", metrics.AuthResult(err)).Inc()
	if err != nil {
		return err
	}

	h.sessions.Attach(c, res.AccessToken)
	return response.JSON(c, http.StatusOK, res.Account, "Login success")
}

// Logout ends the session. It succeeds without a session too.
//
// @Summary      Logout
// @Tags         user
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /api/v1/user/logout [get]
func (h *AccountHandler) Logout(c echo.Context) error {
	h.sessions.Clear(c)
	return response.Message(c, http.StatusOK, "Logout successful")
}

// Profile returns the caller's account and assessment ids.
//
// @Summary      Own profile
// @Tags         user
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /api/v1/user/profile [get]
func (h *AccountHandler) Profile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	view, err := h.service.Profile(c.Request().Context(), claims.AccountID)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, view, "")
}

// UpdateProfile applies the provided profile fields.
//
// @Summary      Update profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /api/v1/user/update [patch]
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.service.UpdateProfile(c.Request().Context(), claims.AccountID, req.toDomain())
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, account, "User details updated")
}

// ChangePassword rotates the caller's password and ends the session.
//
// @Summary      Change password
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Router       /api/v1/user/change-password [patch]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err = h.service.ChangePassword(c.Request().Context(), claims.AccountID, req.OldPassword, req.NewPassword)
	metrics.AuthEventsTotal.WithLabelValues("change_password", metrics.AuthResult(err)).Inc()
	if err != nil {
		return err
	}

	h.sessions.Clear(c)
	return response.Message(c, http.StatusOK, "Password changed successfully")
}

// SendVerificationCode issues a fresh email verification link.
//
// @Summary      Send verification link
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /api/v1/user/send-verification-code [patch]
func (h *AccountHandler) SendVerificationCode(c echo.Context) error {
	var req emailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.RequestVerification(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return response.Message(c, http.StatusOK, "Verification link sent on your email")
}

// VerifyEmail consumes an email verification token.
//
// @Summary      Verify email
// @Tags         user
// @Produce      json
// @Param        token  path      string  true  "Verification token"
// @Success      200    {object}  response.Envelope
// @Failure      400    {object}  response.Envelope
// @Failure      401    {object}  response.Envelope
// @Failure      404    {object}  response.Envelope
// @Router       /api/v1/user/verify-email/{token} [patch]
func (h *AccountHandler) VerifyEmail(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return domain.ErrTokenInvalid
	}

	err := h.service.VerifyEmail(c.Request().Context(), token)
	metrics.AuthEventsTotal.WithLabelValues("verify_email", metrics.AuthResult(err)).Inc()
	if err != nil {
		return err
	}
	return response.Message(c, http.StatusOK, "User verified")
}

// ForgetPassword issues a password reset link.
//
// @Summary      Request password reset
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /api/v1/user/forget-password [patch]
func (h *AccountHandler) ForgetPassword(c echo.Context) error {
	var req emailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return response.Message(c, http.StatusOK, "Forget Password link sent to your email")
}

// ResetPassword consumes a reset token and sets a new password.
//
// @Summary      Complete password reset
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  response.Envelope
// @Failure      400    {object}  response.Envelope
// @Failure      401    {object}  response.Envelope
// @Failure      404    {object}  response.Envelope
// @Router       /api/v1/user/forget-change-password/{token} [patch]
func (h *AccountHandler) ResetPassword(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return domain.ErrTokenInvalid
	}

	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.service.ResetPassword(c.Request().Context(), token, req.NewPassword)
	metrics.AuthEventsTotal.WithLabelValues("reset_password", metrics.AuthResult(err)).Inc()
	if err != nil {
		return err
	}
	return response.Message(c, http.StatusOK, "New Password Set")
}

// MakeAdmin grants the admin role to another account.
//
// @Summary      Promote to admin
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Target account id"
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /api/v1/user/make-admin/{id} [patch]
func (h *AccountHandler) MakeAdmin(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	account, err := h.service.PromoteToAdmin(c.Request().Context(), claims.AccountID, c.Param("id"))
	metrics.AuthEventsTotal.WithLabelValues("promote_admin", metrics.AuthResult(err)).Inc()
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, account, "User promoted to admin")
}

// ListUsers returns every account with its assessment names.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Router       /api/v1/user/get-users [get]
func (h *AccountHandler) ListUsers(c echo.Context) error {
	users, err := h.service.ListAccounts(c.Request().Context())
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, users, "Users fetched successfully")
}

// GetUser returns one account with its assessment count.
//
// @Summary      Get user
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /api/v1/user/get-user/{id} [get]
func (h *AccountHandler) GetUser(c echo.Context) error {
	detail, err := h.service.GetAccount(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, detail, "User Fetched")
}
