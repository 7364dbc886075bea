package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campussutras/campus-api/internal/api/session"
	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/security"
	"github.com/campussutras/campus-api/internal/core/service"
)

// --- in-memory repositories ---

type memAccounts struct {
	mu   sync.Mutex
	byID map[string]*domain.Account
	seq  int
}

func (m *memAccounts) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == a.Email {
			return nil, domain.ErrAccountExists
		}
	}
	m.seq++
	cp := *a
	cp.ID = "acc-" + strconv.Itoa(m.seq)
	m.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *memAccounts) FindByID(_ context.Context, id string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAccounts) List(_ context.Context) ([]*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Account, 0, len(m.byID))
	for _, a := range m.byID {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memAccounts) mutate(id string, fn func(a *domain.Account) error) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if err := fn(a); err != nil {
		return nil, err
	}
	cp := *a
	return &cp, nil
}

func (m *memAccounts) UpdateProfile(_ context.Context, id string, u domain.ProfileUpdate) (*domain.Account, error) {
	return m.mutate(id, func(a *domain.Account) error {
		if u.Name != nil {
			a.Name = *u.Name
		}
		if u.City != nil {
			a.City = *u.City
		}
		return nil
	})
}

func (m *memAccounts) UpdatePassword(_ context.Context, id, hash string) error {
	_, err := m.mutate(id, func(a *domain.Account) error {
		a.PasswordHash = hash
		return nil
	})
	return err
}

func (m *memAccounts) SetAdmin(_ context.Context, id string, isAdmin bool) (*domain.Account, error) {
	return m.mutate(id, func(a *domain.Account) error {
		a.IsAdmin = isAdmin
		return nil
	})
}

func (m *memAccounts) SetVerificationToken(_ context.Context, id, token string) error {
	_, err := m.mutate(id, func(a *domain.Account) error {
		a.VerificationToken = token
		return nil
	})
	return err
}

func (m *memAccounts) ConsumeVerificationToken(_ context.Context, id, token string) error {
	_, err := m.mutate(id, func(a *domain.Account) error {
		if a.VerificationToken == "" || a.VerificationToken != token {
			return domain.ErrTokenInvalid
		}
		a.VerificationToken = ""
		a.IsVerified = true
		return nil
	})
	return err
}

func (m *memAccounts) SetPasswordResetToken(_ context.Context, id, token string) error {
	_, err := m.mutate(id, func(a *domain.Account) error {
		a.ForgetPasswordToken = token
		return nil
	})
	return err
}

func (m *memAccounts) ConsumePasswordResetToken(_ context.Context, id, token, hash string) error {
	_, err := m.mutate(id, func(a *domain.Account) error {
		if a.ForgetPasswordToken == "" || a.ForgetPasswordToken != token {
			return domain.ErrTokenInvalid
		}
		a.ForgetPasswordToken = ""
		a.PasswordHash = hash
		return nil
	})
	return err
}

type memAssessments struct{}

func (memAssessments) Create(_ context.Context, a *domain.Assessment) (*domain.Assessment, error) {
	return a, nil
}

func (memAssessments) ListByAccount(context.Context, string) ([]*domain.Assessment, error) {
	return nil, nil
}

func (memAssessments) ListWithOwners(context.Context) ([]*domain.AssessmentWithOwner, error) {
	return nil, nil
}

type memAudit struct{}

func (memAudit) Insert(context.Context, domain.AuditEntry) error { return nil }

type memLeads struct{}

func (memLeads) InsertContact(context.Context, *domain.Contact) error       { return nil }
func (memLeads) InsertEnrollment(context.Context, *domain.Enrollment) error { return nil }
func (memLeads) InsertInternship(context.Context, *domain.Internship) error { return nil }

// captureNotifier keeps the last notification per template.
type captureNotifier struct {
	mu   sync.Mutex
	sent map[domain.MailTemplate]domain.Notification
}

func (c *captureNotifier) Notify(n domain.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent[n.Template] = n
}

func (c *captureNotifier) token(t *testing.T, tmpl domain.MailTemplate) string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.sent[tmpl]
	if !ok {
		t.Fatalf("no %s notification sent", tmpl)
	}
	return n.Data["token"]
}

// --- fixture ---

type appFixture struct {
	e        *echo.Echo
	accounts *memAccounts
	notifier *captureNotifier
	cookie   string
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()

	log := zerolog.Nop()
	hasher, err := security.NewPasswordHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewPasswordHasher: %v", err)
	}
	codec, err := security.NewTokenCodec(map[security.TokenKind]security.KindConfig{
		security.TokenAccess:            {Secret: "access-secret", TTL: time.Hour},
		security.TokenEmailVerification: {Secret: "verify-secret", TTL: 15 * time.Minute},
		security.TokenPasswordReset:     {Secret: "reset-secret", TTL: 15 * time.Minute},
	})
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}

	accounts := &memAccounts{byID: map[string]*domain.Account{}}
	notifier := &captureNotifier{sent: map[domain.MailTemplate]domain.Notification{}}
	sessions := session.NewManager(session.Config{})
	registry := prometheus.NewRegistry()

	e := NewRouter(Dependencies{
		Accounts:    service.NewAccountService(accounts, memAssessments{}, memAudit{}, hasher, codec, notifier, log),
		Assessments: service.NewAssessmentService(memAssessments{}, log),
		Leads:       service.NewLeadService(memLeads{}, notifier, log),
		Sessions:    sessions,
		Tokens:      codec,
		Registerer:  registry,
		Gatherer:    registry,
		Log:         log,
	})

	return &appFixture{e: e, accounts: accounts, notifier: notifier, cookie: sessions.CookieName()}
}

func (f *appFixture) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *appFixture) sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == f.cookie && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func (f *appFixture) signup(t *testing.T, email string) *http.Cookie {
	t.Helper()
	rec := f.do(http.MethodPost, "/api/v1/user/signup",
		`{"name":"Ana","email":"`+email+`","phone":"123","password":"pw-123456","profileType":"Student"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return f.sessionCookie(t, rec)
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, rec.Body.String())
	}
	return resp
}

// --- tests ---

func TestRouter_SignupThenProfile(t *testing.T) {
	f := newAppFixture(t)
	cookie := f.signup(t, "ana@example.com")

	rec := f.do(http.MethodGet, "/api/v1/user/profile", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := envelope(t, rec)["data"].(map[string]any)
	if data["email"] != "ana@example.com" || data["isVerified"] != false {
		t.Fatalf("unexpected profile: %+v", data)
	}
}

func TestRouter_GateRejections(t *testing.T) {
	f := newAppFixture(t)
	cookie := f.signup(t, "ana@example.com")

	tests := []struct {
		name    string
		path    string
		cookies []*http.Cookie
		code    int
	}{
		{"no cookie", "/api/v1/user/profile", nil, http.StatusUnauthorized},
		{"garbage cookie", "/api/v1/user/profile", []*http.Cookie{{Name: f.cookie, Value: "nope"}}, http.StatusUnauthorized},
		{"user on admin route", "/api/v1/user/get-users", []*http.Cookie{cookie}, http.StatusForbidden},
		{"user on admin assessment route", "/api/v1/assessment/get-assessments", []*http.Cookie{cookie}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodGet, tt.path, "", tt.cookies...)
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_LoginErrors(t *testing.T) {
	f := newAppFixture(t)
	f.signup(t, "ana@example.com")

	rec := f.do(http.MethodPost, "/api/v1/user/login", `{"email":"ana@example.com","password":"wrong"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("wrong password: expected 400, got %d", rec.Code)
	}
	rec = f.do(http.MethodPost, "/api/v1/user/login", `{"email":"ghost@example.com","password":"pw"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown email: expected 404, got %d", rec.Code)
	}
	if msg := envelope(t, rec)["error"]; msg != "User not found" {
		t.Fatalf("unexpected error body: %v", msg)
	}
}

func TestRouter_VerifyEmailIsSingleUse(t *testing.T) {
	f := newAppFixture(t)
	f.signup(t, "ana@example.com")
	token := f.notifier.token(t, domain.MailVerifyEmail)

	rec := f.do(http.MethodPatch, "/api/v1/user/verify-email/"+token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = f.do(http.MethodPatch, "/api/v1/user/verify-email/"+token, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("replay: expected 400, got %d", rec.Code)
	}
}

func TestRouter_PasswordResetFlow(t *testing.T) {
	f := newAppFixture(t)
	f.signup(t, "ana@example.com")

	rec := f.do(http.MethodPatch, "/api/v1/user/forget-password", `{"email":"ana@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("forget-password: expected 200, got %d", rec.Code)
	}
	token := f.notifier.token(t, domain.MailResetPassword)

	rec = f.do(http.MethodPatch, "/api/v1/user/forget-change-password/"+token, `{"newPassword":"fresh-pass"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/api/v1/user/login", `{"email":"ana@example.com","password":"pw-123456"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("login with old password: expected 400, got %d", rec.Code)
	}
	rec = f.do(http.MethodPost, "/api/v1/user/login", `{"email":"ana@example.com","password":"fresh-pass"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login with new password: expected 200, got %d", rec.Code)
	}

	rec = f.do(http.MethodPatch, "/api/v1/user/forget-change-password/"+token, `{"newPassword":"again-pass"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("replay: expected 400, got %d", rec.Code)
	}
}

func TestRouter_DuplicateSignup(t *testing.T) {
	f := newAppFixture(t)
	f.signup(t, "ana@example.com")

	rec := f.do(http.MethodPost, "/api/v1/user/signup",
		`{"name":"Ana","email":"ana@example.com","phone":"123","password":"pw-123456","profileType":"Student"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup: expected 400, got %d", rec.Code)
	}
	if accounts, _ := f.accounts.List(context.Background()); len(accounts) != 1 {
		t.Fatalf("expected exactly one account, got %d", len(accounts))
	}
}

func TestRouter_ChangePasswordClearsCookie(t *testing.T) {
	f := newAppFixture(t)
	cookie := f.signup(t, "ana@example.com")

	rec := f.do(http.MethodPatch, "/api/v1/user/change-password",
		`{"oldPassword":"pw-123456","newPassword":"next-pass"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("change-password: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == f.cookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected session cookie to be cleared")
	}
}

func TestRouter_PromotedAdminNeedsFreshToken(t *testing.T) {
	f := newAppFixture(t)
	cookie := f.signup(t, "ana@example.com")

	account, err := f.accounts.FindByEmail(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if _, err := f.accounts.SetAdmin(context.Background(), account.ID, true); err != nil {
		t.Fatalf("SetAdmin: %v", err)
	}

	// The old token still carries isAdmin=false.
	if rec := f.do(http.MethodGet, "/api/v1/user/get-users", "", cookie); rec.Code != http.StatusForbidden {
		t.Fatalf("stale token: expected 403, got %d", rec.Code)
	}

	rec := f.do(http.MethodPost, "/api/v1/user/login", `{"email":"ana@example.com","password":"pw-123456"}`)
	fresh := f.sessionCookie(t, rec)
	if rec := f.do(http.MethodGet, "/api/v1/user/get-users", "", fresh); rec.Code != http.StatusOK {
		t.Fatalf("fresh token: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	f := newAppFixture(t)

	if rec := f.do(http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/metrics", ""); rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
}
