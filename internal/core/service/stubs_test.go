package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/security"
)

var errStubFailure = errors.New("stub failure")

// stubAccountRepo is an in-memory AccountRepository keyed by id.
type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	nextID   int

	failSetVerification bool
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return nil, domain.ErrAccountExists
		}
	}
	r.nextID++
	c := cloneAccount(a)
	c.ID = fmt.Sprintf("acc-%d", r.nextID)
	r.accounts[c.ID] = c
	return cloneAccount(c), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Account, 0, len(r.accounts))
	for i := 1; i <= r.nextID; i++ {
		if a, ok := r.accounts[fmt.Sprintf("acc-%d", i)]; ok {
			out = append(out, cloneAccount(a))
		}
	}
	return out, nil
}

func (r *stubAccountRepo) UpdateProfile(_ context.Context, id string, u domain.ProfileUpdate) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Phone != nil {
		a.Phone = *u.Phone
	}
	if u.ProfileType != nil {
		a.ProfileType = *u.ProfileType
	}
	if u.City != nil {
		a.City = *u.City
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = hash
	return nil
}

func (r *stubAccountRepo) SetAdmin(_ context.Context, id string, isAdmin bool) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.IsAdmin = isAdmin
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) SetVerificationToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSetVerification {
		return errStubFailure
	}
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.VerificationToken = token
	return nil
}

func (r *stubAccountRepo) ConsumeVerificationToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok || a.VerificationToken == "" || a.VerificationToken != token {
		return domain.ErrTokenInvalid
	}
	a.IsVerified = true
	a.VerificationToken = ""
	return nil
}

func (r *stubAccountRepo) SetPasswordResetToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.ForgetPasswordToken = token
	return nil
}

func (r *stubAccountRepo) ConsumePasswordResetToken(_ context.Context, id, token, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok || a.ForgetPasswordToken == "" || a.ForgetPasswordToken != token {
		return domain.ErrTokenInvalid
	}
	a.PasswordHash = hash
	a.ForgetPasswordToken = ""
	return nil
}

func (r *stubAccountRepo) get(id string) *domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneAccount(r.accounts[id])
}

type stubAssessmentRepo struct {
	mu     sync.Mutex
	items  []*domain.Assessment
	owners map[string]*domain.AssessmentOwner
}

func newStubAssessmentRepo() *stubAssessmentRepo {
	return &stubAssessmentRepo{owners: make(map[string]*domain.AssessmentOwner)}
}

func (r *stubAssessmentRepo) Create(_ context.Context, a *domain.Assessment) (*domain.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *a
	c.ID = fmt.Sprintf("asm-%d", len(r.items)+1)
	r.items = append(r.items, &c)
	out := c
	return &out, nil
}

func (r *stubAssessmentRepo) ListByAccount(_ context.Context, accountID string) ([]*domain.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Assessment
	for _, a := range r.items {
		if a.AccountID == accountID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *stubAssessmentRepo) ListWithOwners(_ context.Context) ([]*domain.AssessmentWithOwner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AssessmentWithOwner
	for _, a := range r.items {
		out = append(out, &domain.AssessmentWithOwner{Assessment: *a, Owner: r.owners[a.AccountID]})
	}
	return out, nil
}

type stubAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (r *stubAuditRepo) Insert(_ context.Context, e domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

type stubLeadRepo struct {
	contacts    []*domain.Contact
	enrollments []*domain.Enrollment
	internships []*domain.Internship
	fail        bool
}

func (r *stubLeadRepo) InsertContact(_ context.Context, c *domain.Contact) error {
	if r.fail {
		return errStubFailure
	}
	r.contacts = append(r.contacts, c)
	return nil
}

func (r *stubLeadRepo) InsertEnrollment(_ context.Context, e *domain.Enrollment) error {
	if r.fail {
		return errStubFailure
	}
	r.enrollments = append(r.enrollments, e)
	return nil
}

func (r *stubLeadRepo) InsertInternship(_ context.Context, i *domain.Internship) error {
	if r.fail {
		return errStubFailure
	}
	r.internships = append(r.internships, i)
	return nil
}

// recordingNotifier captures queued notifications instead of sending them.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *recordingNotifier) Notify(msg domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *recordingNotifier) last(t *testing.T, tmpl domain.MailTemplate) domain.Notification {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].Template == tmpl {
			return n.sent[i]
		}
	}
	t.Fatalf("no %s notification queued", tmpl)
	return domain.Notification{}
}

// testClock is a settable clock for token expiry tests.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type accountFixture struct {
	svc         *accountService
	accounts    *stubAccountRepo
	assessments *stubAssessmentRepo
	audit       *stubAuditRepo
	notifier    *recordingNotifier
	tokens      *security.TokenCodec
	clock       *testClock
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()

	hasher, err := security.NewPasswordHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewPasswordHasher: %v", err)
	}
	clock := &testClock{t: time.Now().UTC()}
	tokens, err := security.NewTokenCodec(map[security.TokenKind]security.KindConfig{
		security.TokenAccess:            {Secret: "access-secret", TTL: 24 * time.Hour},
		security.TokenEmailVerification: {Secret: "verify-secret", TTL: 15 * time.Minute},
		security.TokenPasswordReset:     {Secret: "reset-secret", TTL: 15 * time.Minute},
	}, security.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}

	f := &accountFixture{
		accounts:    newStubAccountRepo(),
		assessments: newStubAssessmentRepo(),
		audit:       &stubAuditRepo{},
		notifier:    &recordingNotifier{},
		tokens:      tokens,
		clock:       clock,
	}
	f.svc = NewAccountService(f.accounts, f.assessments, f.audit, hasher, tokens, f.notifier, zerolog.Nop()).(*accountService)
	return f
}
