package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/ports"
	"github.com/campussutras/campus-api/internal/core/security"
)

// accountService implements the account lifecycle: signup, login, email
// verification, password change and reset, profile and admin promotion.
//
// Access-token claims are a snapshot of the account at issuance. A role change
// takes effect only when the holder obtains a new token.
type accountService struct {
	accounts    ports.AccountRepository
	assessments ports.AssessmentRepository
	audit       ports.AuditRepository
	hasher      *security.PasswordHasher
	tokens      *security.TokenCodec
	notifier    ports.Notifier
	log         zerolog.Logger
}

// NewAccountService returns an AccountService implementation.
func NewAccountService(
	accounts ports.AccountRepository,
	assessments ports.AssessmentRepository,
	audit ports.AuditRepository,
	hasher *security.PasswordHasher,
	tokens *security.TokenCodec,
	notifier ports.Notifier,
	log zerolog.Logger,
) ports.AccountService {
	return &accountService{
		accounts:    accounts,
		assessments: assessments,
		audit:       audit,
		hasher:      hasher,
		tokens:      tokens,
		notifier:    notifier,
		log:         log,
	}
}

func (s *accountService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ProfileType != domain.ProfileStudent && in.ProfileType != domain.ProfileEmployee {
		return nil, fmt.Errorf("%w: unknown profile type %q", domain.ErrInvalidInput, in.ProfileType)
	}

	_, err := s.accounts.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, domain.ErrAccountExists
	case !errors.Is(err, domain.ErrAccountNotFound):
		return nil, fmt.Errorf("signup: lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.accounts.Create(ctx, &domain.Account{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		ProfileType:  in.ProfileType,
		Profile:      in.Profile,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, err
		}
		return nil, fmt.Errorf("signup: create account: %w", err)
	}

	token, err := s.issueAccess(created)
	if err != nil {
		return nil, err
	}

	// The account exists from here on; a failure to start verification only
	// means the user has to request a new code.
	if err := s.startVerification(ctx, created); err != nil {
		s.log.Warn().Err(err).Str("account_id", created.ID).Msg("signup: verification not started")
	}

	s.log.Info().Str("account_id", created.ID).Msg("account created")
	return &ports.AuthResult{Account: created, AccessToken: token}, nil
}

func (s *accountService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.hasher.Reject(password)
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueAccess(account)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Account: account, AccessToken: token}, nil
}

func (s *accountService) RequestVerification(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrInvalidInput
	}
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.startVerification(ctx, account)
}

func (s *accountService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(security.TokenEmailVerification, token)
	if err != nil {
		return err
	}

	account, err := s.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		return err
	}
	if !matchesPending(account.VerificationToken, token) || claims.Email != account.Email {
		return domain.ErrTokenInvalid
	}

	if err := s.accounts.ConsumeVerificationToken(ctx, account.ID, token); err != nil {
		return err
	}

	s.log.Info().Str("account_id", account.ID).Msg("email verified")
	return nil
}

func (s *accountService) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrInvalidInput
	}
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(security.TokenPasswordReset, security.Claims{
		AccountID: account.ID,
		Email:     account.Email,
	}, 0)
	if err != nil {
		return err
	}
	if err := s.accounts.SetPasswordResetToken(ctx, account.ID, token); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}

	s.notifier.Notify(domain.Notification{
		Template: domain.MailResetPassword,
		To:       account.Email,
		Data:     map[string]string{"token": token, "ttl": humanTTL(s.tokens.TTL(security.TokenPasswordReset))},
	})
	return nil
}

func (s *accountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.Verify(security.TokenPasswordReset, token)
	if err != nil {
		return err
	}
	if newPassword == "" {
		return domain.ErrInvalidInput
	}

	account, err := s.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		return err
	}
	if !matchesPending(account.ForgetPasswordToken, token) || claims.Email != account.Email {
		return domain.ErrTokenInvalid
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.accounts.ConsumePasswordResetToken(ctx, account.ID, token, hash); err != nil {
		return err
	}

	s.log.Info().Str("account_id", account.ID).Msg("password reset")
	return nil
}

func (s *accountService) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	if accountID == "" {
		return domain.ErrUnauthorized
	}
	if oldPassword == "" || newPassword == "" {
		return domain.ErrInvalidInput
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(oldPassword, account.PasswordHash) {
		return domain.ErrIncorrectOldPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Msg("password changed")
	return nil
}

func (s *accountService) Profile(ctx context.Context, accountID string) (*ports.ProfileView, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	assessments, err := s.assessments.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("profile: list assessments: %w", err)
	}

	ids := make([]string, 0, len(assessments))
	for _, a := range assessments {
		ids = append(ids, a.ID)
	}
	return &ports.ProfileView{Account: account, AssessmentIDs: ids}, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, accountID string, update domain.ProfileUpdate) (*domain.Account, error) {
	if pt := update.ProfileType; pt != nil && *pt != domain.ProfileStudent && *pt != domain.ProfileEmployee {
		return nil, fmt.Errorf("%w: unknown profile type %q", domain.ErrInvalidInput, *pt)
	}
	if update.IsEmpty() {
		return s.accounts.FindByID(ctx, accountID)
	}
	return s.accounts.UpdateProfile(ctx, accountID, update)
}

// PromoteToAdmin grants the admin role to targetID and records who did it.
// The target keeps its old claims until it signs in again.
func (s *accountService) PromoteToAdmin(ctx context.Context, actorID, targetID string) (*domain.Account, error) {
	if targetID == "" {
		return nil, domain.ErrInvalidInput
	}

	account, err := s.accounts.SetAdmin(ctx, targetID, true)
	if err != nil {
		return nil, err
	}

	entry := domain.AuditEntry{
		Action:   domain.AuditActionPromoteAdmin,
		ActorID:  actorID,
		TargetID: account.ID,
		At:       time.Now().UTC(),
	}
	if err := s.audit.Insert(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("target_id", account.ID).Msg("failed to insert audit entry")
	}

	s.log.Info().
		Str("action", entry.Action).
		Str("actor_id", actorID).
		Str("target_id", account.ID).
		Msg("admin granted")

	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]ports.AccountSummary, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	joined, err := s.assessments.ListWithOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: assessments: %w", err)
	}
	names := make(map[string][]string)
	for _, a := range joined {
		names[a.AccountID] = append(names[a.AccountID], a.Name)
	}

	out := make([]ports.AccountSummary, 0, len(accounts))
	for _, acc := range accounts {
		n := names[acc.ID]
		if n == nil {
			n = []string{}
		}
		out = append(out, ports.AccountSummary{Account: acc, AssessmentNames: n})
	}
	return out, nil
}

func (s *accountService) GetAccount(ctx context.Context, id string) (*ports.AccountDetail, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	assessments, err := s.assessments.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("get account: list assessments: %w", err)
	}
	return &ports.AccountDetail{Account: account, AssessmentCount: len(assessments)}, nil
}

func (s *accountService) issueAccess(account *domain.Account) (string, error) {
	return s.tokens.Issue(security.TokenAccess, security.Claims{
		AccountID:  account.ID,
		IsVerified: account.IsVerified,
		IsAdmin:    account.IsAdmin,
	}, 0)
}

// startVerification issues a fresh verification token, stores it (replacing
// any earlier one) and queues the email.
func (s *accountService) startVerification(ctx context.Context, account *domain.Account) error {
	token, err := s.tokens.Issue(security.TokenEmailVerification, security.Claims{
		AccountID: account.ID,
		Email:     account.Email,
	}, 0)
	if err != nil {
		return err
	}
	if err := s.accounts.SetVerificationToken(ctx, account.ID, token); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}

	s.notifier.Notify(domain.Notification{
		Template: domain.MailVerifyEmail,
		To:       account.Email,
		Data:     map[string]string{"token": token, "ttl": humanTTL(s.tokens.TTL(security.TokenEmailVerification))},
	})
	return nil
}

func matchesPending(stored, presented string) bool {
	return stored != "" && subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

func humanTTL(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d >= time.Minute:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}
