package ports

import (
	"context"

	"github.com/campussutras/campus-api/internal/core/domain"
)

// SignupInput carries the shape-validated signup payload.
type SignupInput struct {
	Name        string
	Email       string
	Phone       string
	Password    string
	ProfileType domain.ProfileType
	Profile     domain.Profile
}

// AuthResult is returned by operations that start a session.
type AuthResult struct {
	Account     *domain.Account
	AccessToken string
}

// ProfileView is the account as shown to its owner.
type ProfileView struct {
	*domain.Account
	AssessmentIDs []string `json:"assessments"`
}

// AccountSummary is an account row in the admin user list.
type AccountSummary struct {
	*domain.Account
	AssessmentNames []string `json:"assessments"`
}

// AccountDetail is a single account as seen by an admin.
type AccountDetail struct {
	*domain.Account
	AssessmentCount int `json:"assessmentCount"`
}

// AccountService is the account lifecycle controller.
type AccountService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	RequestVerification(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, token string) error

	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error

	Profile(ctx context.Context, accountID string) (*ProfileView, error)
	UpdateProfile(ctx context.Context, accountID string, update domain.ProfileUpdate) (*domain.Account, error)

	PromoteToAdmin(ctx context.Context, actorID, targetID string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]AccountSummary, error)
	GetAccount(ctx context.Context, id string) (*AccountDetail, error)
}
