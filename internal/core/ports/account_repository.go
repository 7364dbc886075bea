package ports

import (
	"context"

	"github.com/campussutras/campus-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
// Every method is individually atomic; nothing spans a transaction.
type AccountRepository interface {
	// Create inserts a new account. Returns domain.ErrAccountExists when the
	// unique email index rejects the insert.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)

	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetAdmin(ctx context.Context, id string, isAdmin bool) (*domain.Account, error)

	// SetVerificationToken replaces any pending verification token.
	SetVerificationToken(ctx context.Context, id, token string) error
	// ConsumeVerificationToken marks the account verified and clears the
	// pending token, but only if token is the one currently stored.
	// Returns domain.ErrTokenInvalid when it is not.
	ConsumeVerificationToken(ctx context.Context, id, token string) error

	// SetPasswordResetToken replaces any pending reset token.
	SetPasswordResetToken(ctx context.Context, id, token string) error
	// ConsumePasswordResetToken stores passwordHash and clears the pending
	// token, but only if token is the one currently stored.
	// Returns domain.ErrTokenInvalid when it is not.
	ConsumePasswordResetToken(ctx context.Context, id, token, passwordHash string) error
}
