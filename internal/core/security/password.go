package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/campussutras/campus-api/internal/core/domain"
)

const dummyPassword = "campus-dummy-password-for-timing"

// PasswordHasher hashes and verifies passwords with bcrypt.
//
// A failed verification always costs two bcrypt comparisons: the real one and
// one against a dummy digest of the same cost. Reject performs the same two
// comparisons when no account exists, so a caller cannot tell "unknown email"
// from "wrong password" by latency.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher returns a hasher using cost, or bcrypt.DefaultCost when
// cost is zero.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d,%d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy digest: %w", err)
	}
	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

// Hash returns a salted bcrypt digest of plain.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password must be at most 72 bytes", domain.ErrInvalidInput)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plain matches digest.
func (h *PasswordHasher) Verify(plain, digest string) bool {
	if bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil {
		return true
	}
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
	return false
}

// Reject burns the cost of a failed Verify without a real digest.
func (h *PasswordHasher) Reject(plain string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
}
