package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/campussutras/campus-api/internal/core/domain"
)

// TokenKind selects the secret, TTL and audience used for a token. Kinds are
// never interchangeable.
type TokenKind string

const (
	TokenAccess            TokenKind = "access"
	TokenEmailVerification TokenKind = "email_verification"
	TokenPasswordReset     TokenKind = "password_reset"
)

// KindConfig is the signing secret and default lifetime of one token kind.
type KindConfig struct {
	Secret string
	TTL    time.Duration
}

// Claims is the claim set carried by every token kind. Access tokens use
// AccountID, IsVerified and IsAdmin; verification and reset tokens use
// AccountID and Email.
type Claims struct {
	AccountID  string `json:"id"`
	Email      string `json:"email,omitempty"`
	IsVerified bool   `json:"isVerified,omitempty"`
	IsAdmin    bool   `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 tokens, one secret per kind.
type TokenCodec struct {
	kinds map[TokenKind]KindConfig
	now   func() time.Time
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec validates kinds and builds a codec. Every kind needs a
// non-empty secret not shared with any other kind and a positive TTL.
func NewTokenCodec(kinds map[TokenKind]KindConfig, opts ...CodecOption) (*TokenCodec, error) {
	if len(kinds) == 0 {
		return nil, errors.New("token codec: no token kinds configured")
	}

	seen := make(map[string]TokenKind, len(kinds))
	copied := make(map[TokenKind]KindConfig, len(kinds))
	for kind, cfg := range kinds {
		if cfg.Secret == "" {
			return nil, fmt.Errorf("token codec: %s secret is empty", kind)
		}
		if cfg.TTL <= 0 {
			return nil, fmt.Errorf("token codec: %s ttl must be positive", kind)
		}
		if other, dup := seen[cfg.Secret]; dup {
			return nil, fmt.Errorf("token codec: %s and %s share a secret", kind, other)
		}
		seen[cfg.Secret] = kind
		copied[kind] = cfg
	}

	c := &TokenCodec{kinds: copied, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the configured lifetime of kind.
func (c *TokenCodec) TTL(kind TokenKind) time.Duration {
	return c.kinds[kind].TTL
}

// Issue signs claims for kind. A non-positive ttl falls back to the kind's
// configured TTL. Registered claims on the input are overwritten.
func (c *TokenCodec) Issue(kind TokenKind, claims Claims, ttl time.Duration) (string, error) {
	cfg, ok := c.kinds[kind]
	if !ok {
		return "", fmt.Errorf("token codec: unknown kind %q", kind)
	}
	if ttl <= 0 {
		ttl = cfg.TTL
	}

	now := c.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Audience:  jwt.ClaimStrings{string(kind)},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify checks signature, audience and expiry of a kind token.
// Expired tokens yield domain.ErrTokenExpired; everything else that fails
// yields domain.ErrTokenInvalid.
func (c *TokenCodec) Verify(kind TokenKind, token string) (*Claims, error) {
	cfg, ok := c.kinds[kind]
	if !ok || token == "" {
		return nil, domain.ErrTokenInvalid
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(string(kind)),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
