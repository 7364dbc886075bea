package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:5173"`

	Tokens    TokenConfig
	Session   SessionConfig
	CORS      CORSConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Mail      MailConfig
}

type TokenConfig struct {
	AccessSecret       string        `env:"ACCESS_TOKEN_SECRET"`
	AccessTTL          time.Duration `env:"ACCESS_TOKEN_TTL,          default=24h"`
	VerificationSecret string        `env:"VERIFICATION_TOKEN_SECRET"`
	VerificationTTL    time.Duration `env:"VERIFICATION_TOKEN_TTL,    default=15m"`
	ResetSecret        string        `env:"RESET_TOKEN_SECRET"`
	ResetTTL           time.Duration `env:"RESET_TOKEN_TTL,           default=15m"`
	BcryptCost         int           `env:"BCRYPT_COST,               default=10"`
}

type SessionConfig struct {
	CookieName string        `env:"SESSION_COOKIE_NAME,   default=campus"`
	TTL        time.Duration `env:"SESSION_COOKIE_TTL,    default=168h"`
	Secure     bool          `env:"SESSION_COOKIE_SECURE, default=true"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:5173"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=campus"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type RateLimitConfig struct {
	Max    int           `env:"RATE_LIMIT_MAX,    default=100"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`
}

type MailConfig struct {
	Provider             string        `env:"MAIL_PROVIDER,          default=log"`
	PostmarkServerToken  string        `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string        `env:"POSTMARK_ACCOUNT_TOKEN"`
	From                 string        `env:"MAIL_FROM,              default=no-reply@campussutras.com"`
	ReplyTo              string        `env:"MAIL_REPLY_TO"`
	AdminInbox           string        `env:"MAIL_ADMIN_INBOX,       default=admin@campussutras.com"`
	SupportEmail         string        `env:"MAIL_SUPPORT_EMAIL,     default=support@campussutras.com"`
	Workers              int           `env:"MAIL_WORKERS,           default=4"`
	Buffer               int           `env:"MAIL_QUEUE_BUFFER,      default=256"`
	SendTimeout          time.Duration `env:"MAIL_SEND_TIMEOUT,      default=30s"`
}

const (
	MailProviderLog      = "log"
	MailProviderPostmark = "postmark"
)

// Load reads configuration from environment variables using go-envconfig
// and validates it.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Validate rejects configurations the service cannot run safely with.
func (c *Config) Validate() error {
	var errs []error

	secrets := map[string]string{
		"ACCESS_TOKEN_SECRET":       c.Tokens.AccessSecret,
		"VERIFICATION_TOKEN_SECRET": c.Tokens.VerificationSecret,
		"RESET_TOKEN_SECRET":        c.Tokens.ResetSecret,
	}
	seen := make(map[string]string, len(secrets))
	for _, name := range []string{"ACCESS_TOKEN_SECRET", "VERIFICATION_TOKEN_SECRET", "RESET_TOKEN_SECRET"} {
		v := secrets[name]
		if v == "" {
			errs = append(errs, fmt.Errorf("%s is required", name))
			continue
		}
		if other, dup := seen[v]; dup {
			errs = append(errs, fmt.Errorf("%s must differ from %s", name, other))
			continue
		}
		seen[v] = name
	}

	if c.Tokens.AccessTTL <= 0 || c.Tokens.VerificationTTL <= 0 || c.Tokens.ResetTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_COOKIE_TTL must be positive"))
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive"))
	}

	switch c.Mail.Provider {
	case MailProviderLog:
	case MailProviderPostmark:
		if c.Mail.PostmarkServerToken == "" || c.Mail.PostmarkAccountToken == "" {
			errs = append(errs, errors.New("POSTMARK_SERVER_TOKEN and POSTMARK_ACCOUNT_TOKEN are required for the postmark provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("MAIL_PROVIDER %q is not one of log, postmark", c.Mail.Provider))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
