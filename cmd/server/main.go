// Command server runs the campus HTTP API.
//
//	@title						Campus API
//	@version					1.0
//	@description				Accounts, sessions, assessments and lead forms for the campus platform.
//	@BasePath					/
//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						campus
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/campussutras/campus-api/docs"
	"github.com/campussutras/campus-api/internal/api"
	"github.com/campussutras/campus-api/internal/api/handler"
	"github.com/campussutras/campus-api/internal/api/metrics"
	"github.com/campussutras/campus-api/internal/api/session"
	"github.com/campussutras/campus-api/internal/core/ports"
	"github.com/campussutras/campus-api/internal/core/security"
	"github.com/campussutras/campus-api/internal/core/service"
	mongodb "github.com/campussutras/campus-api/internal/infrastructure/db/mongo"
	redisdb "github.com/campussutras/campus-api/internal/infrastructure/db/redis"
	"github.com/campussutras/campus-api/internal/infrastructure/mail"
	"github.com/campussutras/campus-api/internal/infrastructure/queue"
	"github.com/campussutras/campus-api/internal/pkg/config"
	"github.com/campussutras/campus-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "campus-api",
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	hasher, err := security.NewPasswordHasher(cfg.Tokens.BcryptCost)
	if err != nil {
		return err
	}
	codec, err := security.NewTokenCodec(map[security.TokenKind]security.KindConfig{
		security.TokenAccess:            {Secret: cfg.Tokens.AccessSecret, TTL: cfg.Tokens.AccessTTL},
		security.TokenEmailVerification: {Secret: cfg.Tokens.VerificationSecret, TTL: cfg.Tokens.VerificationTTL},
		security.TokenPasswordReset:     {Secret: cfg.Tokens.ResetSecret, TTL: cfg.Tokens.ResetTTL},
	})
	if err != nil {
		return err
	}

	renderer, err := mail.NewRenderer(mail.RendererConfig{
		FrontendURL:  cfg.FrontendURL,
		AdminInbox:   cfg.Mail.AdminInbox,
		SupportEmail: cfg.Mail.SupportEmail,
	})
	if err != nil {
		return err
	}
	sender, err := newMailSender(cfg.Mail, logger.Component("mail"))
	if err != nil {
		return err
	}

	dispatcher := queue.NewDispatcher(queue.Config{
		Workers:     cfg.Mail.Workers,
		Buffer:      cfg.Mail.Buffer,
		SendTimeout: cfg.Mail.SendTimeout,
	}, renderer, sender, metrics.MailObserver{}, logger.Component("mail_queue"))
	dispatcher.Start(context.Background())

	accounts := mongodb.NewAccountRepository(db)
	assessments := mongodb.NewAssessmentRepository(db)

	e := api.NewRouter(api.Dependencies{
		Accounts: service.NewAccountService(
			accounts, assessments, mongodb.NewAuditRepository(db),
			hasher, codec, dispatcher, logger.Component("accounts"),
		),
		Assessments: service.NewAssessmentService(assessments, logger.Component("assessments")),
		Leads:       service.NewLeadService(mongodb.NewLeadRepository(db), dispatcher, logger.Component("leads")),
		Sessions: session.NewManager(session.Config{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Session.Secure,
		}),
		Tokens:  codec,
		Limiter: redisdb.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window),
		Health: map[string]handler.Pinger{
			"mongo": mongodb.Pinger{Client: mongoClient},
			"redis": redisdb.Pinger{Client: rdb},
		},
		CORSOrigins: cfg.CORS.AllowedOrigins,
		Log:         logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	// Requests are drained, so nothing can enqueue mail any more.
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("mail queue did not drain")
	}
	return nil
}

func newMailSender(cfg config.MailConfig, log zerolog.Logger) (ports.MailSender, error) {
	if cfg.Provider == config.MailProviderPostmark {
		sender, err := mail.NewPostmarkSender(mail.PostmarkConfig{
			ServerToken:  cfg.PostmarkServerToken,
			AccountToken: cfg.PostmarkAccountToken,
			From:         cfg.From,
			ReplyTo:      cfg.ReplyTo,
		})
		if err != nil {
			return nil, err
		}
		return sender, nil
	}
	return mail.NewLogSender(log), nil
}
