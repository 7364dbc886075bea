// Command campusctl runs operator tasks against the campus database.
//
// Usage:
//
//	campusctl promote -email someone@example.com
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/security"
	"github.com/campussutras/campus-api/internal/core/service"
	mongodb "github.com/campussutras/campus-api/internal/infrastructure/db/mongo"
	"github.com/campussutras/campus-api/internal/pkg/config"
	"github.com/campussutras/campus-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "promote":
		err = promote(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "campusctl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: campusctl promote -email <address>")
}

// discardNotifier drops notifications; promotion sends no mail.
type discardNotifier struct{}

func (discardNotifier) Notify(domain.Notification) {}

func promote(args []string) error {
	fs := flag.NewFlagSet("promote", flag.ContinueOnError)
	email := fs.String("email", "", "email of the account to promote")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("-email is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "campusctl"})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

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

	accounts := mongodb.NewAccountRepository(db)
	svc := service.NewAccountService(
		accounts, mongodb.NewAssessmentRepository(db), mongodb.NewAuditRepository(db),
		hasher, codec, discardNotifier{}, log,
	)

	target, err := accounts.FindByEmail(ctx, *email)
	if err != nil {
		return fmt.Errorf("find %s: %w", *email, err)
	}

	promoted, err := svc.PromoteToAdmin(ctx, operator(), target.ID)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s) is now an admin; they must sign in again to use it\n", promoted.Email, promoted.ID)
	return nil
}

func operator() string {
	if u, err := user.Current(); err == nil {
		return "cli:" + u.Username
	}
	return "cli"
}
