package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/campussutras/campus-api/internal/core/ports"
)

var (
	ErrInvalidConfig = errors.New("mail: invalid config")
	ErrSendFailed    = errors.New("mail: failed to send email")
)

// PostmarkConfig configures the Postmark transport.
type PostmarkConfig struct {
	ServerToken  string
	AccountToken string
	From         string
	ReplyTo      string
}

// PostmarkSender delivers mail through Postmark's transactional API.
type PostmarkSender struct {
	client *postmark.Client
	cfg    PostmarkConfig
}

func NewPostmarkSender(cfg PostmarkConfig) (*PostmarkSender, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("%w: postmark server token is required", ErrInvalidConfig)
	}
	if cfg.AccountToken == "" {
		return nil, fmt.Errorf("%w: postmark account token is required", ErrInvalidConfig)
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("%w: sender address is required", ErrInvalidConfig)
	}
	return &PostmarkSender{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		cfg:    cfg,
	}, nil
}

// Send implements ports.MailSender.
func (s *PostmarkSender) Send(ctx context.Context, msg ports.MailMessage) error {
	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.cfg.From,
		ReplyTo:  s.cfg.ReplyTo,
		To:       msg.To,
		Subject:  msg.Subject,
		Tag:      msg.Tag,
		HTMLBody: msg.HTMLBody,
		TextBody: msg.TextBody,
	})
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(ErrSendFailed, fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message))
	}
	return nil
}
