package ports

import (
	"context"

	"github.com/campussutras/campus-api/internal/core/domain"
)

// Notifier accepts notifications for asynchronous delivery. Notify must not
// block and never reports delivery failures to the caller.
type Notifier interface {
	Notify(n domain.Notification)
}

// MailMessage is a rendered email ready for a transport.
type MailMessage struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
	Tag      string
}

// MailSender delivers a rendered email.
type MailSender interface {
	Send(ctx context.Context, msg MailMessage) error
}
