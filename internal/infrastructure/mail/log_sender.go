package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campussutras/campus-api/internal/core/ports"
)

// LogSender writes messages to the log instead of delivering them.
// Used in development and tests.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg ports.MailMessage) error {
	s.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("tag", msg.Tag).
		Msg("mail not delivered (log transport)")
	s.log.Debug().Str("to", msg.To).Msg(msg.TextBody)
	return nil
}
