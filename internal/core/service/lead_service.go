package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/ports"
)

type leadService struct {
	repo     ports.LeadRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewLeadService returns a LeadService implementation. Every submission is
// persisted first; emails are queued only after the insert succeeds.
func NewLeadService(repo ports.LeadRepository, notifier ports.Notifier, log zerolog.Logger) ports.LeadService {
	return &leadService{repo: repo, notifier: notifier, log: log}
}

func (s *leadService) SubmitContact(ctx context.Context, c domain.Contact) error {
	if c.Email == "" || c.FirstName == "" {
		return domain.ErrInvalidInput
	}
	c.CreatedAt = time.Now().UTC()
	if err := s.repo.InsertContact(ctx, &c); err != nil {
		return fmt.Errorf("submit contact: %w", err)
	}

	s.notifier.Notify(domain.Notification{
		Template: domain.MailContactAdmin,
		Data: map[string]string{
			"firstName":   c.FirstName,
			"lastName":    c.LastName,
			"email":       c.Email,
			"phone":       c.Phone,
			"collegeName": c.CollegeName,
			"message":     c.Message,
		},
	})
	s.log.Info().Str("lead", "contact").Msg("lead recorded")
	return nil
}

func (s *leadService) SubmitEnrollment(ctx context.Context, e domain.Enrollment) error {
	if e.Email == "" || e.FullName == "" || e.Course == "" {
		return domain.ErrInvalidInput
	}
	e.CreatedAt = time.Now().UTC()
	if err := s.repo.InsertEnrollment(ctx, &e); err != nil {
		return fmt.Errorf("submit enrollment: %w", err)
	}

	data := map[string]string{
		"fullName": e.FullName,
		"email":    e.Email,
		"phone":    e.Phone,
		"course":   e.Course,
	}
	s.notifier.Notify(domain.Notification{Template: domain.MailEnrollmentAdmin, Data: data})
	s.notifier.Notify(domain.Notification{Template: domain.MailEnrollmentStudent, To: e.Email, Data: data})
	s.log.Info().Str("lead", "enrollment").Str("course", e.Course).Msg("lead recorded")
	return nil
}

func (s *leadService) SubmitInternship(ctx context.Context, i domain.Internship) error {
	if i.Email == "" || i.FullName == "" || i.Course == "" {
		return domain.ErrInvalidInput
	}
	i.CreatedAt = time.Now().UTC()
	if err := s.repo.InsertInternship(ctx, &i); err != nil {
		return fmt.Errorf("submit internship: %w", err)
	}

	data := map[string]string{
		"fullName": i.FullName,
		"email":    i.Email,
		"phone":    i.Phone,
		"college":  i.College,
		"course":   i.Course,
	}
	s.notifier.Notify(domain.Notification{Template: domain.MailInternshipAdmin, Data: data})
	s.notifier.Notify(domain.Notification{Template: domain.MailInternshipStudent, To: i.Email, Data: data})
	s.log.Info().Str("lead", "internship").Str("course", i.Course).Msg("lead recorded")
	return nil
}
