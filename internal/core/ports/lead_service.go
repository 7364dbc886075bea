package ports

import (
	"context"

	"github.com/campussutras/campus-api/internal/core/domain"
)

// LeadService records lead-capture forms and triggers their emails.
type LeadService interface {
	SubmitContact(ctx context.Context, c domain.Contact) error
	SubmitEnrollment(ctx context.Context, e domain.Enrollment) error
	SubmitInternship(ctx context.Context, i domain.Internship) error
}
