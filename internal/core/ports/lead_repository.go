package ports

import (
	"context"

	"github.com/campussutras/campus-api/internal/core/domain"
)

// LeadRepository persists lead-capture form submissions.
type LeadRepository interface {
	InsertContact(ctx context.Context, c *domain.Contact) error
	InsertEnrollment(ctx context.Context, e *domain.Enrollment) error
	InsertInternship(ctx context.Context, i *domain.Internship) error
}
