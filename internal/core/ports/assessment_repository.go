package ports

import (
	"context"

	"github.com/campussutras/campus-api/internal/core/domain"
)

// AssessmentRepository defines persistence operations for assessments.
type AssessmentRepository interface {
	Create(ctx context.Context, a *domain.Assessment) (*domain.Assessment, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Assessment, error)
	// ListWithOwners returns every assessment joined with its owning account.
	ListWithOwners(ctx context.Context) ([]*domain.AssessmentWithOwner, error)
}
