package ports

import (
	"context"

	"github.com/campussutras/campus-api/internal/core/domain"
)

// SaveAssessmentInput carries a shape-validated assessment result.
type SaveAssessmentInput struct {
	AccountID string
	Name      string
	Duration  string
	Score     string
	Format    string
}

// AssessmentService defines use-case operations for assessments.
type AssessmentService interface {
	Save(ctx context.Context, in SaveAssessmentInput) (*domain.Assessment, error)
	ListMine(ctx context.Context, accountID string) ([]*domain.Assessment, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Assessment, error)
	ListAll(ctx context.Context) ([]*domain.AssessmentWithOwner, error)
}
