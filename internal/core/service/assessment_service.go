package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/ports"
)

type assessmentService struct {
	repo ports.AssessmentRepository
	log  zerolog.Logger
}

// NewAssessmentService returns an AssessmentService implementation.
func NewAssessmentService(repo ports.AssessmentRepository, log zerolog.Logger) ports.AssessmentService {
	return &assessmentService{repo: repo, log: log}
}

func (s *assessmentService) Save(ctx context.Context, in ports.SaveAssessmentInput) (*domain.Assessment, error) {
	if in.AccountID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.Name == "" || in.Score == "" {
		return nil, domain.ErrInvalidInput
	}

	saved, err := s.repo.Create(ctx, &domain.Assessment{
		AccountID: in.AccountID,
		Name:      in.Name,
		Duration:  in.Duration,
		Score:     in.Score,
		Format:    in.Format,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}

	s.log.Info().Str("account_id", in.AccountID).Str("assessment", saved.Name).Msg("assessment saved")
	return saved, nil
}

func (s *assessmentService) ListMine(ctx context.Context, accountID string) ([]*domain.Assessment, error) {
	if accountID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.list(ctx, accountID)
}

func (s *assessmentService) ListByAccount(ctx context.Context, accountID string) ([]*domain.Assessment, error) {
	if accountID == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.list(ctx, accountID)
}

func (s *assessmentService) ListAll(ctx context.Context) ([]*domain.AssessmentWithOwner, error) {
	out, err := s.repo.ListWithOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	if out == nil {
		out = []*domain.AssessmentWithOwner{}
	}
	return out, nil
}

func (s *assessmentService) list(ctx context.Context, accountID string) ([]*domain.Assessment, error) {
	out, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	if out == nil {
		out = []*domain.Assessment{}
	}
	return out, nil
}
