package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/ports"
)

func TestAssessmentService_SaveAndList(t *testing.T) {
	repo := newStubAssessmentRepo()
	repo.owners["acc-1"] = &domain.AssessmentOwner{ID: "acc-1", Name: "Asha"}
	svc := NewAssessmentService(repo, zerolog.Nop())

	saved, err := svc.Save(context.Background(), ports.SaveAssessmentInput{
		AccountID: "acc-1",
		Name:      "Aptitude",
		Duration:  "30m",
		Score:     "18/20",
		Format:    "MCQ",
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", saved)
	}

	mine, err := svc.ListMine(context.Background(), "acc-1")
	if err != nil || len(mine) != 1 {
		t.Fatalf("ListMine: got %v, %v", mine, err)
	}

	none, err := svc.ListByAccount(context.Background(), "acc-2")
	if err != nil {
		t.Fatalf("ListByAccount returned error: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", none)
	}

	all, err := svc.ListAll(context.Background())
	if err != nil || len(all) != 1 {
		t.Fatalf("ListAll: got %v, %v", all, err)
	}
	if all[0].Owner == nil || all[0].Owner.Name != "Asha" {
		t.Fatalf("expected owner to be joined, got %+v", all[0])
	}
}

func TestAssessmentService_Validation(t *testing.T) {
	svc := NewAssessmentService(newStubAssessmentRepo(), zerolog.Nop())

	if _, err := svc.Save(context.Background(), ports.SaveAssessmentInput{Name: "x", Score: "1"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Save(context.Background(), ports.SaveAssessmentInput{AccountID: "acc-1"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.ListByAccount(context.Background(), ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
