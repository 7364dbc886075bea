package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/ports"
)

type stubAssessmentService struct {
	ports.AssessmentService

	saveFn   func(ctx context.Context, in ports.SaveAssessmentInput) (*domain.Assessment, error)
	byUserFn func(ctx context.Context, accountID string) ([]*domain.Assessment, error)
}

func (s *stubAssessmentService) Save(ctx context.Context, in ports.SaveAssessmentInput) (*domain.Assessment, error) {
	return s.saveFn(ctx, in)
}

func (s *stubAssessmentService) ListByAccount(ctx context.Context, accountID string) ([]*domain.Assessment, error) {
	return s.byUserFn(ctx, accountID)
}

func TestAssessmentHandler_Save_OwnerFromClaims(t *testing.T) {
	e := newTestEcho()
	stub := &stubAssessmentService{
		saveFn: func(ctx context.Context, in ports.SaveAssessmentInput) (*domain.Assessment, error) {
			if in.AccountID != "acc-1" || in.Name != "Aptitude" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Assessment{ID: "as-1", AccountID: in.AccountID, Name: in.Name}, nil
		},
	}
	h := NewAssessmentHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/assessment/save-assessment",
		`{"name":"Aptitude","duration":"30m","score":"42","format":"mcq"}`)
	withClaims(c, "acc-1", false)
	if err := h.Save(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAssessmentHandler_Save_MissingFields(t *testing.T) {
	e := newTestEcho()
	h := NewAssessmentHandler(&stubAssessmentService{})

	c, _ := newJSONContext(e, http.MethodPost, "/api/v1/assessment/save-assessment", `{"name":"Aptitude"}`)
	withClaims(c, "acc-1", false)
	if err := h.Save(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAssessmentHandler_ByUser_EmptyList(t *testing.T) {
	e := newTestEcho()
	stub := &stubAssessmentService{
		byUserFn: func(ctx context.Context, accountID string) ([]*domain.Assessment, error) {
			return []*domain.Assessment{}, nil
		},
	}
	h := NewAssessmentHandler(stub)

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/assessment/user-assessments/acc-9", "")
	c.SetParamNames("id")
	c.SetParamValues("acc-9")
	if err := h.ByUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decodeEnvelope(t, rec.Body.Bytes())
	if resp["message"] != "No assessments found for user" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	if items, ok := resp["data"].([]any); !ok || len(items) != 0 {
		t.Fatalf("expected empty array, got %+v", resp["data"])
	}
}
