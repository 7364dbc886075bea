package domain

import "time"

// Assessment is a recorded score for one account.
type Assessment struct {
	ID        string    `json:"id"`
	AccountID string    `json:"userId"`
	Name      string    `json:"name"`
	Duration  string    `json:"duration"`
	Score     string    `json:"score"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"createdAt"`
}

// AssessmentOwner is the subset of the owning account shown next to an
// assessment in admin listings.
type AssessmentOwner struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	ProfileType ProfileType `json:"profileType"`
	Company     string      `json:"company,omitempty"`
	Institute   string      `json:"institute,omitempty"`
}

// AssessmentWithOwner joins an assessment with its owner.
type AssessmentWithOwner struct {
	Assessment
	Owner *AssessmentOwner `json:"user,omitempty"`
}
