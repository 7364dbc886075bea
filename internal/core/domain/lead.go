package domain

import "time"

// Contact is a "contact us" form submission.
type Contact struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	CollegeName string    `json:"collegeName,omitempty"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Enrollment is a course enrollment request.
type Enrollment struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Course    string    `json:"course"`
	CreatedAt time.Time `json:"createdAt"`
}

// Internship is an internship program registration.
type Internship struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	College   string    `json:"college"`
	Course    string    `json:"course"`
	CreatedAt time.Time `json:"createdAt"`
}
