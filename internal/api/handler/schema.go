package handler

import "github.com/campussutras/campus-api/internal/core/domain"

// --- Request types ---

type profileFields struct {
	Institute    string `json:"institute"`
	Course       string `json:"course"`
	Company      string `json:"company"`
	Position     string `json:"position"`
	LocalAddress string `json:"localAddress"`
	City         string `json:"city"`
	Zip          string `json:"zip"`
	State        string `json:"state"`
	Country      string `json:"country"`
}

func (p profileFields) toDomain() domain.Profile {
	return domain.Profile{
		Institute:    p.Institute,
		Course:       p.Course,
		Company:      p.Company,
		Position:     p.Position,
		LocalAddress: p.LocalAddress,
		City:         p.City,
		Zip:          p.Zip,
		State:        p.State,
		Country:      p.Country,
	}
}

type signupRequest struct {
	Name        string `json:"name"        validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	Phone       string `json:"phone"       validate:"required"`
	Password    string `json:"password"    validate:"required,max=72"`
	ProfileType string `json:"profileType" validate:"required,oneof=Student Employee"`
	profileFields
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,max=72"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,max=72"`
}

type updateProfileRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	ProfileType  *string `json:"profileType" validate:"omitempty,oneof=Student Employee"`
	Institute    *string `json:"institute"`
	Course       *string `json:"course"`
	Company      *string `json:"company"`
	Position     *string `json:"position"`
	LocalAddress *string `json:"localAddress"`
	City         *string `json:"city"`
	Zip          *string `json:"zip"`
	State        *string `json:"state"`
	Country      *string `json:"country"`
}

func (r updateProfileRequest) toDomain() domain.ProfileUpdate {
	u := domain.ProfileUpdate{
		Name:         r.Name,
		Phone:        r.Phone,
		Institute:    r.Institute,
		Course:       r.Course,
		Company:      r.Company,
		Position:     r.Position,
		LocalAddress: r.LocalAddress,
		City:         r.City,
		Zip:          r.Zip,
		State:        r.State,
		Country:      r.Country,
	}
	if r.ProfileType != nil && *r.ProfileType != "" {
		pt := domain.ProfileType(*r.ProfileType)
		u.ProfileType = &pt
	}
	return u
}

type saveAssessmentRequest struct {
	Name     string `json:"name"     validate:"required"`
	Duration string `json:"duration" validate:"required"`
	Score    string `json:"score"    validate:"required"`
	Format   string `json:"format"   validate:"required"`
}

type contactRequest struct {
	FirstName   string `json:"firstName"   validate:"required"`
	LastName    string `json:"lastName"    validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	Phone       string `json:"phone"`
	CollegeName string `json:"collegeName"`
	Message     string `json:"message"     validate:"required"`
}

type enrollmentRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"required"`
	Course   string `json:"course"   validate:"required"`
}

type internshipRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"required"`
	College  string `json:"college"  validate:"required"`
	Course   string `json:"course"   validate:"required"`
}
