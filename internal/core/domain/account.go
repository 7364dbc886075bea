package domain

import "time"

// ProfileType classifies an account holder for downstream display.
type ProfileType string

const (
	ProfileStudent  ProfileType = "Student"
	ProfileEmployee ProfileType = "Employee"
)

// Profile holds the free-form display fields of an account.
type Profile struct {
	Institute    string `json:"institute,omitempty"`
	Course       string `json:"course,omitempty"`
	Company      string `json:"company,omitempty"`
	Position     string `json:"position,omitempty"`
	LocalAddress string `json:"localAddress,omitempty"`
	City         string `json:"city,omitempty"`
	Zip          string `json:"zip,omitempty"`
	State        string `json:"state,omitempty"`
	Country      string `json:"country,omitempty"`
}

// Account models a registered user: identity, credential, profile and
// authorization state.
type Account struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	ProfileType ProfileType `json:"profileType"`
	Profile

	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"isAdmin"`
	IsVerified   bool   `json:"isVerified"`

	// Pending one-time tokens. Empty means absent.
	VerificationToken   string `json:"-"`
	ForgetPasswordToken string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileUpdate carries optional profile changes; nil fields are left untouched.
type ProfileUpdate struct {
	Name         *string
	Phone        *string
	ProfileType  *ProfileType
	Institute    *string
	Course       *string
	Company      *string
	Position     *string
	LocalAddress *string
	City         *string
	Zip          *string
	State        *string
	Country      *string
}

// IsEmpty reports whether the update would change nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Phone == nil && u.ProfileType == nil &&
		u.Institute == nil && u.Course == nil && u.Company == nil &&
		u.Position == nil && u.LocalAddress == nil && u.City == nil &&
		u.Zip == nil && u.State == nil && u.Country == nil
}
