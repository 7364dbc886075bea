package domain

// MailTemplate names a transactional email.
type MailTemplate string

const (
	MailVerifyEmail       MailTemplate = "verify_email"
	MailResetPassword     MailTemplate = "reset_password"
	MailContactAdmin      MailTemplate = "contact_admin"
	MailEnrollmentAdmin   MailTemplate = "enrollment_admin"
	MailEnrollmentStudent MailTemplate = "enrollment_student"
	MailInternshipAdmin   MailTemplate = "internship_admin"
	MailInternshipStudent MailTemplate = "internship_student"
)

// Notification is a request to send one templated email. An empty To means
// the configured admin inbox.
type Notification struct {
	Template MailTemplate
	To       string
	Data     map[string]string
}
