package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/ports"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// subjects are text templates evaluated against the notification data.
var subjects = map[domain.MailTemplate]string{
	domain.MailVerifyEmail:       "Verification Code - Campus Sutras",
	domain.MailResetPassword:     "Forget Password - Campus Sutras",
	domain.MailContactAdmin:      "Contact Details - Campus Sutras",
	domain.MailEnrollmentAdmin:   "Course Enrollment Details - Campus Sutras",
	domain.MailEnrollmentStudent: "Thank You For Enrolling {{.course}}",
	domain.MailInternshipAdmin:   "Internship Registration Details - Campus Sutras",
	domain.MailInternshipStudent: "Thank You For Registering {{.course}} Internship",
}

// linkPaths are the frontend routes that consume one-time tokens.
var linkPaths = map[domain.MailTemplate]string{
	domain.MailVerifyEmail:   "/verify/",
	domain.MailResetPassword: "/reset/",
}

// RendererConfig holds the addresses and URLs templates refer to.
type RendererConfig struct {
	FrontendURL  string
	AdminInbox   string
	SupportEmail string
}

// Renderer builds mail messages from the embedded templates.
type Renderer struct {
	cfg      RendererConfig
	html     *htmltemplate.Template
	text     *texttemplate.Template
	subjects map[domain.MailTemplate]*texttemplate.Template
}

// NewRenderer parses all embedded templates.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")

	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}

	r := &Renderer{
		cfg:      cfg,
		html:     html.Option("missingkey=zero"),
		text:     text.Option("missingkey=zero"),
		subjects: make(map[domain.MailTemplate]*texttemplate.Template, len(subjects)),
	}
	for name, src := range subjects {
		t, err := texttemplate.New(string(name)).Option("missingkey=zero").Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse subject %s: %w", name, err)
		}
		r.subjects[name] = t
		if r.html.Lookup(string(name)+".html") == nil || r.text.Lookup(string(name)+".txt") == nil {
			return nil, fmt.Errorf("template %s: missing body", name)
		}
	}
	return r, nil
}

// Render implements queue.Renderer.
func (r *Renderer) Render(n domain.Notification) (ports.MailMessage, error) {
	subject, ok := r.subjects[n.Template]
	if !ok {
		return ports.MailMessage{}, fmt.Errorf("unknown mail template %q", n.Template)
	}

	data := make(map[string]string, len(n.Data)+3)
	for k, v := range n.Data {
		data[k] = v
	}
	data["title"] = "Campus Sutras"
	data["supportEmail"] = r.cfg.SupportEmail
	if path, ok := linkPaths[n.Template]; ok {
		data["link"] = r.cfg.FrontendURL + path + n.Data["token"]
	}

	to := n.To
	if to == "" {
		to = r.cfg.AdminInbox
	}

	var subj, html, text bytes.Buffer
	if err := subject.Execute(&subj, data); err != nil {
		return ports.MailMessage{}, fmt.Errorf("render %s subject: %w", n.Template, err)
	}
	if err := r.html.ExecuteTemplate(&html, string(n.Template)+".html", data); err != nil {
		return ports.MailMessage{}, fmt.Errorf("render %s html: %w", n.Template, err)
	}
	if err := r.text.ExecuteTemplate(&text, string(n.Template)+".txt", data); err != nil {
		return ports.MailMessage{}, fmt.Errorf("render %s text: %w", n.Template, err)
	}

	return ports.MailMessage{
		To:       to,
		Subject:  subj.String(),
		HTMLBody: html.String(),
		TextBody: text.String(),
		Tag:      string(n.Template),
	}, nil
}
