package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campussutras/campus-api/internal/api/response"
	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/ports"
)

// LeadHandler accepts the public contact, enrollment and internship forms.
type LeadHandler struct {
	service ports.LeadService
}

func NewLeadHandler(service ports.LeadService) *LeadHandler {
	return &LeadHandler{service: service}
}

// Contact records a contact-us message.
//
// @Summary      Contact us
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest  true  "Message"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Router       /api/v1/user/contact [post]
func (h *LeadHandler) Contact(c echo.Context) error {
	var req contactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.service.SubmitContact(c.Request().Context(), domain.Contact{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		CollegeName: req.CollegeName,
		Message:     req.Message,
	})
	if err != nil {
		return err
	}
	return response.Message(c, http.StatusOK, "Thank you for your query, Our team will contact you.")
}

// Enrollment records a course enrollment request.
//
// @Summary      Enroll in a course
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        body  body      enrollmentRequest  true  "Enrollment"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Router       /api/v1/user/enrollment [post]
func (h *LeadHandler) Enrollment(c echo.Context) error {
	var req enrollmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.service.SubmitEnrollment(c.Request().Context(), domain.Enrollment{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Course:   req.Course,
	})
	if err != nil {
		return err
	}
	return response.Message(c, http.StatusOK, "Thank you for enrolling "+req.Course+" course.")
}

// Internship records an internship registration.
//
// @Summary      Register for an internship
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        body  body      internshipRequest  true  "Registration"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Router       /api/v1/user/internship [post]
func (h *LeadHandler) Internship(c echo.Context) error {
	var req internshipRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.service.SubmitInternship(c.Request().Context(), domain.Internship{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		College:  req.College,
		Course:   req.Course,
	})
	if err != nil {
		return err
	}
	return response.Message(c, http.StatusOK, "Thank you for registering "+req.Course+" course.")
}
