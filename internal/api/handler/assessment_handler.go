package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campussutras/campus-api/internal/api/response"
	"github.com/campussutras/campus-api/internal/core/ports"
)

// AssessmentHandler handles assessment results.
type AssessmentHandler struct {
	service ports.AssessmentService
}

func NewAssessmentHandler(service ports.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

// Save records an assessment result for the caller.
//
// @Summary      Save assessment
// @Tags         assessment
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      saveAssessmentRequest  true  "Result"
// @Success      201   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      401   {object}  response.Envelope
// @Router       /api/v1/assessment/save-assessment [post]
func (h *AssessmentHandler) Save(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req saveAssessmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	saved, err := h.service.Save(c.Request().Context(), ports.SaveAssessmentInput{
		AccountID: claims.AccountID,
		Name:      req.Name,
		Duration:  req.Duration,
		Score:     req.Score,
		Format:    req.Format,
	})
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, saved, "Assessment created successfully")
}

// Mine lists the caller's assessments.
//
// @Summary      Own assessments
// @Tags         assessment
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Router       /api/v1/assessment/my-assessments [get]
func (h *AssessmentHandler) Mine(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListMine(c.Request().Context(), claims.AccountID)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, items, "Assessments fetched successfully")
}

// ListAll lists every assessment with its owner.
//
// @Summary      All assessments
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Router       /api/v1/assessment/get-assessments [get]
func (h *AssessmentHandler) ListAll(c echo.Context) error {
	items, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, items, "Assessments fetched successfully")
}

// ByUser lists one account's assessments.
//
// @Summary      Assessments of a user
// @Tags         admin
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Router       /api/v1/assessment/user-assessments/{id} [get]
func (h *AssessmentHandler) ByUser(c echo.Context) error {
	items, err := h.service.ListByAccount(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return response.JSON(c, http.StatusOK, items, "No assessments found for user")
	}
	return response.JSON(c, http.StatusOK, items, "User assessments fetched!")
}
