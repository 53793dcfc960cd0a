package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nefera/wellbeing-api/internal/dto"
	"github.com/nefera/wellbeing-api/internal/service"
	appErrors "github.com/nefera/wellbeing-api/pkg/errors"
	"github.com/nefera/wellbeing-api/pkg/response"
)

// AssessmentHandler wires the questionnaire endpoints.
type AssessmentHandler struct {
	service *service.AssessmentService
}

// NewAssessmentHandler creates a new handler.
func NewAssessmentHandler(svc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: svc}
}

// Submit godoc
// @Summary Submit a questionnaire
// @Description Score a PHQ-9, GAD-7 or C-SSRS submission for the authenticated student
// @Tags Assessments
// @Accept json
// @Produce json
// @Param payload body dto.AssessmentRequest true "Assessment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assessments [post]
func (h *AssessmentHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assessment payload"))
		return
	}

	res, err := h.service.Submit(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, res)
}

// History godoc
// @Summary List own assessment history
// @Description Return the student's past submissions, newest first
// @Tags Assessments
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assessments [get]
func (h *AssessmentHandler) History(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.service.History(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}
