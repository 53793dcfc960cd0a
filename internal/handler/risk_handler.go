package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nefera/wellbeing-api/internal/dto"
	"github.com/nefera/wellbeing-api/internal/models"
	"github.com/nefera/wellbeing-api/internal/service"
	appErrors "github.com/nefera/wellbeing-api/pkg/errors"
	"github.com/nefera/wellbeing-api/pkg/response"
)

// RiskHandler wires the counselor-facing risk endpoints.
type RiskHandler struct {
	risk     *service.RiskService
	overview *service.OverviewService
}

// NewRiskHandler creates a new handler.
func NewRiskHandler(risk *service.RiskService, overview *service.OverviewService) *RiskHandler {
	return &RiskHandler{risk: risk, overview: overview}
}

// AtRisk godoc
// @Summary List at-risk students
// @Description Return every student currently in ORANGE, RED or CRISIS, most severe first
// @Tags Risk
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /risk/students [get]
func (h *RiskHandler) AtRisk(c *gin.Context) {
	res, err := h.overview.AtRiskRoster(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// StudentDetail godoc
// @Summary Student risk detail
// @Description Return identity, status, mood timeline, assessment history and safety events for one student
// @Tags Risk
// @Produce json
// @Param id path string true "Student profile ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /risk/students/{id} [get]
func (h *RiskHandler) StudentDetail(c *gin.Context) {
	res, err := h.overview.StudentDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Override godoc
// @Summary Clinical status override
// @Description Set a student's risk status directly; the only permitted path out of CRISIS
// @Tags Risk
// @Accept json
// @Produce json
// @Param id path string true "Student profile ID"
// @Param payload body dto.OverrideRequest true "Override payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /risk/students/{id}/status [put]
func (h *RiskHandler) Override(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid override payload"))
		return
	}

	res, err := h.risk.Override(c.Request.Context(), c.Param("id"), claims.UserID, models.RiskStatus(req.Status), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}
