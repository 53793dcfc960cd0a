package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nefera/wellbeing-api/internal/service"
	appErrors "github.com/nefera/wellbeing-api/pkg/errors"
	"github.com/nefera/wellbeing-api/pkg/response"
)

// OverviewHandler wires the role-scoped dashboard endpoints.
type OverviewHandler struct {
	service *service.OverviewService
}

// NewOverviewHandler creates a new handler.
func NewOverviewHandler(svc *service.OverviewService) *OverviewHandler {
	return &OverviewHandler{service: svc}
}

// School godoc
// @Summary School-wide risk overview
// @Description Return the principal's zone counts across all students
// @Tags Overview
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /overview/school [get]
func (h *OverviewHandler) School(c *gin.Context) {
	res, err := h.service.SchoolOverview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Class godoc
// @Summary Class mood and risk snapshot
// @Description Return a teacher's per-class mood distribution and zone counts
// @Tags Overview
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /overview/classes/{id} [get]
func (h *OverviewHandler) Class(c *gin.Context) {
	res, err := h.service.ClassSnapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Child godoc
// @Summary Linked child summary
// @Description Return the guarded per-child view for the authenticated parent
// @Tags Overview
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /overview/child [get]
func (h *OverviewHandler) Child(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.service.ParentView(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
