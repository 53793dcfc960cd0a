package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nefera/wellbeing-api/internal/dto"
	"github.com/nefera/wellbeing-api/internal/service"
	appErrors "github.com/nefera/wellbeing-api/pkg/errors"
	"github.com/nefera/wellbeing-api/pkg/response"
)

// CheckinHandler wires the student daily check-in endpoints.
type CheckinHandler struct {
	service *service.CheckinService
}

// NewCheckinHandler creates a new handler.
func NewCheckinHandler(svc *service.CheckinService) *CheckinHandler {
	return &CheckinHandler{service: svc}
}

// CheckIn godoc
// @Summary Record a daily check-in
// @Description Store today's mood, sleep and journal entry for the authenticated student
// @Tags Check-ins
// @Accept json
// @Produce json
// @Param payload body dto.CheckinRequest true "Check-in payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /checkins [post]
func (h *CheckinHandler) CheckIn(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid check-in payload"))
		return
	}

	res, err := h.service.CheckIn(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, res)
}

// ListJournals godoc
// @Summary List own journal entries
// @Description Return the student's decrypted journal entries for the trailing days
// @Tags Check-ins
// @Produce json
// @Param days query int false "Trailing window in days (default 14, max 90)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /checkins/journals [get]
func (h *CheckinHandler) ListJournals(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "14"))

	res, err := h.service.ListJournals(c.Request.Context(), claims.UserID, days)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}
