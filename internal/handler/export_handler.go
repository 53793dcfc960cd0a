package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nefera/wellbeing-api/internal/service"
	"github.com/nefera/wellbeing-api/pkg/response"
)

// ExportHandler wires the counselor export endpoints.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// AtRisk godoc
// @Summary Export the at-risk roster
// @Description Download the current at-risk roster as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "Export format: csv or pdf (default csv)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/at-risk [get]
func (h *ExportHandler) AtRisk(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	file, err := h.service.AtRiskRoster(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExportFile(c, file)
}

// SafetyEvents godoc
// @Summary Export a student's safety event trail
// @Description Download one student's safety event history as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param id path string true "Student profile ID"
// @Param format query string false "Export format: csv or pdf (default csv)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/students/{id}/safety-events [get]
func (h *ExportHandler) SafetyEvents(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	file, err := h.service.SafetyEventTrail(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeExportFile(c, file)
}

func writeExportFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
