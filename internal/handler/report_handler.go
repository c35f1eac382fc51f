package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carrizal-edu/asistencia-api/internal/service"
	appErrors "github.com/carrizal-edu/asistencia-api/pkg/errors"
	"github.com/carrizal-edu/asistencia-api/pkg/response"
)

// ReportHandler exposes report generation endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// DailyMessage godoc
// @Summary Generate the daily summary message
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body service.DailyMessageRequest true "Date payload"
// @Success 200 {object} response.Envelope
// @Router /reports/daily-message [post]
func (h *ReportHandler) DailyMessage(c *gin.Context) {
	var req service.DailyMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	report, err := h.reports.DailyMessage(c.Request.Context(), req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Range godoc
// @Summary Generate the range report
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body service.RangeReportRequest true "Range payload"
// @Success 200 {object} response.Envelope
// @Router /reports/range [post]
func (h *ReportHandler) Range(c *gin.Context) {
	var req service.RangeReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	report, err := h.reports.RangeReport(c.Request.Context(), req.StartDate, req.EndDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// ExportRange godoc
// @Summary Export the range report as CSV or PDF
// @Tags Reports
// @Produce octet-stream
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200
// @Router /reports/range/export [get]
func (h *ReportHandler) ExportRange(c *gin.Context) {
	name, contentType, raw, err := h.reports.ExportRange(
		c.Request.Context(),
		c.Query("start"),
		c.Query("end"),
		c.DefaultQuery("format", "csv"),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, contentType, raw)
}
