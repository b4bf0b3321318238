package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/service"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
	"github.com/noah-isme/dnothi-api/pkg/response"
)

// ReportHandler serves task and leave report extracts. The format query
// selects json (default), csv or pdf output.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Tasks godoc
// @Summary Task report
// @Description Full task extract with optional filters, rendered as json, csv or pdf
// @Tags Reports
// @Produce json
// @Param format query string false "Output format (json, csv, pdf)"
// @Param status query string false "Status filter"
// @Param assigned_to query int false "Assignee filter"
// @Param due_from query string false "Due date window start (YYYY-MM-DD)"
// @Param due_to query string false "Due date window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reports/tasks [get]
func (h *ReportHandler) Tasks(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var filter models.TaskFilter
	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		filter.Status = &s
	}
	filter.AssignedTo = queryInt64(c, "assigned_to")
	filter.DueFrom = queryDate(c, "due_from")
	filter.DueTo = queryDate(c, "due_to")

	format := reportFormat(c)
	if format == models.ReportFormatJSON {
		report, err := h.service.TaskReport(c.Request.Context(), caller, filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, report, nil)
		return
	}

	file, err := h.service.TaskFile(c.Request.Context(), caller, filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	streamFile(c, file)
}

// Leaves godoc
// @Summary Leave report
// @Description Full leave extract with optional filters, rendered as json, csv or pdf
// @Tags Reports
// @Produce json
// @Param format query string false "Output format (json, csv, pdf)"
// @Param status query string false "Status filter"
// @Param user_id query int false "Requester filter"
// @Param date_from query string false "Date window start (YYYY-MM-DD)"
// @Param date_to query string false "Date window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reports/leaves [get]
func (h *ReportHandler) Leaves(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var filter models.LeaveFilter
	if status := c.Query("status"); status != "" {
		s := models.LeaveStatus(status)
		filter.Status = &s
	}
	filter.UserID = queryInt64(c, "user_id")
	filter.DateFrom = queryDate(c, "date_from")
	filter.DateTo = queryDate(c, "date_to")

	format := reportFormat(c)
	if format == models.ReportFormatJSON {
		report, err := h.service.LeaveReport(c.Request.Context(), caller, filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, report, nil)
		return
	}

	file, err := h.service.LeaveFile(c.Request.Context(), caller, filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	streamFile(c, file)
}

func reportFormat(c *gin.Context) models.ReportFormat {
	format := models.ReportFormat(c.DefaultQuery("format", string(models.ReportFormatJSON)))
	return format
}

func streamFile(c *gin.Context, file *models.ReportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Payload)
}
