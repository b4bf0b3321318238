package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/service"
	"github.com/noah-isme/dnothi-api/pkg/response"
)

// AdminHandler serves the dashboard statistics and the audit trail. Routes are
// guarded by the Admin-and-above middleware.
type AdminHandler struct {
	stats *service.StatsService
	audit *service.AuditService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(stats *service.StatsService, audit *service.AuditService) *AdminHandler {
	return &AdminHandler{stats: stats, audit: audit}
}

// Statistics godoc
// @Summary Dashboard statistics
// @Description Aggregate counters over users, tasks and leaves plus recent activity
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/statistics [get]
func (h *AdminHandler) Statistics(c *gin.Context) {
	stats, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats, nil)
}

// AuditLogs godoc
// @Summary List audit logs
// @Description Paged audit trail with optional actor, action, table and date filters
// @Tags Admin
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param user_id query int false "Actor filter"
// @Param action_type query string false "Action filter"
// @Param table_name query string false "Table filter"
// @Param date_from query string false "Date window start (YYYY-MM-DD)"
// @Param date_to query string false "Date window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/audit-logs [get]
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	var filter models.AuditFilter
	filter.Page, filter.Limit = pageParams(c)
	filter.UserID = queryInt64(c, "user_id")
	filter.ActionType = c.Query("action_type")
	filter.TableName = c.Query("table_name")
	filter.DateFrom = queryDate(c, "date_from")
	filter.DateTo = queryDate(c, "date_to")

	entries, pagination, err := h.audit.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entries, pagination)
}
