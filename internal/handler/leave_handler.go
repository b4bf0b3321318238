package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/service"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
	"github.com/noah-isme/dnothi-api/pkg/response"
)

// LeaveHandler handles leave request endpoints.
type LeaveHandler struct {
	service *service.LeaveService
}

// NewLeaveHandler creates a new leave handler.
func NewLeaveHandler(svc *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{service: svc}
}

// List godoc
// @Summary List leave requests
// @Description List leaves visible to the caller; Agents only see their own
// @Tags Leaves
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param status query string false "Status filter"
// @Param user_id query int false "Requester filter (ignored for Agents)"
// @Param leave_type_id query int false "Leave type filter"
// @Param date_from query string false "Date window start (YYYY-MM-DD)"
// @Param date_to query string false "Date window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /leaves [get]
func (h *LeaveHandler) List(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var filter models.LeaveFilter
	filter.Page, filter.Limit = pageParams(c)
	if status := c.Query("status"); status != "" {
		s := models.LeaveStatus(status)
		filter.Status = &s
	}
	filter.UserID = queryInt64(c, "user_id")
	filter.LeaveTypeID = queryInt64(c, "leave_type_id")
	filter.DateFrom = queryDate(c, "date_from")
	filter.DateTo = queryDate(c, "date_to")

	leaves, pagination, err := h.service.List(c.Request.Context(), caller, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, leaves, pagination)
}

// Get godoc
// @Summary Get leave request
// @Tags Leaves
// @Produce json
// @Param id path int true "Leave ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /leaves/{id} [get]
func (h *LeaveHandler) Get(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, valid := pathID(c)
	if !valid {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid leave id"))
		return
	}

	leave, err := h.service.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, leave, nil)
}

// Create godoc
// @Summary Request leave
// @Description Create a Pending leave request for the caller
// @Tags Leaves
// @Accept json
// @Produce json
// @Param payload body models.CreateLeaveRequest true "Leave payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /leaves [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	leave, err := h.service.Create(c.Request.Context(), caller, req, metaFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, leave)
}

// Decide godoc
// @Summary Decide leave request
// @Description Approve or reject a Pending request; one decision only, never your own
// @Tags Leaves
// @Accept json
// @Produce json
// @Param id path int true "Leave ID"
// @Param payload body models.LeaveDecisionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /leaves/{id}/status [patch]
func (h *LeaveHandler) Decide(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, valid := pathID(c)
	if !valid {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid leave id"))
		return
	}

	var req models.LeaveDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	leave, err := h.service.Decide(c.Request.Context(), caller, id, req, metaFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, leave, nil)
}
