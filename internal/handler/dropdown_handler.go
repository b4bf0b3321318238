package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dnothi-api/internal/service"
	"github.com/noah-isme/dnothi-api/pkg/response"
)

// DropdownHandler serves the reference data behind form selects.
type DropdownHandler struct {
	service *service.LookupService
}

// NewDropdownHandler creates a new dropdown handler.
func NewDropdownHandler(svc *service.LookupService) *DropdownHandler {
	return &DropdownHandler{service: svc}
}

// Categories godoc
// @Summary List categories
// @Tags Dropdowns
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dropdowns/categories [get]
func (h *DropdownHandler) Categories(c *gin.Context) {
	items, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Offices godoc
// @Summary List offices
// @Tags Dropdowns
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dropdowns/offices [get]
func (h *DropdownHandler) Offices(c *gin.Context) {
	items, err := h.service.Offices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Sources godoc
// @Summary List sources
// @Tags Dropdowns
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dropdowns/sources [get]
func (h *DropdownHandler) Sources(c *gin.Context) {
	items, err := h.service.Sources(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Services godoc
// @Summary List services
// @Tags Dropdowns
// @Produce json
// @Param category_id query int false "Category filter"
// @Success 200 {object} response.Envelope
// @Router /dropdowns/services [get]
func (h *DropdownHandler) Services(c *gin.Context) {
	items, err := h.service.Services(c.Request.Context(), queryInt64(c, "category_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// LeaveTypes godoc
// @Summary List leave types
// @Tags Dropdowns
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dropdowns/leave-types [get]
func (h *DropdownHandler) LeaveTypes(c *gin.Context) {
	items, err := h.service.LeaveTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
