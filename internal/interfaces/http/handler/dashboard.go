package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rentfold/backend/internal/application/reporting"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	BaseHandler
	dashboardService *reporting.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *reporting.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Overview gets the dashboard overview counts.
func (h *DashboardHandler) Overview(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	overview, err := h.dashboardService.Overview(c.Request.Context(), businessID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, overview)
}
