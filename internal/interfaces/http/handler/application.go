package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appleasing "github.com/rentfold/backend/internal/application/leasing"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

// ApplicationHandler handles rental application HTTP requests
type ApplicationHandler struct {
	BaseHandler
	applicationService *appleasing.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *appleasing.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

// ApplicationDecisionRequest is the approve/reject request body
type ApplicationDecisionRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// ListApplicationsRequest is the application list query
type ListApplicationsRequest struct {
	dto.ListRequest
	UnitID       string `form:"unit_id" binding:"omitempty,uuid"`
	Status       string `form:"status" binding:"omitempty,oneof=submitted screening approved rejected withdrawn"`
	ReferralCode string `form:"referral_code" binding:"omitempty,max=32"`
}

// Get gets a rental application.
func (h *ApplicationHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid application ID")
		return
	}

	application, err := h.applicationService.Get(c.Request.Context(), businessID, applicationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, application)
}

// List lists rental applications.
func (h *ApplicationHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req ListApplicationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	filter := leasing.ApplicationFilter{
		Filter: toSharedFilter(req.ListRequest),
	}
	if req.UnitID != "" {
		unitID, err := uuid.Parse(req.UnitID)
		if err != nil {
			h.BadRequest(c, "Invalid unit ID")
			return
		}
		filter.UnitID = &unitID
	}
	if req.Status != "" {
		status := leasing.ApplicationStatus(req.Status)
		filter.Status = &status
	}
	if req.ReferralCode != "" {
		filter.ReferralCode = &req.ReferralCode
	}

	result, err := h.applicationService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// StartScreening moves an application into screening.
func (h *ApplicationHandler) StartScreening(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid application ID")
		return
	}

	application, err := h.applicationService.StartScreening(c.Request.Context(), businessID, applicationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, application)
}

// Approve approves an application.
func (h *ApplicationHandler) Approve(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid application ID")
		return
	}

	var req ApplicationDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	application, err := h.applicationService.Approve(c.Request.Context(), businessID, applicationID, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, application)
}

// Reject rejects an application.
func (h *ApplicationHandler) Reject(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid application ID")
		return
	}

	var req ApplicationDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	application, err := h.applicationService.Reject(c.Request.Context(), businessID, applicationID, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, application)
}

// Withdraw withdraws an application.
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid application ID")
		return
	}

	application, err := h.applicationService.Withdraw(c.Request.Context(), businessID, applicationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, application)
}
