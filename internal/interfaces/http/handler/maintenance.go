package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appleasing "github.com/rentfold/backend/internal/application/leasing"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

// MaintenanceHandler handles maintenance request HTTP requests
type MaintenanceHandler struct {
	BaseHandler
	maintenanceService *appleasing.MaintenanceService
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(maintenanceService *appleasing.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
	}
}

// OpenMaintenanceRequest is the ticket creation request body
type OpenMaintenanceRequest struct {
	UnitID      string `json:"unit_id" binding:"required,uuid"`
	TenantID    string `json:"tenant_id" binding:"omitempty,uuid"`
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=5000"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low normal high emergency"`
}

// StartMaintenanceRequest is the work start request body
type StartMaintenanceRequest struct {
	AssigneeID string `json:"assignee_id" binding:"omitempty,uuid"`
}

// ResolveMaintenanceRequest is the resolution request body
type ResolveMaintenanceRequest struct {
	Notes string `json:"notes" binding:"max=5000"`
}

// EscalateMaintenanceRequest is the priority escalation request body
type EscalateMaintenanceRequest struct {
	Priority string `json:"priority" binding:"required,oneof=low normal high emergency"`
}

// ListMaintenanceRequest is the ticket list query
type ListMaintenanceRequest struct {
	dto.ListRequest
	UnitID   string `form:"unit_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=open in_progress resolved cancelled"`
	Priority string `form:"priority" binding:"omitempty,oneof=low normal high emergency"`
}

// Open opens a maintenance ticket.
func (h *MaintenanceHandler) Open(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req OpenMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	input := appleasing.OpenRequestInput{
		BusinessID:  businessID,
		UnitID:      unitID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    leasing.MaintenancePriority(req.Priority),
	}
	if req.TenantID != "" {
		tenantID, err := uuid.Parse(req.TenantID)
		if err != nil {
			h.BadRequest(c, "Invalid tenant ID")
			return
		}
		input.TenantID = &tenantID
	}

	request, err := h.maintenanceService.Open(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, request)
}

// Get gets a maintenance ticket.
func (h *MaintenanceHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	request, err := h.maintenanceService.Get(c.Request.Context(), businessID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// List lists maintenance tickets.
func (h *MaintenanceHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req ListMaintenanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	filter := leasing.MaintenanceFilter{
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
		status := leasing.MaintenanceStatus(req.Status)
		filter.Status = &status
	}
	if req.Priority != "" {
		priority := leasing.MaintenancePriority(req.Priority)
		filter.Priority = &priority
	}

	result, err := h.maintenanceService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Start starts work on a ticket.
func (h *MaintenanceHandler) Start(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var req StartMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	var assignee *uuid.UUID
	if req.AssigneeID != "" {
		id, err := uuid.Parse(req.AssigneeID)
		if err != nil {
			h.BadRequest(c, "Invalid assignee ID")
			return
		}
		assignee = &id
	}

	request, err := h.maintenanceService.Start(c.Request.Context(), businessID, requestID, assignee)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Resolve resolves a ticket.
func (h *MaintenanceHandler) Resolve(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var req ResolveMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	request, err := h.maintenanceService.Resolve(c.Request.Context(), businessID, requestID, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Cancel cancels a ticket.
func (h *MaintenanceHandler) Cancel(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	request, err := h.maintenanceService.Cancel(c.Request.Context(), businessID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Escalate escalates a ticket's priority.
// Priority can only move upward.
func (h *MaintenanceHandler) Escalate(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var req EscalateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	request, err := h.maintenanceService.Escalate(c.Request.Context(), businessID, requestID, leasing.MaintenancePriority(req.Priority))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}
