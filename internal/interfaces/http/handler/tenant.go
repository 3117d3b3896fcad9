package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appleasing "github.com/rentfold/backend/internal/application/leasing"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

// TenantHandler handles renter record HTTP requests
type TenantHandler struct {
	BaseHandler
	tenantService *appleasing.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *appleasing.TenantService) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
	}
}

// CreateTenantRequest is the tenant creation request body
type CreateTenantRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" binding:"omitempty,max=32"`
}

// UpdateTenantContactRequest is the contact update request body
type UpdateTenantContactRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,max=32"`
}

// EmergencyContactRequest is the emergency contact request body
type EmergencyContactRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Phone    string `json:"phone" binding:"required,max=32"`
	Relation string `json:"relation" binding:"omitempty,max=50"`
}

// ListTenantsRequest is the tenant list query
type ListTenantsRequest struct {
	dto.ListRequest
	UnitID          string `form:"unit_id" binding:"omitempty,uuid"`
	IncludeInactive bool   `form:"include_inactive"`
}

// Create adds a renter.
// Creates a tenant record. Fails with 429 when the plan's tenant limit is reached.
func (h *TenantHandler) Create(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	tenant, err := h.tenantService.Create(c.Request.Context(), appleasing.CreateTenantInput{
		BusinessID: businessID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tenant)
}

// Get gets a renter.
func (h *TenantHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	tenant, err := h.tenantService.Get(c.Request.Context(), businessID, tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// List lists renters.
func (h *TenantHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req ListTenantsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	filter := leasing.TenantFilter{
		Filter:          toSharedFilter(req.ListRequest),
		IncludeInactive: req.IncludeInactive,
	}
	if req.UnitID != "" {
		unitID, err := uuid.Parse(req.UnitID)
		if err != nil {
			h.BadRequest(c, "Invalid unit ID")
			return
		}
		filter.UnitID = &unitID
	}

	result, err := h.tenantService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateContact updates a renter's contact details.
func (h *TenantHandler) UpdateContact(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req UpdateTenantContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	tenant, err := h.tenantService.UpdateContact(c.Request.Context(), businessID, tenantID, req.Email, req.Phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// SetEmergencyContact sets a renter's emergency contact.
func (h *TenantHandler) SetEmergencyContact(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req EmergencyContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	tenant, err := h.tenantService.SetEmergencyContact(c.Request.Context(), appleasing.EmergencyContactInput{
		BusinessID: businessID,
		TenantID:   tenantID,
		Name:       req.Name,
		Phone:      req.Phone,
		Relation:   req.Relation,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Deactivate deactivates a renter record.
// Fails while the renter still has an open lease.
func (h *TenantHandler) Deactivate(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	if err := h.tenantService.Deactivate(c.Request.Context(), businessID, tenantID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
