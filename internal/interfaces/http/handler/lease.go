package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appleasing "github.com/rentfold/backend/internal/application/leasing"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

// LeaseHandler handles lease HTTP requests
type LeaseHandler struct {
	BaseHandler
	leaseService *appleasing.LeaseService
}

// NewLeaseHandler creates a new lease handler
func NewLeaseHandler(leaseService *appleasing.LeaseService) *LeaseHandler {
	return &LeaseHandler{
		leaseService: leaseService,
	}
}

// CreateLeaseRequest is the lease creation request body. A nil end
// date makes the lease month-to-month.
type CreateLeaseRequest struct {
	UnitID       string     `json:"unit_id" binding:"required,uuid"`
	TenantID     string     `json:"tenant_id" binding:"required,uuid"`
	StartDate    time.Time  `json:"start_date" binding:"required"`
	EndDate      *time.Time `json:"end_date"`
	RentCents    int64      `json:"rent_cents" binding:"required,min=1"`
	DepositCents int64      `json:"deposit_cents" binding:"min=0"`
}

// UpdateLeaseTermsRequest is the draft terms update request body
type UpdateLeaseTermsRequest struct {
	RentCents    int64 `json:"rent_cents" binding:"required,min=1"`
	DepositCents int64 `json:"deposit_cents" binding:"min=0"`
}

// TerminateLeaseRequest is the early termination request body
type TerminateLeaseRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListLeasesRequest is the lease list query
type ListLeasesRequest struct {
	dto.ListRequest
	UnitID   string `form:"unit_id" binding:"omitempty,uuid"`
	TenantID string `form:"tenant_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=draft active ended terminated"`
}

// Create drafts a lease.
// Creates a draft lease for a vacant unit and an active tenant.
func (h *LeaseHandler) Create(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req CreateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	lease, err := h.leaseService.Create(c.Request.Context(), appleasing.CreateLeaseInput{
		BusinessID:   businessID,
		UnitID:       unitID,
		TenantID:     tenantID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		RentCents:    req.RentCents,
		DepositCents: req.DepositCents,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, lease)
}

// Get gets a lease.
func (h *LeaseHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	leaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lease ID")
		return
	}

	lease, err := h.leaseService.Get(c.Request.Context(), businessID, leaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lease)
}

// List lists leases.
func (h *LeaseHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req ListLeasesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	filter := leasing.LeaseFilter{
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
	if req.TenantID != "" {
		tenantID, err := uuid.Parse(req.TenantID)
		if err != nil {
			h.BadRequest(c, "Invalid tenant ID")
			return
		}
		filter.TenantID = &tenantID
	}
	if req.Status != "" {
		status := leasing.LeaseStatus(req.Status)
		filter.Status = &status
	}

	result, err := h.leaseService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateTerms updates draft lease terms.
// Only draft leases can change rent or deposit.
func (h *LeaseHandler) UpdateTerms(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	leaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lease ID")
		return
	}

	var req UpdateLeaseTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	lease, err := h.leaseService.UpdateTerms(c.Request.Context(), businessID, leaseID, req.RentCents, req.DepositCents)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lease)
}

// Activate activates a draft lease.
// Marks the lease active and moves the unit to occupied.
func (h *LeaseHandler) Activate(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	leaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lease ID")
		return
	}

	lease, err := h.leaseService.Activate(c.Request.Context(), businessID, leaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lease)
}

// End ends a lease at term.
// Closes the lease and releases the unit back to vacant.
func (h *LeaseHandler) End(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	leaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lease ID")
		return
	}

	lease, err := h.leaseService.End(c.Request.Context(), businessID, leaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lease)
}

// Terminate terminates a lease early.
func (h *LeaseHandler) Terminate(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	leaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lease ID")
		return
	}

	var req TerminateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	lease, err := h.leaseService.Terminate(c.Request.Context(), businessID, leaseID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lease)
}
