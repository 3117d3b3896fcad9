package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/rentfold/backend/internal/application/identity"
	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/identity"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

// SuperAdminHandler handles platform operator HTTP requests
type SuperAdminHandler struct {
	BaseHandler
	superAdminService *appidentity.SuperAdminService
}

// NewSuperAdminHandler creates a new super admin handler
func NewSuperAdminHandler(superAdminService *appidentity.SuperAdminService) *SuperAdminHandler {
	return &SuperAdminHandler{
		superAdminService: superAdminService,
	}
}

// SuspendBusinessRequest is the suspension request body
type SuspendBusinessRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// OverrideTierRequest is the tier override request body
type OverrideTierRequest struct {
	TierCode string `json:"tier_code" binding:"required,oneof=starter growth professional enterprise"`
}

// ListAllBusinessesRequest is the cross-business directory query
type ListAllBusinessesRequest struct {
	dto.ListRequest
	Status          string `form:"status" binding:"omitempty,oneof=pending active suspended cancelled"`
	ReferralCode    string `form:"referral_code" binding:"omitempty,max=32"`
	IncludeInactive bool   `form:"include_inactive"`
}

// Stats gets platform-wide statistics.
func (h *SuperAdminHandler) Stats(c *gin.Context) {
	stats, err := h.superAdminService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// ListBusinesses lists businesses across the platform.
func (h *SuperAdminHandler) ListBusinesses(c *gin.Context) {
	var req ListAllBusinessesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	filter := identity.BusinessFilter{
		Filter:          toSharedFilter(req.ListRequest),
		IncludeInactive: req.IncludeInactive,
	}
	if req.Status != "" {
		status := identity.BusinessStatus(req.Status)
		filter.Status = &status
	}
	if req.ReferralCode != "" {
		filter.ReferralCode = &req.ReferralCode
	}

	businesses, total, err := h.superAdminService.ListBusinesses(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, businesses, total, req.Page, req.PageSize)
}

// SuspendBusiness suspends a business.
func (h *SuperAdminHandler) SuspendBusiness(c *gin.Context) {
	businessID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	var req SuspendBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.superAdminService.SuspendBusiness(c.Request.Context(), businessID, req.Reason); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ReinstateBusiness reinstates a suspended business.
func (h *SuperAdminHandler) ReinstateBusiness(c *gin.Context) {
	businessID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	if err := h.superAdminService.ReinstateBusiness(c.Request.Context(), businessID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// OverrideTier overrides a business's subscription tier.
// Bypasses downgrade usage checks; for support escalations.
func (h *SuperAdminHandler) OverrideTier(c *gin.Context) {
	businessID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	var req OverrideTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	subscription, err := h.superAdminService.OverrideTier(c.Request.Context(), businessID, billing.TierCode(req.TierCode))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subscription)
}
