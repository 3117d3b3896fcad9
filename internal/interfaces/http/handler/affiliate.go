package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appaffiliate "github.com/rentfold/backend/internal/application/affiliate"
	"github.com/rentfold/backend/internal/domain/affiliate"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

// AffiliateHandler handles affiliate program HTTP requests. Affiliates
// are platform-level, so these routes sit behind the super-admin gate.
type AffiliateHandler struct {
	BaseHandler
	affiliateService *appaffiliate.AffiliateService
}

// NewAffiliateHandler creates a new affiliate handler
func NewAffiliateHandler(affiliateService *appaffiliate.AffiliateService) *AffiliateHandler {
	return &AffiliateHandler{
		affiliateService: affiliateService,
	}
}

// RegisterAffiliateRequest is the affiliate registration request body
type RegisterAffiliateRequest struct {
	Name           string          `json:"name" binding:"required,max=200"`
	Email          string          `json:"email" binding:"required,email"`
	Phone          string          `json:"phone" binding:"omitempty,max=32"`
	ReferralCode   string          `json:"referral_code" binding:"required,min=4,max=32"`
	CommissionRate decimal.Decimal `json:"commission_rate" binding:"required"`
	PayoutDetails  string          `json:"payout_details" binding:"max=1000"`
}

// SetCommissionRateRequest is the commission change request body
type SetCommissionRateRequest struct {
	CommissionRate decimal.Decimal `json:"commission_rate" binding:"required"`
}

// ListAffiliatesRequest is the affiliate list query
type ListAffiliatesRequest struct {
	dto.ListRequest
	Status          string `form:"status" binding:"omitempty,oneof=active suspended closed"`
	IncludeInactive bool   `form:"include_inactive"`
}

// ListReferralsRequest is the referral list query
type ListReferralsRequest struct {
	dto.ListRequest
	Converted      *bool `form:"converted"`
	PayoutApproved *bool `form:"payout_approved"`
}

// Register registers an affiliate.
func (h *AffiliateHandler) Register(c *gin.Context) {
	var req RegisterAffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.affiliateService.Register(c.Request.Context(), appaffiliate.RegisterAffiliateInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		ReferralCode:   req.ReferralCode,
		CommissionRate: req.CommissionRate,
		PayoutDetails:  req.PayoutDetails,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get gets an affiliate.
func (h *AffiliateHandler) Get(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID")
		return
	}

	result, err := h.affiliateService.Get(c.Request.Context(), affiliateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List lists affiliates.
func (h *AffiliateHandler) List(c *gin.Context) {
	var req ListAffiliatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	filter := affiliate.AffiliateFilter{
		Filter:          toSharedFilter(req.ListRequest),
		IncludeInactive: req.IncludeInactive,
	}
	if req.Status != "" {
		status := affiliate.AffiliateStatus(req.Status)
		filter.Status = &status
	}

	result, err := h.affiliateService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// SetCommissionRate changes an affiliate's commission rate.
func (h *AffiliateHandler) SetCommissionRate(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID")
		return
	}

	var req SetCommissionRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.affiliateService.SetCommissionRate(c.Request.Context(), affiliateID, req.CommissionRate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Suspend suspends an affiliate.
func (h *AffiliateHandler) Suspend(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID")
		return
	}

	result, err := h.affiliateService.Suspend(c.Request.Context(), affiliateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Reinstate reinstates a suspended affiliate.
func (h *AffiliateHandler) Reinstate(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID")
		return
	}

	result, err := h.affiliateService.Reinstate(c.Request.Context(), affiliateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Close closes an affiliate account.
func (h *AffiliateHandler) Close(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID")
		return
	}

	result, err := h.affiliateService.Close(c.Request.Context(), affiliateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ApprovePayout approves a converted referral's payout.
func (h *AffiliateHandler) ApprovePayout(c *gin.Context) {
	referralID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid referral ID")
		return
	}

	referral, err := h.affiliateService.ApprovePayout(c.Request.Context(), referralID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, referral)
}

// ListReferrals lists an affiliate's referrals.
func (h *AffiliateHandler) ListReferrals(c *gin.Context) {
	affiliateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid affiliate ID")
		return
	}

	var req ListReferralsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	result, err := h.affiliateService.ListReferrals(c.Request.Context(), affiliateID, affiliate.ReferralFilter{
		Filter:         toSharedFilter(req.ListRequest),
		Converted:      req.Converted,
		PayoutApproved: req.PayoutApproved,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
