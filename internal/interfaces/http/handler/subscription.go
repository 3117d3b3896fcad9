package handler

import (
	"github.com/gin-gonic/gin"

	appbilling "github.com/rentfold/backend/internal/application/billing"
	"github.com/rentfold/backend/internal/domain/billing"
)

// SubscriptionHandler handles subscription and entitlement HTTP requests
type SubscriptionHandler struct {
	BaseHandler
	subscriptionService *appbilling.SubscriptionService
	entitlementService  *appbilling.EntitlementService
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(
	subscriptionService *appbilling.SubscriptionService,
	entitlementService *appbilling.EntitlementService,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		entitlementService:  entitlementService,
	}
}

// ChangeTierRequest is the tier change request body
type ChangeTierRequest struct {
	TierCode string `json:"tier_code" binding:"required,oneof=starter growth professional enterprise"`
}

// AddOnRequest names an add-on to purchase or remove
type AddOnRequest struct {
	AddOnKey string `json:"add_on_key" binding:"required,max=64"`
}

// RecordSubscriptionPaymentRequest is the billing payment request body
type RecordSubscriptionPaymentRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,min=1"`
}

// Get gets the current subscription.
func (h *SubscriptionHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	subscription, err := h.subscriptionService.Get(c.Request.Context(), businessID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subscription)
}

// ListTiers lists available plan tiers.
func (h *SubscriptionHandler) ListTiers(c *gin.Context) {
	tiers, err := h.subscriptionService.ListTiers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tiers)
}

// ChangeTier moves the subscription to another tier.
// Downgrades are rejected while current usage exceeds the target tier's limits.
func (h *SubscriptionHandler) ChangeTier(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req ChangeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	subscription, err := h.subscriptionService.ChangeTier(c.Request.Context(), businessID, billing.TierCode(req.TierCode))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subscription)
}

// PurchaseAddOn purchases an add-on.
func (h *SubscriptionHandler) PurchaseAddOn(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req AddOnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	subscription, err := h.subscriptionService.PurchaseAddOn(c.Request.Context(), businessID, req.AddOnKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subscription)
}

// RemoveAddOn removes an add-on.
func (h *SubscriptionHandler) RemoveAddOn(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	key := c.Param("key")
	if key == "" {
		h.BadRequest(c, "Add-on key is required")
		return
	}

	subscription, err := h.subscriptionService.RemoveAddOn(c.Request.Context(), businessID, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subscription)
}

// Cancel cancels the subscription.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	if err := h.subscriptionService.Cancel(c.Request.Context(), businessID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RecordPayment records a billing payment.
// Settles the current period and rolls the subscription forward.
func (h *SubscriptionHandler) RecordPayment(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req RecordSubscriptionPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	subscription, err := h.subscriptionService.RecordPayment(c.Request.Context(), businessID, req.AmountCents)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subscription)
}

// GetEntitlements gets the effective plan summary.
// Reports tier, granted features, and usage against each resource limit.
func (h *SubscriptionHandler) GetEntitlements(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	summary, err := h.entitlementService.GetSummary(c.Request.Context(), businessID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
