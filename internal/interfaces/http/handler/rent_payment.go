package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appleasing "github.com/rentfold/backend/internal/application/leasing"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

// RentPaymentHandler handles rent payment HTTP requests
type RentPaymentHandler struct {
	BaseHandler
	paymentService *appleasing.RentPaymentService
}

// NewRentPaymentHandler creates a new rent payment handler
func NewRentPaymentHandler(paymentService *appleasing.RentPaymentService) *RentPaymentHandler {
	return &RentPaymentHandler{
		paymentService: paymentService,
	}
}

// RecordPaymentRequest is the payment record request body
type RecordPaymentRequest struct {
	LeaseID     string    `json:"lease_id" binding:"required,uuid"`
	AmountCents int64     `json:"amount_cents" binding:"required,min=1"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	Method      string    `json:"method" binding:"required,oneof=card ach cash check"`
	Memo        string    `json:"memo" binding:"max=500"`
}

// MarkPaymentPaidRequest is the manual settlement request body
type MarkPaymentPaidRequest struct {
	PaidDate time.Time `json:"paid_date" binding:"required"`
}

// MarkPaymentFailedRequest is the failure record request body
type MarkPaymentFailedRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListPaymentsRequest is the payment list query
type ListPaymentsRequest struct {
	dto.ListRequest
	LeaseID   string     `form:"lease_id" binding:"omitempty,uuid"`
	Status    string     `form:"status" binding:"omitempty,oneof=pending paid failed refunded"`
	DueBefore *time.Time `form:"due_before" time_format:"2006-01-02"`
	DueAfter  *time.Time `form:"due_after" time_format:"2006-01-02"`
}

// Record records an expected rent payment.
func (h *RentPaymentHandler) Record(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	leaseID, err := uuid.Parse(req.LeaseID)
	if err != nil {
		h.BadRequest(c, "Invalid lease ID")
		return
	}

	payment, err := h.paymentService.Record(c.Request.Context(), appleasing.RecordPaymentInput{
		BusinessID:  businessID,
		LeaseID:     leaseID,
		AmountCents: req.AmountCents,
		DueDate:     req.DueDate,
		Method:      leasing.PaymentMethod(req.Method),
		Memo:        req.Memo,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, payment)
}

// Get gets a rent payment.
func (h *RentPaymentHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.Get(c.Request.Context(), businessID, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// List lists rent payments.
func (h *RentPaymentHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	filter := leasing.RentPaymentFilter{
		Filter:    toSharedFilter(req.ListRequest),
		DueBefore: req.DueBefore,
		DueAfter:  req.DueAfter,
	}
	if req.LeaseID != "" {
		leaseID, err := uuid.Parse(req.LeaseID)
		if err != nil {
			h.BadRequest(c, "Invalid lease ID")
			return
		}
		filter.LeaseID = &leaseID
	}
	if req.Status != "" {
		status := leasing.PaymentStatus(req.Status)
		filter.Status = &status
	}

	result, err := h.paymentService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListByLease lists payments of one lease.
func (h *RentPaymentHandler) ListByLease(c *gin.Context) {
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

	payments, err := h.paymentService.ListByLease(c.Request.Context(), businessID, leaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payments)
}

// MarkPaid settles a payment manually.
// Used for cash and check collections taken outside the gateway.
func (h *RentPaymentHandler) MarkPaid(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	var req MarkPaymentPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.paymentService.MarkPaid(c.Request.Context(), businessID, paymentID, req.PaidDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// MarkFailed records a failed collection attempt.
func (h *RentPaymentHandler) MarkFailed(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	var req MarkPaymentFailedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.paymentService.MarkFailed(c.Request.Context(), businessID, paymentID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// Retry resets a failed payment to pending.
func (h *RentPaymentHandler) Retry(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.Retry(c.Request.Context(), businessID, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// Refund refunds a settled payment.
func (h *RentPaymentHandler) Refund(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.Refund(c.Request.Context(), businessID, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}
