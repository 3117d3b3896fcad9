package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/payment"
)

// chargeIdempotencyTTL is how long a charge idempotency key is held.
// Square itself dedupes for 24 hours, so we mirror that window.
const chargeIdempotencyTTL = 24 * time.Hour

// PaymentGateway is the slice of the Square adapter the charge handler needs
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req *payment.CreatePaymentRequest) (*payment.PaymentResult, error)
}

// GatewayFactory builds a gateway from credentials in the platform
// settings table. Credentials are fetched per request so rotations
// take effect without a restart.
type GatewayFactory func(ctx context.Context) (PaymentGateway, error)

// NewSquareGatewayFactory builds the production factory backed by the
// platform settings store
func NewSquareGatewayFactory(source payment.CredentialSource) GatewayFactory {
	return func(ctx context.Context) (PaymentGateway, error) {
		cfg, err := payment.LoadSquareConfig(ctx, source)
		if err != nil {
			return nil, err
		}
		return payment.NewSquareAdapter(cfg)
	}
}

// SquarePaymentHandler accepts tokenized card charges and forwards them
// to Square. It deliberately speaks a minimal contract: gateway failure
// detail is logged server-side and never returned to the client.
type SquarePaymentHandler struct {
	gatewayFactory GatewayFactory
	idempotency    shared.IdempotencyStore
	logger         *zap.Logger
}

// NewSquarePaymentHandler creates a new Square charge handler
func NewSquarePaymentHandler(gatewayFactory GatewayFactory, idempotency shared.IdempotencyStore, logger *zap.Logger) *SquarePaymentHandler {
	return &SquarePaymentHandler{
		gatewayFactory: gatewayFactory,
		idempotency:    idempotency,
		logger:         logger,
	}
}

// ChargeRequest is the payment charge request body
type ChargeRequest struct {
	BusinessID     string `json:"business_id" binding:"required,uuid"`
	AmountCents    int64  `json:"amount_cents" binding:"required,min=1"`
	Currency       string `json:"currency" binding:"required,len=3"`
	SourceID       string `json:"source_id" binding:"required"`
	IdempotencyKey string `json:"idempotency_key" binding:"required,max=64"`
	ReferenceID    string `json:"reference_id" binding:"omitempty,uuid"`
	BuyerEmail     string `json:"buyer_email" binding:"omitempty,email"`
}

// ChargeResponse is the simplified success contract
type ChargeResponse struct {
	Success   bool   `json:"success"`
	PaymentID string `json:"payment_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Charge forwards a tokenized card charge to Square using credentials
// from platform settings. A key is remembered only once its charge got
// a definitive answer from the gateway; until then the client may retry
// with the same key, and Square's own idempotency makes the retry safe.
func (h *SquarePaymentHandler) Charge(c *gin.Context) {
	var req ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ChargeResponse{Error: "Invalid request"})
		return
	}

	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ChargeResponse{Error: "Invalid request"})
		return
	}

	ctx := c.Request.Context()

	idempotencyKey := "charge:" + req.IdempotencyKey
	seen, err := h.idempotency.IsProcessed(ctx, idempotencyKey)
	if err != nil {
		h.logger.Error("Charge idempotency check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ChargeResponse{Error: "Payment could not be processed"})
		return
	}
	if seen {
		c.JSON(http.StatusConflict, ChargeResponse{Error: "Duplicate payment request"})
		return
	}

	gateway, err := h.gatewayFactory(ctx)
	if err != nil {
		h.logger.Error("Payment gateway unavailable", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ChargeResponse{Error: "Payment could not be processed"})
		return
	}

	result, err := gateway.CreatePayment(ctx, &payment.CreatePaymentRequest{
		IdempotencyKey: req.IdempotencyKey,
		SourceID:       req.SourceID,
		AmountCents:    req.AmountCents,
		Currency:       req.Currency,
		ReferenceID:    req.ReferenceID,
		BuyerEmail:     req.BuyerEmail,
	})
	if err != nil {
		// The key stays unmarked so a retry with the same key reaches
		// the gateway again instead of bouncing off a 409.
		h.logger.Error("Square charge failed",
			zap.String("business_id", businessID.String()),
			zap.Int64("amount_cents", req.AmountCents),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, ChargeResponse{Error: "Payment could not be processed"})
		return
	}

	if _, err := h.idempotency.MarkProcessed(ctx, idempotencyKey, chargeIdempotencyTTL); err != nil {
		h.logger.Warn("Failed to record charge idempotency key", zap.Error(err))
	}

	h.logger.Info("Square charge accepted",
		zap.String("business_id", businessID.String()),
		zap.String("gateway_payment_id", result.GatewayPaymentID),
		zap.Int64("amount_cents", result.AmountCents))

	c.JSON(http.StatusOK, ChargeResponse{
		Success:   true,
		PaymentID: result.GatewayPaymentID,
		Status:    string(result.Status),
	})
}
