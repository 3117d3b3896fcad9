package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appleasing "github.com/rentfold/backend/internal/application/leasing"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/payment"
)

const (
	// squareSignatureHeader carries the HMAC of the webhook body
	squareSignatureHeader = "X-Square-HmacSha256-Signature"

	// webhookIdempotencyTTL is how long delivered event IDs are remembered
	webhookIdempotencyTTL = 24 * time.Hour

	// webhookMaxBodyBytes caps webhook payload size
	webhookMaxBodyBytes = 64 * 1024
)

// WebhookParser is the slice of the Square adapter the webhook handler needs
type WebhookParser interface {
	ParseWebhookEvent(payload []byte, signature string) (*payment.WebhookEvent, error)
}

// WebhookParserFactory builds a parser from credentials in the platform
// settings table
type WebhookParserFactory func(ctx context.Context) (WebhookParser, error)

// NewSquareWebhookParserFactory builds the production factory backed by
// the platform settings store
func NewSquareWebhookParserFactory(source payment.CredentialSource) WebhookParserFactory {
	return func(ctx context.Context) (WebhookParser, error) {
		cfg, err := payment.LoadSquareConfig(ctx, source)
		if err != nil {
			return nil, err
		}
		return payment.NewSquareAdapter(cfg)
	}
}

// SquareWebhookHandler settles rent payments from Square webhook
// deliveries. Deliveries are replayed by Square until acknowledged, so
// every path that is not our fault answers 200.
type SquareWebhookHandler struct {
	parserFactory  WebhookParserFactory
	paymentService *appleasing.RentPaymentService
	paymentRepo    leasing.RentPaymentRepository
	idempotency    shared.IdempotencyStore
	logger         *zap.Logger
}

// NewSquareWebhookHandler creates a new Square webhook handler
func NewSquareWebhookHandler(
	parserFactory WebhookParserFactory,
	paymentService *appleasing.RentPaymentService,
	paymentRepo leasing.RentPaymentRepository,
	idempotency shared.IdempotencyStore,
	logger *zap.Logger,
) *SquareWebhookHandler {
	return &SquareWebhookHandler{
		parserFactory:  parserFactory,
		paymentService: paymentService,
		paymentRepo:    paymentRepo,
		idempotency:    idempotency,
		logger:         logger,
	}
}

// HandleEvent verifies the delivery signature, dedupes by event ID, and
// settles or fails the referenced rent payment.
func (h *SquareWebhookHandler) HandleEvent(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, webhookMaxBodyBytes))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	ctx := c.Request.Context()

	parser, err := h.parserFactory(ctx)
	if err != nil {
		h.logger.Error("Webhook credentials unavailable", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	event, err := parser.ParseWebhookEvent(body, c.GetHeader(squareSignatureHeader))
	if err != nil {
		h.logger.Warn("Rejected Square webhook", zap.Error(err))
		c.Status(http.StatusUnauthorized)
		return
	}

	idempotencyKey := "square:event:" + event.EventID
	seen, err := h.idempotency.IsProcessed(ctx, idempotencyKey)
	if err != nil {
		h.logger.Error("Webhook idempotency check failed", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	if seen {
		// Replay of an event we already handled
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	if err := h.applyEvent(ctx, event); err != nil {
		// Answer 500 without recording the event ID so Square's
		// redelivery gets another shot at the settlement.
		h.logger.Error("Failed to apply Square webhook",
			zap.String("event_id", event.EventID),
			zap.String("gateway_payment_id", event.GatewayPaymentID),
			zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	// Recorded only after the event applied. A failure here just means a
	// redelivery re-applies the event, which SettleGatewayPayment already
	// treats as a no-op.
	if _, err := h.idempotency.MarkProcessed(ctx, idempotencyKey, webhookIdempotencyTTL); err != nil {
		h.logger.Warn("Failed to record webhook event ID", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// applyEvent routes a verified event to the payment service. Events
// that do not reference one of our payments are acknowledged and
// dropped.
func (h *SquareWebhookHandler) applyEvent(ctx context.Context, event *payment.WebhookEvent) error {
	if event.ReferenceID == "" {
		h.logger.Info("Square event without reference, ignoring",
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.EventType))
		return nil
	}

	paymentID, err := uuid.Parse(event.ReferenceID)
	if err != nil {
		h.logger.Warn("Square event with malformed reference, ignoring",
			zap.String("event_id", event.EventID),
			zap.String("reference_id", event.ReferenceID))
		return nil
	}

	// The webhook carries no business scope; resolve it from the payment
	rentPayment, err := h.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if err == shared.ErrNotFound {
			h.logger.Warn("Square event references unknown payment, ignoring",
				zap.String("payment_id", paymentID.String()))
			return nil
		}
		return err
	}

	switch event.Status {
	case payment.GatewayPaymentStatusCompleted, payment.GatewayPaymentStatusApproved:
		_, err = h.paymentService.SettleGatewayPayment(ctx, appleasing.SettleGatewayPaymentInput{
			BusinessID:       rentPayment.BusinessID,
			PaymentID:        rentPayment.ID,
			GatewayPaymentID: event.GatewayPaymentID,
			PaidDate:         event.CreatedAt,
		})
		return err
	case payment.GatewayPaymentStatusFailed, payment.GatewayPaymentStatusCanceled:
		_, err = h.paymentService.MarkFailed(ctx, rentPayment.BusinessID, rentPayment.ID,
			"Gateway reported "+string(event.Status))
		return err
	default:
		// Pending and other interim states carry no action
		return nil
	}
}
