package payment

import (
	"errors"
	"time"
)

// GatewayPaymentStatus represents the lifecycle state of a gateway payment
type GatewayPaymentStatus string

const (
	GatewayPaymentStatusPending   GatewayPaymentStatus = "PENDING"
	GatewayPaymentStatusCompleted GatewayPaymentStatus = "COMPLETED"
	GatewayPaymentStatusApproved  GatewayPaymentStatus = "APPROVED"
	GatewayPaymentStatusCanceled  GatewayPaymentStatus = "CANCELED"
	GatewayPaymentStatusFailed    GatewayPaymentStatus = "FAILED"
)

// Request validation errors
var (
	ErrPaymentMissingSourceID       = errors.New("square: missing payment source ID")
	ErrPaymentMissingIdempotencyKey = errors.New("square: missing idempotency key")
	ErrPaymentInvalidAmount         = errors.New("square: amount must be positive")
	ErrRefundMissingPaymentID       = errors.New("square: missing gateway payment ID")
)

// CreatePaymentRequest describes a charge to create at the gateway.
// AmountCents is in the smallest currency unit.
type CreatePaymentRequest struct {
	IdempotencyKey string
	SourceID       string // Card nonce or token from the Square web SDK
	AmountCents    int64
	Currency       string
	ReferenceID    string // Our rent payment ID, echoed back in webhooks
	Note           string
	BuyerEmail     string
}

// Validate checks the request before sending it to the gateway
func (r *CreatePaymentRequest) Validate() error {
	if r.SourceID == "" {
		return ErrPaymentMissingSourceID
	}
	if r.IdempotencyKey == "" {
		return ErrPaymentMissingIdempotencyKey
	}
	if r.AmountCents <= 0 {
		return ErrPaymentInvalidAmount
	}
	return nil
}

// PaymentResult is the normalized outcome of a gateway payment operation
type PaymentResult struct {
	GatewayPaymentID string
	Status           GatewayPaymentStatus
	AmountCents      int64
	Currency         string
	ReferenceID      string
	ReceiptURL       string
	CreatedAt        time.Time
	RawResponse      string
}

// RefundRequest describes a refund of a completed gateway payment
type RefundRequest struct {
	IdempotencyKey   string
	GatewayPaymentID string
	AmountCents      int64
	Currency         string
	Reason           string
}

// Validate checks the refund request
func (r *RefundRequest) Validate() error {
	if r.GatewayPaymentID == "" {
		return ErrRefundMissingPaymentID
	}
	if r.IdempotencyKey == "" {
		return ErrPaymentMissingIdempotencyKey
	}
	if r.AmountCents <= 0 {
		return ErrPaymentInvalidAmount
	}
	return nil
}

// RefundResult is the normalized outcome of a refund operation
type RefundResult struct {
	GatewayRefundID  string
	GatewayPaymentID string
	Status           GatewayPaymentStatus
	AmountCents      int64
	Currency         string
	RawResponse      string
}

// WebhookEvent is a parsed Square webhook delivery
type WebhookEvent struct {
	EventID          string
	EventType        string // e.g. "payment.updated"
	GatewayPaymentID string
	Status           GatewayPaymentStatus
	AmountCents      int64
	Currency         string
	ReferenceID      string
	CreatedAt        time.Time
	RawPayload       string
}

// --- Square wire types ---

type squareMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type squarePayment struct {
	ID          string      `json:"id"`
	Status      string      `json:"status"`
	AmountMoney squareMoney `json:"amount_money"`
	ReferenceID string      `json:"reference_id,omitempty"`
	ReceiptURL  string      `json:"receipt_url,omitempty"`
	CreatedAt   string      `json:"created_at,omitempty"`
}

type squareCreatePaymentRequest struct {
	IdempotencyKey string      `json:"idempotency_key"`
	SourceID       string      `json:"source_id"`
	AmountMoney    squareMoney `json:"amount_money"`
	LocationID     string      `json:"location_id"`
	ReferenceID    string      `json:"reference_id,omitempty"`
	Note           string      `json:"note,omitempty"`
	BuyerEmail     string      `json:"buyer_email_address,omitempty"`
}

type squarePaymentResponse struct {
	Payment squarePayment `json:"payment"`
}

type squareRefund struct {
	ID          string      `json:"id"`
	Status      string      `json:"status"`
	PaymentID   string      `json:"payment_id"`
	AmountMoney squareMoney `json:"amount_money"`
}

type squareCreateRefundRequest struct {
	IdempotencyKey string      `json:"idempotency_key"`
	PaymentID      string      `json:"payment_id"`
	AmountMoney    squareMoney `json:"amount_money"`
	Reason         string      `json:"reason,omitempty"`
}

type squareRefundResponse struct {
	Refund squareRefund `json:"refund"`
}

type squareError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

type squareErrorResponse struct {
	Errors []squareError `json:"errors"`
}

type squareWebhookEnvelope struct {
	EventID   string `json:"event_id"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
	Data      struct {
		Object struct {
			Payment squarePayment `json:"payment"`
		} `json:"object"`
	} `json:"data"`
}

// mapSquarePaymentStatus maps a Square payment status to our status
func mapSquarePaymentStatus(status string) GatewayPaymentStatus {
	switch status {
	case "COMPLETED":
		return GatewayPaymentStatusCompleted
	case "APPROVED":
		return GatewayPaymentStatusApproved
	case "CANCELED":
		return GatewayPaymentStatusCanceled
	case "FAILED":
		return GatewayPaymentStatusFailed
	default:
		return GatewayPaymentStatusPending
	}
}

// mapSquareRefundStatus maps a Square refund status to our status
func mapSquareRefundStatus(status string) GatewayPaymentStatus {
	switch status {
	case "COMPLETED":
		return GatewayPaymentStatusCompleted
	case "REJECTED", "FAILED":
		return GatewayPaymentStatusFailed
	default:
		return GatewayPaymentStatusPending
	}
}
