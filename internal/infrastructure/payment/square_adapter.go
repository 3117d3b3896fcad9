package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	squareAPIBaseURL        = "https://connect.squareup.com"
	squareSandboxAPIBaseURL = "https://connect.squareupsandbox.com"
	squareAPIVersion        = "2024-06-04"
	squareCreatePaymentPath = "/v2/payments"
	squareGetPaymentPath    = "/v2/payments/%s"
	squareCreateRefundPath  = "/v2/refunds"
)

// Gateway errors
var (
	ErrGatewayUnavailable      = errors.New("square: gateway unavailable")
	ErrGatewayRequestFailed    = errors.New("square: gateway request failed")
	ErrInvalidWebhookSignature = errors.New("square: invalid webhook signature")
	ErrInvalidWebhookPayload   = errors.New("square: invalid webhook payload")
)

// SquareAdapter talks to the Square Payments API
type SquareAdapter struct {
	config     *SquareConfig
	baseURL    string
	httpClient *http.Client
}

// NewSquareAdapter creates a new Square adapter. The API host follows
// the configured environment unless overridden for tests.
func NewSquareAdapter(config *SquareConfig) (*SquareAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL := squareAPIBaseURL
	if config.Environment == "sandbox" {
		baseURL = squareSandboxAPIBaseURL
	}

	return &SquareAdapter{
		config:  config,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// SetBaseURL overrides the API host. Intended for tests.
func (a *SquareAdapter) SetBaseURL(baseURL string) {
	a.baseURL = baseURL
}

// CreatePayment charges a card source at the gateway
func (a *SquareAdapter) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*PaymentResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	body := squareCreatePaymentRequest{
		IdempotencyKey: req.IdempotencyKey,
		SourceID:       req.SourceID,
		AmountMoney: squareMoney{
			Amount:   req.AmountCents,
			Currency: currency,
		},
		LocationID:  a.config.LocationID,
		ReferenceID: req.ReferenceID,
		Note:        req.Note,
		BuyerEmail:  req.BuyerEmail,
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("square: failed to marshal request: %w", err)
	}

	respBody, err := a.doRequest(ctx, "POST", squareCreatePaymentPath, bodyBytes)
	if err != nil {
		return nil, err
	}

	var respData squarePaymentResponse
	if err := json.Unmarshal(respBody, &respData); err != nil {
		return nil, fmt.Errorf("square: failed to parse response: %w", err)
	}

	return paymentResultFrom(&respData.Payment, respBody), nil
}

// GetPayment fetches the current state of a gateway payment
func (a *SquareAdapter) GetPayment(ctx context.Context, gatewayPaymentID string) (*PaymentResult, error) {
	if gatewayPaymentID == "" {
		return nil, ErrRefundMissingPaymentID
	}

	path := fmt.Sprintf(squareGetPaymentPath, gatewayPaymentID)

	respBody, err := a.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var respData squarePaymentResponse
	if err := json.Unmarshal(respBody, &respData); err != nil {
		return nil, fmt.Errorf("square: failed to parse response: %w", err)
	}

	return paymentResultFrom(&respData.Payment, respBody), nil
}

// CreateRefund refunds a completed gateway payment
func (a *SquareAdapter) CreateRefund(ctx context.Context, req *RefundRequest) (*RefundResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	body := squareCreateRefundRequest{
		IdempotencyKey: req.IdempotencyKey,
		PaymentID:      req.GatewayPaymentID,
		AmountMoney: squareMoney{
			Amount:   req.AmountCents,
			Currency: currency,
		},
		Reason: req.Reason,
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("square: failed to marshal request: %w", err)
	}

	respBody, err := a.doRequest(ctx, "POST", squareCreateRefundPath, bodyBytes)
	if err != nil {
		return nil, err
	}

	var respData squareRefundResponse
	if err := json.Unmarshal(respBody, &respData); err != nil {
		return nil, fmt.Errorf("square: failed to parse response: %w", err)
	}

	return &RefundResult{
		GatewayRefundID:  respData.Refund.ID,
		GatewayPaymentID: respData.Refund.PaymentID,
		Status:           mapSquareRefundStatus(respData.Refund.Status),
		AmountCents:      respData.Refund.AmountMoney.Amount,
		Currency:         respData.Refund.AmountMoney.Currency,
		RawResponse:      string(respBody),
	}, nil
}

// VerifyWebhookSignature checks the x-square-hmacsha256-signature header.
// Square signs base64(HMAC-SHA256(notification_url + body)).
func (a *SquareAdapter) VerifyWebhookSignature(payload []byte, signature string) bool {
	if a.config.WebhookSignatureKey == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(a.config.WebhookSignatureKey))
	mac.Write([]byte(a.config.NotificationURL))
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseWebhookEvent verifies and parses a webhook delivery
func (a *SquareAdapter) ParseWebhookEvent(payload []byte, signature string) (*WebhookEvent, error) {
	if !a.VerifyWebhookSignature(payload, signature) {
		return nil, ErrInvalidWebhookSignature
	}

	var envelope squareWebhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhookPayload, err)
	}
	if envelope.EventID == "" || envelope.Type == "" {
		return nil, ErrInvalidWebhookPayload
	}

	event := &WebhookEvent{
		EventID:          envelope.EventID,
		EventType:        envelope.Type,
		GatewayPaymentID: envelope.Data.Object.Payment.ID,
		Status:           mapSquarePaymentStatus(envelope.Data.Object.Payment.Status),
		AmountCents:      envelope.Data.Object.Payment.AmountMoney.Amount,
		Currency:         envelope.Data.Object.Payment.AmountMoney.Currency,
		ReferenceID:      envelope.Data.Object.Payment.ReferenceID,
		RawPayload:       string(payload),
	}

	if envelope.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, envelope.CreatedAt); err == nil {
			event.CreatedAt = t
		}
	}

	return event, nil
}

// doRequest performs an HTTP request to the Square API
func (a *SquareAdapter) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	url := a.baseURL + path

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("square: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.config.AccessToken)
	req.Header.Set("Square-Version", squareAPIVersion)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("square: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp squareErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && len(errResp.Errors) > 0 {
			first := errResp.Errors[0]
			return nil, fmt.Errorf("%w: %s - %s", ErrGatewayRequestFailed, first.Code, first.Detail)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrGatewayRequestFailed, resp.StatusCode)
	}

	return respBody, nil
}

func paymentResultFrom(payment *squarePayment, raw []byte) *PaymentResult {
	result := &PaymentResult{
		GatewayPaymentID: payment.ID,
		Status:           mapSquarePaymentStatus(payment.Status),
		AmountCents:      payment.AmountMoney.Amount,
		Currency:         payment.AmountMoney.Currency,
		ReferenceID:      payment.ReferenceID,
		ReceiptURL:       payment.ReceiptURL,
		RawResponse:      string(raw),
	}
	if payment.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, payment.CreatedAt); err == nil {
			result.CreatedAt = t
		}
	}
	return result
}
