package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// PaymentMethod represents how a rent payment was made
type PaymentMethod string

const (
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodACH   PaymentMethod = "ach"
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodCheck PaymentMethod = "check"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodACH, PaymentMethodCash, PaymentMethodCheck:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentStatus represents the settlement state of a rent payment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// RentPayment records one rent charge against a lease
type RentPayment struct {
	shared.BusinessAggregateRoot
	LeaseID          uuid.UUID     `json:"lease_id"`
	AmountCents      int64         `json:"amount_cents"`
	DueDate          time.Time     `json:"due_date"`
	PaidDate         *time.Time    `json:"paid_date,omitempty"`
	Method           PaymentMethod `json:"method"`
	Status           PaymentStatus `json:"status"`
	GatewayPaymentID string        `json:"gateway_payment_id,omitempty"`
	FailureReason    string        `json:"failure_reason,omitempty"`
	Memo             string        `json:"memo,omitempty"`
	IsActive         bool          `json:"is_active"`
}

// NewRentPayment records a pending rent charge
func NewRentPayment(businessID, leaseID uuid.UUID, amountCents int64, dueDate time.Time, method PaymentMethod) (*RentPayment, error) {
	if leaseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEASE", "Lease ID cannot be empty")
	}
	if amountCents <= 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Invalid payment method")
	}

	payment := &RentPayment{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		LeaseID:               leaseID,
		AmountCents:           amountCents,
		DueDate:               dueDate,
		Method:                method,
		Status:                PaymentStatusPending,
		IsActive:              true,
	}

	payment.AddDomainEvent(NewRentPaymentRecordedEvent(payment))

	return payment, nil
}

// MarkPaid settles the payment
func (p *RentPayment) MarkPaid(paidDate time.Time, gatewayPaymentID string) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending payments can be marked paid")
	}

	p.Status = PaymentStatusPaid
	p.PaidDate = &paidDate
	p.GatewayPaymentID = gatewayPaymentID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewRentPaymentSettledEvent(p))

	return nil
}

// MarkFailed records a failed collection attempt
func (p *RentPayment) MarkFailed(reason string) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending payments can fail")
	}

	p.Status = PaymentStatusFailed
	p.FailureReason = reason
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Refund reverses a settled payment
func (p *RentPayment) Refund() error {
	if p.Status != PaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Only paid payments can be refunded")
	}

	p.Status = PaymentStatusRefunded
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewRentPaymentRefundedEvent(p))

	return nil
}

// Retry returns a failed payment to pending so collection can run again
func (p *RentPayment) Retry() error {
	if p.Status != PaymentStatusFailed {
		return shared.NewDomainError("INVALID_STATE", "Only failed payments can be retried")
	}

	p.Status = PaymentStatusPending
	p.FailureReason = ""
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Overdue reports whether an unpaid payment is past its due date
func (p *RentPayment) Overdue(now time.Time) bool {
	return p.Status == PaymentStatusPending && now.After(p.DueDate)
}
