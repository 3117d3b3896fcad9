package leasing

import (
	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// RentPaymentRecordedEvent is raised when a rent charge is created
type RentPaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID   uuid.UUID     `json:"payment_id"`
	LeaseID     uuid.UUID     `json:"lease_id"`
	AmountCents int64         `json:"amount_cents"`
	Method      PaymentMethod `json:"method"`
}

// EventType returns the event type name
func (e *RentPaymentRecordedEvent) EventType() string {
	return "RentPaymentRecorded"
}

// NewRentPaymentRecordedEvent creates a new RentPaymentRecordedEvent
func NewRentPaymentRecordedEvent(payment *RentPayment) *RentPaymentRecordedEvent {
	return &RentPaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RentPaymentRecorded", "RentPayment", payment.ID, payment.BusinessID),
		PaymentID:       payment.ID,
		LeaseID:         payment.LeaseID,
		AmountCents:     payment.AmountCents,
		Method:          payment.Method,
	}
}

// RentPaymentSettledEvent is raised when a payment clears. Finance posts
// the matching ledger entry off this event.
type RentPaymentSettledEvent struct {
	shared.BaseDomainEvent
	PaymentID        uuid.UUID `json:"payment_id"`
	LeaseID          uuid.UUID `json:"lease_id"`
	AmountCents      int64     `json:"amount_cents"`
	GatewayPaymentID string    `json:"gateway_payment_id,omitempty"`
}

// EventType returns the event type name
func (e *RentPaymentSettledEvent) EventType() string {
	return "RentPaymentSettled"
}

// NewRentPaymentSettledEvent creates a new RentPaymentSettledEvent
func NewRentPaymentSettledEvent(payment *RentPayment) *RentPaymentSettledEvent {
	return &RentPaymentSettledEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("RentPaymentSettled", "RentPayment", payment.ID, payment.BusinessID),
		PaymentID:        payment.ID,
		LeaseID:          payment.LeaseID,
		AmountCents:      payment.AmountCents,
		GatewayPaymentID: payment.GatewayPaymentID,
	}
}

// RentPaymentRefundedEvent is raised when a settled payment is reversed
type RentPaymentRefundedEvent struct {
	shared.BaseDomainEvent
	PaymentID   uuid.UUID `json:"payment_id"`
	LeaseID     uuid.UUID `json:"lease_id"`
	AmountCents int64     `json:"amount_cents"`
}

// EventType returns the event type name
func (e *RentPaymentRefundedEvent) EventType() string {
	return "RentPaymentRefunded"
}

// NewRentPaymentRefundedEvent creates a new RentPaymentRefundedEvent
func NewRentPaymentRefundedEvent(payment *RentPayment) *RentPaymentRefundedEvent {
	return &RentPaymentRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RentPaymentRefunded", "RentPayment", payment.ID, payment.BusinessID),
		PaymentID:       payment.ID,
		LeaseID:         payment.LeaseID,
		AmountCents:     payment.AmountCents,
	}
}

// MaintenanceRequestOpenedEvent is raised when a repair is reported
type MaintenanceRequestOpenedEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID           `json:"request_id"`
	UnitID    uuid.UUID           `json:"unit_id"`
	Priority  MaintenancePriority `json:"priority"`
	Title     string              `json:"title"`
}

// EventType returns the event type name
func (e *MaintenanceRequestOpenedEvent) EventType() string {
	return "MaintenanceRequestOpened"
}

// NewMaintenanceRequestOpenedEvent creates a new MaintenanceRequestOpenedEvent
func NewMaintenanceRequestOpenedEvent(request *MaintenanceRequest) *MaintenanceRequestOpenedEvent {
	return &MaintenanceRequestOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MaintenanceRequestOpened", "MaintenanceRequest", request.ID, request.BusinessID),
		RequestID:       request.ID,
		UnitID:          request.UnitID,
		Priority:        request.Priority,
		Title:           request.Title,
	}
}

// MaintenanceRequestClosedEvent is raised when a request is resolved or cancelled
type MaintenanceRequestClosedEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID         `json:"request_id"`
	UnitID    uuid.UUID         `json:"unit_id"`
	Status    MaintenanceStatus `json:"status"`
}

// EventType returns the event type name
func (e *MaintenanceRequestClosedEvent) EventType() string {
	return "MaintenanceRequestClosed"
}

// NewMaintenanceRequestClosedEvent creates a new MaintenanceRequestClosedEvent
func NewMaintenanceRequestClosedEvent(request *MaintenanceRequest) *MaintenanceRequestClosedEvent {
	return &MaintenanceRequestClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MaintenanceRequestClosed", "MaintenanceRequest", request.ID, request.BusinessID),
		RequestID:       request.ID,
		UnitID:          request.UnitID,
		Status:          request.Status,
	}
}

// ApplicationSubmittedEvent is raised when a rental application arrives
type ApplicationSubmittedEvent struct {
	shared.BaseDomainEvent
	ApplicationID uuid.UUID `json:"application_id"`
	UnitID        uuid.UUID `json:"unit_id"`
	ApplicantName string    `json:"applicant_name"`
}

// EventType returns the event type name
func (e *ApplicationSubmittedEvent) EventType() string {
	return "ApplicationSubmitted"
}

// NewApplicationSubmittedEvent creates a new ApplicationSubmittedEvent
func NewApplicationSubmittedEvent(application *RentalApplication) *ApplicationSubmittedEvent {
	return &ApplicationSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ApplicationSubmitted", "RentalApplication", application.ID, application.BusinessID),
		ApplicationID:   application.ID,
		UnitID:          application.UnitID,
		ApplicantName:   application.ApplicantName,
	}
}

// ApplicationDecidedEvent is raised when an application reaches a final state
type ApplicationDecidedEvent struct {
	shared.BaseDomainEvent
	ApplicationID uuid.UUID         `json:"application_id"`
	UnitID        uuid.UUID         `json:"unit_id"`
	Status        ApplicationStatus `json:"status"`
}

// EventType returns the event type name
func (e *ApplicationDecidedEvent) EventType() string {
	return "ApplicationDecided"
}

// NewApplicationDecidedEvent creates a new ApplicationDecidedEvent
func NewApplicationDecidedEvent(application *RentalApplication) *ApplicationDecidedEvent {
	return &ApplicationDecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ApplicationDecided", "RentalApplication", application.ID, application.BusinessID),
		ApplicationID:   application.ID,
		UnitID:          application.UnitID,
		Status:          application.Status,
	}
}
