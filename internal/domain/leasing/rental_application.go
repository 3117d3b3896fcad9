package leasing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// ApplicationStatus represents the screening state of a rental application
type ApplicationStatus string

const (
	ApplicationStatusSubmitted ApplicationStatus = "submitted"
	ApplicationStatusScreening ApplicationStatus = "screening"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"
)

// IsValid checks if the status is a valid ApplicationStatus
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusSubmitted, ApplicationStatusScreening, ApplicationStatusApproved,
		ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

// String returns the string representation of ApplicationStatus
func (s ApplicationStatus) String() string {
	return string(s)
}

// IsDecided returns true once the application has reached a final state
func (s ApplicationStatus) IsDecided() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected || s == ApplicationStatusWithdrawn
}

// RentalApplication is a prospective tenant's application for a unit.
// Submissions arrive through the public application link, so every
// applicant field is validated here rather than trusted from upstream.
type RentalApplication struct {
	shared.BusinessAggregateRoot
	UnitID            uuid.UUID         `json:"unit_id"`
	ApplicantName     string            `json:"applicant_name"`
	ApplicantEmail    string            `json:"applicant_email"`
	ApplicantPhone    string            `json:"applicant_phone"`
	MonthlyIncomeCents int64            `json:"monthly_income_cents"`
	MoveInDate        *time.Time        `json:"move_in_date,omitempty"`
	ReferralCode      string            `json:"referral_code,omitempty"`
	Status            ApplicationStatus `json:"status"`
	DecisionNotes     string            `json:"decision_notes,omitempty"`
	DecidedAt         *time.Time        `json:"decided_at,omitempty"`
	IsActive          bool              `json:"is_active"`
}

// NewRentalApplication records a submitted application
func NewRentalApplication(businessID, unitID uuid.UUID, applicantName, applicantEmail, applicantPhone string, monthlyIncomeCents int64) (*RentalApplication, error) {
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit ID cannot be empty")
	}
	if strings.TrimSpace(applicantName) == "" {
		return nil, shared.NewDomainError("INVALID_APPLICANT", "Applicant name is required")
	}
	applicantEmail = strings.ToLower(strings.TrimSpace(applicantEmail))
	if !tenantEmailPattern.MatchString(applicantEmail) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if monthlyIncomeCents < 0 {
		return nil, shared.NewDomainError("INVALID_INCOME", "Income cannot be negative")
	}

	application := &RentalApplication{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		UnitID:                unitID,
		ApplicantName:         strings.TrimSpace(applicantName),
		ApplicantEmail:        applicantEmail,
		ApplicantPhone:        applicantPhone,
		MonthlyIncomeCents:    monthlyIncomeCents,
		Status:                ApplicationStatusSubmitted,
		IsActive:              true,
	}

	application.AddDomainEvent(NewApplicationSubmittedEvent(application))

	return application, nil
}

// AttachReferral records the affiliate code the applicant arrived through
func (a *RentalApplication) AttachReferral(code string) {
	a.ReferralCode = strings.TrimSpace(code)
	a.UpdatedAt = time.Now()
}

// SetMoveInDate records the applicant's desired move-in date
func (a *RentalApplication) SetMoveInDate(date time.Time) error {
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Move-in date cannot be empty")
	}
	a.MoveInDate = &date
	a.UpdatedAt = time.Now()
	return nil
}

// StartScreening moves the application into review
func (a *RentalApplication) StartScreening() error {
	if a.Status != ApplicationStatusSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Only submitted applications can enter screening")
	}

	a.Status = ApplicationStatusScreening
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Approve accepts the application
func (a *RentalApplication) Approve(notes string) error {
	if a.Status != ApplicationStatusScreening {
		return shared.NewDomainError("INVALID_STATE", "Only applications in screening can be approved")
	}

	now := time.Now()
	a.Status = ApplicationStatusApproved
	a.DecisionNotes = notes
	a.DecidedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewApplicationDecidedEvent(a))

	return nil
}

// Reject declines the application
func (a *RentalApplication) Reject(notes string) error {
	if a.Status != ApplicationStatusScreening {
		return shared.NewDomainError("INVALID_STATE", "Only applications in screening can be rejected")
	}
	if notes == "" {
		return shared.NewDomainError("INVALID_NOTES", "Rejection notes are required")
	}

	now := time.Now()
	a.Status = ApplicationStatusRejected
	a.DecisionNotes = notes
	a.DecidedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewApplicationDecidedEvent(a))

	return nil
}

// Withdraw lets the applicant pull their application before a decision
func (a *RentalApplication) Withdraw() error {
	if a.Status.IsDecided() {
		return shared.NewDomainError("INVALID_STATE", "Application is already decided")
	}

	now := time.Now()
	a.Status = ApplicationStatusWithdrawn
	a.DecidedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewApplicationDecidedEvent(a))

	return nil
}
