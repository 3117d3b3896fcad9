package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/domain/shared/valueobject"
)

// BusinessStatus represents the status of a business account
type BusinessStatus string

const (
	BusinessStatusPending   BusinessStatus = "pending"   // Signed up, onboarding not finished
	BusinessStatusActive    BusinessStatus = "active"    // Normal operating status
	BusinessStatusSuspended BusinessStatus = "suspended" // Suspended by platform operators
	BusinessStatusCancelled BusinessStatus = "cancelled" // Closed account
)

// IsValid checks if the status is a valid BusinessStatus
func (s BusinessStatus) IsValid() bool {
	switch s {
	case BusinessStatusPending, BusinessStatusActive, BusinessStatusSuspended, BusinessStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of BusinessStatus
func (s BusinessStatus) String() string {
	return string(s)
}

// OnboardingStep is the explicit state of the signup wizard. The flow is
// strictly linear: business -> property -> unit -> done.
type OnboardingStep string

const (
	OnboardingStepBusiness OnboardingStep = "business"
	OnboardingStepProperty OnboardingStep = "property"
	OnboardingStepUnit     OnboardingStep = "unit"
	OnboardingStepDone     OnboardingStep = "done"
)

// IsValid checks if the step is a valid OnboardingStep
func (s OnboardingStep) IsValid() bool {
	switch s {
	case OnboardingStepBusiness, OnboardingStepProperty, OnboardingStepUnit, OnboardingStepDone:
		return true
	}
	return false
}

// String returns the string representation of OnboardingStep
func (s OnboardingStep) String() string {
	return string(s)
}

// Next returns the step that follows this one. Done is terminal.
func (s OnboardingStep) Next() OnboardingStep {
	switch s {
	case OnboardingStepBusiness:
		return OnboardingStepProperty
	case OnboardingStepProperty:
		return OnboardingStepUnit
	case OnboardingStepUnit:
		return OnboardingStepDone
	}
	return OnboardingStepDone
}

// Business represents a property-management company: the tenant-owning
// entity of the platform. Every business-scoped record carries its ID.
type Business struct {
	shared.BaseAggregateRoot
	Name           string              `gorm:"type:varchar(200);not null"`
	Slug           string              `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status         BusinessStatus      `gorm:"type:varchar(20);not null;default:'pending'"`
	OnboardingStep OnboardingStep      `gorm:"type:varchar(20);not null;default:'business'"`
	ContactName    string              `gorm:"type:varchar(100)"`
	ContactPhone   string              `gorm:"type:varchar(50)"`
	ContactEmail   string              `gorm:"type:varchar(200);not null"`
	Address        valueobject.Address `gorm:"type:jsonb"`
	ReferralCode   string              `gorm:"type:varchar(50);index"` // Affiliate code used at signup
	LogoURL        string              `gorm:"type:varchar(500)"`
	Notes          string              `gorm:"type:text"`
	IsActive       bool                `gorm:"not null;default:true"`
	SuspendedAt    *time.Time
	CancelledAt    *time.Time
}

// TableName returns the table name for GORM
func (Business) TableName() string {
	return "businesses"
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func validateBusinessName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_BUSINESS_NAME", "Business name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_BUSINESS_NAME", "Business name cannot exceed 200 characters")
	}
	return nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(slug) > 100 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 100 characters")
	}
	if !slugPattern.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug must be lowercase letters, digits and hyphens")
	}
	return nil
}

// NewBusiness registers a new business in pending status at the first
// onboarding step.
func NewBusiness(name, slug, contactEmail string) (*Business, error) {
	if err := validateBusinessName(name); err != nil {
		return nil, err
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if contactEmail == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Contact email cannot be empty")
	}
	if len(contactEmail) > 200 {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Contact email cannot exceed 200 characters")
	}

	business := &Business{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Status:            BusinessStatusPending,
		OnboardingStep:    OnboardingStepBusiness,
		ContactEmail:      contactEmail,
		IsActive:          true,
	}

	business.AddDomainEvent(NewBusinessRegisteredEvent(business))

	return business, nil
}

// AttachReferralCode records the affiliate code used at signup. It can only
// be set once, while onboarding is still in progress.
func (b *Business) AttachReferralCode(code string) error {
	if b.ReferralCode != "" {
		return shared.NewDomainError("INVALID_STATE", "Referral code is already set")
	}
	if b.OnboardingStep == OnboardingStepDone {
		return shared.NewDomainError("INVALID_STATE", "Referral code can only be attached during onboarding")
	}
	if code == "" || len(code) > 50 {
		return shared.NewDomainError("INVALID_REFERRAL_CODE", "Referral code must be 1-50 characters")
	}

	b.ReferralCode = code
	b.touch()

	return nil
}

// AdvanceOnboarding moves the wizard to the next step. Completing the last
// step activates the business.
func (b *Business) AdvanceOnboarding() error {
	if b.OnboardingStep == OnboardingStepDone {
		return shared.NewDomainError("INVALID_STATE", "Onboarding is already complete")
	}
	if b.Status == BusinessStatusSuspended || b.Status == BusinessStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot advance onboarding on a suspended or cancelled business")
	}

	b.OnboardingStep = b.OnboardingStep.Next()
	if b.OnboardingStep == OnboardingStepDone && b.Status == BusinessStatusPending {
		b.Status = BusinessStatusActive
		b.AddDomainEvent(NewBusinessActivatedEvent(b))
	}
	b.touch()

	return nil
}

// UpdateProfile updates the business's display information
func (b *Business) UpdateProfile(name string, address valueobject.Address, logoURL string) error {
	if err := validateBusinessName(name); err != nil {
		return err
	}
	if len(logoURL) > 500 {
		return shared.NewDomainError("INVALID_LOGO_URL", "Logo URL cannot exceed 500 characters")
	}

	b.Name = name
	b.Address = address
	b.LogoURL = logoURL
	b.touch()
	b.AddDomainEvent(NewBusinessUpdatedEvent(b))

	return nil
}

// SetContact sets the business's contact information
func (b *Business) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email == "" || len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Contact email must be 1-200 characters")
	}

	b.ContactName = contactName
	b.ContactPhone = phone
	b.ContactEmail = email
	b.touch()

	return nil
}

// Suspend blocks the business (platform operator action)
func (b *Business) Suspend(reason string) error {
	if b.Status == BusinessStatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Business is already suspended")
	}
	if b.Status == BusinessStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot suspend a cancelled business")
	}

	now := time.Now()
	b.Status = BusinessStatusSuspended
	b.SuspendedAt = &now
	if reason != "" {
		b.Notes = reason
	}
	b.touch()
	b.AddDomainEvent(NewBusinessSuspendedEvent(b, reason))

	return nil
}

// Reinstate restores a suspended business to active
func (b *Business) Reinstate() error {
	if b.Status != BusinessStatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Only suspended businesses can be reinstated")
	}

	b.Status = BusinessStatusActive
	b.SuspendedAt = nil
	b.touch()

	return nil
}

// Cancel closes the account permanently
func (b *Business) Cancel() error {
	if b.Status == BusinessStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Business is already cancelled")
	}

	now := time.Now()
	b.Status = BusinessStatusCancelled
	b.CancelledAt = &now
	b.IsActive = false
	b.touch()
	b.AddDomainEvent(NewBusinessCancelledEvent(b))

	return nil
}

// IsOperational returns true if the business can use the product
func (b *Business) IsOperational() bool {
	return b.IsActive && (b.Status == BusinessStatusActive || b.Status == BusinessStatusPending)
}

func (b *Business) touch() {
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}
