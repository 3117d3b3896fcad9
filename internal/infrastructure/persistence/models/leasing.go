package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentfold/backend/internal/domain/leasing"
)

// TenantModel is the persistence model for the Tenant aggregate (a renter,
// not the tenancy key; businesses scope everything).
type TenantModel struct {
	BusinessAggregateModel
	FirstName                string `gorm:"type:varchar(100);not null"`
	LastName                 string `gorm:"type:varchar(100);not null"`
	Email                    string `gorm:"type:varchar(200);not null;index"`
	Phone                    string `gorm:"type:varchar(50)"`
	EmergencyContactName     string `gorm:"type:varchar(100)"`
	EmergencyContactPhone    string `gorm:"type:varchar(50)"`
	EmergencyContactRelation string `gorm:"type:varchar(50)"`
	CurrentUnitID            *uuid.UUID `gorm:"type:uuid;index"`
	Notes                    string `gorm:"type:text"`
	IsActive                 bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant aggregate.
func (m *TenantModel) ToDomain() *leasing.Tenant {
	tenant := &leasing.Tenant{
		BusinessAggregateRoot: m.ToDomainBusinessAggregateRoot(),
		FirstName:             m.FirstName,
		LastName:              m.LastName,
		Email:                 m.Email,
		Phone:                 m.Phone,
		CurrentUnitID:         m.CurrentUnitID,
		Notes:                 m.Notes,
		IsActive:              m.IsActive,
	}
	if m.EmergencyContactName != "" {
		tenant.EmergencyContact = &leasing.EmergencyContact{
			Name:     m.EmergencyContactName,
			Phone:    m.EmergencyContactPhone,
			Relation: m.EmergencyContactRelation,
		}
	}
	return tenant
}

// FromDomain populates the persistence model from a domain Tenant aggregate.
func (m *TenantModel) FromDomain(t *leasing.Tenant) {
	m.FromDomainBusinessAggregateRoot(t.BusinessAggregateRoot)
	m.FirstName = t.FirstName
	m.LastName = t.LastName
	m.Email = t.Email
	m.Phone = t.Phone
	if t.EmergencyContact != nil {
		m.EmergencyContactName = t.EmergencyContact.Name
		m.EmergencyContactPhone = t.EmergencyContact.Phone
		m.EmergencyContactRelation = t.EmergencyContact.Relation
	} else {
		m.EmergencyContactName = ""
		m.EmergencyContactPhone = ""
		m.EmergencyContactRelation = ""
	}
	m.CurrentUnitID = t.CurrentUnitID
	m.Notes = t.Notes
	m.IsActive = t.IsActive
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant aggregate.
func TenantModelFromDomain(t *leasing.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

// LeaseModel is the persistence model for the Lease aggregate.
type LeaseModel struct {
	BusinessAggregateModel
	UnitID            uuid.UUID          `gorm:"type:uuid;not null;index"`
	TenantID          uuid.UUID          `gorm:"type:uuid;not null;index"`
	StartDate         time.Time          `gorm:"not null"`
	EndDate           *time.Time         `gorm:"index"`
	RentCents         int64              `gorm:"not null"`
	DepositCents      int64              `gorm:"not null;default:0"`
	MonthToMonth      bool               `gorm:"not null;default:false"`
	Status            leasing.LeaseStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	ActivatedAt       *time.Time
	ClosedAt          *time.Time
	TerminationReason string `gorm:"type:varchar(500)"`
	IsActive          bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (LeaseModel) TableName() string {
	return "leases"
}

// ToDomain converts the persistence model to a domain Lease aggregate.
func (m *LeaseModel) ToDomain() *leasing.Lease {
	return &leasing.Lease{
		BusinessAggregateRoot: m.ToDomainBusinessAggregateRoot(),
		UnitID:                m.UnitID,
		TenantID:              m.TenantID,
		StartDate:             m.StartDate,
		EndDate:               m.EndDate,
		RentCents:             m.RentCents,
		DepositCents:          m.DepositCents,
		MonthToMonth:          m.MonthToMonth,
		Status:                m.Status,
		ActivatedAt:           m.ActivatedAt,
		ClosedAt:              m.ClosedAt,
		TerminationReason:     m.TerminationReason,
		IsActive:              m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Lease aggregate.
func (m *LeaseModel) FromDomain(l *leasing.Lease) {
	m.FromDomainBusinessAggregateRoot(l.BusinessAggregateRoot)
	m.UnitID = l.UnitID
	m.TenantID = l.TenantID
	m.StartDate = l.StartDate
	m.EndDate = l.EndDate
	m.RentCents = l.RentCents
	m.DepositCents = l.DepositCents
	m.MonthToMonth = l.MonthToMonth
	m.Status = l.Status
	m.ActivatedAt = l.ActivatedAt
	m.ClosedAt = l.ClosedAt
	m.TerminationReason = l.TerminationReason
	m.IsActive = l.IsActive
}

// LeaseModelFromDomain creates a new persistence model from a domain Lease aggregate.
func LeaseModelFromDomain(l *leasing.Lease) *LeaseModel {
	m := &LeaseModel{}
	m.FromDomain(l)
	return m
}

// RentPaymentModel is the persistence model for the RentPayment aggregate.
type RentPaymentModel struct {
	BusinessAggregateModel
	LeaseID          uuid.UUID             `gorm:"type:uuid;not null;index"`
	AmountCents      int64                 `gorm:"not null"`
	DueDate          time.Time             `gorm:"not null;index"`
	PaidDate         *time.Time
	Method           leasing.PaymentMethod `gorm:"type:varchar(20);not null"`
	Status           leasing.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	GatewayPaymentID string                `gorm:"type:varchar(100);index"`
	FailureReason    string                `gorm:"type:varchar(500)"`
	Memo             string                `gorm:"type:varchar(500)"`
	IsActive         bool                  `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (RentPaymentModel) TableName() string {
	return "rent_payments"
}

// ToDomain converts the persistence model to a domain RentPayment aggregate.
func (m *RentPaymentModel) ToDomain() *leasing.RentPayment {
	return &leasing.RentPayment{
		BusinessAggregateRoot: m.ToDomainBusinessAggregateRoot(),
		LeaseID:               m.LeaseID,
		AmountCents:           m.AmountCents,
		DueDate:               m.DueDate,
		PaidDate:              m.PaidDate,
		Method:                m.Method,
		Status:                m.Status,
		GatewayPaymentID:      m.GatewayPaymentID,
		FailureReason:         m.FailureReason,
		Memo:                  m.Memo,
		IsActive:              m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain RentPayment aggregate.
func (m *RentPaymentModel) FromDomain(p *leasing.RentPayment) {
	m.FromDomainBusinessAggregateRoot(p.BusinessAggregateRoot)
	m.LeaseID = p.LeaseID
	m.AmountCents = p.AmountCents
	m.DueDate = p.DueDate
	m.PaidDate = p.PaidDate
	m.Method = p.Method
	m.Status = p.Status
	m.GatewayPaymentID = p.GatewayPaymentID
	m.FailureReason = p.FailureReason
	m.Memo = p.Memo
	m.IsActive = p.IsActive
}

// RentPaymentModelFromDomain creates a new persistence model from a domain RentPayment aggregate.
func RentPaymentModelFromDomain(p *leasing.RentPayment) *RentPaymentModel {
	m := &RentPaymentModel{}
	m.FromDomain(p)
	return m
}

// MaintenanceRequestModel is the persistence model for the MaintenanceRequest aggregate.
type MaintenanceRequestModel struct {
	BusinessAggregateModel
	UnitID          uuid.UUID                   `gorm:"type:uuid;not null;index"`
	TenantID        *uuid.UUID                  `gorm:"type:uuid;index"`
	Title           string                      `gorm:"type:varchar(200);not null"`
	Description     string                      `gorm:"type:text"`
	Priority        leasing.MaintenancePriority `gorm:"type:varchar(20);not null;default:'normal'"`
	Status          leasing.MaintenanceStatus   `gorm:"type:varchar(20);not null;default:'open';index"`
	AssignedTo      *uuid.UUID                  `gorm:"type:uuid;index"`
	ResolutionNotes string                      `gorm:"type:text"`
	ResolvedAt      *time.Time
	IsActive        bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (MaintenanceRequestModel) TableName() string {
	return "maintenance_requests"
}

// ToDomain converts the persistence model to a domain MaintenanceRequest aggregate.
func (m *MaintenanceRequestModel) ToDomain() *leasing.MaintenanceRequest {
	return &leasing.MaintenanceRequest{
		BusinessAggregateRoot: m.ToDomainBusinessAggregateRoot(),
		UnitID:                m.UnitID,
		TenantID:              m.TenantID,
		Title:                 m.Title,
		Description:           m.Description,
		Priority:              m.Priority,
		Status:                m.Status,
		AssignedTo:            m.AssignedTo,
		ResolutionNotes:       m.ResolutionNotes,
		ResolvedAt:            m.ResolvedAt,
		IsActive:              m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain MaintenanceRequest aggregate.
func (m *MaintenanceRequestModel) FromDomain(r *leasing.MaintenanceRequest) {
	m.FromDomainBusinessAggregateRoot(r.BusinessAggregateRoot)
	m.UnitID = r.UnitID
	m.TenantID = r.TenantID
	m.Title = r.Title
	m.Description = r.Description
	m.Priority = r.Priority
	m.Status = r.Status
	m.AssignedTo = r.AssignedTo
	m.ResolutionNotes = r.ResolutionNotes
	m.ResolvedAt = r.ResolvedAt
	m.IsActive = r.IsActive
}

// MaintenanceRequestModelFromDomain creates a new persistence model from a domain MaintenanceRequest aggregate.
func MaintenanceRequestModelFromDomain(r *leasing.MaintenanceRequest) *MaintenanceRequestModel {
	m := &MaintenanceRequestModel{}
	m.FromDomain(r)
	return m
}

// RentalApplicationModel is the persistence model for the RentalApplication aggregate.
type RentalApplicationModel struct {
	BusinessAggregateModel
	UnitID             uuid.UUID                 `gorm:"type:uuid;not null;index"`
	ApplicantName      string                    `gorm:"type:varchar(200);not null"`
	ApplicantEmail     string                    `gorm:"type:varchar(200);not null"`
	ApplicantPhone     string                    `gorm:"type:varchar(50)"`
	MonthlyIncomeCents int64                     `gorm:"not null;default:0"`
	MoveInDate         *time.Time
	ReferralCode       string                    `gorm:"type:varchar(50);index"`
	Status             leasing.ApplicationStatus `gorm:"type:varchar(20);not null;default:'submitted';index"`
	DecisionNotes      string                    `gorm:"type:text"`
	DecidedAt          *time.Time
	IsActive           bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (RentalApplicationModel) TableName() string {
	return "rental_applications"
}

// ToDomain converts the persistence model to a domain RentalApplication aggregate.
func (m *RentalApplicationModel) ToDomain() *leasing.RentalApplication {
	return &leasing.RentalApplication{
		BusinessAggregateRoot: m.ToDomainBusinessAggregateRoot(),
		UnitID:                m.UnitID,
		ApplicantName:         m.ApplicantName,
		ApplicantEmail:        m.ApplicantEmail,
		ApplicantPhone:        m.ApplicantPhone,
		MonthlyIncomeCents:    m.MonthlyIncomeCents,
		MoveInDate:            m.MoveInDate,
		ReferralCode:          m.ReferralCode,
		Status:                m.Status,
		DecisionNotes:         m.DecisionNotes,
		DecidedAt:             m.DecidedAt,
		IsActive:              m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain RentalApplication aggregate.
func (m *RentalApplicationModel) FromDomain(a *leasing.RentalApplication) {
	m.FromDomainBusinessAggregateRoot(a.BusinessAggregateRoot)
	m.UnitID = a.UnitID
	m.ApplicantName = a.ApplicantName
	m.ApplicantEmail = a.ApplicantEmail
	m.ApplicantPhone = a.ApplicantPhone
	m.MonthlyIncomeCents = a.MonthlyIncomeCents
	m.MoveInDate = a.MoveInDate
	m.ReferralCode = a.ReferralCode
	m.Status = a.Status
	m.DecisionNotes = a.DecisionNotes
	m.DecidedAt = a.DecidedAt
	m.IsActive = a.IsActive
}

// RentalApplicationModelFromDomain creates a new persistence model from a domain RentalApplication aggregate.
func RentalApplicationModelFromDomain(a *leasing.RentalApplication) *RentalApplicationModel {
	m := &RentalApplicationModel{}
	m.FromDomain(a)
	return m
}
