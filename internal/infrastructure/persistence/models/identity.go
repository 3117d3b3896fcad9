package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentfold/backend/internal/domain/identity"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/domain/shared/valueobject"
)

// BusinessModel is the persistence model for the Business aggregate.
type BusinessModel struct {
	AggregateModel
	Name           string                  `gorm:"type:varchar(200);not null"`
	Slug           string                  `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status         identity.BusinessStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	OnboardingStep identity.OnboardingStep `gorm:"type:varchar(20);not null;default:'business'"`
	ContactName    string                  `gorm:"type:varchar(100)"`
	ContactPhone   string                  `gorm:"type:varchar(50)"`
	ContactEmail   string                  `gorm:"type:varchar(200);not null"`
	Address        valueobject.Address     `gorm:"type:jsonb"`
	ReferralCode   string                  `gorm:"type:varchar(50);index"`
	LogoURL        string                  `gorm:"type:varchar(500)"`
	Notes          string                  `gorm:"type:text"`
	IsActive       bool                    `gorm:"not null;default:true"`
	SuspendedAt    *time.Time
	CancelledAt    *time.Time
}

// TableName returns the table name for GORM
func (BusinessModel) TableName() string {
	return "businesses"
}

// ToDomain converts the persistence model to a domain Business aggregate.
func (m *BusinessModel) ToDomain() *identity.Business {
	return &identity.Business{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Name:           m.Name,
		Slug:           m.Slug,
		Status:         m.Status,
		OnboardingStep: m.OnboardingStep,
		ContactName:    m.ContactName,
		ContactPhone:   m.ContactPhone,
		ContactEmail:   m.ContactEmail,
		Address:        m.Address,
		ReferralCode:   m.ReferralCode,
		LogoURL:        m.LogoURL,
		Notes:          m.Notes,
		IsActive:       m.IsActive,
		SuspendedAt:    m.SuspendedAt,
		CancelledAt:    m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain Business aggregate.
func (m *BusinessModel) FromDomain(b *identity.Business) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Name = b.Name
	m.Slug = b.Slug
	m.Status = b.Status
	m.OnboardingStep = b.OnboardingStep
	m.ContactName = b.ContactName
	m.ContactPhone = b.ContactPhone
	m.ContactEmail = b.ContactEmail
	m.Address = b.Address
	m.ReferralCode = b.ReferralCode
	m.LogoURL = b.LogoURL
	m.Notes = b.Notes
	m.IsActive = b.IsActive
	m.SuspendedAt = b.SuspendedAt
	m.CancelledAt = b.CancelledAt
}

// BusinessModelFromDomain creates a new persistence model from a domain Business aggregate.
func BusinessModelFromDomain(b *identity.Business) *BusinessModel {
	m := &BusinessModel{}
	m.FromDomain(b)
	return m
}

// UserModel is the persistence model for the User aggregate. BusinessID is
// nullable: super admins belong to the platform, not a business.
type UserModel struct {
	AggregateModel
	BusinessID        *uuid.UUID          `gorm:"type:uuid;index"`
	Email             string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash      string              `gorm:"type:varchar(200);not null"`
	DisplayName       string              `gorm:"type:varchar(100)"`
	Role              identity.UserRole   `gorm:"type:varchar(20);not null;default:'staff'"`
	Status            identity.UserStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	IsSuperAdmin      bool                `gorm:"not null;default:false"`
	LastLoginAt       *time.Time
	LastLoginIP       string `gorm:"type:varchar(50)"`
	FailedAttempts    int    `gorm:"not null;default:0"`
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
	IsActive          bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User aggregate.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		BusinessID:        m.BusinessID,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		DisplayName:       m.DisplayName,
		Role:              m.Role,
		Status:            m.Status,
		IsSuperAdmin:      m.IsSuperAdmin,
		LastLoginAt:       m.LastLoginAt,
		LastLoginIP:       m.LastLoginIP,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
		PasswordChangedAt: m.PasswordChangedAt,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain User aggregate.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.BusinessID = u.BusinessID
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Role = u.Role
	m.Status = u.Status
	m.IsSuperAdmin = u.IsSuperAdmin
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
	m.PasswordChangedAt = u.PasswordChangedAt
	m.IsActive = u.IsActive
}

// UserModelFromDomain creates a new persistence model from a domain User aggregate.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
