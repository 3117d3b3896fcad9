package identity

import (
	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

func userEventBusinessID(u *User) uuid.UUID {
	if u.BusinessID != nil {
		return *u.BusinessID
	}
	return uuid.Nil
}

// UserCreatedEvent is raised when a new user account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email        string   `json:"email"`
	Role         UserRole `json:"role"`
	IsSuperAdmin bool     `json:"is_super_admin"`
}

// EventType returns the event type name
func (e *UserCreatedEvent) EventType() string {
	return "UserCreated"
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserCreated", "User", u.ID, userEventBusinessID(u)),
		Email:           u.Email,
		Role:            u.Role,
		IsSuperAdmin:    u.IsSuperAdmin,
	}
}

// UserPasswordChangedEvent is raised when a password changes
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// EventType returns the event type name
func (e *UserPasswordChangedEvent) EventType() string {
	return "UserPasswordChanged"
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(u *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserPasswordChanged", "User", u.ID, userEventBusinessID(u)),
		Email:           u.Email,
	}
}

// UserDeactivatedEvent is raised when an account is disabled
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// EventType returns the event type name
func (e *UserDeactivatedEvent) EventType() string {
	return "UserDeactivated"
}

// NewUserDeactivatedEvent creates a new UserDeactivatedEvent
func NewUserDeactivatedEvent(u *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserDeactivated", "User", u.ID, userEventBusinessID(u)),
		Email:           u.Email,
	}
}
