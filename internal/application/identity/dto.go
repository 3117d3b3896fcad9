package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/identity"
	"github.com/rentfold/backend/internal/domain/shared/valueobject"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID           uuid.UUID
	BusinessID   *uuid.UUID // Nil for super admins
	Email        string
	DisplayName  string
	Role         string
	IsSuperAdmin bool
	LastLoginAt  *time.Time
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration // Remaining access token lifetime
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// GetCurrentUserInput contains the input for getting current user info
type GetCurrentUserInput struct {
	UserID uuid.UUID
}

// RegisterBusinessInput contains the input for business signup
type RegisterBusinessInput struct {
	BusinessName string
	Slug         string
	ContactEmail string
	OwnerEmail   string
	Password     string
	ReferralCode string // Optional affiliate code
}

// RegisterBusinessResult contains the result of a business signup
type RegisterBusinessResult struct {
	Business *identity.Business
	Owner    UserInfo
}

// UpdateBusinessProfileInput contains the input for profile updates
type UpdateBusinessProfileInput struct {
	BusinessID uuid.UUID
	Name       string
	Address    valueobject.Address
	LogoURL    string
}

// SetBusinessContactInput contains the input for contact updates
type SetBusinessContactInput struct {
	BusinessID   uuid.UUID
	ContactName  string
	ContactPhone string
	ContactEmail string
}

// CreateUserInput contains the input for adding a user to a business
type CreateUserInput struct {
	BusinessID  uuid.UUID
	Email       string
	Password    string
	DisplayName string
	Role        identity.UserRole
}

// AssignRoleInput contains the input for a role change
type AssignRoleInput struct {
	BusinessID uuid.UUID
	UserID     uuid.UUID
	Role       identity.UserRole
}

// ResetPasswordInput contains the input for an admin password reset
type ResetPasswordInput struct {
	BusinessID  uuid.UUID
	UserID      uuid.UUID
	NewPassword string
}
