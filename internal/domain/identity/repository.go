package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// BusinessFilter defines filtering options for business queries
type BusinessFilter struct {
	shared.Filter
	Status          *BusinessStatus
	ReferralCode    *string
	IncludeInactive bool
}

// BusinessRepository defines the interface for business persistence
type BusinessRepository interface {
	// FindByID finds a business by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Business, error)

	// FindBySlug finds a business by its unique slug
	FindBySlug(ctx context.Context, slug string) (*Business, error)

	// FindAll lists businesses (super-admin)
	FindAll(ctx context.Context, filter BusinessFilter) ([]*Business, error)

	// Save creates or updates a business
	Save(ctx context.Context, business *Business) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, business *Business, expectedVersion int) error

	// Count counts businesses matching a filter (super-admin stats)
	Count(ctx context.Context, filter BusinessFilter) (int64, error)

	// ExistsBySlug checks slug uniqueness
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// UserFilter defines filtering options for user queries
type UserFilter struct {
	shared.Filter
	Role            *UserRole
	Status          *UserStatus
	IncludeInactive bool
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email (platform-wide unique)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAllForBusiness lists users belonging to a business
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter UserFilter) ([]*User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, user *User, expectedVersion int) error

	// ExistsByEmail checks email uniqueness
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CountForBusiness counts users in a business
	CountForBusiness(ctx context.Context, businessID uuid.UUID, filter UserFilter) (int64, error)
}
