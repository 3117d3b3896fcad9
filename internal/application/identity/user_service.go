package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/identity"
	"github.com/rentfold/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService manages the staff accounts of a business
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create adds a user to a business
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*identity.User, error) {
	taken, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if taken {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	}

	user, err := identity.NewUser(input.BusinessID, input.Email, input.Password, input.Role)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != "" {
		if err := user.SetDisplayName(input.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	s.logger.Info("User created",
		zap.String("business_id", input.BusinessID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", input.Role.String()))

	return user, nil
}

// Get retrieves a user scoped to a business
func (s *UserService) Get(ctx context.Context, businessID, userID uuid.UUID) (*identity.User, error) {
	user, err := s.findForBusiness(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List lists the users of a business
func (s *UserService) List(ctx context.Context, businessID uuid.UUID, filter identity.UserFilter) ([]*identity.User, int64, error) {
	users, err := s.userRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	total, err := s.userRepo.CountForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return nil, 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to count users")
	}

	return users, total, nil
}

// AssignRole changes a user's role within their business
func (s *UserService) AssignRole(ctx context.Context, input AssignRoleInput) (*identity.User, error) {
	user, err := s.findForBusiness(ctx, input.BusinessID, input.UserID)
	if err != nil {
		return nil, err
	}

	if user.Role == identity.UserRoleOwner && input.Role != identity.UserRoleOwner {
		// The last owner keeps the keys
		count, err := s.countOwners(ctx, input.BusinessID)
		if err != nil {
			return nil, err
		}
		if count <= 1 {
			return nil, shared.NewDomainError("LAST_OWNER", "A business must keep at least one owner")
		}
	}

	if err := user.AssignRole(input.Role); err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveWithLock(ctx, user, user.Version-1); err != nil {
		s.logger.Error("Failed to save user role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save user")
	}

	s.logger.Info("User role assigned",
		zap.String("user_id", input.UserID.String()),
		zap.String("role", input.Role.String()))

	return user, nil
}

// ResetPassword sets a new password without the old one (admin action)
func (s *UserService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	user, err := s.findForBusiness(ctx, input.BusinessID, input.UserID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.SaveWithLock(ctx, user, user.Version-1); err != nil {
		s.logger.Error("Failed to save user after password reset", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save user")
	}

	s.logger.Info("User password reset", zap.String("user_id", input.UserID.String()))

	return nil
}

// Deactivate disables a user account
func (s *UserService) Deactivate(ctx context.Context, businessID, userID uuid.UUID) error {
	user, err := s.findForBusiness(ctx, businessID, userID)
	if err != nil {
		return err
	}

	if user.Role == identity.UserRoleOwner {
		count, err := s.countOwners(ctx, businessID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return shared.NewDomainError("LAST_OWNER", "A business must keep at least one owner")
		}
	}

	if err := user.Deactivate(); err != nil {
		return err
	}

	if err := s.userRepo.SaveWithLock(ctx, user, user.Version-1); err != nil {
		s.logger.Error("Failed to save deactivated user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save user")
	}

	s.logger.Info("User deactivated", zap.String("user_id", userID.String()))

	return nil
}

// Unlock clears a login lock before its window expires
func (s *UserService) Unlock(ctx context.Context, businessID, userID uuid.UUID) error {
	user, err := s.findForBusiness(ctx, businessID, userID)
	if err != nil {
		return err
	}

	user.Unlock()

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save unlocked user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save user")
	}

	s.logger.Info("User unlocked", zap.String("user_id", userID.String()))

	return nil
}

// findForBusiness loads a user and verifies they belong to the business.
// Super admins are never reachable through business-scoped management.
func (s *UserService) findForBusiness(ctx context.Context, businessID, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user")
	}

	if user.BusinessID == nil || *user.BusinessID != businessID {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	return user, nil
}

func (s *UserService) countOwners(ctx context.Context, businessID uuid.UUID) (int64, error) {
	role := identity.UserRoleOwner
	count, err := s.userRepo.CountForBusiness(ctx, businessID, identity.UserFilter{Role: &role})
	if err != nil {
		s.logger.Error("Failed to count owners", zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to count owners")
	}
	return count, nil
}
