package leasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EntitlementChecker gates resource creation on the business's plan. The
// billing entitlement service implements it.
type EntitlementChecker interface {
	CheckResourceCreation(ctx context.Context, businessID uuid.UUID, resource billing.LimitedResource) error
}

// TenantService handles renter records
type TenantService struct {
	tenantRepo   leasing.TenantRepository
	entitlements EntitlementChecker
	logger       *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantRepo leasing.TenantRepository,
	entitlements EntitlementChecker,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo:   tenantRepo,
		entitlements: entitlements,
		logger:       logger,
	}
}

// CreateTenantInput contains input for tenant creation
type CreateTenantInput struct {
	BusinessID uuid.UUID
	FirstName  string
	LastName   string
	Email      string
	Phone      string
}

// EmergencyContactInput contains input for the emergency contact
type EmergencyContactInput struct {
	BusinessID uuid.UUID
	TenantID   uuid.UUID
	Name       string
	Phone      string
	Relation   string
}

// Create creates a tenant. The plan limit is checked before anything
// is written.
func (s *TenantService) Create(ctx context.Context, input CreateTenantInput) (*leasing.Tenant, error) {
	if err := s.entitlements.CheckResourceCreation(ctx, input.BusinessID, billing.ResourceTenant); err != nil {
		return nil, err
	}

	tenant, err := leasing.NewTenant(input.BusinessID, input.FirstName, input.LastName, input.Email, input.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to save tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create tenant")
	}

	s.logger.Info("Tenant created",
		zap.String("business_id", input.BusinessID.String()),
		zap.String("tenant_id", tenant.ID.String()))

	return tenant, nil
}

// Get retrieves a tenant scoped to a business
func (s *TenantService) Get(ctx context.Context, businessID, tenantID uuid.UUID) (*leasing.Tenant, error) {
	tenant, err := s.tenantRepo.FindByIDForBusiness(ctx, tenantID, businessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		s.logger.Error("Failed to load tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load tenant")
	}
	return tenant, nil
}

// List lists tenants for a business
func (s *TenantService) List(ctx context.Context, businessID uuid.UUID, filter leasing.TenantFilter) (*shared.Paginated[*leasing.Tenant], error) {
	page, err := s.tenantRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list tenants", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list tenants")
	}
	return page, nil
}

// UpdateContact updates a tenant's contact details
func (s *TenantService) UpdateContact(ctx context.Context, businessID, tenantID uuid.UUID, email, phone string) (*leasing.Tenant, error) {
	tenant, err := s.Get(ctx, businessID, tenantID)
	if err != nil {
		return nil, err
	}

	if err := tenant.UpdateContact(email, phone); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.SaveWithLock(ctx, tenant, tenant.Version-1); err != nil {
		s.logger.Error("Failed to save tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save tenant")
	}

	return tenant, nil
}

// SetEmergencyContact sets a tenant's emergency contact
func (s *TenantService) SetEmergencyContact(ctx context.Context, input EmergencyContactInput) (*leasing.Tenant, error) {
	tenant, err := s.Get(ctx, input.BusinessID, input.TenantID)
	if err != nil {
		return nil, err
	}

	if err := tenant.SetEmergencyContact(input.Name, input.Phone, input.Relation); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.SaveWithLock(ctx, tenant, tenant.Version-1); err != nil {
		s.logger.Error("Failed to save tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save tenant")
	}

	return tenant, nil
}

// Deactivate soft deletes a tenant. Tenants occupying a unit are refused
// at the domain level.
func (s *TenantService) Deactivate(ctx context.Context, businessID, tenantID uuid.UUID) error {
	tenant, err := s.Get(ctx, businessID, tenantID)
	if err != nil {
		return err
	}

	if err := tenant.Deactivate(); err != nil {
		return err
	}

	if err := s.tenantRepo.SaveWithLock(ctx, tenant, tenant.Version-1); err != nil {
		s.logger.Error("Failed to save deactivated tenant", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save tenant")
	}

	s.logger.Info("Tenant deactivated",
		zap.String("business_id", businessID.String()),
		zap.String("tenant_id", tenantID.String()))

	return nil
}
