package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*Tenant, error)
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter TenantFilter) (*shared.Paginated[*Tenant], error)
	Save(ctx context.Context, tenant *Tenant) error
	SaveWithLock(ctx context.Context, tenant *Tenant, expectedVersion int) error
	DeleteForBusiness(ctx context.Context, id, businessID uuid.UUID) error
	CountForBusiness(ctx context.Context, businessID uuid.UUID) (int64, error)
}

// TenantFilter defines filtering options for tenant queries
type TenantFilter struct {
	shared.Filter
	UnitID          *uuid.UUID
	IncludeInactive bool
}

// LeaseRepository defines the interface for lease persistence
type LeaseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Lease, error)
	FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*Lease, error)
	FindOpenByUnit(ctx context.Context, unitID uuid.UUID) (*Lease, error)
	FindExpiredActive(ctx context.Context, cutoff time.Time, limit int) ([]*Lease, error)
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter LeaseFilter) (*shared.Paginated[*Lease], error)
	Save(ctx context.Context, lease *Lease) error
	SaveWithLock(ctx context.Context, lease *Lease, expectedVersion int) error
	CountForBusiness(ctx context.Context, businessID uuid.UUID) (int64, error)
}

// LeaseFilter defines filtering options for lease queries
type LeaseFilter struct {
	shared.Filter
	UnitID   *uuid.UUID
	TenantID *uuid.UUID
	Status   *LeaseStatus
}

// RentPaymentRepository defines the interface for rent payment persistence
type RentPaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RentPayment, error)
	FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*RentPayment, error)
	FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*RentPayment, error)
	FindByLease(ctx context.Context, leaseID, businessID uuid.UUID) ([]*RentPayment, error)
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter RentPaymentFilter) (*shared.Paginated[*RentPayment], error)
	Save(ctx context.Context, payment *RentPayment) error
	SaveWithLock(ctx context.Context, payment *RentPayment, expectedVersion int) error
}

// RentPaymentFilter defines filtering options for payment queries
type RentPaymentFilter struct {
	shared.Filter
	LeaseID    *uuid.UUID
	Status     *PaymentStatus
	DueBefore  *time.Time
	DueAfter   *time.Time
}

// MaintenanceRequestRepository defines the interface for maintenance request persistence
type MaintenanceRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MaintenanceRequest, error)
	FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*MaintenanceRequest, error)
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter MaintenanceFilter) (*shared.Paginated[*MaintenanceRequest], error)
	Save(ctx context.Context, request *MaintenanceRequest) error
	SaveWithLock(ctx context.Context, request *MaintenanceRequest, expectedVersion int) error
	CountOpenForBusiness(ctx context.Context, businessID uuid.UUID) (int64, error)
}

// MaintenanceFilter defines filtering options for maintenance queries
type MaintenanceFilter struct {
	shared.Filter
	UnitID   *uuid.UUID
	Status   *MaintenanceStatus
	Priority *MaintenancePriority
}

// RentalApplicationRepository defines the interface for rental application persistence
type RentalApplicationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RentalApplication, error)
	FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*RentalApplication, error)
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter ApplicationFilter) (*shared.Paginated[*RentalApplication], error)
	Save(ctx context.Context, application *RentalApplication) error
	SaveWithLock(ctx context.Context, application *RentalApplication, expectedVersion int) error
}

// ApplicationFilter defines filtering options for application queries
type ApplicationFilter struct {
	shared.Filter
	UnitID       *uuid.UUID
	Status       *ApplicationStatus
	ReferralCode *string
}
