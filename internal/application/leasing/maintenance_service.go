package leasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MaintenanceService handles maintenance requests
type MaintenanceService struct {
	requestRepo leasing.MaintenanceRequestRepository
	unitRepo    portfolio.UnitRepository
	logger      *zap.Logger
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	requestRepo leasing.MaintenanceRequestRepository,
	unitRepo portfolio.UnitRepository,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		requestRepo: requestRepo,
		unitRepo:    unitRepo,
		logger:      logger,
	}
}

// OpenRequestInput contains input for opening a maintenance request
type OpenRequestInput struct {
	BusinessID  uuid.UUID
	UnitID      uuid.UUID
	TenantID    *uuid.UUID // Nil when staff report the issue
	Title       string
	Description string
	Priority    leasing.MaintenancePriority
}

// Open files a maintenance request against a unit
func (s *MaintenanceService) Open(ctx context.Context, input OpenRequestInput) (*leasing.MaintenanceRequest, error) {
	if _, err := s.unitRepo.FindByIDForBusiness(ctx, input.UnitID, input.BusinessID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("UNIT_NOT_FOUND", "Unit not found")
		}
		s.logger.Error("Failed to load unit", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load unit")
	}

	request, err := leasing.NewMaintenanceRequest(input.BusinessID, input.UnitID, input.TenantID, input.Title, input.Description, input.Priority)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, request); err != nil {
		s.logger.Error("Failed to save maintenance request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to open maintenance request")
	}

	s.logger.Info("Maintenance request opened",
		zap.String("business_id", input.BusinessID.String()),
		zap.String("request_id", request.ID.String()),
		zap.String("priority", input.Priority.String()))

	return request, nil
}

// Get retrieves a request scoped to a business
func (s *MaintenanceService) Get(ctx context.Context, businessID, requestID uuid.UUID) (*leasing.MaintenanceRequest, error) {
	request, err := s.requestRepo.FindByIDForBusiness(ctx, requestID, businessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("REQUEST_NOT_FOUND", "Maintenance request not found")
		}
		s.logger.Error("Failed to load maintenance request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load maintenance request")
	}
	return request, nil
}

// List lists maintenance requests for a business
func (s *MaintenanceService) List(ctx context.Context, businessID uuid.UUID, filter leasing.MaintenanceFilter) (*shared.Paginated[*leasing.MaintenanceRequest], error) {
	page, err := s.requestRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list maintenance requests", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list maintenance requests")
	}
	return page, nil
}

// CountOpen counts the unresolved requests of a business
func (s *MaintenanceService) CountOpen(ctx context.Context, businessID uuid.UUID) (int64, error) {
	count, err := s.requestRepo.CountOpenForBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("Failed to count open requests", zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to count open requests")
	}
	return count, nil
}

// Start moves a request into progress, optionally assigning a worker
func (s *MaintenanceService) Start(ctx context.Context, businessID, requestID uuid.UUID, assignee *uuid.UUID) (*leasing.MaintenanceRequest, error) {
	request, err := s.Get(ctx, businessID, requestID)
	if err != nil {
		return nil, err
	}

	if err := request.Start(assignee); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request, request.Version-1); err != nil {
		s.logger.Error("Failed to save started request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save maintenance request")
	}

	return request, nil
}

// Resolve closes a request with resolution notes
func (s *MaintenanceService) Resolve(ctx context.Context, businessID, requestID uuid.UUID, notes string) (*leasing.MaintenanceRequest, error) {
	request, err := s.Get(ctx, businessID, requestID)
	if err != nil {
		return nil, err
	}

	if err := request.Resolve(notes); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request, request.Version-1); err != nil {
		s.logger.Error("Failed to save resolved request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save maintenance request")
	}

	s.logger.Info("Maintenance request resolved", zap.String("request_id", requestID.String()))

	return request, nil
}

// Cancel withdraws a request
func (s *MaintenanceService) Cancel(ctx context.Context, businessID, requestID uuid.UUID) (*leasing.MaintenanceRequest, error) {
	request, err := s.Get(ctx, businessID, requestID)
	if err != nil {
		return nil, err
	}

	if err := request.Cancel(); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request, request.Version-1); err != nil {
		s.logger.Error("Failed to save cancelled request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save maintenance request")
	}

	return request, nil
}

// Escalate raises a request's priority
func (s *MaintenanceService) Escalate(ctx context.Context, businessID, requestID uuid.UUID, priority leasing.MaintenancePriority) (*leasing.MaintenanceRequest, error) {
	request, err := s.Get(ctx, businessID, requestID)
	if err != nil {
		return nil, err
	}

	if err := request.Escalate(priority); err != nil {
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request, request.Version-1); err != nil {
		s.logger.Error("Failed to save escalated request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save maintenance request")
	}

	s.logger.Info("Maintenance request escalated",
		zap.String("request_id", requestID.String()),
		zap.String("priority", priority.String()))

	return request, nil
}
