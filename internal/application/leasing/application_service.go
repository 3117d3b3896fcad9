package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ApplicationService handles rental applications. Submissions come in
// through the public apply link; screening and decisions stay behind auth.
type ApplicationService struct {
	applicationRepo leasing.RentalApplicationRepository
	unitRepo        portfolio.UnitRepository
	logger          *zap.Logger
}

// NewApplicationService creates a new application service
func NewApplicationService(
	applicationRepo leasing.RentalApplicationRepository,
	unitRepo portfolio.UnitRepository,
	logger *zap.Logger,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		unitRepo:        unitRepo,
		logger:          logger,
	}
}

// SubmitApplicationInput contains input for a public submission
type SubmitApplicationInput struct {
	BusinessID         uuid.UUID
	UnitID             uuid.UUID
	ApplicantName      string
	ApplicantEmail     string
	ApplicantPhone     string
	MonthlyIncomeCents int64
	MoveInDate         *time.Time
	ReferralCode       string
}

// Submit files an application for a rentable unit
func (s *ApplicationService) Submit(ctx context.Context, input SubmitApplicationInput) (*leasing.RentalApplication, error) {
	unit, err := s.unitRepo.FindByIDForBusiness(ctx, input.UnitID, input.BusinessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("UNIT_NOT_FOUND", "Unit not found")
		}
		s.logger.Error("Failed to load unit", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load unit")
	}
	if !unit.Status.IsRentable() {
		return nil, shared.NewDomainError("UNIT_NOT_RENTABLE", "Unit is not accepting applications")
	}

	application, err := leasing.NewRentalApplication(input.BusinessID, input.UnitID, input.ApplicantName, input.ApplicantEmail, input.ApplicantPhone, input.MonthlyIncomeCents)
	if err != nil {
		return nil, err
	}

	if input.ReferralCode != "" {
		application.AttachReferral(input.ReferralCode)
	}
	if input.MoveInDate != nil {
		if err := application.SetMoveInDate(*input.MoveInDate); err != nil {
			return nil, err
		}
	}

	if err := s.applicationRepo.Save(ctx, application); err != nil {
		s.logger.Error("Failed to save application", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to submit application")
	}

	s.logger.Info("Rental application submitted",
		zap.String("business_id", input.BusinessID.String()),
		zap.String("application_id", application.ID.String()),
		zap.String("unit_id", input.UnitID.String()))

	return application, nil
}

// Get retrieves an application scoped to a business
func (s *ApplicationService) Get(ctx context.Context, businessID, applicationID uuid.UUID) (*leasing.RentalApplication, error) {
	application, err := s.applicationRepo.FindByIDForBusiness(ctx, applicationID, businessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("APPLICATION_NOT_FOUND", "Application not found")
		}
		s.logger.Error("Failed to load application", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load application")
	}
	return application, nil
}

// List lists applications for a business
func (s *ApplicationService) List(ctx context.Context, businessID uuid.UUID, filter leasing.ApplicationFilter) (*shared.Paginated[*leasing.RentalApplication], error) {
	page, err := s.applicationRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list applications", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list applications")
	}
	return page, nil
}

// StartScreening moves a submitted application into review
func (s *ApplicationService) StartScreening(ctx context.Context, businessID, applicationID uuid.UUID) (*leasing.RentalApplication, error) {
	application, err := s.Get(ctx, businessID, applicationID)
	if err != nil {
		return nil, err
	}

	if err := application.StartScreening(); err != nil {
		return nil, err
	}

	if err := s.applicationRepo.SaveWithLock(ctx, application, application.Version-1); err != nil {
		s.logger.Error("Failed to save screening application", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save application")
	}

	return application, nil
}

// Approve accepts an application in screening
func (s *ApplicationService) Approve(ctx context.Context, businessID, applicationID uuid.UUID, notes string) (*leasing.RentalApplication, error) {
	application, err := s.Get(ctx, businessID, applicationID)
	if err != nil {
		return nil, err
	}

	if err := application.Approve(notes); err != nil {
		return nil, err
	}

	if err := s.applicationRepo.SaveWithLock(ctx, application, application.Version-1); err != nil {
		s.logger.Error("Failed to save approved application", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save application")
	}

	s.logger.Info("Rental application approved", zap.String("application_id", applicationID.String()))

	return application, nil
}

// Reject declines an application. Notes are required so the applicant
// gets a reason.
func (s *ApplicationService) Reject(ctx context.Context, businessID, applicationID uuid.UUID, notes string) (*leasing.RentalApplication, error) {
	application, err := s.Get(ctx, businessID, applicationID)
	if err != nil {
		return nil, err
	}

	if err := application.Reject(notes); err != nil {
		return nil, err
	}

	if err := s.applicationRepo.SaveWithLock(ctx, application, application.Version-1); err != nil {
		s.logger.Error("Failed to save rejected application", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save application")
	}

	return application, nil
}

// Withdraw pulls an application at the applicant's request
func (s *ApplicationService) Withdraw(ctx context.Context, businessID, applicationID uuid.UUID) (*leasing.RentalApplication, error) {
	application, err := s.Get(ctx, businessID, applicationID)
	if err != nil {
		return nil, err
	}

	if err := application.Withdraw(); err != nil {
		return nil, err
	}

	if err := s.applicationRepo.SaveWithLock(ctx, application, application.Version-1); err != nil {
		s.logger.Error("Failed to save withdrawn application", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save application")
	}

	return application, nil
}
