package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RentPaymentService handles rent charges and their settlement
type RentPaymentService struct {
	paymentRepo leasing.RentPaymentRepository
	leaseRepo   leasing.LeaseRepository
	logger      *zap.Logger
}

// NewRentPaymentService creates a new rent payment service
func NewRentPaymentService(
	paymentRepo leasing.RentPaymentRepository,
	leaseRepo leasing.LeaseRepository,
	logger *zap.Logger,
) *RentPaymentService {
	return &RentPaymentService{
		paymentRepo: paymentRepo,
		leaseRepo:   leaseRepo,
		logger:      logger,
	}
}

// RecordPaymentInput contains input for recording a rent charge
type RecordPaymentInput struct {
	BusinessID  uuid.UUID
	LeaseID     uuid.UUID
	AmountCents int64
	DueDate     time.Time
	Method      leasing.PaymentMethod
	Memo        string
}

// SettleGatewayPaymentInput contains input for a gateway settlement
type SettleGatewayPaymentInput struct {
	BusinessID       uuid.UUID
	PaymentID        uuid.UUID
	GatewayPaymentID string
	PaidDate         time.Time
}

// Record creates a pending charge against an active lease
func (s *RentPaymentService) Record(ctx context.Context, input RecordPaymentInput) (*leasing.RentPayment, error) {
	lease, err := s.leaseRepo.FindByIDForBusiness(ctx, input.LeaseID, input.BusinessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("LEASE_NOT_FOUND", "Lease not found")
		}
		s.logger.Error("Failed to load lease", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load lease")
	}
	if lease.Status != leasing.LeaseStatusActive {
		return nil, shared.NewDomainError("LEASE_NOT_ACTIVE", "Rent can only be charged on an active lease")
	}

	payment, err := leasing.NewRentPayment(input.BusinessID, input.LeaseID, input.AmountCents, input.DueDate, input.Method)
	if err != nil {
		return nil, err
	}
	payment.Memo = input.Memo

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		s.logger.Error("Failed to save payment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record payment")
	}

	s.logger.Info("Rent payment recorded",
		zap.String("business_id", input.BusinessID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.Int64("amount_cents", input.AmountCents))

	return payment, nil
}

// Get retrieves a payment scoped to a business
func (s *RentPaymentService) Get(ctx context.Context, businessID, paymentID uuid.UUID) (*leasing.RentPayment, error) {
	payment, err := s.paymentRepo.FindByIDForBusiness(ctx, paymentID, businessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found")
		}
		s.logger.Error("Failed to load payment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load payment")
	}
	return payment, nil
}

// List lists payments for a business
func (s *RentPaymentService) List(ctx context.Context, businessID uuid.UUID, filter leasing.RentPaymentFilter) (*shared.Paginated[*leasing.RentPayment], error) {
	page, err := s.paymentRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list payments", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list payments")
	}
	return page, nil
}

// ListByLease lists the payment history of one lease
func (s *RentPaymentService) ListByLease(ctx context.Context, businessID, leaseID uuid.UUID) ([]*leasing.RentPayment, error) {
	payments, err := s.paymentRepo.FindByLease(ctx, leaseID, businessID)
	if err != nil {
		s.logger.Error("Failed to list lease payments", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list payments")
	}
	return payments, nil
}

// MarkPaid settles a payment collected outside the gateway (cash, check)
func (s *RentPaymentService) MarkPaid(ctx context.Context, businessID, paymentID uuid.UUID, paidDate time.Time) (*leasing.RentPayment, error) {
	payment, err := s.Get(ctx, businessID, paymentID)
	if err != nil {
		return nil, err
	}

	if err := payment.MarkPaid(paidDate, ""); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveWithLock(ctx, payment, payment.Version-1); err != nil {
		s.logger.Error("Failed to save settled payment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save payment")
	}

	s.logger.Info("Rent payment settled", zap.String("payment_id", paymentID.String()))

	return payment, nil
}

// SettleGatewayPayment settles a payment charged through the gateway.
// Replays of the same gateway payment id short-circuit to the already
// settled record.
func (s *RentPaymentService) SettleGatewayPayment(ctx context.Context, input SettleGatewayPaymentInput) (*leasing.RentPayment, error) {
	existing, err := s.paymentRepo.FindByGatewayPaymentID(ctx, input.GatewayPaymentID)
	if err != nil && err != shared.ErrNotFound {
		s.logger.Error("Failed to check gateway payment id", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check gateway payment id")
	}
	if existing != nil {
		s.logger.Info("Gateway settlement replayed",
			zap.String("gateway_payment_id", input.GatewayPaymentID))
		return existing, nil
	}

	payment, err := s.Get(ctx, input.BusinessID, input.PaymentID)
	if err != nil {
		return nil, err
	}

	if err := payment.MarkPaid(input.PaidDate, input.GatewayPaymentID); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveWithLock(ctx, payment, payment.Version-1); err != nil {
		s.logger.Error("Failed to save gateway settlement", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save payment")
	}

	s.logger.Info("Gateway payment settled",
		zap.String("payment_id", payment.ID.String()),
		zap.String("gateway_payment_id", input.GatewayPaymentID))

	return payment, nil
}

// MarkFailed records a failed collection attempt
func (s *RentPaymentService) MarkFailed(ctx context.Context, businessID, paymentID uuid.UUID, reason string) (*leasing.RentPayment, error) {
	payment, err := s.Get(ctx, businessID, paymentID)
	if err != nil {
		return nil, err
	}

	if err := payment.MarkFailed(reason); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveWithLock(ctx, payment, payment.Version-1); err != nil {
		s.logger.Error("Failed to save failed payment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save payment")
	}

	s.logger.Warn("Rent payment failed",
		zap.String("payment_id", paymentID.String()),
		zap.String("reason", reason))

	return payment, nil
}

// Retry returns a failed payment to pending
func (s *RentPaymentService) Retry(ctx context.Context, businessID, paymentID uuid.UUID) (*leasing.RentPayment, error) {
	payment, err := s.Get(ctx, businessID, paymentID)
	if err != nil {
		return nil, err
	}

	if err := payment.Retry(); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveWithLock(ctx, payment, payment.Version-1); err != nil {
		s.logger.Error("Failed to save retried payment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save payment")
	}

	return payment, nil
}

// Refund reverses a settled payment
func (s *RentPaymentService) Refund(ctx context.Context, businessID, paymentID uuid.UUID) (*leasing.RentPayment, error) {
	payment, err := s.Get(ctx, businessID, paymentID)
	if err != nil {
		return nil, err
	}

	if err := payment.Refund(); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveWithLock(ctx, payment, payment.Version-1); err != nil {
		s.logger.Error("Failed to save refunded payment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save payment")
	}

	s.logger.Info("Rent payment refunded", zap.String("payment_id", paymentID.String()))

	return payment, nil
}
