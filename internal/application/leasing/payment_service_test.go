package leasing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/shared"
)

func setupPaymentService(t *testing.T) (*RentPaymentService, *mockRentPaymentRepository, *mockLeaseRepository) {
	t.Helper()
	paymentRepo := new(mockRentPaymentRepository)
	leaseRepo := new(mockLeaseRepository)
	service := NewRentPaymentService(paymentRepo, leaseRepo, zap.NewNop())
	return service, paymentRepo, leaseRepo
}

func newTestPayment(t *testing.T, businessID, leaseID uuid.UUID) *leasing.RentPayment {
	t.Helper()
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	payment, err := leasing.NewRentPayment(businessID, leaseID, 185000, due, leasing.PaymentMethodCard)
	require.NoError(t, err)
	return payment
}

func TestRentPaymentService_Record(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("records a charge on an active lease", func(t *testing.T) {
		service, paymentRepo, leaseRepo := setupPaymentService(t)
		lease := newTestLease(t, businessID, uuid.New(), uuid.New())
		require.NoError(t, lease.Activate())

		leaseRepo.On("FindByIDForBusiness", ctx, lease.ID, businessID).Return(lease, nil)
		paymentRepo.On("Save", ctx, mock.AnythingOfType("*leasing.RentPayment")).Return(nil)

		payment, err := service.Record(ctx, RecordPaymentInput{
			BusinessID:  businessID,
			LeaseID:     lease.ID,
			AmountCents: 185000,
			DueDate:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			Method:      leasing.PaymentMethodCard,
			Memo:        "April rent",
		})

		require.NoError(t, err)
		assert.Equal(t, leasing.PaymentStatusPending, payment.Status)
		assert.Equal(t, "April rent", payment.Memo)
		paymentRepo.AssertExpectations(t)
	})

	t.Run("refuses a draft lease", func(t *testing.T) {
		service, paymentRepo, leaseRepo := setupPaymentService(t)
		lease := newTestLease(t, businessID, uuid.New(), uuid.New())

		leaseRepo.On("FindByIDForBusiness", ctx, lease.ID, businessID).Return(lease, nil)

		_, err := service.Record(ctx, RecordPaymentInput{
			BusinessID:  businessID,
			LeaseID:     lease.ID,
			AmountCents: 185000,
			DueDate:     time.Now(),
			Method:      leasing.PaymentMethodCash,
		})

		assert.Equal(t, "LEASE_NOT_ACTIVE", domainCode(t, err))
		paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestRentPaymentService_SettleGatewayPayment(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()
	paidDate := time.Date(2026, 4, 1, 14, 30, 0, 0, time.UTC)

	t.Run("settles a pending charge", func(t *testing.T) {
		service, paymentRepo, _ := setupPaymentService(t)
		payment := newTestPayment(t, businessID, uuid.New())

		paymentRepo.On("FindByGatewayPaymentID", ctx, "sq_pay_abc123").Return(nil, shared.ErrNotFound)
		paymentRepo.On("FindByIDForBusiness", ctx, payment.ID, businessID).Return(payment, nil)
		paymentRepo.On("SaveWithLock", ctx, payment, mock.AnythingOfType("int")).Return(nil)

		settled, err := service.SettleGatewayPayment(ctx, SettleGatewayPaymentInput{
			BusinessID:       businessID,
			PaymentID:        payment.ID,
			GatewayPaymentID: "sq_pay_abc123",
			PaidDate:         paidDate,
		})

		require.NoError(t, err)
		assert.Equal(t, leasing.PaymentStatusPaid, settled.Status)
		assert.Equal(t, "sq_pay_abc123", settled.GatewayPaymentID)
		require.NotNil(t, settled.PaidDate)
		assert.True(t, settled.PaidDate.Equal(paidDate))
	})

	t.Run("replayed settlement returns the existing record untouched", func(t *testing.T) {
		service, paymentRepo, _ := setupPaymentService(t)
		payment := newTestPayment(t, businessID, uuid.New())
		require.NoError(t, payment.MarkPaid(paidDate, "sq_pay_abc123"))
		versionBefore := payment.Version

		paymentRepo.On("FindByGatewayPaymentID", ctx, "sq_pay_abc123").Return(payment, nil)

		settled, err := service.SettleGatewayPayment(ctx, SettleGatewayPaymentInput{
			BusinessID:       businessID,
			PaymentID:        payment.ID,
			GatewayPaymentID: "sq_pay_abc123",
			PaidDate:         paidDate,
		})

		require.NoError(t, err)
		assert.Same(t, payment, settled)
		assert.Equal(t, versionBefore, settled.Version)
		paymentRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
		paymentRepo.AssertNotCalled(t, "FindByIDForBusiness", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRentPaymentService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	service, paymentRepo, _ := setupPaymentService(t)
	payment := newTestPayment(t, businessID, uuid.New())
	paidDate := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	paymentRepo.On("FindByIDForBusiness", ctx, payment.ID, businessID).Return(payment, nil)
	paymentRepo.On("SaveWithLock", ctx, payment, mock.AnythingOfType("int")).Return(nil)

	paid, err := service.MarkPaid(ctx, businessID, payment.ID, paidDate)

	require.NoError(t, err)
	assert.Equal(t, leasing.PaymentStatusPaid, paid.Status)
	assert.Empty(t, paid.GatewayPaymentID)
}

func TestRentPaymentService_FailureAndRetry(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	service, paymentRepo, _ := setupPaymentService(t)
	payment := newTestPayment(t, businessID, uuid.New())

	paymentRepo.On("FindByIDForBusiness", ctx, payment.ID, businessID).Return(payment, nil)
	paymentRepo.On("SaveWithLock", ctx, payment, mock.AnythingOfType("int")).Return(nil)

	failed, err := service.MarkFailed(ctx, businessID, payment.ID, "card declined")
	require.NoError(t, err)
	assert.Equal(t, leasing.PaymentStatusFailed, failed.Status)
	assert.Equal(t, "card declined", failed.FailureReason)

	retried, err := service.Retry(ctx, businessID, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, leasing.PaymentStatusPending, retried.Status)
	assert.Empty(t, retried.FailureReason)
}

func TestRentPaymentService_Refund(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("refunds a paid charge", func(t *testing.T) {
		service, paymentRepo, _ := setupPaymentService(t)
		payment := newTestPayment(t, businessID, uuid.New())
		require.NoError(t, payment.MarkPaid(time.Now(), ""))

		paymentRepo.On("FindByIDForBusiness", ctx, payment.ID, businessID).Return(payment, nil)
		paymentRepo.On("SaveWithLock", ctx, payment, mock.AnythingOfType("int")).Return(nil)

		refunded, err := service.Refund(ctx, businessID, payment.ID)

		require.NoError(t, err)
		assert.Equal(t, leasing.PaymentStatusRefunded, refunded.Status)
	})

	t.Run("only paid charges can be refunded", func(t *testing.T) {
		service, paymentRepo, _ := setupPaymentService(t)
		payment := newTestPayment(t, businessID, uuid.New())

		paymentRepo.On("FindByIDForBusiness", ctx, payment.ID, businessID).Return(payment, nil)

		_, err := service.Refund(ctx, businessID, payment.ID)

		require.Error(t, err)
		paymentRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRentPaymentService_ListByLease(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()
	leaseID := uuid.New()

	service, paymentRepo, _ := setupPaymentService(t)
	payments := []*leasing.RentPayment{newTestPayment(t, businessID, leaseID)}

	paymentRepo.On("FindByLease", ctx, leaseID, businessID).Return(payments, nil)

	result, err := service.ListByLease(ctx, businessID, leaseID)

	require.NoError(t, err)
	assert.Len(t, result, 1)
}
