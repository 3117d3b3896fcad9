package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/shared"
	"github.com/rentfold/backend/internal/infrastructure/persistence/models"
)

// GormRentPaymentRepository implements RentPaymentRepository using GORM
type GormRentPaymentRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormRentPaymentRepository creates a new GormRentPaymentRepository
func NewGormRentPaymentRepository(db *gorm.DB) *GormRentPaymentRepository {
	return &GormRentPaymentRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing.
// Settled payments feed the ledger through the outbox, so this must be set in
// any deployment that runs the outbox processor.
func (r *GormRentPaymentRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a rent payment by its ID
func (r *GormRentPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.RentPayment, error) {
	var model models.RentPaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForBusiness finds a rent payment by ID within a business
func (r *GormRentPaymentRepository) FindByIDForBusiness(ctx context.Context, id, businessID uuid.UUID) (*leasing.RentPayment, error) {
	var model models.RentPaymentModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByGatewayPaymentID finds a payment by its gateway reference.
// Used by the webhook handler to dedupe redeliveries.
func (r *GormRentPaymentRepository) FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*leasing.RentPayment, error) {
	if gatewayPaymentID == "" {
		return nil, shared.NewDomainError("INVALID_GATEWAY_ID", "Gateway payment ID cannot be empty")
	}
	var model models.RentPaymentModel
	if err := r.db.WithContext(ctx).
		Where("gateway_payment_id = ?", gatewayPaymentID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLease lists all payments recorded against a lease
func (r *GormRentPaymentRepository) FindByLease(ctx context.Context, leaseID, businessID uuid.UUID) ([]*leasing.RentPayment, error) {
	var paymentModels []models.RentPaymentModel
	if err := r.db.WithContext(ctx).
		Where("lease_id = ? AND business_id = ?", leaseID, businessID).
		Order("due_date ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]*leasing.RentPayment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = model.ToDomain()
	}
	return payments, nil
}

// FindAllForBusiness lists payments for a business with pagination
func (r *GormRentPaymentRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter leasing.RentPaymentFilter) (*shared.Paginated[*leasing.RentPayment], error) {
	base := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.RentPaymentModel{}).Where("business_id = ?", businessID),
		filter,
	)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var paymentModels []models.RentPaymentModel
	query := base.Offset((page - 1) * pageSize).Limit(pageSize)
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, RentPaymentSortFields, "due_date")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("due_date DESC")
	}

	if err := query.Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]*leasing.RentPayment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = model.ToDomain()
	}
	paginated := shared.NewPaginated(payments, total, page, pageSize)
	return &paginated, nil
}

// Save creates or updates a rent payment. Pending domain events are written
// to the outbox in the same transaction.
func (r *GormRentPaymentRepository) Save(ctx context.Context, payment *leasing.RentPayment) error {
	model := models.RentPaymentModelFromDomain(payment)
	events := payment.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	payment.ClearDomainEvents()
	return nil
}

// SaveWithLock saves a rent payment with optimistic locking (version check)
func (r *GormRentPaymentRepository) SaveWithLock(ctx context.Context, payment *leasing.RentPayment, expectedVersion int) error {
	model := models.RentPaymentModelFromDomain(payment)
	events := payment.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(model).
			Where("id = ? AND version = ?", payment.ID, expectedVersion).
			Updates(model)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The payment record has been modified by another transaction")
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	payment.ClearDomainEvents()
	return nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormRentPaymentRepository) applyFilterWithoutPagination(query *gorm.DB, filter leasing.RentPaymentFilter) *gorm.DB {
	if filter.LeaseID != nil {
		query = query.Where("lease_id = ?", *filter.LeaseID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date < ?", *filter.DueBefore)
	}
	if filter.DueAfter != nil {
		query = query.Where("due_date > ?", *filter.DueAfter)
	}

	return query
}

// Ensure GormRentPaymentRepository implements RentPaymentRepository
var _ leasing.RentPaymentRepository = (*GormRentPaymentRepository)(nil)
