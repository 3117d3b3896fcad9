package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// BudgetFilter defines filtering options for budget queries
type BudgetFilter struct {
	shared.Filter
	FiscalYear      *int
	Status          *BudgetStatus
	IncludeInactive bool
}

// BudgetRepository defines the interface for budget persistence
type BudgetRepository interface {
	// FindByID finds a budget by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Budget, error)

	// FindByIDForBusiness finds a budget by ID scoped to a business
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*Budget, error)

	// FindByYear finds the active budget for a fiscal year
	FindByYear(ctx context.Context, businessID uuid.UUID, fiscalYear int) (*Budget, error)

	// FindAllForBusiness finds all budgets for a business with filtering
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter BudgetFilter) ([]Budget, error)

	// Save creates or updates a budget
	Save(ctx context.Context, budget *Budget) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, budget *Budget) error

	// DeleteForBusiness soft deletes a budget
	DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error

	// CountForBusiness counts budgets for a business
	CountForBusiness(ctx context.Context, businessID uuid.UUID, filter BudgetFilter) (int64, error)
}

// LedgerAccountRepository defines the interface for ledger account persistence
type LedgerAccountRepository interface {
	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerAccount, error)

	// FindByIDForBusiness finds an account by ID scoped to a business
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*LedgerAccount, error)

	// FindByCode finds an account by its code within a business
	FindByCode(ctx context.Context, businessID uuid.UUID, code string) (*LedgerAccount, error)

	// FindByIDs finds multiple accounts by ID scoped to a business
	FindByIDs(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]*LedgerAccount, error)

	// FindAllForBusiness finds all accounts for a business with filtering
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]LedgerAccount, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *LedgerAccount) error

	// DeleteForBusiness soft deletes an account
	DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error
}

// LedgerEntryFilter defines filtering options for ledger entry queries
type LedgerEntryFilter struct {
	shared.Filter
	AccountID *uuid.UUID
	Source    *EntrySource
	FromDate  *time.Time
	ToDate    *time.Time
}

// LedgerEntryRepository defines the interface for ledger entry persistence
type LedgerEntryRepository interface {
	// FindByID finds an entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)

	// FindByIDForBusiness finds an entry by ID scoped to a business
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*LedgerEntry, error)

	// FindAllForBusiness finds all entries for a business with filtering
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter LedgerEntryFilter) ([]LedgerEntry, error)

	// SumByAccountForYear returns debit-signed per-period sums of active
	// entries keyed by account ID for a calendar year
	SumByAccountForYear(ctx context.Context, businessID uuid.UUID, year int) (map[uuid.UUID][PeriodsPerYear]int64, error)

	// Save creates or updates an entry
	Save(ctx context.Context, entry *LedgerEntry) error

	// DeleteForBusiness voids an entry
	DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error
}
