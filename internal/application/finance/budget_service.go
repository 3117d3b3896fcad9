package finance

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentfold/backend/internal/domain/finance"
	"github.com/rentfold/backend/internal/domain/shared"
)

// BudgetService manages fiscal-year budgets and runs variance reports
type BudgetService struct {
	budgetRepo  finance.BudgetRepository
	accountRepo finance.LedgerAccountRepository
	entryRepo   finance.LedgerEntryRepository
	logger      *zap.Logger
}

// NewBudgetService creates a new budget service
func NewBudgetService(
	budgetRepo finance.BudgetRepository,
	accountRepo finance.LedgerAccountRepository,
	entryRepo finance.LedgerEntryRepository,
	logger *zap.Logger,
) *BudgetService {
	return &BudgetService{
		budgetRepo:  budgetRepo,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		logger:      logger,
	}
}

// CreateBudgetInput contains input for creating a budget
type CreateBudgetInput struct {
	BusinessID uuid.UUID
	Name       string
	FiscalYear int
}

// AllocateInput contains input for allocating an annual amount to an account
type AllocateInput struct {
	BusinessID  uuid.UUID
	BudgetID    uuid.UUID
	AccountID   uuid.UUID
	AnnualCents int64
	Pattern     *finance.SeasonalPattern // Nil for an even spread
}

// SetItemInput contains input for setting explicit period amounts
type SetItemInput struct {
	BusinessID uuid.UUID
	BudgetID   uuid.UUID
	AccountID  uuid.UUID
	Amounts    [finance.PeriodsPerYear]int64
}

// CopyBudgetInput contains input for cloning a budget into another year
type CopyBudgetInput struct {
	BusinessID        uuid.UUID
	SourceBudgetID    uuid.UUID
	Name              string
	TargetYear        int
	AdjustmentPercent float64
}

// VarianceInput contains input for a variance report
type VarianceInput struct {
	BusinessID uuid.UUID
	BudgetID   uuid.UUID
	FromPeriod int
	ToPeriod   int
}

// Create drafts a budget for a fiscal year
func (s *BudgetService) Create(ctx context.Context, input CreateBudgetInput) (*finance.Budget, error) {
	budget, err := finance.NewBudget(input.BusinessID, input.Name, input.FiscalYear)
	if err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Save(ctx, budget); err != nil {
		s.logger.Error("Failed to save budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create budget")
	}

	s.logger.Info("Budget created",
		zap.String("business_id", input.BusinessID.String()),
		zap.String("budget_id", budget.ID.String()),
		zap.Int("fiscal_year", input.FiscalYear))

	return budget, nil
}

// Get retrieves a budget scoped to a business
func (s *BudgetService) Get(ctx context.Context, businessID, budgetID uuid.UUID) (*finance.Budget, error) {
	budget, err := s.budgetRepo.FindByIDForBusiness(ctx, businessID, budgetID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("BUDGET_NOT_FOUND", "Budget not found")
		}
		s.logger.Error("Failed to load budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load budget")
	}
	return budget, nil
}

// List lists budgets for a business
func (s *BudgetService) List(ctx context.Context, businessID uuid.UUID, filter finance.BudgetFilter) ([]finance.Budget, error) {
	budgets, err := s.budgetRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list budgets", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list budgets")
	}
	return budgets, nil
}

// Allocate spreads an annual amount over the budget's periods, evenly or
// by seasonal pattern.
func (s *BudgetService) Allocate(ctx context.Context, input AllocateInput) (*finance.Budget, error) {
	budget, err := s.Get(ctx, input.BusinessID, input.BudgetID)
	if err != nil {
		return nil, err
	}

	if _, err := s.requireAccount(ctx, input.BusinessID, input.AccountID); err != nil {
		return nil, err
	}

	if input.Pattern != nil {
		err = budget.AllocateSeasonal(input.AccountID, input.AnnualCents, *input.Pattern)
	} else {
		err = budget.AllocateAnnual(input.AccountID, input.AnnualCents)
	}
	if err != nil {
		return nil, err
	}

	if err := s.budgetRepo.SaveWithLock(ctx, budget); err != nil {
		s.logger.Error("Failed to save budget allocation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save budget")
	}

	return budget, nil
}

// SetItem replaces the period amounts for one account
func (s *BudgetService) SetItem(ctx context.Context, input SetItemInput) (*finance.Budget, error) {
	budget, err := s.Get(ctx, input.BusinessID, input.BudgetID)
	if err != nil {
		return nil, err
	}

	if _, err := s.requireAccount(ctx, input.BusinessID, input.AccountID); err != nil {
		return nil, err
	}

	if err := budget.SetItem(input.AccountID, input.Amounts); err != nil {
		return nil, err
	}

	if err := s.budgetRepo.SaveWithLock(ctx, budget); err != nil {
		s.logger.Error("Failed to save budget item", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save budget")
	}

	return budget, nil
}

// RemoveItem drops an account's allocation from the budget
func (s *BudgetService) RemoveItem(ctx context.Context, businessID, budgetID, accountID uuid.UUID) (*finance.Budget, error) {
	budget, err := s.Get(ctx, businessID, budgetID)
	if err != nil {
		return nil, err
	}

	if err := budget.RemoveItem(accountID); err != nil {
		return nil, err
	}

	if err := s.budgetRepo.SaveWithLock(ctx, budget); err != nil {
		s.logger.Error("Failed to save budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save budget")
	}

	return budget, nil
}

// Activate puts a draft budget into effect. One active budget per fiscal
// year: any currently active budget for the year is archived first.
func (s *BudgetService) Activate(ctx context.Context, businessID, budgetID uuid.UUID) (*finance.Budget, error) {
	budget, err := s.Get(ctx, businessID, budgetID)
	if err != nil {
		return nil, err
	}

	current, err := s.budgetRepo.FindByYear(ctx, businessID, budget.FiscalYear)
	if err != nil && err != shared.ErrNotFound {
		s.logger.Error("Failed to check active budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check active budget")
	}
	if current != nil && current.ID != budget.ID {
		if err := current.Archive(); err != nil {
			return nil, err
		}
		if err := s.budgetRepo.SaveWithLock(ctx, current); err != nil {
			s.logger.Error("Failed to archive previous budget", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to archive previous budget")
		}
	}

	if err := budget.Activate(); err != nil {
		return nil, err
	}

	if err := s.budgetRepo.SaveWithLock(ctx, budget); err != nil {
		s.logger.Error("Failed to save activated budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to activate budget")
	}

	s.logger.Info("Budget activated",
		zap.String("budget_id", budgetID.String()),
		zap.Int("fiscal_year", budget.FiscalYear))

	return budget, nil
}

// Archive retires a budget
func (s *BudgetService) Archive(ctx context.Context, businessID, budgetID uuid.UUID) (*finance.Budget, error) {
	budget, err := s.Get(ctx, businessID, budgetID)
	if err != nil {
		return nil, err
	}

	if err := budget.Archive(); err != nil {
		return nil, err
	}

	if err := s.budgetRepo.SaveWithLock(ctx, budget); err != nil {
		s.logger.Error("Failed to save archived budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to archive budget")
	}

	return budget, nil
}

// Copy clones a budget into another fiscal year with an optional uniform
// percentage adjustment.
func (s *BudgetService) Copy(ctx context.Context, input CopyBudgetInput) (*finance.Budget, error) {
	source, err := s.Get(ctx, input.BusinessID, input.SourceBudgetID)
	if err != nil {
		return nil, err
	}

	clone, err := source.Copy(input.Name, input.TargetYear, input.AdjustmentPercent)
	if err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Save(ctx, clone); err != nil {
		s.logger.Error("Failed to save copied budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to copy budget")
	}

	s.logger.Info("Budget copied",
		zap.String("source_budget_id", source.ID.String()),
		zap.String("budget_id", clone.ID.String()),
		zap.Int("target_year", input.TargetYear),
		zap.Float64("adjustment_percent", input.AdjustmentPercent))

	return clone, nil
}

// Variance compares the budget to posted actuals over a period range.
// A zero FromPeriod/ToPeriod defaults to the full year.
func (s *BudgetService) Variance(ctx context.Context, input VarianceInput) (*finance.VarianceReport, error) {
	budget, err := s.Get(ctx, input.BusinessID, input.BudgetID)
	if err != nil {
		return nil, err
	}

	fromPeriod, toPeriod := input.FromPeriod, input.ToPeriod
	if fromPeriod == 0 {
		fromPeriod = 1
	}
	if toPeriod == 0 {
		toPeriod = finance.PeriodsPerYear
	}

	rawActuals, err := s.entryRepo.SumByAccountForYear(ctx, input.BusinessID, budget.FiscalYear)
	if err != nil {
		s.logger.Error("Failed to aggregate actuals", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to aggregate actuals")
	}

	accountIDs := make([]uuid.UUID, 0, len(budget.Items)+len(rawActuals))
	for _, item := range budget.Items {
		accountIDs = append(accountIDs, item.AccountID)
	}
	for accountID := range rawActuals {
		accountIDs = append(accountIDs, accountID)
	}

	accounts, err := s.accountRepo.FindByIDs(ctx, input.BusinessID, accountIDs)
	if err != nil {
		s.logger.Error("Failed to load accounts for variance", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load accounts")
	}

	report, err := finance.CalculateVariance(budget, accounts, rawActuals, fromPeriod, toPeriod)
	if err != nil {
		return nil, err
	}

	return report, nil
}

func (s *BudgetService) requireAccount(ctx context.Context, businessID, accountID uuid.UUID) (*finance.LedgerAccount, error) {
	account, err := s.accountRepo.FindByIDForBusiness(ctx, businessID, accountID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")
		}
		s.logger.Error("Failed to load account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load account")
	}
	if !account.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is inactive")
	}
	return account, nil
}
