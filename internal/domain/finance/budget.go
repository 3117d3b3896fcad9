package finance

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// PeriodsPerYear is the number of budget periods in a fiscal year (monthly)
const PeriodsPerYear = 12

// BudgetStatus represents the lifecycle status of a budget
type BudgetStatus string

const (
	BudgetStatusDraft    BudgetStatus = "DRAFT"    // Editable, not yet in effect
	BudgetStatusActive   BudgetStatus = "ACTIVE"   // In effect for its fiscal year
	BudgetStatusArchived BudgetStatus = "ARCHIVED" // Superseded or closed out
)

// IsValid checks if the status is a valid BudgetStatus
func (s BudgetStatus) IsValid() bool {
	switch s {
	case BudgetStatusDraft, BudgetStatusActive, BudgetStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of BudgetStatus
func (s BudgetStatus) String() string {
	return string(s)
}

// CanEdit returns true if budget items can be modified in this status
func (s BudgetStatus) CanEdit() bool {
	return s == BudgetStatusDraft
}

// BudgetItem holds the monthly allocations for a single ledger account
type BudgetItem struct {
	AccountID     uuid.UUID              `json:"account_id"`
	PeriodAmounts [PeriodsPerYear]int64 `json:"period_amounts"`
}

// AnnualCents returns the total allocation across all periods
func (i BudgetItem) AnnualCents() int64 {
	var total int64
	for _, amount := range i.PeriodAmounts {
		total += amount
	}
	return total
}

// Budget represents a fiscal-year budget aggregate: one set of 12 monthly
// allocations per ledger account.
type Budget struct {
	shared.BusinessAggregateRoot
	Name       string       `json:"name"`
	FiscalYear int          `json:"fiscal_year"`
	Status     BudgetStatus `json:"status"`
	Items      []BudgetItem `json:"items"`
	IsActive   bool         `json:"is_active"`
}

// NewBudget creates a new draft budget for a fiscal year
func NewBudget(businessID uuid.UUID, name string, fiscalYear int) (*Budget, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_BUDGET_NAME", "Budget name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_BUDGET_NAME", "Budget name cannot exceed 100 characters")
	}
	if fiscalYear < 2000 || fiscalYear > 2200 {
		return nil, shared.NewDomainError("INVALID_FISCAL_YEAR", "Fiscal year is out of range")
	}

	budget := &Budget{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Name:                  name,
		FiscalYear:            fiscalYear,
		Status:                BudgetStatusDraft,
		Items:                 make([]BudgetItem, 0),
		IsActive:              true,
	}

	budget.AddDomainEvent(NewBudgetCreatedEvent(budget))

	return budget, nil
}

// Item returns the budget item for an account, if present
func (b *Budget) Item(accountID uuid.UUID) (BudgetItem, bool) {
	for _, item := range b.Items {
		if item.AccountID == accountID {
			return item, true
		}
	}
	return BudgetItem{}, false
}

// SetItem adds or replaces the allocations for an account
func (b *Budget) SetItem(accountID uuid.UUID, amounts [PeriodsPerYear]int64) error {
	if !b.Status.CanEdit() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit budget in %s status", b.Status))
	}
	if accountID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}

	for idx := range b.Items {
		if b.Items[idx].AccountID == accountID {
			b.Items[idx].PeriodAmounts = amounts
			b.touch()
			return nil
		}
	}

	b.Items = append(b.Items, BudgetItem{AccountID: accountID, PeriodAmounts: amounts})
	b.touch()
	return nil
}

// AllocateAnnual spreads an annual amount evenly across the 12 periods
// and stores it as the item for the account.
func (b *Budget) AllocateAnnual(accountID uuid.UUID, annualCents int64) error {
	return b.SetItem(accountID, SpreadAnnualAmount(annualCents))
}

// AllocateSeasonal distributes an annual amount across periods using a
// seasonal pattern and stores it as the item for the account.
func (b *Budget) AllocateSeasonal(accountID uuid.UUID, annualCents int64, pattern SeasonalPattern) error {
	amounts, err := ApplySeasonalDistribution(annualCents, pattern)
	if err != nil {
		return err
	}
	return b.SetItem(accountID, amounts)
}

// RemoveItem removes the allocations for an account
func (b *Budget) RemoveItem(accountID uuid.UUID) error {
	if !b.Status.CanEdit() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit budget in %s status", b.Status))
	}

	for idx := range b.Items {
		if b.Items[idx].AccountID == accountID {
			b.Items = append(b.Items[:idx], b.Items[idx+1:]...)
			b.touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// TotalBudgetedCents returns the total allocation across all items and periods
func (b *Budget) TotalBudgetedCents() int64 {
	var total int64
	for _, item := range b.Items {
		total += item.AnnualCents()
	}
	return total
}

// Activate puts the budget in effect
func (b *Budget) Activate() error {
	if b.Status != BudgetStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot activate budget in %s status", b.Status))
	}
	if len(b.Items) == 0 {
		return shared.NewDomainError("EMPTY_BUDGET", "Budget must have at least one item before activation")
	}

	b.Status = BudgetStatusActive
	b.touch()
	b.AddDomainEvent(NewBudgetActivatedEvent(b))

	return nil
}

// Archive closes out the budget
func (b *Budget) Archive() error {
	if b.Status == BudgetStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Budget is already archived")
	}

	b.Status = BudgetStatusArchived
	b.touch()

	return nil
}

// Deactivate soft deletes the budget
func (b *Budget) Deactivate() error {
	if !b.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Budget is already inactive")
	}

	b.IsActive = false
	b.touch()

	return nil
}

// Copy produces a new draft budget for a target year with every period
// amount scaled by adjustmentPercent. An adjustment of zero yields amounts
// identical to the source.
func (b *Budget) Copy(name string, targetYear int, adjustmentPercent float64) (*Budget, error) {
	if adjustmentPercent < -100 {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment cannot reduce amounts below zero")
	}

	clone, err := NewBudget(b.BusinessID, name, targetYear)
	if err != nil {
		return nil, err
	}

	factor := 1 + adjustmentPercent/100
	for _, item := range b.Items {
		copied := BudgetItem{AccountID: item.AccountID}
		for period, amount := range item.PeriodAmounts {
			if adjustmentPercent == 0 {
				copied.PeriodAmounts[period] = amount
			} else {
				copied.PeriodAmounts[period] = int64(math.Round(float64(amount) * factor))
			}
		}
		clone.Items = append(clone.Items, copied)
	}

	clone.AddDomainEvent(NewBudgetCopiedEvent(b, clone))

	return clone, nil
}

func (b *Budget) touch() {
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}
