package finance

import (
	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// BudgetCreatedEvent is raised when a new budget is created
type BudgetCreatedEvent struct {
	shared.BaseDomainEvent
	BudgetID   uuid.UUID `json:"budget_id"`
	Name       string    `json:"name"`
	FiscalYear int       `json:"fiscal_year"`
}

// EventType returns the event type name
func (e *BudgetCreatedEvent) EventType() string {
	return "BudgetCreated"
}

// NewBudgetCreatedEvent creates a new BudgetCreatedEvent
func NewBudgetCreatedEvent(budget *Budget) *BudgetCreatedEvent {
	return &BudgetCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BudgetCreated", "Budget", budget.ID, budget.BusinessID),
		BudgetID:        budget.ID,
		Name:            budget.Name,
		FiscalYear:      budget.FiscalYear,
	}
}

// BudgetActivatedEvent is raised when a budget goes into effect
type BudgetActivatedEvent struct {
	shared.BaseDomainEvent
	BudgetID   uuid.UUID `json:"budget_id"`
	FiscalYear int       `json:"fiscal_year"`
	ItemCount  int       `json:"item_count"`
}

// EventType returns the event type name
func (e *BudgetActivatedEvent) EventType() string {
	return "BudgetActivated"
}

// NewBudgetActivatedEvent creates a new BudgetActivatedEvent
func NewBudgetActivatedEvent(budget *Budget) *BudgetActivatedEvent {
	return &BudgetActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BudgetActivated", "Budget", budget.ID, budget.BusinessID),
		BudgetID:        budget.ID,
		FiscalYear:      budget.FiscalYear,
		ItemCount:       len(budget.Items),
	}
}

// BudgetCopiedEvent is raised when a budget is cloned into a new fiscal year
type BudgetCopiedEvent struct {
	shared.BaseDomainEvent
	SourceBudgetID uuid.UUID `json:"source_budget_id"`
	NewBudgetID    uuid.UUID `json:"new_budget_id"`
	SourceYear     int       `json:"source_year"`
	TargetYear     int       `json:"target_year"`
}

// EventType returns the event type name
func (e *BudgetCopiedEvent) EventType() string {
	return "BudgetCopied"
}

// NewBudgetCopiedEvent creates a new BudgetCopiedEvent
func NewBudgetCopiedEvent(source, clone *Budget) *BudgetCopiedEvent {
	return &BudgetCopiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BudgetCopied", "Budget", clone.ID, clone.BusinessID),
		SourceBudgetID:  source.ID,
		NewBudgetID:     clone.ID,
		SourceYear:      source.FiscalYear,
		TargetYear:      clone.FiscalYear,
	}
}
