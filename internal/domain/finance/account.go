package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentfold/backend/internal/domain/shared"
)

// AccountType classifies a ledger account as revenue or expense
type AccountType string

const (
	AccountTypeRevenue AccountType = "REVENUE" // Rent, fees, other income
	AccountTypeExpense AccountType = "EXPENSE" // Maintenance, utilities, insurance, taxes
)

// IsValid checks if the account type is valid
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// BalanceSide represents the normal balance side of a ledger account
type BalanceSide string

const (
	BalanceSideDebit  BalanceSide = "DEBIT"
	BalanceSideCredit BalanceSide = "CREDIT"
)

// NormalBalance returns the normal balance side for the account type.
// Expenses carry a debit balance, revenue a credit balance.
func (t AccountType) NormalBalance() BalanceSide {
	if t == AccountTypeRevenue {
		return BalanceSideCredit
	}
	return BalanceSideDebit
}

// LedgerAccount represents a chart-of-accounts entry that budgets and
// actuals are tracked against.
type LedgerAccount struct {
	shared.BusinessAggregateRoot
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Type        AccountType `json:"type"`
	Description string      `json:"description"`
	IsActive    bool        `json:"is_active"`
}

// NewLedgerAccount creates a new ledger account
func NewLedgerAccount(businessID uuid.UUID, code, name string, accountType AccountType) (*LedgerAccount, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot be empty")
	}
	if len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot exceed 20 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot exceed 100 characters")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Account type is not valid")
	}

	account := &LedgerAccount{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Code:                  code,
		Name:                  name,
		Type:                  accountType,
		IsActive:              true,
	}

	account.AddDomainEvent(NewLedgerAccountCreatedEvent(account))

	return account, nil
}

// NormalBalance returns the normal balance side for this account
func (a *LedgerAccount) NormalBalance() BalanceSide {
	return a.Type.NormalBalance()
}

// Rename updates the account name and description
func (a *LedgerAccount) Rename(name, description string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot exceed 100 characters")
	}

	a.Name = name
	a.Description = description
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Deactivate soft deletes the account
func (a *LedgerAccount) Deactivate() error {
	if !a.IsActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Account %s is already inactive", a.Code))
	}

	a.IsActive = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewLedgerAccountDeactivatedEvent(a))

	return nil
}

// Reactivate restores a deactivated account
func (a *LedgerAccount) Reactivate() error {
	if a.IsActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Account %s is already active", a.Code))
	}

	a.IsActive = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}
