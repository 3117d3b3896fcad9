package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentfold/backend/internal/domain/finance"
)

// LedgerAccountModel is the persistence model for the LedgerAccount aggregate.
type LedgerAccountModel struct {
	BusinessAggregateModel
	Code        string              `gorm:"type:varchar(20);not null;index:idx_accounts_business_code,unique,composite:business_id"`
	Name        string              `gorm:"type:varchar(200);not null"`
	Type        finance.AccountType `gorm:"type:varchar(20);not null"`
	Description string              `gorm:"type:text"`
	IsActive    bool                `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (LedgerAccountModel) TableName() string {
	return "ledger_accounts"
}

// ToDomain converts the persistence model to a domain LedgerAccount aggregate.
func (m *LedgerAccountModel) ToDomain() *finance.LedgerAccount {
	return &finance.LedgerAccount{
		BusinessAggregateRoot: m.ToDomainBusinessAggregateRoot(),
		Code:                  m.Code,
		Name:                  m.Name,
		Type:                  m.Type,
		Description:           m.Description,
		IsActive:              m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain LedgerAccount aggregate.
func (m *LedgerAccountModel) FromDomain(a *finance.LedgerAccount) {
	m.FromDomainBusinessAggregateRoot(a.BusinessAggregateRoot)
	m.Code = a.Code
	m.Name = a.Name
	m.Type = a.Type
	m.Description = a.Description
	m.IsActive = a.IsActive
}

// LedgerAccountModelFromDomain creates a new persistence model from a domain LedgerAccount aggregate.
func LedgerAccountModelFromDomain(a *finance.LedgerAccount) *LedgerAccountModel {
	m := &LedgerAccountModel{}
	m.FromDomain(a)
	return m
}

// LedgerEntryModel is the persistence model for the LedgerEntry aggregate.
// AmountCents is debit-signed: revenue entries are stored negative.
type LedgerEntryModel struct {
	BusinessAggregateModel
	AccountID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	EntryDate   time.Time           `gorm:"not null;index"`
	AmountCents int64               `gorm:"not null"`
	Memo        string              `gorm:"type:varchar(500)"`
	Source      finance.EntrySource `gorm:"type:varchar(20);not null;index"`
	SourceID    *uuid.UUID          `gorm:"type:uuid;index"`
	IsActive    bool                `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry aggregate.
func (m *LedgerEntryModel) ToDomain() *finance.LedgerEntry {
	return &finance.LedgerEntry{
		BusinessAggregateRoot: m.ToDomainBusinessAggregateRoot(),
		AccountID:             m.AccountID,
		EntryDate:             m.EntryDate,
		AmountCents:           m.AmountCents,
		Memo:                  m.Memo,
		Source:                m.Source,
		SourceID:              m.SourceID,
		IsActive:              m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain LedgerEntry aggregate.
func (m *LedgerEntryModel) FromDomain(e *finance.LedgerEntry) {
	m.FromDomainBusinessAggregateRoot(e.BusinessAggregateRoot)
	m.AccountID = e.AccountID
	m.EntryDate = e.EntryDate
	m.AmountCents = e.AmountCents
	m.Memo = e.Memo
	m.Source = e.Source
	m.SourceID = e.SourceID
	m.IsActive = e.IsActive
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry aggregate.
func LedgerEntryModelFromDomain(e *finance.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomain(e)
	return m
}

// BudgetModel is the persistence model for the Budget aggregate. Items are
// small and always read together, so they are stored as a JSON column
// rather than a child table.
type BudgetModel struct {
	BusinessAggregateModel
	Name       string               `gorm:"type:varchar(100);not null"`
	FiscalYear int                  `gorm:"not null;index"`
	Status     finance.BudgetStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Items      []finance.BudgetItem `gorm:"serializer:json"`
	IsActive   bool                 `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToDomain converts the persistence model to a domain Budget aggregate.
func (m *BudgetModel) ToDomain() *finance.Budget {
	items := m.Items
	if items == nil {
		items = make([]finance.BudgetItem, 0)
	}
	return &finance.Budget{
		BusinessAggregateRoot: m.ToDomainBusinessAggregateRoot(),
		Name:                  m.Name,
		FiscalYear:            m.FiscalYear,
		Status:                m.Status,
		Items:                 items,
		IsActive:              m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Budget aggregate.
func (m *BudgetModel) FromDomain(b *finance.Budget) {
	m.FromDomainBusinessAggregateRoot(b.BusinessAggregateRoot)
	m.Name = b.Name
	m.FiscalYear = b.FiscalYear
	m.Status = b.Status
	m.Items = b.Items
	m.IsActive = b.IsActive
}

// BudgetModelFromDomain creates a new persistence model from a domain Budget aggregate.
func BudgetModelFromDomain(b *finance.Budget) *BudgetModel {
	m := &BudgetModel{}
	m.FromDomain(b)
	return m
}
