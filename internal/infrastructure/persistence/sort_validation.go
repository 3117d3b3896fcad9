package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizePage clamps pagination inputs to sane values for paginated queries
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// BusinessSortFields contains allowed sort fields for businesses
var BusinessSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"slug":       true,
	"status":     true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// PropertySortFields contains allowed sort fields for properties
var PropertySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"type":       true,
	"year_built": true,
}

// UnitSortFields contains allowed sort fields for units
var UnitSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"unit_number":       true,
	"bedrooms":          true,
	"market_rent_cents": true,
	"status":            true,
}

// TenantSortFields contains allowed sort fields for tenants
var TenantSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"first_name": true,
	"last_name":  true,
	"email":      true,
}

// LeaseSortFields contains allowed sort fields for leases
var LeaseSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"start_date": true,
	"end_date":   true,
	"rent_cents": true,
	"status":     true,
}

// RentPaymentSortFields contains allowed sort fields for rent payments
var RentPaymentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"due_date":     true,
	"amount_cents": true,
	"status":       true,
}

// MaintenanceSortFields contains allowed sort fields for maintenance requests
var MaintenanceSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"priority":   true,
	"status":     true,
	"title":      true,
}

// ApplicationSortFields contains allowed sort fields for rental applications
var ApplicationSortFields = map[string]bool{
	"id":                   true,
	"created_at":           true,
	"updated_at":           true,
	"applicant_name":       true,
	"monthly_income_cents": true,
	"status":               true,
}

// ListingSortFields contains allowed sort fields for listings
var ListingSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"headline":           true,
	"monthly_rent_cents": true,
	"status":             true,
}

// AffiliateSortFields contains allowed sort fields for affiliates
var AffiliateSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"name":            true,
	"email":           true,
	"referral_code":   true,
	"commission_rate": true,
	"status":          true,
}

// ReferralSortFields contains allowed sort fields for referrals
var ReferralSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"signup_date":      true,
	"converted":        true,
	"commission_cents": true,
}

// BudgetSortFields contains allowed sort fields for budgets
var BudgetSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"fiscal_year": true,
	"status":      true,
}

// LedgerAccountSortFields contains allowed sort fields for ledger accounts
var LedgerAccountSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"type":       true,
}

// LedgerEntrySortFields contains allowed sort fields for ledger entries
var LedgerEntrySortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"entry_date":   true,
	"amount_cents": true,
	"source":       true,
}

// SubscriptionSortFields contains allowed sort fields for subscriptions
var SubscriptionSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"tier_code":    true,
	"status":       true,
	"period_start": true,
	"period_end":   true,
}
