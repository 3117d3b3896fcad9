// Package models holds the GORM row types behind the repositories.
// Domain entities stay free of ORM tags; each file here pairs a table
// shape with ToDomain/FromDomain mappers for one bounded context:
// identity (Business, User), portfolio (Property, Unit), leasing
// (Tenant, Lease, RentPayment, MaintenanceRequest, RentalApplication),
// listing, affiliate (Affiliate, Referral), finance (LedgerAccount,
// LedgerEntry, Budget), billing (PackageTier, AddOn, Subscription,
// AIAPIKey, AIUsageRecord), platform settings, and the outbox.
package models
