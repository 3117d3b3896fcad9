package event

import (
	"github.com/rentfold/backend/internal/domain/affiliate"
	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/finance"
	"github.com/rentfold/backend/internal/domain/identity"
	"github.com/rentfold/backend/internal/domain/leasing"
	"github.com/rentfold/backend/internal/domain/listing"
	"github.com/rentfold/backend/internal/domain/portfolio"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Identity domain - Business events
	serializer.Register("BusinessRegistered", &identity.BusinessRegisteredEvent{})
	serializer.Register("BusinessActivated", &identity.BusinessActivatedEvent{})
	serializer.Register("BusinessUpdated", &identity.BusinessUpdatedEvent{})
	serializer.Register("BusinessSuspended", &identity.BusinessSuspendedEvent{})
	serializer.Register("BusinessCancelled", &identity.BusinessCancelledEvent{})

	// Identity domain - User events
	serializer.Register("UserCreated", &identity.UserCreatedEvent{})
	serializer.Register("UserPasswordChanged", &identity.UserPasswordChangedEvent{})
	serializer.Register("UserDeactivated", &identity.UserDeactivatedEvent{})

	// Portfolio domain events
	serializer.Register("PropertyCreated", &portfolio.PropertyCreatedEvent{})
	serializer.Register("PropertyUpdated", &portfolio.PropertyUpdatedEvent{})
	serializer.Register("PropertyDeactivated", &portfolio.PropertyDeactivatedEvent{})
	serializer.Register("UnitCreated", &portfolio.UnitCreatedEvent{})
	serializer.Register("UnitStatusChanged", &portfolio.UnitStatusChangedEvent{})

	// Leasing domain - Tenant and Lease events
	serializer.Register("TenantCreated", &leasing.TenantCreatedEvent{})
	serializer.Register("LeaseCreated", &leasing.LeaseCreatedEvent{})
	serializer.Register("LeaseActivated", &leasing.LeaseActivatedEvent{})
	serializer.Register("LeaseClosed", &leasing.LeaseClosedEvent{})

	// Leasing domain - Rent Payment events
	serializer.Register("RentPaymentRecorded", &leasing.RentPaymentRecordedEvent{})
	serializer.Register("RentPaymentSettled", &leasing.RentPaymentSettledEvent{})
	serializer.Register("RentPaymentRefunded", &leasing.RentPaymentRefundedEvent{})

	// Leasing domain - Maintenance and Application events
	serializer.Register("MaintenanceRequestOpened", &leasing.MaintenanceRequestOpenedEvent{})
	serializer.Register("MaintenanceRequestClosed", &leasing.MaintenanceRequestClosedEvent{})
	serializer.Register("ApplicationSubmitted", &leasing.ApplicationSubmittedEvent{})
	serializer.Register("ApplicationDecided", &leasing.ApplicationDecidedEvent{})

	// Listing domain events
	serializer.Register("ListingCreated", &listing.ListingCreatedEvent{})
	serializer.Register("ListingPublished", &listing.ListingPublishedEvent{})
	serializer.Register("ListingArchived", &listing.ListingArchivedEvent{})

	// Affiliate domain events
	serializer.Register("AffiliateRegistered", &affiliate.AffiliateRegisteredEvent{})
	serializer.Register("ReferralRecorded", &affiliate.ReferralRecordedEvent{})
	serializer.Register("ReferralConverted", &affiliate.ReferralConvertedEvent{})

	// Finance domain events
	serializer.Register("LedgerAccountCreated", &finance.LedgerAccountCreatedEvent{})
	serializer.Register("LedgerAccountDeactivated", &finance.LedgerAccountDeactivatedEvent{})
	serializer.Register("LedgerEntryPosted", &finance.LedgerEntryPostedEvent{})
	serializer.Register("BudgetCreated", &finance.BudgetCreatedEvent{})
	serializer.Register("BudgetActivated", &finance.BudgetActivatedEvent{})
	serializer.Register("BudgetCopied", &finance.BudgetCopiedEvent{})

	// Billing domain events
	serializer.Register("SubscriptionStarted", &billing.SubscriptionStartedEvent{})
	serializer.Register("SubscriptionTierChanged", &billing.SubscriptionTierChangedEvent{})
	serializer.Register("SubscriptionPastDue", &billing.SubscriptionPastDueEvent{})
	serializer.Register("SubscriptionCancelled", &billing.SubscriptionCancelledEvent{})
}
