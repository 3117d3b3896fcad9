package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/listing"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/domain/shared"
)

// FeatureGate checks whether a business's plan grants a feature. The
// billing entitlement service implements it.
type FeatureGate interface {
	RequireFeature(ctx context.Context, businessID uuid.UUID, feature billing.FeatureKey) error
}

// PhotoStorage hands out presigned URLs for listing photos. Backed by S3.
type PhotoStorage interface {
	PresignUpload(ctx context.Context, objectKey, contentType string, expiry time.Duration) (string, error)
	PresignView(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}

const (
	uploadURLExpiry = 15 * time.Minute
	viewURLExpiry   = 1 * time.Hour
)

// ListingService handles unit advertisements
type ListingService struct {
	listingRepo listing.ListingRepository
	unitRepo    portfolio.UnitRepository
	features    FeatureGate
	storage     PhotoStorage
	logger      *zap.Logger
}

// NewListingService creates a new listing service
func NewListingService(
	listingRepo listing.ListingRepository,
	unitRepo portfolio.UnitRepository,
	features FeatureGate,
	storage PhotoStorage,
	logger *zap.Logger,
) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		unitRepo:    unitRepo,
		features:    features,
		storage:     storage,
		logger:      logger,
	}
}

// CreateListingInput contains input for drafting a listing
type CreateListingInput struct {
	BusinessID       uuid.UUID
	UnitID           uuid.UUID
	Headline         string
	Description      string
	MonthlyRentCents int64
	AvailableDate    *time.Time
}

// UpdateListingInput contains input for updating listing content
type UpdateListingInput struct {
	BusinessID       uuid.UUID
	ListingID        uuid.UUID
	Headline         string
	Description      string
	MonthlyRentCents int64
	AvailableDate    *time.Time
}

// PhotoUploadResult carries a presigned upload URL and the object key
// the client must attach after the upload succeeds.
type PhotoUploadResult struct {
	ObjectKey string `json:"object_key"`
	UploadURL string `json:"upload_url"`
}

// Create drafts a listing for a unit. The plan must include listings.
func (s *ListingService) Create(ctx context.Context, input CreateListingInput) (*listing.Listing, error) {
	if err := s.features.RequireFeature(ctx, input.BusinessID, billing.FeatureListings); err != nil {
		return nil, err
	}

	unit, err := s.unitRepo.FindByIDForBusiness(ctx, input.UnitID, input.BusinessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("UNIT_NOT_FOUND", "Unit not found")
		}
		s.logger.Error("Failed to load unit", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load unit")
	}
	if !unit.IsActive {
		return nil, shared.NewDomainError("UNIT_INACTIVE", "Unit is inactive")
	}

	draft, err := listing.NewListing(input.BusinessID, input.UnitID)
	if err != nil {
		return nil, err
	}
	if input.Headline != "" || input.MonthlyRentCents > 0 {
		if err := draft.UpdateContent(input.Headline, input.Description, input.MonthlyRentCents); err != nil {
			return nil, err
		}
	}
	if input.AvailableDate != nil {
		if err := draft.SetAvailableDate(*input.AvailableDate); err != nil {
			return nil, err
		}
	}

	if err := s.listingRepo.Save(ctx, draft); err != nil {
		s.logger.Error("Failed to save listing", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create listing")
	}

	s.logger.Info("Listing drafted",
		zap.String("business_id", input.BusinessID.String()),
		zap.String("listing_id", draft.ID.String()),
		zap.String("unit_id", input.UnitID.String()))

	return draft, nil
}

// Get retrieves a listing scoped to a business
func (s *ListingService) Get(ctx context.Context, businessID, listingID uuid.UUID) (*listing.Listing, error) {
	found, err := s.listingRepo.FindByIDForBusiness(ctx, listingID, businessID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("LISTING_NOT_FOUND", "Listing not found")
		}
		s.logger.Error("Failed to load listing", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load listing")
	}
	return found, nil
}

// List lists listings for a business
func (s *ListingService) List(ctx context.Context, businessID uuid.UUID, filter listing.ListingFilter) (*shared.Paginated[*listing.Listing], error) {
	page, err := s.listingRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list listings", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list listings")
	}
	return page, nil
}

// ListPublished lists the business's live advertisements
func (s *ListingService) ListPublished(ctx context.Context, businessID uuid.UUID, filter listing.ListingFilter) (*shared.Paginated[*listing.Listing], error) {
	page, err := s.listingRepo.FindPublished(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list published listings", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list listings")
	}
	return page, nil
}

// Update replaces the advertised content of a listing
func (s *ListingService) Update(ctx context.Context, input UpdateListingInput) (*listing.Listing, error) {
	found, err := s.Get(ctx, input.BusinessID, input.ListingID)
	if err != nil {
		return nil, err
	}

	if err := found.UpdateContent(input.Headline, input.Description, input.MonthlyRentCents); err != nil {
		return nil, err
	}
	if input.AvailableDate != nil {
		if err := found.SetAvailableDate(*input.AvailableDate); err != nil {
			return nil, err
		}
	}

	if err := s.listingRepo.SaveWithLock(ctx, found, found.Version-1); err != nil {
		s.logger.Error("Failed to save listing", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update listing")
	}

	return found, nil
}

// Publish makes a listing public. Only vacant units can be advertised.
func (s *ListingService) Publish(ctx context.Context, businessID, listingID uuid.UUID) (*listing.Listing, error) {
	found, err := s.Get(ctx, businessID, listingID)
	if err != nil {
		return nil, err
	}

	unit, err := s.unitRepo.FindByIDForBusiness(ctx, found.UnitID, businessID)
	if err != nil {
		s.logger.Error("Failed to load unit for publish", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load unit")
	}
	if unit.Status != portfolio.UnitStatusVacant {
		return nil, shared.NewDomainError("UNIT_NOT_VACANT", "Only vacant units can be advertised")
	}

	if err := found.Publish(); err != nil {
		return nil, err
	}

	if err := s.listingRepo.SaveWithLock(ctx, found, found.Version-1); err != nil {
		s.logger.Error("Failed to save published listing", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to publish listing")
	}

	s.logger.Info("Listing published",
		zap.String("listing_id", listingID.String()),
		zap.String("unit_id", found.UnitID.String()))

	return found, nil
}

// Unpublish pulls a listing back to draft
func (s *ListingService) Unpublish(ctx context.Context, businessID, listingID uuid.UUID) (*listing.Listing, error) {
	found, err := s.Get(ctx, businessID, listingID)
	if err != nil {
		return nil, err
	}

	if err := found.Unpublish(); err != nil {
		return nil, err
	}

	if err := s.listingRepo.SaveWithLock(ctx, found, found.Version-1); err != nil {
		s.logger.Error("Failed to save unpublished listing", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to unpublish listing")
	}

	return found, nil
}

// Archive retires a listing
func (s *ListingService) Archive(ctx context.Context, businessID, listingID uuid.UUID) (*listing.Listing, error) {
	found, err := s.Get(ctx, businessID, listingID)
	if err != nil {
		return nil, err
	}

	if err := found.Archive(); err != nil {
		return nil, err
	}

	if err := s.listingRepo.SaveWithLock(ctx, found, found.Version-1); err != nil {
		s.logger.Error("Failed to save archived listing", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to archive listing")
	}

	return found, nil
}

// RequestPhotoUpload issues a presigned upload URL. The photo is attached
// to the listing once the client confirms the upload.
func (s *ListingService) RequestPhotoUpload(ctx context.Context, businessID, listingID uuid.UUID, contentType string) (*PhotoUploadResult, error) {
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Photos must be JPEG, PNG or WebP")
	}

	found, err := s.Get(ctx, businessID, listingID)
	if err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("listings/%s/%s/%s", businessID, found.ID, uuid.New())
	uploadURL, err := s.storage.PresignUpload(ctx, objectKey, contentType, uploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to presign photo upload", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare photo upload")
	}

	return &PhotoUploadResult{ObjectKey: objectKey, UploadURL: uploadURL}, nil
}

// AttachPhoto adds an uploaded photo to the listing
func (s *ListingService) AttachPhoto(ctx context.Context, businessID, listingID uuid.UUID, objectKey string) (*listing.Listing, error) {
	found, err := s.Get(ctx, businessID, listingID)
	if err != nil {
		return nil, err
	}

	if err := found.AddPhoto(objectKey); err != nil {
		return nil, err
	}

	if err := s.listingRepo.SaveWithLock(ctx, found, found.Version-1); err != nil {
		s.logger.Error("Failed to save listing photo", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to attach photo")
	}

	return found, nil
}

// RemovePhoto detaches a photo from the listing
func (s *ListingService) RemovePhoto(ctx context.Context, businessID, listingID uuid.UUID, objectKey string) (*listing.Listing, error) {
	found, err := s.Get(ctx, businessID, listingID)
	if err != nil {
		return nil, err
	}

	if err := found.RemovePhoto(objectKey); err != nil {
		return nil, err
	}

	if err := s.listingRepo.SaveWithLock(ctx, found, found.Version-1); err != nil {
		s.logger.Error("Failed to save listing photo removal", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to remove photo")
	}

	return found, nil
}

// PhotoURLs resolves presigned view URLs for the listing's photos
func (s *ListingService) PhotoURLs(ctx context.Context, businessID, listingID uuid.UUID) (map[string]string, error) {
	found, err := s.Get(ctx, businessID, listingID)
	if err != nil {
		return nil, err
	}

	urls := make(map[string]string, len(found.PhotoKeys))
	for _, key := range found.PhotoKeys {
		url, err := s.storage.PresignView(ctx, key, viewURLExpiry)
		if err != nil {
			s.logger.Error("Failed to presign photo view",
				zap.String("object_key", key),
				zap.Error(err))
			return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to resolve photo URLs")
		}
		urls[key] = url
	}

	return urls, nil
}
