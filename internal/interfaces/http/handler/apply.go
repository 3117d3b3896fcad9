package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appleasing "github.com/rentfold/backend/internal/application/leasing"
	applisting "github.com/rentfold/backend/internal/application/listing"
	"github.com/rentfold/backend/internal/domain/listing"
	"github.com/rentfold/backend/internal/domain/shared"
)

// ApplyHandler serves the public application page: prospective renters
// reach it through a shared listing link without an account. The code
// in the URL is the listing ID.
type ApplyHandler struct {
	BaseHandler
	listingRepo        listing.ListingRepository
	listingService     *applisting.ListingService
	applicationService *appleasing.ApplicationService
}

// NewApplyHandler creates a new public application handler
func NewApplyHandler(
	listingRepo listing.ListingRepository,
	listingService *applisting.ListingService,
	applicationService *appleasing.ApplicationService,
) *ApplyHandler {
	return &ApplyHandler{
		listingRepo:        listingRepo,
		listingService:     listingService,
		applicationService: applicationService,
	}
}

// SubmitApplicationRequest is the public application request body
type SubmitApplicationRequest struct {
	ApplicantName      string     `json:"applicant_name" binding:"required,max=200"`
	ApplicantEmail     string     `json:"applicant_email" binding:"required,email"`
	ApplicantPhone     string     `json:"applicant_phone" binding:"omitempty,max=32"`
	MonthlyIncomeCents int64      `json:"monthly_income_cents" binding:"min=0"`
	MoveInDate         *time.Time `json:"move_in_date"`
	ReferralCode       string     `json:"referral_code" binding:"omitempty,max=32"`
}

// PublicListingResponse is the listing info shown on the apply page.
// It deliberately omits internal identifiers beyond what submission
// needs.
type PublicListingResponse struct {
	Code             string     `json:"code"`
	Headline         string     `json:"headline"`
	Description      string     `json:"description"`
	MonthlyRentCents int64      `json:"monthly_rent_cents"`
	AvailableDate    *time.Time `json:"available_date,omitempty"`
	PhotoURLs        []string   `json:"photo_urls,omitempty"`
}

// findPublishedListing resolves an apply code to a published listing
func (h *ApplyHandler) findPublishedListing(c *gin.Context) (*listing.Listing, bool) {
	code, err := uuid.Parse(c.Param("code"))
	if err != nil {
		h.NotFound(c, "Listing not found")
		return nil, false
	}

	l, err := h.listingRepo.FindByID(c.Request.Context(), code)
	if err != nil {
		if err == shared.ErrNotFound {
			h.NotFound(c, "Listing not found")
		} else {
			h.HandleError(c, err)
		}
		return nil, false
	}

	if l.Status != listing.ListingStatusPublished || !l.IsActive {
		h.NotFound(c, "Listing not found")
		return nil, false
	}

	return l, true
}

// GetListing gets listing info for the apply page.
func (h *ApplyHandler) GetListing(c *gin.Context) {
	l, ok := h.findPublishedListing(c)
	if !ok {
		return
	}

	resp := PublicListingResponse{
		Code:             l.ID.String(),
		Headline:         l.Headline,
		Description:      l.Description,
		MonthlyRentCents: l.MonthlyRentCents,
		AvailableDate:    l.AvailableDate,
	}

	// Photo URLs are presigned; a storage error degrades to no photos
	if urls, err := h.listingService.PhotoURLs(c.Request.Context(), l.BusinessID, l.ID); err == nil {
		for _, key := range l.PhotoKeys {
			if url, ok := urls[key]; ok {
				resp.PhotoURLs = append(resp.PhotoURLs, url)
			}
		}
	}

	h.Success(c, resp)
}

// Submit submits a rental application.
// Public endpoint reached from a shared listing link.
func (h *ApplyHandler) Submit(c *gin.Context) {
	l, ok := h.findPublishedListing(c)
	if !ok {
		return
	}

	var req SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	application, err := h.applicationService.Submit(c.Request.Context(), appleasing.SubmitApplicationInput{
		BusinessID:         l.BusinessID,
		UnitID:             l.UnitID,
		ApplicantName:      req.ApplicantName,
		ApplicantEmail:     req.ApplicantEmail,
		ApplicantPhone:     req.ApplicantPhone,
		MonthlyIncomeCents: req.MonthlyIncomeCents,
		MoveInDate:         req.MoveInDate,
		ReferralCode:       req.ReferralCode,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, application)
}
