package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applisting "github.com/rentfold/backend/internal/application/listing"
	"github.com/rentfold/backend/internal/domain/listing"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

// ListingHandler handles vacancy listing HTTP requests
type ListingHandler struct {
	BaseHandler
	listingService *applisting.ListingService
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listingService *applisting.ListingService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
	}
}

// CreateListingRequest is the listing creation request body
type CreateListingRequest struct {
	UnitID           string     `json:"unit_id" binding:"required,uuid"`
	Headline         string     `json:"headline" binding:"required,max=200"`
	Description      string     `json:"description" binding:"max=10000"`
	MonthlyRentCents int64      `json:"monthly_rent_cents" binding:"required,min=1"`
	AvailableDate    *time.Time `json:"available_date"`
}

// UpdateListingRequest is the listing update request body
type UpdateListingRequest struct {
	Headline         string     `json:"headline" binding:"required,max=200"`
	Description      string     `json:"description" binding:"max=10000"`
	MonthlyRentCents int64      `json:"monthly_rent_cents" binding:"required,min=1"`
	AvailableDate    *time.Time `json:"available_date"`
}

// RequestPhotoUploadRequest is the presigned upload request body
type RequestPhotoUploadRequest struct {
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp"`
}

// AttachPhotoRequest is the photo attach request body
type AttachPhotoRequest struct {
	ObjectKey string `json:"object_key" binding:"required,max=512"`
}

// ListListingsRequest is the listing list query
type ListListingsRequest struct {
	dto.ListRequest
	UnitID       string `form:"unit_id" binding:"omitempty,uuid"`
	Status       string `form:"status" binding:"omitempty,oneof=draft published archived"`
	MaxRentCents *int64 `form:"max_rent_cents" binding:"omitempty,min=1"`
}

func (r *ListListingsRequest) toFilter(h *BaseHandler, c *gin.Context) (listing.ListingFilter, bool) {
	filter := listing.ListingFilter{
		Filter:       toSharedFilter(r.ListRequest),
		MaxRentCents: r.MaxRentCents,
	}
	if r.UnitID != "" {
		unitID, err := uuid.Parse(r.UnitID)
		if err != nil {
			h.BadRequest(c, "Invalid unit ID")
			return filter, false
		}
		filter.UnitID = &unitID
	}
	if r.Status != "" {
		status := listing.ListingStatus(r.Status)
		filter.Status = &status
	}
	return filter, true
}

// Create drafts a vacancy listing.
func (h *ListingHandler) Create(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	result, err := h.listingService.Create(c.Request.Context(), applisting.CreateListingInput{
		BusinessID:       businessID,
		UnitID:           unitID,
		Headline:         req.Headline,
		Description:      req.Description,
		MonthlyRentCents: req.MonthlyRentCents,
		AvailableDate:    req.AvailableDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get gets a listing.
func (h *ListingHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	result, err := h.listingService.Get(c.Request.Context(), businessID, listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List lists listings.
func (h *ListingHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req ListListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	filter, ok := req.toFilter(&h.BaseHandler, c)
	if !ok {
		return
	}

	result, err := h.listingService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListPublished lists published listings.
func (h *ListingHandler) ListPublished(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req ListListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	filter, ok := req.toFilter(&h.BaseHandler, c)
	if !ok {
		return
	}

	result, err := h.listingService.ListPublished(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update updates a listing.
func (h *ListingHandler) Update(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.listingService.Update(c.Request.Context(), applisting.UpdateListingInput{
		BusinessID:       businessID,
		ListingID:        listingID,
		Headline:         req.Headline,
		Description:      req.Description,
		MonthlyRentCents: req.MonthlyRentCents,
		AvailableDate:    req.AvailableDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Publish publishes a listing.
func (h *ListingHandler) Publish(c *gin.Context) {
	h.transition(c, h.listingService.Publish)
}

// Unpublish takes a listing offline.
func (h *ListingHandler) Unpublish(c *gin.Context) {
	h.transition(c, h.listingService.Unpublish)
}

// Archive archives a listing.
func (h *ListingHandler) Archive(c *gin.Context) {
	h.transition(c, h.listingService.Archive)
}

// transition runs one of the listing status transitions
func (h *ListingHandler) transition(c *gin.Context, fn func(ctx context.Context, businessID, listingID uuid.UUID) (*listing.Listing, error)) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	result, err := fn(c.Request.Context(), businessID, listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RequestPhotoUpload gets a presigned photo upload URL.
// The client PUTs the image to the returned URL, then attaches the object key.
func (h *ListingHandler) RequestPhotoUpload(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	var req RequestPhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.listingService.RequestPhotoUpload(c.Request.Context(), businessID, listingID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AttachPhoto attaches an uploaded photo.
func (h *ListingHandler) AttachPhoto(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	var req AttachPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.listingService.AttachPhoto(c.Request.Context(), businessID, listingID, req.ObjectKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RemovePhoto removes a photo.
func (h *ListingHandler) RemovePhoto(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	var req AttachPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.listingService.RemovePhoto(c.Request.Context(), businessID, listingID, req.ObjectKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// PhotoURLs gets presigned photo view URLs.
func (h *ListingHandler) PhotoURLs(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	urls, err := h.listingService.PhotoURLs(c.Request.Context(), businessID, listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, urls)
}
