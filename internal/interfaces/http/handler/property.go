package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appportfolio "github.com/rentfold/backend/internal/application/portfolio"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

// PropertyHandler handles property HTTP requests
type PropertyHandler struct {
	BaseHandler
	propertyService *appportfolio.PropertyService
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyService *appportfolio.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
	}
}

// CreatePropertyRequest is the property creation request body
type CreatePropertyRequest struct {
	Name      string         `json:"name" binding:"required,max=200"`
	Type      string         `json:"type" binding:"required,oneof=single_family multi_family apartment commercial"`
	Address   AddressRequest `json:"address" binding:"required"`
	YearBuilt *int           `json:"year_built" binding:"omitempty,min=1800,max=2100"`
	Notes     string         `json:"notes" binding:"max=2000"`
}

// UpdatePropertyRequest is the property update request body
type UpdatePropertyRequest struct {
	Name      string         `json:"name" binding:"required,max=200"`
	Type      string         `json:"type" binding:"required,oneof=single_family multi_family apartment commercial"`
	Address   AddressRequest `json:"address" binding:"required"`
	YearBuilt *int           `json:"year_built" binding:"omitempty,min=1800,max=2100"`
	Notes     string         `json:"notes" binding:"max=2000"`
}

// ListPropertiesRequest is the property list query
type ListPropertiesRequest struct {
	dto.ListRequest
	Type            string `form:"type" binding:"omitempty,oneof=single_family multi_family apartment commercial"`
	IncludeInactive bool   `form:"include_inactive"`
}

// Create adds a property.
// Creates a property. Fails with 429 when the plan's property limit is reached.
func (h *PropertyHandler) Create(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	address, err := req.Address.toAddress()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	property, err := h.propertyService.Create(c.Request.Context(), appportfolio.CreatePropertyInput{
		BusinessID: businessID,
		Name:       req.Name,
		Type:       portfolio.PropertyType(req.Type),
		Address:    address,
		YearBuilt:  req.YearBuilt,
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, property)
}

// Get gets a property.
func (h *PropertyHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	property, err := h.propertyService.Get(c.Request.Context(), businessID, propertyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, property)
}

// List lists properties.
func (h *PropertyHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req ListPropertiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	filter := portfolio.PropertyFilter{
		Filter:          toSharedFilter(req.ListRequest),
		IncludeInactive: req.IncludeInactive,
	}
	if req.Type != "" {
		propertyType := portfolio.PropertyType(req.Type)
		filter.Type = &propertyType
	}

	result, err := h.propertyService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update updates a property.
func (h *PropertyHandler) Update(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	address, err := req.Address.toAddress()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	property, err := h.propertyService.Update(c.Request.Context(), appportfolio.UpdatePropertyInput{
		BusinessID: businessID,
		PropertyID: propertyID,
		Name:       req.Name,
		Type:       portfolio.PropertyType(req.Type),
		Address:    address,
		YearBuilt:  req.YearBuilt,
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, property)
}

// Deactivate deactivates a property.
// Fails while the property still has occupied units.
func (h *PropertyHandler) Deactivate(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	if err := h.propertyService.Deactivate(c.Request.Context(), businessID, propertyID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Reactivate reactivates a property.
func (h *PropertyHandler) Reactivate(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	if err := h.propertyService.Reactivate(c.Request.Context(), businessID, propertyID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
