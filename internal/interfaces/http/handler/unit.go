package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appportfolio "github.com/rentfold/backend/internal/application/portfolio"
	"github.com/rentfold/backend/internal/domain/portfolio"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

// UnitHandler handles rental unit HTTP requests
type UnitHandler struct {
	BaseHandler
	unitService *appportfolio.UnitService
}

// NewUnitHandler creates a new unit handler
func NewUnitHandler(unitService *appportfolio.UnitService) *UnitHandler {
	return &UnitHandler{
		unitService: unitService,
	}
}

// CreateUnitRequest is the unit creation request body
type CreateUnitRequest struct {
	PropertyID      string          `json:"property_id" binding:"required,uuid"`
	UnitNumber      string          `json:"unit_number" binding:"required,max=32"`
	Bedrooms        int             `json:"bedrooms" binding:"min=0,max=20"`
	Bathrooms       decimal.Decimal `json:"bathrooms"`
	SquareFeet      *int            `json:"square_feet" binding:"omitempty,min=1"`
	MarketRentCents int64           `json:"market_rent_cents" binding:"min=0"`
	Notes           string          `json:"notes" binding:"max=2000"`
}

// UpdateUnitRequest is the unit update request body
type UpdateUnitRequest struct {
	Bedrooms        int             `json:"bedrooms" binding:"min=0,max=20"`
	Bathrooms       decimal.Decimal `json:"bathrooms"`
	SquareFeet      *int            `json:"square_feet" binding:"omitempty,min=1"`
	MarketRentCents int64           `json:"market_rent_cents" binding:"min=0"`
	Notes           string          `json:"notes" binding:"max=2000"`
}

// SetUnitStatusRequest is the status change request body
type SetUnitStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=vacant occupied maintenance offline"`
}

// ListUnitsRequest is the unit list query
type ListUnitsRequest struct {
	dto.ListRequest
	PropertyID      string `form:"property_id" binding:"omitempty,uuid"`
	Status          string `form:"status" binding:"omitempty,oneof=vacant occupied maintenance offline"`
	IncludeInactive bool   `form:"include_inactive"`
}

// Create adds a unit to a property.
// Creates a unit. Fails with 429 when the plan's unit limit is reached.
func (h *UnitHandler) Create(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	unit, err := h.unitService.Create(c.Request.Context(), appportfolio.CreateUnitInput{
		BusinessID:      businessID,
		PropertyID:      propertyID,
		UnitNumber:      req.UnitNumber,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		SquareFeet:      req.SquareFeet,
		MarketRentCents: req.MarketRentCents,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, unit)
}

// Get gets a unit.
func (h *UnitHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	unit, err := h.unitService.Get(c.Request.Context(), businessID, unitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, unit)
}

// List lists units.
func (h *UnitHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req ListUnitsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	filter := portfolio.UnitFilter{
		Filter:          toSharedFilter(req.ListRequest),
		IncludeInactive: req.IncludeInactive,
	}
	if req.PropertyID != "" {
		propertyID, err := uuid.Parse(req.PropertyID)
		if err != nil {
			h.BadRequest(c, "Invalid property ID")
			return
		}
		filter.PropertyID = &propertyID
	}
	if req.Status != "" {
		status := portfolio.UnitStatus(req.Status)
		filter.Status = &status
	}

	result, err := h.unitService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListByProperty lists units of one property.
func (h *UnitHandler) ListByProperty(c *gin.Context) {
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

	units, err := h.unitService.ListByProperty(c.Request.Context(), businessID, propertyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, units)
}

// Update updates a unit.
func (h *UnitHandler) Update(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	var req UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	unit, err := h.unitService.Update(c.Request.Context(), appportfolio.UpdateUnitInput{
		BusinessID:      businessID,
		UnitID:          unitID,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		SquareFeet:      req.SquareFeet,
		MarketRentCents: req.MarketRentCents,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, unit)
}

// SetStatus changes a unit's status.
// Occupied units cannot be moved directly to vacant while a lease is open.
func (h *UnitHandler) SetStatus(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	var req SetUnitStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	unit, err := h.unitService.SetStatus(c.Request.Context(), businessID, unitID, portfolio.UnitStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, unit)
}

// Deactivate deactivates a unit.
func (h *UnitHandler) Deactivate(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	if err := h.unitService.Deactivate(c.Request.Context(), businessID, unitID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
