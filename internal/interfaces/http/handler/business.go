package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rentfold/backend/internal/application/identity"
	domainidentity "github.com/rentfold/backend/internal/domain/identity"
	"github.com/rentfold/backend/internal/domain/shared/valueobject"
)

// BusinessHandler handles business account HTTP requests
type BusinessHandler struct {
	BaseHandler
	businessService *identity.BusinessService
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(businessService *identity.BusinessService) *BusinessHandler {
	return &BusinessHandler{
		businessService: businessService,
	}
}

// RegisterBusinessRequest is the signup request body
type RegisterBusinessRequest struct {
	BusinessName string `json:"business_name" binding:"required,max=200"`
	Slug         string `json:"slug" binding:"required,max=63"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
	OwnerEmail   string `json:"owner_email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	ReferralCode string `json:"referral_code" binding:"omitempty,max=32"`
}

// RegisterBusinessResponse carries the new business and its owner account
type RegisterBusinessResponse struct {
	Business *domainidentity.Business `json:"business"`
	Owner    UserInfoResponse         `json:"owner"`
}

// AddressRequest is a postal address in request bodies
type AddressRequest struct {
	Line1   string `json:"line1" binding:"required"`
	Line2   string `json:"line2"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	ZipCode string `json:"zip_code" binding:"required"`
	Country string `json:"country"`
}

func (r AddressRequest) toAddress() (valueobject.Address, error) {
	opts := []valueobject.AddressOption{}
	if r.Line2 != "" {
		opts = append(opts, valueobject.WithLine2(r.Line2))
	}
	if r.Country != "" {
		opts = append(opts, valueobject.WithCountry(r.Country))
	}
	return valueobject.NewAddress(r.Line1, r.City, r.State, r.ZipCode, opts...)
}

// UpdateBusinessProfileRequest is the profile update request body
type UpdateBusinessProfileRequest struct {
	Name    string         `json:"name" binding:"required,max=200"`
	Address AddressRequest `json:"address" binding:"required"`
	LogoURL string         `json:"logo_url" binding:"omitempty,url"`
}

// SetBusinessContactRequest is the contact update request body
type SetBusinessContactRequest struct {
	ContactName  string `json:"contact_name" binding:"required,max=100"`
	ContactPhone string `json:"contact_phone" binding:"required,max=32"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
}

// Register registers a new business.
// Public signup. Creates the business, its owner account, and a trial subscription.
func (h *BusinessHandler) Register(c *gin.Context) {
	var req RegisterBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.businessService.Register(c.Request.Context(), identity.RegisterBusinessInput{
		BusinessName: req.BusinessName,
		Slug:         req.Slug,
		ContactEmail: req.ContactEmail,
		OwnerEmail:   req.OwnerEmail,
		Password:     req.Password,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, RegisterBusinessResponse{
		Business: result.Business,
		Owner:    toUserInfoResponse(result.Owner),
	})
}

// Get gets the current business.
func (h *BusinessHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	business, err := h.businessService.Get(c.Request.Context(), businessID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, business)
}

// AdvanceOnboarding advances the onboarding checklist.
// Moves the business to the next onboarding step once the current one is complete.
func (h *BusinessHandler) AdvanceOnboarding(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	business, err := h.businessService.AdvanceOnboarding(c.Request.Context(), businessID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, business)
}

// UpdateProfile updates business profile.
func (h *BusinessHandler) UpdateProfile(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req UpdateBusinessProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	address, err := req.Address.toAddress()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	business, err := h.businessService.UpdateProfile(c.Request.Context(), identity.UpdateBusinessProfileInput{
		BusinessID: businessID,
		Name:       req.Name,
		Address:    address,
		LogoURL:    req.LogoURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, business)
}

// SetContact updates business contact details.
func (h *BusinessHandler) SetContact(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req SetBusinessContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	business, err := h.businessService.SetContact(c.Request.Context(), identity.SetBusinessContactInput{
		BusinessID:   businessID,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, business)
}
