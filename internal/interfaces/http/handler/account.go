package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appfinance "github.com/rentfold/backend/internal/application/finance"
	"github.com/rentfold/backend/internal/domain/finance"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

// AccountHandler handles ledger account HTTP requests
type AccountHandler struct {
	BaseHandler
	accountService *appfinance.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *appfinance.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// CreateAccountRequest is the chart-of-accounts creation request body
type CreateAccountRequest struct {
	Code        string `json:"code" binding:"required,max=16"`
	Name        string `json:"name" binding:"required,max=200"`
	Type        string `json:"type" binding:"required,oneof=REVENUE EXPENSE"`
	Description string `json:"description" binding:"max=1000"`
}

// RenameAccountRequest is the account rename request body
type RenameAccountRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
}

// Create adds a ledger account.
func (h *AccountHandler) Create(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), appfinance.CreateAccountInput{
		BusinessID:  businessID,
		Code:        req.Code,
		Name:        req.Name,
		Type:        finance.AccountType(req.Type),
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, account)
}

// Get gets a ledger account.
func (h *AccountHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	account, err := h.accountService.Get(c.Request.Context(), businessID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// List lists the chart of accounts.
func (h *AccountHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	accounts, err := h.accountService.List(c.Request.Context(), businessID, toSharedFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, accounts)
}

// Rename renames a ledger account.
func (h *AccountHandler) Rename(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req RenameAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.Rename(c.Request.Context(), businessID, accountID, req.Name, req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// Deactivate deactivates a ledger account.
func (h *AccountHandler) Deactivate(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.Deactivate(c.Request.Context(), businessID, accountID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
