package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appfinance "github.com/rentfold/backend/internal/application/finance"
	"github.com/rentfold/backend/internal/domain/finance"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

// LedgerHandler handles ledger entry HTTP requests
type LedgerHandler struct {
	BaseHandler
	ledgerService *appfinance.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *appfinance.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// PostEntryRequest is the manual ledger entry request body
type PostEntryRequest struct {
	AccountID   string    `json:"account_id" binding:"required,uuid"`
	EntryDate   time.Time `json:"entry_date" binding:"required"`
	AmountCents int64     `json:"amount_cents" binding:"required"`
	Memo        string    `json:"memo" binding:"max=500"`
}

// ListEntriesRequest is the ledger entry list query
type ListEntriesRequest struct {
	dto.ListRequest
	AccountID string     `form:"account_id" binding:"omitempty,uuid"`
	Source    string     `form:"source" binding:"omitempty,oneof=PAYMENT MANUAL IMPORT"`
	FromDate  *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// Post posts a manual ledger entry.
func (h *LedgerHandler) Post(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	entry, err := h.ledgerService.Post(c.Request.Context(), appfinance.PostEntryInput{
		BusinessID:  businessID,
		AccountID:   accountID,
		EntryDate:   req.EntryDate,
		AmountCents: req.AmountCents,
		Memo:        req.Memo,
		Source:      finance.EntrySourceManual,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// List lists ledger entries.
func (h *LedgerHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req ListEntriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	filter := finance.LedgerEntryFilter{
		Filter:   toSharedFilter(req.ListRequest),
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
	}
	if req.AccountID != "" {
		accountID, err := uuid.Parse(req.AccountID)
		if err != nil {
			h.BadRequest(c, "Invalid account ID")
			return
		}
		filter.AccountID = &accountID
	}
	if req.Source != "" {
		source := finance.EntrySource(req.Source)
		filter.Source = &source
	}

	entries, err := h.ledgerService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// Void voids a ledger entry.
// Voided entries stay on record but drop out of the actuals.
func (h *LedgerHandler) Void(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	if err := h.ledgerService.Void(c.Request.Context(), businessID, entryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
