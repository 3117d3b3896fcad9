package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appfinance "github.com/rentfold/backend/internal/application/finance"
	"github.com/rentfold/backend/internal/domain/finance"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	BaseHandler
	budgetService *appfinance.BudgetService
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService *appfinance.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// CreateBudgetRequest is the budget creation request body
type CreateBudgetRequest struct {
	Name       string `json:"name" binding:"required,max=200"`
	FiscalYear int    `json:"fiscal_year" binding:"required,min=2000,max=2100"`
}

// AllocateBudgetRequest spreads an annual amount over the 12 periods.
// Without a pattern the amount is spread evenly.
type AllocateBudgetRequest struct {
	AccountID   string `json:"account_id" binding:"required,uuid"`
	AnnualCents int64  `json:"annual_cents" binding:"required,min=1"`
	Pattern     string `json:"pattern" binding:"omitempty,oneof=WINTER_HEAVY SUMMER_HEAVY QUARTERLY_SPIKE"`
}

// SetBudgetItemRequest sets explicit per-period amounts
type SetBudgetItemRequest struct {
	AccountID string                        `json:"account_id" binding:"required,uuid"`
	Amounts   [finance.PeriodsPerYear]int64 `json:"amounts" binding:"required"`
}

// CopyBudgetRequest clones a budget into another fiscal year
type CopyBudgetRequest struct {
	Name              string  `json:"name" binding:"required,max=200"`
	TargetYear        int     `json:"target_year" binding:"required,min=2000,max=2100"`
	AdjustmentPercent float64 `json:"adjustment_percent" binding:"min=-100,max=1000"`
}

// VarianceRequest is the variance report query
type VarianceRequest struct {
	FromPeriod int `form:"from_period" binding:"min=0,max=11"`
	ToPeriod   int `form:"to_period" binding:"min=0,max=11"`
}

// ListBudgetsRequest is the budget list query
type ListBudgetsRequest struct {
	dto.ListRequest
	FiscalYear *int   `form:"fiscal_year" binding:"omitempty,min=2000,max=2100"`
	Status     string `form:"status" binding:"omitempty,oneof=DRAFT ACTIVE ARCHIVED"`
}

// Create drafts a budget.
// Requires the budgeting plan feature.
func (h *BudgetHandler) Create(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	budget, err := h.budgetService.Create(c.Request.Context(), appfinance.CreateBudgetInput{
		BusinessID: businessID,
		Name:       req.Name,
		FiscalYear: req.FiscalYear,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, budget)
}

// Get gets a budget.
func (h *BudgetHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	budget, err := h.budgetService.Get(c.Request.Context(), businessID, budgetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budget)
}

// List lists budgets.
func (h *BudgetHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req ListBudgetsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	filter := finance.BudgetFilter{
		Filter:     toSharedFilter(req.ListRequest),
		FiscalYear: req.FiscalYear,
	}
	if req.Status != "" {
		status := finance.BudgetStatus(req.Status)
		filter.Status = &status
	}

	budgets, err := h.budgetService.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budgets)
}

// Allocate allocates an annual amount to an account.
func (h *BudgetHandler) Allocate(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	var req AllocateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	input := appfinance.AllocateInput{
		BusinessID:  businessID,
		BudgetID:    budgetID,
		AccountID:   accountID,
		AnnualCents: req.AnnualCents,
	}
	if req.Pattern != "" {
		pattern := finance.SeasonalPattern(req.Pattern)
		input.Pattern = &pattern
	}

	budget, err := h.budgetService.Allocate(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budget)
}

// SetItem sets explicit period amounts for an account.
func (h *BudgetHandler) SetItem(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	var req SetBudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	budget, err := h.budgetService.SetItem(c.Request.Context(), appfinance.SetItemInput{
		BusinessID: businessID,
		BudgetID:   budgetID,
		AccountID:  accountID,
		Amounts:    req.Amounts,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budget)
}

// RemoveItem removes an account's line from a budget.
func (h *BudgetHandler) RemoveItem(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	budget, err := h.budgetService.RemoveItem(c.Request.Context(), businessID, budgetID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budget)
}

// Activate puts a budget into effect.
// Archives any other active budget for the same fiscal year.
func (h *BudgetHandler) Activate(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	budget, err := h.budgetService.Activate(c.Request.Context(), businessID, budgetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budget)
}

// Archive archives a budget.
func (h *BudgetHandler) Archive(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	budget, err := h.budgetService.Archive(c.Request.Context(), businessID, budgetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budget)
}

// Copy clones a budget into another year.
// Applies a uniform percentage adjustment to every line.
func (h *BudgetHandler) Copy(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	var req CopyBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	budget, err := h.budgetService.Copy(c.Request.Context(), appfinance.CopyBudgetInput{
		BusinessID:        businessID,
		SourceBudgetID:    budgetID,
		Name:              req.Name,
		TargetYear:        req.TargetYear,
		AdjustmentPercent: req.AdjustmentPercent,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, budget)
}

// Variance gets a budget variance report.
// Compares budgeted amounts to posted actuals over a period range.
func (h *BudgetHandler) Variance(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	req := VarianceRequest{FromPeriod: 0, ToPeriod: finance.PeriodsPerYear - 1}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	report, err := h.budgetService.Variance(c.Request.Context(), appfinance.VarianceInput{
		BusinessID: businessID,
		BudgetID:   budgetID,
		FromPeriod: req.FromPeriod,
		ToPeriod:   req.ToPeriod,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}
