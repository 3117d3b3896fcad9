package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appbilling "github.com/rentfold/backend/internal/application/billing"
	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

// AIHandler handles AI provider key and usage HTTP requests
type AIHandler struct {
	BaseHandler
	aiService *appbilling.AIService
}

// NewAIHandler creates a new AI handler
func NewAIHandler(aiService *appbilling.AIService) *AIHandler {
	return &AIHandler{
		aiService: aiService,
	}
}

// RegisterAIKeyRequest is the provider key registration request body.
// The plain key is encrypted before it touches the database and never
// returned.
type RegisterAIKeyRequest struct {
	Provider string `json:"provider" binding:"required,oneof=openai anthropic gemini"`
	Label    string `json:"label" binding:"required,max=100"`
	PlainKey string `json:"plain_key" binding:"required,max=512"`
}

// RotateAIKeyRequest is the key rotation request body
type RotateAIKeyRequest struct {
	PlainKey string `json:"plain_key" binding:"required,max=512"`
}

// SetAIBudgetRequest is the monthly token budget request body
type SetAIBudgetRequest struct {
	MonthlyTokens int64 `json:"monthly_tokens" binding:"required,min=1"`
}

// RecordAIUsageRequest is the usage metering request body
type RecordAIUsageRequest struct {
	KeyID        string    `json:"key_id" binding:"required,uuid"`
	Feature      string    `json:"feature" binding:"required,max=100"`
	InputTokens  int64     `json:"input_tokens" binding:"min=0"`
	OutputTokens int64     `json:"output_tokens" binding:"min=0"`
	CostCents    int64     `json:"cost_cents" binding:"min=0"`
	OccurredAt   time.Time `json:"occurred_at" binding:"required"`
}

// AIUsageSummaryRequest is the usage summary query
type AIUsageSummaryRequest struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// RegisterKey registers an AI provider key.
// Requires the AI assistant plan feature. The key is stored encrypted.
func (h *AIHandler) RegisterKey(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req RegisterAIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	key, err := h.aiService.RegisterKey(c.Request.Context(), appbilling.RegisterKeyInput{
		BusinessID: businessID,
		Provider:   billing.AIProvider(req.Provider),
		Label:      req.Label,
		PlainKey:   req.PlainKey,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, key)
}

// RotateKey rotates an AI provider key.
func (h *AIHandler) RotateKey(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid key ID")
		return
	}

	var req RotateAIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	key, err := h.aiService.RotateKey(c.Request.Context(), businessID, keyID, req.PlainKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, key)
}

// SetMonthlyBudget sets a key's monthly token budget.
func (h *AIHandler) SetMonthlyBudget(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid key ID")
		return
	}

	var req SetAIBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.aiService.SetMonthlyBudget(c.Request.Context(), businessID, keyID, req.MonthlyTokens); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DeactivateKey deactivates an AI provider key.
func (h *AIHandler) DeactivateKey(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid key ID")
		return
	}

	if err := h.aiService.DeactivateKey(c.Request.Context(), businessID, keyID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListKeys lists AI provider keys.
func (h *AIHandler) ListKeys(c *gin.Context) {
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

	keys, err := h.aiService.ListKeys(c.Request.Context(), businessID, toSharedFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, keys)
}

// RecordUsage meters an AI call.
// Calls that would exceed the key's monthly token budget are rejected.
func (h *AIHandler) RecordUsage(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req RecordAIUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	keyID, err := uuid.Parse(req.KeyID)
	if err != nil {
		h.BadRequest(c, "Invalid key ID")
		return
	}

	record, err := h.aiService.RecordUsage(c.Request.Context(), appbilling.RecordUsageInput{
		BusinessID:   businessID,
		KeyID:        keyID,
		Feature:      req.Feature,
		InputTokens:  req.InputTokens,
		OutputTokens: req.OutputTokens,
		CostCents:    req.CostCents,
		OccurredAt:   req.OccurredAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, record)
}

// GetUsageSummary gets AI usage over a date range.
func (h *AIHandler) GetUsageSummary(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req AIUsageSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	summary, err := h.aiService.GetUsageSummary(c.Request.Context(), businessID, req.From, req.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
