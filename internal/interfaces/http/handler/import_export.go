package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rentfold/backend/internal/application/reporting"
	"github.com/rentfold/backend/internal/domain/finance"
	"github.com/rentfold/backend/internal/interfaces/http/dto"
)

// ImportExportHandler serves CSV template downloads and statement exports
type ImportExportHandler struct {
	BaseHandler
	templateService  *reporting.ImportTemplateService
	statementService *reporting.StatementService
}

// NewImportExportHandler creates a new import/export handler
func NewImportExportHandler(
	templateService *reporting.ImportTemplateService,
	statementService *reporting.StatementService,
) *ImportExportHandler {
	return &ImportExportHandler{
		templateService:  templateService,
		statementService: statementService,
	}
}

// ExportLedgerRequest is the ledger statement export query
type ExportLedgerRequest struct {
	dto.ListRequest
	AccountID string     `form:"account_id" binding:"omitempty,uuid"`
	Source    string     `form:"source" binding:"omitempty,oneof=PAYMENT MANUAL IMPORT"`
	FromDate  *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// PropertiesTemplate downloads the property bulk-import CSV template.
func (h *ImportExportHandler) PropertiesTemplate(c *gin.Context) {
	data, err := h.templateService.PropertiesTemplate()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	serveCSV(c, "properties-template.csv", data)
}

// TenantsTemplate downloads the tenant bulk-import CSV template.
func (h *ImportExportHandler) TenantsTemplate(c *gin.Context) {
	data, err := h.templateService.TenantsTemplate()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	serveCSV(c, "tenants-template.csv", data)
}

// ExportLedger exports ledger entries as a CSV statement.
func (h *ImportExportHandler) ExportLedger(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business scope required")
		return
	}

	var req ExportLedgerRequest
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

	data, err := h.statementService.ExportLedgerCSV(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	serveCSV(c, fmt.Sprintf("ledger-%s.csv", time.Now().Format("2006-01-02")), data)
}

func serveCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
