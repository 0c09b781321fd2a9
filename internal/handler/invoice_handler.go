package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"faktura/internal/csvexport"
	"faktura/internal/domain"
	"faktura/internal/service"
)

// maxImportSize caps uploaded CSV files at 10 MB.
const maxImportSize = 10 << 20

// InvoiceHandler handles invoice endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	importService  service.ImportService
	tenantService  service.TenantService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService, importService service.ImportService, tenantService service.TenantService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		importService:  importService,
		tenantService:  tenantService,
	}
}

type lineRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type createInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number" binding:"required"`
	Date          string          `json:"date" binding:"required"`
	CustomerName  string          `json:"customer_name" binding:"required"`
	VAT           decimal.Decimal `json:"vat"`
	Lines         []lineRequest   `json:"lines"`
}

type updateInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number" binding:"required"`
	Date          string          `json:"date" binding:"required"`
	CustomerName  string          `json:"customer_name" binding:"required"`
	VAT           decimal.Decimal `json:"vat"`
	Status        string          `json:"status"`
	Lines         []lineRequest   `json:"lines"`
}

func lineInputs(lines []lineRequest) []service.LineInput {
	out := make([]service.LineInput, len(lines))
	for i, l := range lines {
		out[i] = service.LineInput{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
	}
	return out
}

// Create handles POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	input := &service.CreateInvoiceInput{
		TenantID:      tenantID,
		UserID:        userID,
		Role:          role,
		InvoiceNumber: req.InvoiceNumber,
		Date:          req.Date,
		CustomerName:  req.CustomerName,
		VAT:           req.VAT,
		Lines:         lineInputs(req.Lines),
	}

	inv, err := h.invoiceService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, inv)
}

// List handles GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	invoices, total, err := h.invoiceService.List(c.Request.Context(), tenantID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	inv, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Update handles PUT /api/v1/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	var status domain.InvoiceStatus
	if req.Status != "" {
		parsed, ok := domain.ParseInvoiceStatus(req.Status)
		if !ok {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "status must be one of draft, ready, submitted")
			return
		}
		status = parsed
	}

	input := &service.UpdateInvoiceInput{
		TenantID:      tenantID,
		InvoiceID:     invoiceID,
		UserID:        userID,
		Role:          role,
		InvoiceNumber: req.InvoiceNumber,
		Date:          req.Date,
		CustomerName:  req.CustomerName,
		VAT:           req.VAT,
		Status:        status,
		Lines:         lineInputs(req.Lines),
	}

	inv, err := h.invoiceService.Update(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Submit handles POST /api/v1/invoices/:id/submit
func (h *InvoiceHandler) Submit(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	inv, err := h.invoiceService.Submit(c.Request.Context(), tenantID, invoiceID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Delete handles DELETE /api/v1/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	tenantID, _, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), tenantID, invoiceID, role); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "invoice deleted"})
}

// History handles GET /api/v1/invoices/:id/history
func (h *InvoiceHandler) History(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	entries, err := h.invoiceService.History(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, entries)
}

// Import handles POST /api/v1/invoices/import
func (h *InvoiceHandler) Import(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxImportSize {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "READ_FAILED", "could not read uploaded file")
		return
	}

	result, err := h.importService.Import(c.Request.Context(), &service.ImportInput{
		TenantID: tenantID,
		UserID:   userID,
		Role:     role,
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// Export handles GET /api/v1/invoices/export
func (h *InvoiceHandler) Export(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	invoices, err := h.invoiceService.ListAll(c.Request.Context(), tenantID)
	if err != nil {
		HandleError(c, err)
		return
	}

	tenantName := "invoices"
	if tenant, terr := h.tenantService.GetByID(c.Request.Context(), tenantID); terr == nil {
		tenantName = tenant.Name
	}

	filename := csvexport.BuildFilename(tenantName)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}

	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteInvoices(invoices); err != nil {
		return
	}
	w.Flush()
}

// Document handles GET /api/v1/invoices/:id/document
func (h *InvoiceHandler) Document(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	url, err := h.invoiceService.DocumentURL(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url})
}

// parseIDParam parses the :id path parameter as a UUID. Returns false if the
// parameter is invalid (error response already written).
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads offset and limit query parameters with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, limit = 0, 20
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return offset, limit
}
