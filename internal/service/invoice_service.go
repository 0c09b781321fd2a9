package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"faktura/internal/domain"
	"faktura/internal/lifecycle"
	"faktura/internal/port"
	"faktura/internal/validation"
)

// LineInput is one invoice line as supplied by the caller. Line totals are
// never accepted from the caller; they are derived.
type LineInput struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceInput is the DTO for creating an invoice. The initial status
// is always draft regardless of anything the caller sends.
type CreateInvoiceInput struct {
	TenantID      uuid.UUID
	UserID        uuid.UUID
	Role          domain.UserRole
	InvoiceNumber string
	Date          string
	CustomerName  string
	VAT           decimal.Decimal
	Lines         []LineInput
}

// UpdateInvoiceInput is the DTO for updating an invoice. Status carries the
// requested target status; an empty status means "no status change".
type UpdateInvoiceInput struct {
	TenantID      uuid.UUID
	InvoiceID     uuid.UUID
	UserID        uuid.UUID
	Role          domain.UserRole
	InvoiceNumber string
	Date          string
	CustomerName  string
	VAT           decimal.Decimal
	Status        domain.InvoiceStatus
	Lines         []LineInput
}

// InvoiceService defines the invoice write path and queries.
type InvoiceService interface {
	Create(ctx context.Context, input *CreateInvoiceInput) (*domain.Invoice, error)
	// CreateDraft is the entry point for pre-assembled candidates (the CSV
	// import pipeline). It applies the exact same rules as Create.
	CreateDraft(ctx context.Context, inv *domain.Invoice, actor uuid.UUID) (*domain.Invoice, error)
	GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error)
	// ListAll returns every invoice of the tenant with lines, ordered by
	// invoice number. Used by the CSV export.
	ListAll(ctx context.Context, tenantID uuid.UUID) ([]domain.Invoice, error)
	Update(ctx context.Context, input *UpdateInvoiceInput) (*domain.Invoice, error)
	Submit(ctx context.Context, tenantID, invoiceID, userID uuid.UUID, role domain.UserRole) (*domain.Invoice, error)
	Delete(ctx context.Context, tenantID, invoiceID uuid.UUID, role domain.UserRole) error
	History(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]domain.InvoiceStatusHistory, error)
	DocumentURL(ctx context.Context, tenantID, invoiceID uuid.UUID) (string, error)
}

type invoiceService struct {
	invoices      port.InvoiceRepository
	history       port.StatusHistoryRepository
	validator     *validation.InvoiceValidator
	renderer      port.DocumentRenderer
	archive       port.DocumentArchive
	clock         port.Clock
	renderTimeout time.Duration
	presignExpiry time.Duration
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	invoices port.InvoiceRepository,
	history port.StatusHistoryRepository,
	validator *validation.InvoiceValidator,
	renderer port.DocumentRenderer,
	archive port.DocumentArchive,
	clock port.Clock,
	renderTimeout time.Duration,
	presignExpiry time.Duration,
) InvoiceService {
	return &invoiceService{
		invoices:      invoices,
		history:       history,
		validator:     validator,
		renderer:      renderer,
		archive:       archive,
		clock:         clock,
		renderTimeout: renderTimeout,
		presignExpiry: presignExpiry,
	}
}

func (s *invoiceService) Create(ctx context.Context, input *CreateInvoiceInput) (*domain.Invoice, error) {
	inv := &domain.Invoice{
		ID:            uuid.New(),
		TenantID:      input.TenantID,
		InvoiceNumber: input.InvoiceNumber,
		Date:          input.Date,
		CustomerName:  input.CustomerName,
		VAT:           input.VAT,
		Status:        domain.StatusDraft,
		CreatedBy:     input.UserID,
		Lines:         linesFromInput(input.Lines),
	}
	return s.CreateDraft(ctx, inv, input.UserID)
}

// CreateDraft is the shared tail of the create path: recompute totals,
// validate, persist atomically, append the initial history row, and kick off
// the document side effects. The CSV import pipeline funnels its grouped
// invoices through here so both entry points enforce identical rules.
func (s *invoiceService) CreateDraft(ctx context.Context, inv *domain.Invoice, actor uuid.UUID) (*domain.Invoice, error) {
	inv.Status = domain.StatusDraft
	inv.RecomputeTotals()

	if err := s.validator.Validate(ctx, inv, nil); err != nil {
		return nil, err
	}

	if err := s.invoices.Create(ctx, inv); err != nil {
		// Two creates can race past the pre-check; the constraint violation
		// surfaces in the same vocabulary as a proactive validation failure.
		if errors.Is(err, domain.ErrDuplicateInvoiceNumber) {
			verr := &domain.ValidationError{}
			verr.Add("invoice_number", "already in use")
			return nil, verr
		}
		return nil, fmt.Errorf("creating invoice: %w", err)
	}

	s.appendHistory(ctx, inv, nil, domain.StatusDraft, actor)
	s.startDocumentPipeline(inv)

	return inv, nil
}

func (s *invoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	return s.invoices.GetByID(ctx, tenantID, invoiceID)
}

func (s *invoiceService) List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error) {
	return s.invoices.ListByTenant(ctx, tenantID, offset, limit)
}

func (s *invoiceService) ListAll(ctx context.Context, tenantID uuid.UUID) ([]domain.Invoice, error) {
	return s.invoices.ListAllByTenant(ctx, tenantID)
}

func (s *invoiceService) Update(ctx context.Context, input *UpdateInvoiceInput) (*domain.Invoice, error) {
	existing, err := s.invoices.GetByID(ctx, input.TenantID, input.InvoiceID)
	if err != nil {
		return nil, err
	}

	target := input.Status
	if target == "" {
		target = existing.Status
	}
	if err := lifecycle.Authorize(existing.Status, target, input.Role); err != nil {
		return nil, err
	}

	inv := &domain.Invoice{
		ID:            existing.ID,
		TenantID:      existing.TenantID,
		InvoiceNumber: input.InvoiceNumber,
		Date:          input.Date,
		CustomerName:  input.CustomerName,
		VAT:           input.VAT,
		Status:        existing.Status,
		CreatedBy:     existing.CreatedBy,
		CreatedAt:     existing.CreatedAt,
		Lines:         linesFromInput(input.Lines),
	}
	inv.RecomputeTotals()

	if err := s.validator.Validate(ctx, inv, &existing.ID); err != nil {
		return nil, err
	}

	// Field changes persist under the current status; the status itself only
	// moves through the compare-and-set below.
	if err := s.invoices.Update(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrDuplicateInvoiceNumber) {
			verr := &domain.ValidationError{}
			verr.Add("invoice_number", "already in use")
			return nil, verr
		}
		return nil, fmt.Errorf("updating invoice: %w", err)
	}

	if target != existing.Status {
		if err := s.invoices.UpdateStatus(ctx, input.TenantID, inv.ID, existing.Status, target); err != nil {
			return nil, err
		}
		inv.Status = target
	}

	// The trail stays dense: even a no-op transition gets a row.
	old := existing.Status
	s.appendHistory(ctx, inv, &old, inv.Status, input.UserID)
	s.startDocumentPipeline(inv)

	return inv, nil
}

func (s *invoiceService) Submit(ctx context.Context, tenantID, invoiceID, userID uuid.UUID, role domain.UserRole) (*domain.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := lifecycle.AuthorizeSubmit(inv.Status, role); err != nil {
		return nil, err
	}

	// Readiness was validated at draft->ready; the submit transition itself
	// is guarded by the compare-and-set so two racing submits cannot both
	// appear to succeed.
	if err := s.invoices.UpdateStatus(ctx, tenantID, invoiceID, domain.StatusReady, domain.StatusSubmitted); err != nil {
		return nil, err
	}

	old := domain.StatusReady
	inv.Status = domain.StatusSubmitted
	s.appendHistory(ctx, inv, &old, domain.StatusSubmitted, userID)

	return inv, nil
}

func (s *invoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID, role domain.UserRole) error {
	inv, err := s.invoices.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status == domain.StatusSubmitted {
		return domain.ErrInvoiceSubmitted
	}

	if err := s.invoices.Delete(ctx, tenantID, invoiceID); err != nil {
		return err
	}

	// History rows are retained as orphaned audit records. The archived
	// document is removed best-effort.
	if s.archive != nil {
		if err := s.archive.Delete(ctx, documentKey(tenantID, invoiceID)); err != nil {
			log.Printf("invoiceService.Delete: failed to remove archived document for %s: %v", invoiceID, err)
		}
	}
	return nil
}

func (s *invoiceService) History(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]domain.InvoiceStatusHistory, error) {
	return s.history.ListByInvoice(ctx, tenantID, invoiceID)
}

func (s *invoiceService) DocumentURL(ctx context.Context, tenantID, invoiceID uuid.UUID) (string, error) {
	// Scope the lookup to the tenant before touching the archive.
	if _, err := s.invoices.GetByID(ctx, tenantID, invoiceID); err != nil {
		return "", err
	}
	if s.archive == nil {
		return "", domain.ErrDocumentNotArchived
	}
	key := documentKey(tenantID, invoiceID)
	// Presigning succeeds for keys that were never stored, so existence is
	// checked explicitly.
	ok, err := s.archive.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("invoiceService.DocumentURL: %w", err)
	}
	if !ok {
		return "", domain.ErrDocumentNotArchived
	}
	url, err := s.archive.URLFor(ctx, key, s.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("invoiceService.DocumentURL: %w", err)
	}
	return url, nil
}

// appendHistory writes one audit row for a status assignment. Failures are
// logged but never block the already-committed invoice write.
func (s *invoiceService) appendHistory(ctx context.Context, inv *domain.Invoice, old *domain.InvoiceStatus, newStatus domain.InvoiceStatus, actor uuid.UUID) {
	entry := &domain.InvoiceStatusHistory{
		ID:        uuid.New(),
		InvoiceID: inv.ID,
		TenantID:  inv.TenantID,
		OldStatus: old,
		NewStatus: newStatus,
		ChangedBy: actor,
		ChangedAt: s.clock.Now(),
	}
	if err := s.history.Append(ctx, entry); err != nil {
		log.Printf("invoiceService.appendHistory: failed to append history for %s: %v", inv.ID, err)
	}
}

// startDocumentPipeline renders and archives the invoice document in the
// background. Both steps are best-effort under a bounded timeout: the write
// already succeeded and a lost document is a transient state, never a reason
// to fail the owning operation.
func (s *invoiceService) startDocumentPipeline(inv *domain.Invoice) {
	if s.renderer == nil || s.archive == nil {
		return
	}
	// Copy so the background work is independent of the caller's value.
	snapshot := *inv
	go s.renderAndArchive(&snapshot)
}

func (s *invoiceService) renderAndArchive(inv *domain.Invoice) {
	ctx, cancel := context.WithTimeout(context.Background(), s.renderTimeout)
	defer cancel()

	data, err := s.renderer.Render(ctx, inv)
	if err != nil {
		log.Printf("invoiceService.renderAndArchive: render failed for %s: %v", inv.ID, err)
		return
	}
	key := documentKey(inv.TenantID, inv.ID)
	if err := s.archive.Store(ctx, key, data, s.renderer.ContentType()); err != nil {
		log.Printf("invoiceService.renderAndArchive: archive failed for %s: %v", inv.ID, err)
		return
	}
	log.Printf("invoiceService.renderAndArchive: archived document %s", key)
}

func documentKey(tenantID, invoiceID uuid.UUID) string {
	return fmt.Sprintf("documents/%s/%s", tenantID, invoiceID)
}

func linesFromInput(lines []LineInput) []domain.InvoiceLine {
	out := make([]domain.InvoiceLine, len(lines))
	for i, l := range lines {
		out[i] = domain.InvoiceLine{
			Position:    i + 1,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
	}
	return out
}
