package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"faktura/internal/csvimport"
	"faktura/internal/domain"
	"faktura/internal/validation"
)

// ImportInput is the DTO for a CSV bulk import.
type ImportInput struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Role     domain.UserRole
	Filename string
	Data     []byte
}

// ImportResult reports a successful import. ImportedRecords counts data
// rows, not invoices: two rows grouped into one invoice count as two.
type ImportResult struct {
	ImportedRecords int `json:"imported_records"`
}

// ImportService defines the CSV bulk-import contract.
type ImportService interface {
	Import(ctx context.Context, input *ImportInput) (*ImportResult, error)
}

type importService struct {
	invoiceSvc InvoiceService
	validator  *validation.InvoiceValidator
}

// NewImportService creates a new ImportService feeding the given invoice
// write path, so both entry points enforce identical validation, tenant
// isolation, and lifecycle policy.
func NewImportService(invoiceSvc InvoiceService, validator *validation.InvoiceValidator) ImportService {
	return &importService{invoiceSvc: invoiceSvc, validator: validator}
}

// Import runs the pipeline of file pre-check, row validation, grouping, and
// per-invoice persistence. A single invalid row fails the whole import with
// every row error reported; nothing is created. Once persistence starts,
// invoices are saved independently: a failure on one does not roll back the
// ones already created, and document side effects per invoice are
// best-effort.
func (s *importService) Import(ctx context.Context, input *ImportInput) (*ImportResult, error) {
	records, failure := csvimport.Parse(input.Filename, input.Data)
	if failure != nil {
		return nil, failure
	}

	if _, failed := csvimport.ValidateRows(records); len(failed) > 0 {
		return nil, &csvimport.Failure{RowErrors: failed}
	}

	candidates := csvimport.Group(records)

	// Pre-validate every grouped invoice before creating any, so a file that
	// collides with existing invoice numbers is rejected as a whole.
	preFailure := &csvimport.Failure{}
	for i := range candidates {
		inv := &candidates[i]
		inv.ID = uuid.New()
		inv.TenantID = input.TenantID
		inv.CreatedBy = input.UserID
		for j := range inv.Lines {
			inv.Lines[j].TenantID = input.TenantID
		}
		if err := s.validator.Validate(ctx, inv, nil); err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				for _, f := range verr.Fields {
					preFailure.FileErrors = append(preFailure.FileErrors,
						fmt.Sprintf("invoice %s: %s: %s", inv.InvoiceNumber, f.Field, f.Message))
				}
				continue
			}
			return nil, fmt.Errorf("validating grouped invoice %s: %w", inv.InvoiceNumber, err)
		}
	}
	if len(preFailure.FileErrors) > 0 {
		return nil, preFailure
	}

	imported := 0
	postFailure := &csvimport.Failure{}
	for i := range candidates {
		inv := &candidates[i]
		created, err := s.invoiceSvc.CreateDraft(ctx, inv, input.UserID)
		if err != nil {
			// Lost a uniqueness race between pre-validation and persist, or
			// the store broke. Earlier invoices stay; the batch is not
			// atomic across invoices, only within one.
			log.Printf("importService.Import: failed to create invoice %s: %v", inv.InvoiceNumber, err)
			postFailure.FileErrors = append(postFailure.FileErrors,
				fmt.Sprintf("invoice %s could not be created", inv.InvoiceNumber))
			continue
		}
		imported += len(created.Lines)
	}
	if len(postFailure.FileErrors) > 0 {
		return nil, postFailure
	}

	return &ImportResult{ImportedRecords: imported}, nil
}
