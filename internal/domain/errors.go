package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound               = errors.New("resource not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrTenantInactive         = errors.New("tenant is inactive")
	ErrUserInactive           = errors.New("user is inactive")
	ErrDuplicateEmail         = errors.New("email already exists for this tenant")
	ErrDuplicateTaxID         = errors.New("tax id already registered")
	ErrInvoiceNotFound        = errors.New("invoice not found")
	ErrDuplicateInvoiceNumber = errors.New("invoice number already exists for this tenant")
	ErrInvoiceSubmitted       = errors.New("submitted invoices are immutable")
	ErrTransitionDenied       = errors.New("status transition not permitted for this role")
	ErrStatusConflict         = errors.New("invoice status changed concurrently")
	ErrNotReadyForSubmission  = errors.New("invoice must be in ready status to submit")
	ErrAdminProtected         = errors.New("the admin account cannot be deleted or demoted")
	ErrDocumentNotArchived    = errors.New("no archived document for this invoice")
	ErrInvalidRole            = errors.New("invalid role; allowed: clerk, manager, admin")
)

// FieldError is a single user-fixable violation on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found on a candidate at once, so a
// form submission or import shows all problems together. It is recoverable:
// the caller may retry with corrected input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a violation.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any violation was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns e when it holds violations and nil otherwise, so callers can
// write `return v.OrNil()` without handing out a typed nil.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}
