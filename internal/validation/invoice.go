// Package validation holds the stateless business-validity rules for
// invoices. Rules never short-circuit: every violation on a candidate is
// collected so the caller sees all problems at once.
package validation

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"faktura/internal/domain"
	"faktura/internal/port"
)

const (
	// DateLayout is the calendar date format used on invoices.
	DateLayout = "2006-01-02"

	maxCustomerNameLen = 100
	maxDescriptionLen  = 200
)

var invoiceNumberPattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

// InvoiceValidator checks structural and business validity of a proposed
// invoice against current persisted state. It is side-effect free; the only
// read is the invoice-number uniqueness pre-check.
type InvoiceValidator struct {
	invoices port.InvoiceRepository
	clock    port.Clock
}

// NewInvoiceValidator creates an InvoiceValidator.
func NewInvoiceValidator(invoices port.InvoiceRepository, clock port.Clock) *InvoiceValidator {
	return &InvoiceValidator{invoices: invoices, clock: clock}
}

// Validate returns a *domain.ValidationError carrying every violation found
// on the candidate, or nil when the candidate is valid. excludeID excludes
// the invoice itself from the uniqueness check on update.
//
// The uniqueness check here is a fast-fail optimization only; the database
// constraint remains the source of truth under concurrent creates.
func (v *InvoiceValidator) Validate(ctx context.Context, inv *domain.Invoice, excludeID *uuid.UUID) error {
	verr := &domain.ValidationError{}

	v.checkNumber(ctx, verr, inv, excludeID)
	v.checkDate(verr, inv.Date)
	checkCustomerName(verr, inv.CustomerName)
	checkLines(verr, inv.Lines)
	checkTotals(verr, inv)

	return verr.OrNil()
}

func (v *InvoiceValidator) checkNumber(ctx context.Context, verr *domain.ValidationError, inv *domain.Invoice, excludeID *uuid.UUID) {
	if inv.InvoiceNumber == "" {
		verr.Add("invoice_number", "must not be empty")
		return
	}
	if !invoiceNumberPattern.MatchString(inv.InvoiceNumber) {
		verr.Add("invoice_number", "must contain only A-Z, 0-9 and hyphens")
		return
	}
	taken, err := v.invoices.NumberExists(ctx, inv.TenantID, inv.InvoiceNumber, excludeID)
	if err != nil {
		// The constraint at persist time still guards uniqueness; a failed
		// pre-check read must not block validation of the other fields.
		return
	}
	if taken {
		verr.Add("invoice_number", "already in use")
	}
}

func (v *InvoiceValidator) checkDate(verr *domain.ValidationError, date string) {
	if date == "" {
		verr.Add("date", "must not be empty")
		return
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		verr.Add("date", "must be a valid date in YYYY-MM-DD format")
		return
	}
	today := v.clock.Now().Truncate(24 * time.Hour)
	if d.After(today) {
		verr.Add("date", "must not be in the future")
	}
}

func checkCustomerName(verr *domain.ValidationError, name string) {
	if name == "" {
		verr.Add("customer_name", "must not be empty")
		return
	}
	if len(name) > maxCustomerNameLen {
		verr.Add("customer_name", fmt.Sprintf("must be at most %d characters", maxCustomerNameLen))
	}
}

func checkLines(verr *domain.ValidationError, lines []domain.InvoiceLine) {
	if len(lines) == 0 {
		verr.Add("lines", "at least one line is required")
		return
	}
	for i, line := range lines {
		field := func(name string) string { return fmt.Sprintf("lines[%d].%s", i, name) }
		if line.Description == "" {
			verr.Add(field("description"), "must not be empty")
		} else if len(line.Description) > maxDescriptionLen {
			verr.Add(field("description"), fmt.Sprintf("must be at most %d characters", maxDescriptionLen))
		}
		if !line.Quantity.IsPositive() {
			verr.Add(field("quantity"), "must be greater than zero")
		}
		if line.UnitPrice.IsNegative() {
			verr.Add(field("unit_price"), "must not be negative")
		}
	}
}

func checkTotals(verr *domain.ValidationError, inv *domain.Invoice) {
	if inv.SubTotal.IsNegative() {
		verr.Add("sub_total", "must not be negative")
	}
	if inv.VAT.IsNegative() {
		verr.Add("vat", "must not be negative")
	}
	if !inv.Total.IsPositive() {
		verr.Add("total", "must be greater than zero")
	}
	if !inv.Total.Equal(RoundMoney(inv.SubTotal.Add(inv.VAT))) {
		verr.Add("total", "must equal sub_total plus vat")
	}
}

// RoundMoney rounds to two decimal places, half away from zero. This is the
// single rounding policy for all monetary amounts.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
