package validation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"faktura/internal/domain"
	"faktura/internal/validation"
	"faktura/mocks"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newValidator() (*mocks.MockInvoiceRepo, *validation.InvoiceValidator) {
	repo := new(mocks.MockInvoiceRepo)
	clock := fixedClock{now: time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)}
	return repo, validation.NewInvoiceValidator(repo, clock)
}

func validInvoice(tenantID uuid.UUID) *domain.Invoice {
	inv := &domain.Invoice{
		ID:            uuid.New(),
		TenantID:      tenantID,
		InvoiceNumber: "INV-100",
		Date:          "2026-08-15",
		CustomerName:  "Acme GmbH",
		VAT:           decimal.NewFromFloat(20),
		Status:        domain.StatusDraft,
		Lines: []domain.InvoiceLine{
			{Position: 1, Description: "Widgets", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(10)},
		},
	}
	inv.RecomputeTotals()
	return inv
}

func fieldsOf(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	out := make(map[string][]string)
	for _, f := range verr.Fields {
		out[f.Field] = append(out[f.Field], f.Message)
	}
	return out
}

func TestValidate_ValidInvoice(t *testing.T) {
	repo, v := newValidator()
	tenantID := uuid.New()
	repo.On("NumberExists", mock.Anything, tenantID, "INV-100", (*uuid.UUID)(nil)).Return(false, nil)

	err := v.Validate(context.Background(), validInvoice(tenantID), nil)
	assert.NoError(t, err)
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	repo, v := newValidator()
	tenantID := uuid.New()
	repo.On("NumberExists", mock.Anything, tenantID, mock.Anything, mock.Anything).Return(false, nil)

	inv := &domain.Invoice{
		ID:            uuid.New(),
		TenantID:      tenantID,
		InvoiceNumber: "",
		Date:          "",
		CustomerName:  "",
		Status:        domain.StatusDraft,
	}

	fields := fieldsOf(t, v.Validate(context.Background(), inv, nil))
	assert.Contains(t, fields, "invoice_number")
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "customer_name")
	assert.Contains(t, fields, "lines")
	assert.Contains(t, fields, "total")
}

func TestValidate_InvoiceNumberPattern(t *testing.T) {
	repo, v := newValidator()
	tenantID := uuid.New()
	repo.On("NumberExists", mock.Anything, tenantID, mock.Anything, mock.Anything).Return(false, nil)

	for _, bad := range []string{"inv-1", "INV 1", "INV_1", "inv#1"} {
		inv := validInvoice(tenantID)
		inv.InvoiceNumber = bad
		fields := fieldsOf(t, v.Validate(context.Background(), inv, nil))
		assert.Contains(t, fields, "invoice_number", "number %q should be rejected", bad)
	}
}

func TestValidate_NumberAlreadyTaken(t *testing.T) {
	repo, v := newValidator()
	tenantID := uuid.New()
	repo.On("NumberExists", mock.Anything, tenantID, "INV-100", (*uuid.UUID)(nil)).Return(true, nil)

	fields := fieldsOf(t, v.Validate(context.Background(), validInvoice(tenantID), nil))
	assert.Equal(t, []string{"already in use"}, fields["invoice_number"])
}

func TestValidate_FailedUniquenessReadDoesNotBlock(t *testing.T) {
	repo, v := newValidator()
	tenantID := uuid.New()
	repo.On("NumberExists", mock.Anything, tenantID, "INV-100", (*uuid.UUID)(nil)).
		Return(false, assert.AnError)

	// The constraint at persist time still guards uniqueness.
	err := v.Validate(context.Background(), validInvoice(tenantID), nil)
	assert.NoError(t, err)
}

func TestValidate_Dates(t *testing.T) {
	repo, v := newValidator()
	tenantID := uuid.New()
	repo.On("NumberExists", mock.Anything, tenantID, mock.Anything, mock.Anything).Return(false, nil)

	// Today is fine.
	inv := validInvoice(tenantID)
	inv.Date = "2026-09-01"
	assert.NoError(t, v.Validate(context.Background(), inv, nil))

	// Tomorrow is not.
	inv = validInvoice(tenantID)
	inv.Date = "2026-09-02"
	fields := fieldsOf(t, v.Validate(context.Background(), inv, nil))
	assert.Equal(t, []string{"must not be in the future"}, fields["date"])

	// Garbage is rejected before the future check.
	inv = validInvoice(tenantID)
	inv.Date = "15/08/2026"
	fields = fieldsOf(t, v.Validate(context.Background(), inv, nil))
	assert.Equal(t, []string{"must be a valid date in YYYY-MM-DD format"}, fields["date"])
}

func TestValidate_LineRules(t *testing.T) {
	repo, v := newValidator()
	tenantID := uuid.New()
	repo.On("NumberExists", mock.Anything, tenantID, mock.Anything, mock.Anything).Return(false, nil)

	inv := validInvoice(tenantID)
	inv.Lines = []domain.InvoiceLine{
		{Position: 1, Description: "", Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(-1)},
	}
	inv.RecomputeTotals()

	fields := fieldsOf(t, v.Validate(context.Background(), inv, nil))
	assert.Contains(t, fields, "lines[0].description")
	assert.Contains(t, fields, "lines[0].quantity")
	assert.Contains(t, fields, "lines[0].unit_price")
}

func TestValidate_TotalMustReconcile(t *testing.T) {
	repo, v := newValidator()
	tenantID := uuid.New()
	repo.On("NumberExists", mock.Anything, tenantID, mock.Anything, mock.Anything).Return(false, nil)

	inv := validInvoice(tenantID)
	inv.Total = inv.Total.Add(decimal.NewFromFloat(0.01))

	fields := fieldsOf(t, v.Validate(context.Background(), inv, nil))
	assert.Equal(t, []string{"must equal sub_total plus vat"}, fields["total"])
}

func TestRoundMoney_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "0.13", validation.RoundMoney(decimal.NewFromFloat(0.125)).StringFixed(2))
	assert.Equal(t, "-0.13", validation.RoundMoney(decimal.NewFromFloat(-0.125)).StringFixed(2))
	assert.Equal(t, "2.35", validation.RoundMoney(decimal.NewFromFloat(2.345)).StringFixed(2))
}
