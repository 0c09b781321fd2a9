package csvimport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faktura/internal/csvimport"
	"faktura/internal/domain"
)

func TestGroup_RowsWithSameNumberBecomeOneInvoice(t *testing.T) {
	records := []csvimport.Record{
		{InvoiceNumber: "INV-1", Date: "2026-01-10", CustomerName: "Acme", Description: "Widgets", Quantity: "2", UnitPrice: "5.00"},
		{InvoiceNumber: "INV-1", Date: "2026-01-10", CustomerName: "Acme", Description: "Gadgets", Quantity: "1", UnitPrice: "3.00"},
	}

	invoices := csvimport.Group(records)

	require.Len(t, invoices, 1)
	inv := invoices[0]
	assert.Equal(t, "INV-1", inv.InvoiceNumber)
	assert.Equal(t, domain.StatusDraft, inv.Status)
	require.Len(t, inv.Lines, 2)
	assert.Equal(t, "Widgets", inv.Lines[0].Description)
	assert.Equal(t, 1, inv.Lines[0].Position)
	assert.Equal(t, "Gadgets", inv.Lines[1].Description)
	assert.Equal(t, 2, inv.Lines[1].Position)

	// 2*5 + 1*3 = 13.00, VAT 20% = 2.60, total 15.60
	assert.Equal(t, "13.00", inv.SubTotal.StringFixed(2))
	assert.Equal(t, "2.60", inv.VAT.StringFixed(2))
	assert.Equal(t, "15.60", inv.Total.StringFixed(2))
}

func TestGroup_FirstAppearanceOrder(t *testing.T) {
	records := []csvimport.Record{
		{InvoiceNumber: "INV-B", Date: "2026-01-10", CustomerName: "Acme", Description: "A", Quantity: "1", UnitPrice: "1"},
		{InvoiceNumber: "INV-A", Date: "2026-01-10", CustomerName: "Acme", Description: "B", Quantity: "1", UnitPrice: "1"},
		{InvoiceNumber: "INV-B", Date: "2026-01-10", CustomerName: "Acme", Description: "C", Quantity: "1", UnitPrice: "1"},
	}

	invoices := csvimport.Group(records)

	require.Len(t, invoices, 2)
	assert.Equal(t, "INV-B", invoices[0].InvoiceNumber)
	assert.Equal(t, "INV-A", invoices[1].InvoiceNumber)
	assert.Len(t, invoices[0].Lines, 2)
	assert.Len(t, invoices[1].Lines, 1)
}

func TestGroup_ExactStringMatchOnly(t *testing.T) {
	// Case differs, so these are distinct invoices even though they would
	// collide after normalization.
	records := []csvimport.Record{
		{InvoiceNumber: "INV-1", Date: "2026-01-10", CustomerName: "Acme", Description: "A", Quantity: "1", UnitPrice: "1"},
		{InvoiceNumber: "inv-1", Date: "2026-01-10", CustomerName: "Acme", Description: "B", Quantity: "1", UnitPrice: "1"},
	}

	invoices := csvimport.Group(records)
	assert.Len(t, invoices, 2)
}

func TestGroup_HeaderFieldsFromFirstRecord(t *testing.T) {
	records := []csvimport.Record{
		{InvoiceNumber: "INV-1", Date: "2026-01-10", CustomerName: "Acme", Description: "A", Quantity: "1", UnitPrice: "1"},
		{InvoiceNumber: "INV-1", Date: "2026-02-20", CustomerName: "Other", Description: "B", Quantity: "1", UnitPrice: "1"},
	}

	invoices := csvimport.Group(records)

	require.Len(t, invoices, 1)
	assert.Equal(t, "2026-01-10", invoices[0].Date)
	assert.Equal(t, "Acme", invoices[0].CustomerName)
}

func TestGroup_VATRounding(t *testing.T) {
	// subTotal 1.11 * 0.20 = 0.222, rounds to 0.22
	records := []csvimport.Record{
		{InvoiceNumber: "INV-1", Date: "2026-01-10", CustomerName: "Acme", Description: "A", Quantity: "1", UnitPrice: "1.11"},
	}

	invoices := csvimport.Group(records)

	require.Len(t, invoices, 1)
	assert.Equal(t, "0.22", invoices[0].VAT.StringFixed(2))
	assert.Equal(t, "1.33", invoices[0].Total.StringFixed(2))
}
