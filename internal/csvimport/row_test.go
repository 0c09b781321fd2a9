package csvimport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faktura/internal/csvimport"
)

func validRecord() csvimport.Record {
	return csvimport.Record{
		InvoiceNumber: "INV-1",
		Date:          "2026-01-10",
		CustomerName:  "Acme",
		Description:   "Widgets",
		Quantity:      "2",
		UnitPrice:     "5.00",
	}
}

func TestValidateRow_Valid(t *testing.T) {
	res := csvimport.ValidateRow(validRecord(), 2)
	assert.True(t, res.Valid())
	assert.Equal(t, 2, res.RowNumber)
}

func TestValidateRow_CollectsAllErrors(t *testing.T) {
	rec := csvimport.Record{Quantity: "abc", UnitPrice: "-1"}
	res := csvimport.ValidateRow(rec, 5)

	assert.False(t, res.Valid())
	assert.Contains(t, res.Errors, "InvoiceNumber must not be empty")
	assert.Contains(t, res.Errors, "Date must not be empty")
	assert.Contains(t, res.Errors, "CustomerName must not be empty")
	assert.Contains(t, res.Errors, "Description must not be empty")
	assert.Contains(t, res.Errors, "Quantity must be a number")
	assert.Contains(t, res.Errors, "UnitPrice must not be negative")
}

func TestValidateRow_ZeroQuantity(t *testing.T) {
	rec := validRecord()
	rec.Quantity = "0"
	res := csvimport.ValidateRow(rec, 2)
	assert.Equal(t, []string{"Quantity must be greater than zero"}, res.Errors)
}

func TestValidateRow_BadDateFormat(t *testing.T) {
	rec := validRecord()
	rec.Date = "10/01/2026"
	res := csvimport.ValidateRow(rec, 2)
	assert.Equal(t, []string{"Date must be a valid date in YYYY-MM-DD format"}, res.Errors)
}

func TestValidateRows_RowNumberingStartsAtTwo(t *testing.T) {
	bad := validRecord()
	bad.Quantity = "0"

	results, failed := csvimport.ValidateRows([]csvimport.Record{validRecord(), bad, validRecord()})

	require.Len(t, results, 3)
	require.Len(t, failed, 1)
	assert.Equal(t, 3, failed[0].Row)
}
