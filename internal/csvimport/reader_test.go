package csvimport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faktura/internal/csvimport"
)

func TestParse_RejectsNonCSVExtension(t *testing.T) {
	_, failure := csvimport.Parse("invoices.xlsx", []byte("InvoiceNumber,Date\n"))
	require.NotNil(t, failure)
	assert.Contains(t, failure.FileErrors[0], ".csv extension")
}

func TestParse_ExtensionIsCaseInsensitive(t *testing.T) {
	data := []byte("InvoiceNumber,Date,CustomerName,Description,Quantity,UnitPrice\nINV-1,2026-01-10,Acme,Widgets,2,5.00\n")
	records, failure := csvimport.Parse("INVOICES.CSV", data)
	require.Nil(t, failure)
	assert.Len(t, records, 1)
}

func TestParse_EmptyFile(t *testing.T) {
	_, failure := csvimport.Parse("invoices.csv", []byte("  \n "))
	require.NotNil(t, failure)
	assert.Equal(t, []string{"file is empty"}, failure.FileErrors)
}

func TestParse_MissingColumns(t *testing.T) {
	data := []byte("InvoiceNumber,Date,CustomerName\nINV-1,2026-01-10,Acme\n")
	_, failure := csvimport.Parse("invoices.csv", data)
	require.NotNil(t, failure)
	require.Len(t, failure.FileErrors, 1)
	assert.Contains(t, failure.FileErrors[0], "Description")
	assert.Contains(t, failure.FileErrors[0], "Quantity")
	assert.Contains(t, failure.FileErrors[0], "UnitPrice")
}

func TestParse_HeadersCaseInsensitiveAnyOrder(t *testing.T) {
	data := []byte("unitprice,QUANTITY,description,customername,DATE,invoicenumber\n5.00,2,Widgets,Acme,2026-01-10,INV-1\n")
	records, failure := csvimport.Parse("invoices.csv", data)
	require.Nil(t, failure)
	require.Len(t, records, 1)
	assert.Equal(t, "INV-1", records[0].InvoiceNumber)
	assert.Equal(t, "2026-01-10", records[0].Date)
	assert.Equal(t, "Acme", records[0].CustomerName)
	assert.Equal(t, "Widgets", records[0].Description)
	assert.Equal(t, "2", records[0].Quantity)
	assert.Equal(t, "5.00", records[0].UnitPrice)
}

func TestParse_SemicolonDelimiter(t *testing.T) {
	data := []byte("InvoiceNumber;Date;CustomerName;Description;Quantity;UnitPrice\nINV-1;2026-01-10;Acme;Widgets;2;5.00\n")
	records, failure := csvimport.Parse("invoices.csv", data)
	require.Nil(t, failure)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme", records[0].CustomerName)
}

func TestParse_NoDataRows(t *testing.T) {
	data := []byte("InvoiceNumber,Date,CustomerName,Description,Quantity,UnitPrice\n")
	_, failure := csvimport.Parse("invoices.csv", data)
	require.NotNil(t, failure)
	assert.Equal(t, []string{"file contains no data rows"}, failure.FileErrors)
}

func TestParse_TrimsFieldWhitespace(t *testing.T) {
	data := []byte("InvoiceNumber,Date,CustomerName,Description,Quantity,UnitPrice\n INV-1 ,2026-01-10, Acme , Widgets ,2,5.00\n")
	records, failure := csvimport.Parse("invoices.csv", data)
	require.Nil(t, failure)
	assert.Equal(t, "INV-1", records[0].InvoiceNumber)
	assert.Equal(t, "Acme", records[0].CustomerName)
}
