package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"faktura/internal/csvimport"
	"faktura/internal/domain"
	"faktura/internal/service"
	"faktura/internal/validation"
	"faktura/mocks"
)

func setupImportService() (*mocks.MockInvoiceRepo, *mocks.MockInvoiceService, service.ImportService) {
	invoiceRepo := new(mocks.MockInvoiceRepo)
	invoiceSvc := new(mocks.MockInvoiceService)
	validator := validation.NewInvoiceValidator(invoiceRepo, fixedClock{now: testNow})
	return invoiceRepo, invoiceSvc, service.NewImportService(invoiceSvc, validator)
}

func importInput(data string) *service.ImportInput {
	return &service.ImportInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Role:     domain.RoleClerk,
		Filename: "invoices.csv",
		Data:     []byte(data),
	}
}

func TestImport_GroupsRowsAndCountsRecords(t *testing.T) {
	invoiceRepo, invoiceSvc, svc := setupImportService()

	invoiceRepo.On("NumberExists", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	invoiceSvc.On("CreateDraft", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.InvoiceNumber == "INV-100"
	}), mock.Anything).Return(&domain.Invoice{InvoiceNumber: "INV-100", Lines: make([]domain.InvoiceLine, 2)}, nil)
	invoiceSvc.On("CreateDraft", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.InvoiceNumber == "INV-200"
	}), mock.Anything).Return(&domain.Invoice{InvoiceNumber: "INV-200", Lines: make([]domain.InvoiceLine, 1)}, nil)

	// Three data rows grouping into two invoices.
	data := "InvoiceNumber,Date,CustomerName,Description,Quantity,UnitPrice\n" +
		"INV-100,2026-08-01,Acme,Widgets,2,5.00\n" +
		"INV-100,2026-08-01,Acme,Gadgets,1,3.00\n" +
		"INV-200,2026-08-02,Beta,Things,4,2.50\n"

	result, err := svc.Import(context.Background(), importInput(data))

	require.NoError(t, err)
	assert.Equal(t, 3, result.ImportedRecords)
	invoiceSvc.AssertNumberOfCalls(t, "CreateDraft", 2)

	invoiceSvc.AssertCalled(t, "CreateDraft", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.InvoiceNumber == "INV-100" && len(inv.Lines) == 2 &&
			inv.SubTotal.StringFixed(2) == "13.00" && inv.VAT.StringFixed(2) == "2.60"
	}), mock.Anything)
}

func TestImport_SingleBadRowFailsWholeFile(t *testing.T) {
	_, invoiceSvc, svc := setupImportService()

	data := "InvoiceNumber,Date,CustomerName,Description,Quantity,UnitPrice\n" +
		"INV-100,2026-08-01,Acme,Widgets,2,5.00\n" +
		"INV-200,2026-08-02,Beta,Things,0,2.50\n"

	_, err := svc.Import(context.Background(), importInput(data))

	var failure *csvimport.Failure
	require.ErrorAs(t, err, &failure)
	require.Len(t, failure.RowErrors, 1)
	assert.Equal(t, 3, failure.RowErrors[0].Row)
	assert.Contains(t, failure.RowErrors[0].Errors, "Quantity must be greater than zero")

	invoiceSvc.AssertNotCalled(t, "CreateDraft", mock.Anything, mock.Anything, mock.Anything)
}

func TestImport_ExistingNumberRejectsWholeFile(t *testing.T) {
	invoiceRepo, invoiceSvc, svc := setupImportService()

	invoiceRepo.On("NumberExists", mock.Anything, mock.Anything, "INV-100", mock.Anything).Return(true, nil)
	invoiceRepo.On("NumberExists", mock.Anything, mock.Anything, "INV-200", mock.Anything).Return(false, nil)

	data := "InvoiceNumber,Date,CustomerName,Description,Quantity,UnitPrice\n" +
		"INV-100,2026-08-01,Acme,Widgets,2,5.00\n" +
		"INV-200,2026-08-02,Beta,Things,4,2.50\n"

	_, err := svc.Import(context.Background(), importInput(data))

	var failure *csvimport.Failure
	require.ErrorAs(t, err, &failure)
	require.NotEmpty(t, failure.FileErrors)
	assert.Contains(t, failure.FileErrors[0], "INV-100")

	// Nothing is created when pre-validation rejects the file.
	invoiceSvc.AssertNotCalled(t, "CreateDraft", mock.Anything, mock.Anything, mock.Anything)
}

func TestImport_WrongExtension(t *testing.T) {
	_, _, svc := setupImportService()

	input := importInput("InvoiceNumber,Date,CustomerName,Description,Quantity,UnitPrice\nINV-1,2026-08-01,Acme,W,1,1\n")
	input.Filename = "invoices.txt"

	_, err := svc.Import(context.Background(), input)

	var failure *csvimport.Failure
	require.ErrorAs(t, err, &failure)
	assert.Contains(t, failure.FileErrors[0], ".csv extension")
}

func TestImport_PersistFailureKeepsEarlierInvoices(t *testing.T) {
	invoiceRepo, invoiceSvc, svc := setupImportService()

	invoiceRepo.On("NumberExists", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	invoiceSvc.On("CreateDraft", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.InvoiceNumber == "INV-100"
	}), mock.Anything).Return(&domain.Invoice{InvoiceNumber: "INV-100", Lines: make([]domain.InvoiceLine, 1)}, nil)
	invoiceSvc.On("CreateDraft", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.InvoiceNumber == "INV-200"
	}), mock.Anything).Return(nil, assert.AnError)

	data := "InvoiceNumber,Date,CustomerName,Description,Quantity,UnitPrice\n" +
		"INV-100,2026-08-01,Acme,Widgets,2,5.00\n" +
		"INV-200,2026-08-02,Beta,Things,4,2.50\n"

	_, err := svc.Import(context.Background(), importInput(data))

	var failure *csvimport.Failure
	require.ErrorAs(t, err, &failure)
	assert.Contains(t, failure.FileErrors[0], "INV-200")

	// INV-100 was persisted before INV-200 failed; the batch is not atomic
	// across invoices.
	invoiceSvc.AssertNumberOfCalls(t, "CreateDraft", 2)
}
