package excel

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"faktura/internal/domain"
	"faktura/internal/port"
)

const sheetName = "Invoice"

// xlsxContentType is the MIME type for OOXML spreadsheets.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type renderer struct{}

// NewRenderer creates a DocumentRenderer that produces XLSX invoice documents.
func NewRenderer() port.DocumentRenderer {
	return &renderer{}
}

func (r *renderer) ContentType() string {
	return xlsxContentType
}

func (r *renderer) Render(ctx context.Context, inv *domain.Invoice) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}

	f.SetCellValue(sheetName, "A1", "Invoice")
	f.SetCellValue(sheetName, "B1", inv.InvoiceNumber)
	f.SetCellValue(sheetName, "A2", "Date")
	f.SetCellValue(sheetName, "B2", inv.Date)
	f.SetCellValue(sheetName, "A3", "Customer")
	f.SetCellValue(sheetName, "B3", inv.CustomerName)
	f.SetCellValue(sheetName, "A4", "Status")
	f.SetCellValue(sheetName, "B4", string(inv.Status))
	f.SetCellStyle(sheetName, "A1", "A4", headerStyle)

	// Line items start after a blank spacer row.
	lineHeaderRow := 6
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", lineHeaderRow), "Description")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", lineHeaderRow), "Quantity")
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", lineHeaderRow), "UnitPrice")
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", lineHeaderRow), "LineTotal")
	f.SetCellStyle(sheetName,
		fmt.Sprintf("A%d", lineHeaderRow),
		fmt.Sprintf("D%d", lineHeaderRow),
		headerStyle,
	)

	row := lineHeaderRow + 1
	for _, line := range inv.Lines {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), line.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), line.Quantity.String())
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), line.UnitPrice.String())
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), line.LineTotal.String())
		row++
	}

	row++
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), "SubTotal")
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), inv.SubTotal.String())
	row++
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), "VAT")
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), inv.VAT.String())
	row++
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), "Total")
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), inv.Total.String())
	f.SetCellStyle(sheetName, fmt.Sprintf("C%d", row), fmt.Sprintf("D%d", row), headerStyle)

	f.SetColWidth(sheetName, "A", "A", 40)
	f.SetColWidth(sheetName, "B", "D", 14)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
