package report

import (
	"bytes"
	"fmt"

	"gudang-backend/internal/inventory"
	"gudang-backend/internal/ledger"

	"github.com/xuri/excelize/v2"
)

const (
	ExportSummary  = "summary"
	ExportStockIn  = "stockin"
	ExportStockOut = "stockout"

	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// sheet is a header row followed by data rows, written to one worksheet.
type sheet struct {
	name   string
	title  string
	header []string
	rows   [][]any
}

func summarySheet(rows []ledger.Balance) sheet {
	s := sheet{
		name:   "Ringkasan",
		title:  "Laporan Ringkasan Stok",
		header: []string{"No", "Produk", "Varian", "Total Masuk", "Total Keluar", "Stok Saat Ini"},
	}
	for i, b := range rows {
		s.rows = append(s.rows, []any{i + 1, b.ProductName, ledger.VariantLabel(b.Variant), b.TotalIn, b.TotalOut, b.CurrentStock})
	}
	return s
}

func stockInSheet(rows []inventory.StockInResponse) sheet {
	s := sheet{
		name:   "Stok Masuk",
		title:  "Laporan Stok Masuk",
		header: []string{"No", "Tanggal", "Produk", "Varian", "Jumlah", "Sumber", "Jenis", "No. Polisi", "Sopir", "Surat Jalan"},
	}
	for i, r := range rows {
		s.rows = append(s.rows, []any{
			i + 1, r.Date, r.ProductName, ledger.VariantLabel(r.Variant), r.Quantity,
			r.SourceName, r.InboundCategoryName, r.PlateNumber, r.Driver, r.DeliveryNote,
		})
	}
	return s
}

func stockOutSheet(rows []inventory.StockOutResponse) sheet {
	s := sheet{
		name:   "Stok Keluar",
		title:  "Laporan Stok Keluar",
		header: []string{"No", "Tanggal", "Produk", "Varian", "Jumlah", "Tujuan", "Jenis"},
	}
	for i, r := range rows {
		s.rows = append(s.rows, []any{
			i + 1, r.Date, r.ProductName, ledger.VariantLabel(r.Variant), r.Quantity,
			r.DestinationName, r.OutboundCategoryName,
		})
	}
	return s
}

// writeWorkbook renders s as the only sheet of a new workbook: title in A1,
// an optional period line in A2, the header on row 4 and data below it.
func writeWorkbook(s sheet, period string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", s.name); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetCellValue(s.name, "A1", s.title); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(s.name, "A1", "A1", bold); err != nil {
		return nil, err
	}
	if period != "" {
		if err := f.SetCellValue(s.name, "A2", "Periode: "+period); err != nil {
			return nil, err
		}
	}

	const headerRow = 4
	for i, h := range s.header {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(s.name, cell, h); err != nil {
			return nil, err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(s.header), headerRow)
	if err := f.SetCellStyle(s.name, first, last, bold); err != nil {
		return nil, err
	}

	for r, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, headerRow+1+r)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return nil, fmt.Errorf("baris %d: %w", r+1, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(s.header))
	if err := f.SetColWidth(s.name, "B", lastCol, 18); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

// SummaryWorkbook exports the stock summary.
func SummaryWorkbook(rows []ledger.Balance, period string) (*bytes.Buffer, error) {
	return writeWorkbook(summarySheet(rows), period)
}

// StockInWorkbook exports the stock-in report.
func StockInWorkbook(rows []inventory.StockInResponse, period string) (*bytes.Buffer, error) {
	return writeWorkbook(stockInSheet(rows), period)
}

// StockOutWorkbook exports the stock-out report.
func StockOutWorkbook(rows []inventory.StockOutResponse, period string) (*bytes.Buffer, error) {
	return writeWorkbook(stockOutSheet(rows), period)
}
