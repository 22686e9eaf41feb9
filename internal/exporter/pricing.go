package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"fleetcli/internal/pricing"
)

// PricingSheet is the worksheet name of the review workbook
const PricingSheet = "Revision pricing web"

// PricingHeaders is the column order of the published review table. The
// Spanish names match the source system so the output drops into the
// existing reporting workflow unchanged.
var PricingHeaders = []string{
	"matrícula",
	"frame_number",
	"brand",
	"model",
	"Km",
	"Año",
	"P.Compra",
	"Precio base",
	"Oferta",
	"Precio web",
	"Margen",
	"% Margen",
	"Resultado Variación",
	"LEADTIMEPOSTRENTING",
}

// PricingRecords flattens review rows into CSV records in header order
func PricingRecords(rows []pricing.ReviewRow) [][]string {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = []string{
			row.Plate,
			row.FrameNumber,
			row.Brand,
			row.Model,
			strconv.Itoa(row.Mileage),
			strconv.Itoa(row.ModelYear),
			formatFloat(row.PurchaseCost),
			formatFloat(row.BasePrice),
			formatFloat(row.OfferPrice),
			formatFloat(row.WebPrice),
			formatFloat(row.Margin),
			formatFloat(row.MarginPct),
			formatFloat(row.AdjustmentScore),
			formatFloat(row.LeadtimeDays),
		}
	}
	return records
}

// WritePricingCSV writes the pricing review as a CSV report
func (w *CSVWriter) WritePricingCSV(filePath string, rows []pricing.ReviewRow) error {
	return w.WriteSimpleCSV(filePath, PricingHeaders, PricingRecords(rows))
}

// ExcelWriter exports the pricing review as an Excel workbook
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new Excel writer
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

// WritePricingWorkbook writes the review rows to an xlsx workbook with a
// single formatted sheet
func (e *ExcelWriter) WritePricingWorkbook(filePath string, rows []pricing.ReviewRow) error {
	e.logger.Info("writing pricing workbook",
		slog.String("file_path", filePath),
		slog.Int("rows", len(rows)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PricingSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	for col, header := range PricingHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(PricingSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header %q: %w", header, err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.Plate,
			row.FrameNumber,
			row.Brand,
			row.Model,
			row.Mileage,
			row.ModelYear,
			row.PurchaseCost,
			row.BasePrice,
			row.OfferPrice,
			row.WebPrice,
			row.Margin,
			row.MarginPct,
			row.AdjustmentScore,
			row.LeadtimeDays,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell for row %d: %w", i, err)
			}
			if err := f.SetCellValue(PricingSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i, err)
			}
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// formatFloat renders a float for CSV output without trailing zero noise
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
