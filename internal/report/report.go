// =============================================================================
// eFactura Client - Migration Report
// =============================================================================
//
// Writes an XLSX summary of a migration run so the result list survives the
// session and can be handed to whoever keeps the books. One row per
// migrated invoice, including where the new PDF was saved locally and any
// per-entry download failure.
//
// =============================================================================

package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gracobjo/efactura/internal/migrate"
)

// SheetName is the single sheet of the migration report.
const SheetName = "Facturas Migradas"

var headers = []string{
	"Archivo Original",
	"ID Factura Nueva",
	"Número de Factura",
	"Total",
	"PDF Guardado",
	"Error de Descarga",
}

// WriteMigrationXLSX writes one row per result to an XLSX workbook at path.
func WriteMigrationXLSX(path string, results []migrate.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name report sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, r := range results {
		row := i + 2
		values := []any{
			r.SourceName,
			r.NewInvoiceID.String(),
			r.InvoiceNumber,
			r.Total,
			r.SavedPath,
			r.DownloadErr,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report %s: %w", path, err)
	}
	return nil
}
