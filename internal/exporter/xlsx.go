package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"modelpulse/internal/core"
)

const sheetName = "Releases"

// WriteXLSX writes records as a single-sheet workbook.
func WriteXLSX(w io.Writer, records []core.ModelRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, name := range Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("write header %q: %w", name, err)
		}
	}

	for i, r := range records {
		rowValues := []string{r.Model, r.Organization, r.ReleaseDate.Format(core.ReleaseDateLayout)}
		for col, v := range rowValues {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", i, err)
			}
		}
	}

	// Widths picked for typical model/organization names.
	if err := f.SetColWidth(sheetName, "A", "B", 28); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "C", "C", 14); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
