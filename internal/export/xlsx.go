package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nestegg/nestegg/internal/domain"
)

// XLSXWriter writes a snapshot as a single Excel workbook with Summary,
// Holdings and Timeline sheets.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter creates an XLSXWriter targeting the given file path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

func (w *XLSXWriter) Write(_ context.Context, snap domain.PortfolioSnapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name   string
		header []string
		rows   [][]any
	}{
		{"Summary", summaryHeader, [][]any{summaryRow(snap)}},
		{"Holdings", holdingsHeader, holdingRows(snap)},
		{"Timeline", timelineHeader, timelineRows(snap)},
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return fmt.Errorf("renaming default sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return fmt.Errorf("creating sheet %s: %w", sheet.name, err)
			}
		}

		headerCells := make([]any, len(sheet.header))
		for j, h := range sheet.header {
			headerCells[j] = h
		}
		if err := f.SetSheetRow(sheet.name, "A1", &headerCells); err != nil {
			return fmt.Errorf("writing header of %s: %w", sheet.name, err)
		}
		for j, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return fmt.Errorf("computing cell address: %w", err)
			}
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				return fmt.Errorf("writing row to %s: %w", sheet.name, err)
			}
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", w.path, err)
	}
	return nil
}
