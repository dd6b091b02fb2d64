package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nestegg/nestegg/internal/domain"
)

// FileWriter writes a snapshot as CSV files into a directory: a one-row
// portfolio summary, the open holdings, and the valuation timeline.
type FileWriter struct {
	dir string
}

// NewFileWriter creates a FileWriter targeting the given directory.
func NewFileWriter(dir string) *FileWriter {
	return &FileWriter{dir: dir}
}

func (w *FileWriter) Write(_ context.Context, snap domain.PortfolioSnapshot) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	files := []struct {
		name   string
		header []string
		rows   [][]any
	}{
		{"portfolio_snapshots.csv", summaryHeader, [][]any{summaryRow(snap)}},
		{"holdings_snapshots.csv", holdingsHeader, holdingRows(snap)},
		{"timeline.csv", timelineHeader, timelineRows(snap)},
	}
	for _, f := range files {
		if err := writeCSV(filepath.Join(w.dir, f.name), f.header, f.rows); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, header []string, rows [][]any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header to %s: %w", path, err)
	}
	for _, row := range rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = formatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row to %s: %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
