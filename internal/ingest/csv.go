package ingest

import (
	"encoding/csv"
	"strings"
)

// columnMap holds resolved column indexes for one CSV export. Column order
// comes from the header, never from position, so reordered vendor exports
// still parse. amount is optional (-1 when absent).
type columnMap struct {
	date, activity, fund, source, units, price, amount int
}

// parseCSVExport handles vendor CSV exports. The format is claimed when a
// header row containing both "activity date" and "money source" exists;
// rows are then read RFC-4180 style with quoted fields.
func parseCSVExport(raw string) (Result, bool) {
	lines := splitLines(raw)

	headerIdx := -1
	for i, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "activity date") && strings.Contains(lower, "money source") {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return Result{}, false
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines[headerIdx:], "\n")))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil || len(records) < 1 {
		return Result{}, false
	}

	cols, ok := resolveColumns(records[0])
	if !ok {
		return Result{}, false
	}

	var res Result
	for i, record := range records[1:] {
		line := headerIdx + i + 2 // 1-based, after the header
		row, ok := pickColumns(record, cols)
		if !ok {
			res.Errors = append(res.Errors, RowError{
				Line: line, Reason: ReasonBadColumns, Raw: strings.Join(record, ","),
			})
			continue
		}
		row.line = line
		row.raw = strings.Join(record, ",")

		tx, rowErr := normalizeRow(row)
		if rowErr != nil {
			res.Errors = append(res.Errors, *rowErr)
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}
	return res, true
}

// resolveColumns classifies each header cell. All required columns must
// resolve or the export is rejected and the next detector takes over.
func resolveColumns(header []string) (columnMap, bool) {
	cols := columnMap{date: -1, activity: -1, fund: -1, source: -1, units: -1, price: -1, amount: -1}

	for i, cell := range header {
		h := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case strings.Contains(h, "date"):
			setIfUnset(&cols.date, i)
		case strings.Contains(h, "price") || strings.Contains(h, "nav"):
			setIfUnset(&cols.price, i)
		case strings.Contains(h, "amount") || strings.Contains(h, "total"):
			setIfUnset(&cols.amount, i)
		case strings.Contains(h, "source"):
			setIfUnset(&cols.source, i)
		case strings.Contains(h, "activity") || strings.Contains(h, "transaction"):
			setIfUnset(&cols.activity, i)
		case strings.Contains(h, "unit") || strings.Contains(h, "share") ||
			strings.Contains(h, "quantity") || strings.Contains(h, "qty"):
			setIfUnset(&cols.units, i)
		case strings.Contains(h, "fund") || strings.Contains(h, "investment") ||
			strings.Contains(h, "ticker") || strings.Contains(h, "name"):
			setIfUnset(&cols.fund, i)
		}
	}

	required := []int{cols.date, cols.activity, cols.fund, cols.source, cols.units, cols.price}
	for _, c := range required {
		if c < 0 {
			return columnMap{}, false
		}
	}
	return cols, true
}

func setIfUnset(col *int, idx int) {
	if *col < 0 {
		*col = idx
	}
}

// pickColumns maps one record through the column map. Records too short to
// cover every required column are rejected.
func pickColumns(record []string, cols columnMap) (rawRow, bool) {
	at := func(idx int) (string, bool) {
		if idx < 0 || idx >= len(record) {
			return "", idx < 0 // optional columns may be absent
		}
		return record[idx], true
	}

	var row rawRow
	var ok bool
	if row.date, ok = at(cols.date); !ok {
		return rawRow{}, false
	}
	if row.activity, ok = at(cols.activity); !ok {
		return rawRow{}, false
	}
	if row.fund, ok = at(cols.fund); !ok {
		return rawRow{}, false
	}
	if row.source, ok = at(cols.source); !ok {
		return rawRow{}, false
	}
	if row.units, ok = at(cols.units); !ok {
		return rawRow{}, false
	}
	if row.price, ok = at(cols.price); !ok {
		return rawRow{}, false
	}
	row.amount, _ = at(cols.amount)
	return row, true
}

func splitLines(raw string) []string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}
