package export

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/nestegg/nestegg/internal/domain"
)

// SheetsWriter implements Writer using the Google Sheets API. HOLDINGS and
// SUMMARY are rewritten on every export; TIMELINE accumulates one row per
// snapshot date.
type SheetsWriter struct {
	spreadsheetID string
	svc           *sheets.Service
}

// NewSheetsWriter creates a SheetsWriter authenticated with a service account JSON.
func NewSheetsWriter(ctx context.Context, spreadsheetID, credentialsJSON string) (*SheetsWriter, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credentialsJSON),
		sheets.SpreadsheetsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &SheetsWriter{spreadsheetID: spreadsheetID, svc: svc}, nil
}

func (w *SheetsWriter) Write(ctx context.Context, snap domain.PortfolioSnapshot) error {
	if err := w.ensureSheets(ctx, "SUMMARY", "HOLDINGS", "TIMELINE"); err != nil {
		return err
	}

	_, err := w.svc.Spreadsheets.Values.BatchClear(
		w.spreadsheetID,
		&sheets.BatchClearValuesRequest{
			Ranges: []string{"SUMMARY!A:E", "HOLDINGS!A:H"},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing sheets: %w", err)
	}

	_, err = w.svc.Spreadsheets.Values.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateValuesRequest{
			ValueInputOption: "USER_ENTERED",
			Data: []*sheets.ValueRange{
				{Range: "SUMMARY!A1", Values: withHeader(summaryHeader, [][]any{summaryRow(snap)})},
				{Range: "HOLDINGS!A1", Values: withHeader(holdingsHeader, holdingRows(snap))},
			},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing sheets: %w", err)
	}

	return w.appendTimeline(ctx, snap)
}

// appendTimeline writes the TIMELINE header if the sheet is empty, then
// appends one row for the latest timeline entry.
func (w *SheetsWriter) appendTimeline(ctx context.Context, snap domain.PortfolioSnapshot) error {
	rows := timelineRows(snap)
	if len(rows) == 0 {
		return nil
	}

	existing, err := w.svc.Spreadsheets.Values.Get(
		w.spreadsheetID, "TIMELINE!A1:A1",
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading TIMELINE header: %w", err)
	}

	if len(existing.Values) == 0 {
		_, err = w.svc.Spreadsheets.Values.Update(
			w.spreadsheetID,
			"TIMELINE!A1",
			&sheets.ValueRange{Values: withHeader(timelineHeader, nil)},
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("writing TIMELINE header: %w", err)
		}
	}

	_, err = w.svc.Spreadsheets.Values.Append(
		w.spreadsheetID,
		"TIMELINE!A:G",
		&sheets.ValueRange{Values: [][]any{rows[len(rows)-1]}},
	).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending TIMELINE row: %w", err)
	}
	return nil
}

// ensureSheets creates any of the named sheets that do not already exist.
func (w *SheetsWriter) ensureSheets(ctx context.Context, names ...string) error {
	spreadsheet, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("getting spreadsheet metadata: %w", err)
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, s := range spreadsheet.Sheets {
		existing[s.Properties.Title] = true
	}

	var requests []*sheets.Request
	for _, name := range names {
		if !existing[name] {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: name},
				},
			})
		}
	}

	if len(requests) == 0 {
		return nil
	}

	_, err = w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating sheets: %w", err)
	}

	return nil
}

func withHeader(header []string, rows [][]any) [][]any {
	out := make([][]any, 0, len(rows)+1)
	h := make([]any, len(header))
	for i, v := range header {
		h[i] = v
	}
	out = append(out, h)
	return append(out, rows...)
}
