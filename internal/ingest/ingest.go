// Package ingest converts raw pasted text and vendor CSV exports into
// canonical transactions. Parsing never fails: unrecognizable rows are
// collected as RowErrors and everything salvageable is returned.
package ingest

import "github.com/nestegg/nestegg/internal/domain"

// RowError describes one input row that could not be turned into a
// transaction. Rows are dropped, not fatal; the errors exist so callers
// can surface "N rows skipped" instead of losing them silently.
type RowError struct {
	Line   int    `json:"line"`
	Reason Reason `json:"reason"`
	Raw    string `json:"raw"`
}

// Reason discriminates why a row was dropped.
type Reason string

const (
	ReasonBadDate     Reason = "bad-date"
	ReasonMissingFund Reason = "missing-fund"
	ReasonShortRow    Reason = "short-row"
	ReasonBadColumns  Reason = "bad-columns"
)

// Result is the outcome of one parse: the recognized transactions in input
// order plus the rows that were skipped.
type Result struct {
	Transactions []domain.Transaction `json:"transactions"`
	Errors       []RowError           `json:"errors,omitempty"`
}

// A detector tries to interpret the whole input as one row format.
// It reports false when the input is not in its format, letting the
// next detector in the pipeline have a go.
type detector func(raw string) (Result, bool)

// Tried in order; the delimited-text detector is the catch-all.
var detectors = []detector{
	parseCSVExport,
	parseDelimited,
}

// Parse converts raw pasted text or a CSV export into transactions.
// An input with nothing recognizable yields an empty Result, never an error.
func Parse(raw string) Result {
	for _, detect := range detectors {
		if res, ok := detect(raw); ok {
			return res
		}
	}
	return Result{}
}
