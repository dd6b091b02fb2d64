package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nestegg/nestegg/internal/domain"
	"github.com/nestegg/nestegg/internal/ingest"
	"github.com/nestegg/nestegg/internal/metrics"
)

// ErrNoTransactions indicates that a paste contained nothing recognizable.
// The only parse outcome worth escalating; partial losses surface as row
// errors in the ImportResult instead.
var ErrNoTransactions = errors.New("no transactions detected")

// ImportResult summarizes one import: how many rows parsed, how many were
// new, how many were duplicates of stored rows, and which rows the parser
// had to skip.
type ImportResult struct {
	BatchID    uuid.UUID         `json:"batchId"`
	Parsed     int               `json:"parsed"`
	Imported   int               `json:"imported"`
	Duplicates int               `json:"duplicates"`
	RowErrors  []ingest.RowError `json:"rowErrors,omitempty"`
}

// Service manages the stored transaction log.
type Service struct {
	repo Repository
}

// NewService creates a new ledger Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Import parses raw pasted text or a CSV export and merges the recognized
// transactions into the stored log, deduplicating by content hash.
func (s *Service) Import(ctx context.Context, raw string) (ImportResult, error) {
	parsed := ingest.Parse(raw)
	if len(parsed.Transactions) == 0 {
		return ImportResult{RowErrors: parsed.Errors}, ErrNoTransactions
	}

	batchID := uuid.New()
	imported, err := s.repo.SaveAll(ctx, batchID, parsed.Transactions)
	if err != nil {
		return ImportResult{}, fmt.Errorf("storing imported transactions: %w", err)
	}

	result := ImportResult{
		BatchID:    batchID,
		Parsed:     len(parsed.Transactions),
		Imported:   imported,
		Duplicates: len(parsed.Transactions) - imported,
		RowErrors:  parsed.Errors,
	}

	metrics.TransactionsImported.WithLabelValues("new").Add(float64(result.Imported))
	metrics.TransactionsImported.WithLabelValues("duplicate").Add(float64(result.Duplicates))
	for _, re := range parsed.Errors {
		metrics.ImportRowErrors.WithLabelValues(string(re.Reason)).Inc()
	}

	slog.Info("transactions imported",
		"batch", batchID,
		"parsed", result.Parsed,
		"imported", result.Imported,
		"duplicates", result.Duplicates,
		"skippedRows", len(result.RowErrors))
	return result, nil
}

// List returns the stored transaction log in canonical order.
func (s *Service) List(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.List(ctx)
}
