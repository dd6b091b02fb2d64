package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nestegg/nestegg/internal/aggregate"
	"github.com/nestegg/nestegg/internal/domain"
	"github.com/nestegg/nestegg/internal/metrics"
)

// TransactionSource supplies the full transaction ledger in canonical order.
type TransactionSource interface {
	List(ctx context.Context) ([]domain.Transaction, error)
}

// PriceSource supplies the current live quote set.
type PriceSource interface {
	Snapshot() domain.PriceMap
}

// Service manages portfolio snapshot computation and retrieval.
type Service struct {
	ledger TransactionSource
	prices PriceSource
	repo   Repository
}

// NewService creates a new snapshot service. The price source is optional;
// without one every position settles at its last transaction price.
func NewService(ledger TransactionSource, repo Repository, prices PriceSource) *Service {
	return &Service{ledger: ledger, prices: prices, repo: repo}
}

// Compute aggregates the full ledger into a live portfolio snapshot
// without persisting it.
func (s *Service) Compute(ctx context.Context) (domain.PortfolioSnapshot, error) {
	start := time.Now()

	txs, err := s.ledger.List(ctx)
	if err != nil {
		return domain.PortfolioSnapshot{}, fmt.Errorf("listing transactions: %w", err)
	}

	var live domain.PriceMap
	if s.prices != nil {
		live = s.prices.Snapshot()
	}

	snap := aggregate.Aggregate(txs, live)
	metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	return snap, nil
}

// Generate computes the current portfolio snapshot and stores it under
// the given date, replacing any snapshot already saved for that date.
func (s *Service) Generate(ctx context.Context, date time.Time) (domain.PortfolioSnapshot, error) {
	snap, err := s.Compute(ctx)
	if err != nil {
		return domain.PortfolioSnapshot{}, err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return domain.PortfolioSnapshot{}, fmt.Errorf("marshaling snapshot: %w", err)
	}

	if err := s.repo.Save(ctx, date, data); err != nil {
		return domain.PortfolioSnapshot{}, fmt.Errorf("saving snapshot: %w", err)
	}

	slog.Info("snapshot generated",
		"date", date.Format("2006-01-02"),
		"funds", len(snap.FundTotals),
		"marketValue", snap.Totals.MarketValue)
	return snap, nil
}

// GetLatest retrieves the most recent stored snapshot.
func (s *Service) GetLatest(ctx context.Context) (*Snapshot, error) {
	return s.repo.GetLatest(ctx)
}

// GetByDate retrieves a stored snapshot for a specific date.
func (s *Service) GetByDate(ctx context.Context, date time.Time) (*Snapshot, error) {
	return s.repo.GetByDate(ctx, date)
}

// List retrieves recent stored snapshots.
func (s *Service) List(ctx context.Context, limit int) ([]Snapshot, error) {
	return s.repo.List(ctx, limit)
}
