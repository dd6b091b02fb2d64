package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/nestegg/nestegg/internal/domain"
)

// FundLister supplies the transaction log from which held funds are derived.
type FundLister interface {
	List(ctx context.Context) ([]domain.Transaction, error)
}

// QuoteRefresher fetches live quotes for a set of funds.
type QuoteRefresher interface {
	Refresh(ctx context.Context, funds []string) error
}

// QuoteWorker periodically refreshes live quotes for every fund that has
// ever appeared in the ledger.
type QuoteWorker struct {
	ledger    FundLister
	refresher QuoteRefresher
	interval  time.Duration
}

// NewQuoteWorker creates a new QuoteWorker.
func NewQuoteWorker(ledger FundLister, refresher QuoteRefresher, interval time.Duration) *QuoteWorker {
	return &QuoteWorker{
		ledger:    ledger,
		refresher: refresher,
		interval:  interval,
	}
}

func (w *QuoteWorker) refresh(ctx context.Context) error {
	txs, err := w.ledger.List(ctx)
	if err != nil {
		return err
	}
	funds := lo.Uniq(lo.Map(txs, func(t domain.Transaction, _ int) string { return t.Fund }))
	if len(funds) == 0 {
		return nil
	}
	return w.refresher.Refresh(ctx, funds)
}

// Run starts the quote worker loop. It blocks until the context is cancelled.
func (w *QuoteWorker) Run(ctx context.Context) {
	slog.Info("QuoteWorker: starting")

	// Fetch immediately on startup
	if err := w.refresh(ctx); err != nil {
		slog.Error("QuoteWorker: initial refresh failed", "error", err)
	} else {
		slog.Info("QuoteWorker: initial refresh completed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("QuoteWorker: shutting down")
			return
		case <-ticker.C:
			if err := w.refresh(ctx); err != nil {
				slog.Error("QuoteWorker: refresh failed", "error", err)
			} else {
				slog.Info("QuoteWorker: refresh completed")
			}
		}
	}
}
