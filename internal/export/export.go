package export

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/nestegg/nestegg/internal/domain"
)

// Writer delivers a computed portfolio snapshot to one destination.
type Writer interface {
	Write(ctx context.Context, snap domain.PortfolioSnapshot) error
}

// Service fans a snapshot out to every configured writer.
type Service struct {
	writers []Writer
}

// NewService creates a new export Service.
func NewService(writers ...Writer) *Service {
	return &Service{writers: writers}
}

// Export writes the snapshot to all destinations. All writers run even
// when one fails; their errors are joined.
func (s *Service) Export(ctx context.Context, snap domain.PortfolioSnapshot) error {
	var errs []error
	for _, w := range s.writers {
		if err := w.Write(ctx, snap); err != nil {
			errs = append(errs, fmt.Errorf("export writer %T: %w", w, err))
		}
	}
	return errors.Join(errs...)
}

var holdingsHeader = []string{
	"fund", "account_name", "shares", "unit_price",
	"market_value", "cost_basis", "gain_loss", "price_source",
}

var summaryHeader = []string{
	"snapshot_date", "total_market_value", "total_cost_basis",
	"total_gain_loss", "total_gain_loss_percent",
}

var timelineHeader = []string{
	"date", "contributions", "withdrawals", "net",
	"invested_balance", "cost_basis", "market_value",
}

// holdingRows flattens open positions into spreadsheet rows, sorted by
// fund then money source so repeated exports diff cleanly.
func holdingRows(snap domain.PortfolioSnapshot) [][]any {
	type keyed struct {
		fund, source string
		pos          domain.Position
	}

	var flat []keyed
	for fund, bySource := range snap.Portfolio {
		for source, pos := range bySource {
			if pos.IsClosed {
				continue
			}
			flat = append(flat, keyed{fund: fund, source: source, pos: pos})
		}
	}
	sort.Slice(flat, func(i, j int) bool {
		if flat[i].fund != flat[j].fund {
			return flat[i].fund < flat[j].fund
		}
		return flat[i].source < flat[j].source
	})

	rows := make([][]any, 0, len(flat))
	for _, k := range flat {
		source := domain.PriceSourceTransaction
		if stamp, ok := snap.PriceStamps[k.source]; ok {
			source = stamp.Source
		}
		rows = append(rows, []any{
			k.fund, k.source,
			k.pos.Shares, domain.SafeDiv(k.pos.MarketValue, k.pos.Shares),
			k.pos.MarketValue, k.pos.CostBasis, k.pos.GainLoss,
			source,
		})
	}
	return rows
}

func summaryRow(snap domain.PortfolioSnapshot) []any {
	return []any{
		snap.LastUpdated,
		snap.Totals.MarketValue,
		snap.Totals.CostBasis,
		snap.Totals.GainLoss,
		snap.Totals.ROI * 100,
	}
}

func timelineRows(snap domain.PortfolioSnapshot) [][]any {
	rows := make([][]any, 0, len(snap.Timeline))
	for _, e := range snap.Timeline {
		rows = append(rows, []any{
			e.Date, e.Contributions, e.Withdrawals, e.Net,
			e.InvestedBalance, e.CostBasis, e.MarketValue,
		})
	}
	return rows
}
