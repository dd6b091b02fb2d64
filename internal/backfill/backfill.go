// Package backfill reconstructs daily portfolio history from the
// transaction log and a table of historical closing prices. It exists for
// seeding the snapshot store before the service started taking its own
// daily snapshots.
package backfill

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/nestegg/nestegg/internal/domain"
)

// displayEpsilon hides residual share fragments smaller than a
// ten-thousandth of a share from the generated history.
const displayEpsilon = 0.0001

// Prices resolves a fund's closing price on a date. Funds map to tickers
// through TickerMap; funds listed in Conversions hold fractional units of
// their proxy ticker and divide its price by the given ratio.
type Prices struct {
	Table       map[string]map[string]float64 // ticker -> date -> close
	TickerMap   map[string]string             // fund -> ticker
	Conversions map[string]float64            // fund -> ratio
}

// Closing returns the closing price for fund on date, if known.
func (p *Prices) Closing(fund, date string) (float64, bool) {
	ticker, ok := p.TickerMap[fund]
	if !ok {
		ticker = fund
	}
	close, ok := p.Table[ticker][date]
	if !ok {
		return 0, false
	}
	if ratio, ok := p.Conversions[fund]; ok && ratio > 0 {
		close /= ratio
	}
	return close, true
}

// PortfolioRow is one day of aggregate history.
type PortfolioRow struct {
	Date            string
	MarketValue     float64
	CostBasis       float64
	GainLoss        float64
	GainLossPercent float64
	Source          string
	MarketStatus    string
}

// HoldingRow is one fund-account position on one day.
type HoldingRow struct {
	Date        string
	Fund        string
	Account     string
	Shares      float64
	UnitPrice   float64
	MarketValue float64
	CostBasis   float64
	GainLoss    float64
	PriceSource string
}

// Run replays the transaction log day by day from the first transaction
// date through endDate and values every position at that day's close.
// Days where no position has a known price produce no row; positions
// without a price for one day are skipped that day but kept for the next.
func Run(txs []domain.Transaction, prices *Prices, endDate string) ([]PortfolioRow, []HoldingRow, error) {
	if len(txs) == 0 {
		return nil, nil, fmt.Errorf("no transactions to replay")
	}

	byDate := lo.GroupBy(txs, func(t domain.Transaction) string { return t.Date })
	first := lo.MinBy(txs, func(a, b domain.Transaction) bool { return a.Date < b.Date }).Date

	start, err := time.Parse("2006-01-02", first)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing first transaction date %q: %w", first, err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return nil, nil, fmt.Errorf("end date %s precedes first transaction %s", endDate, first)
	}

	positions := map[string]*domain.Position{}
	var keys []string

	var portfolio []PortfolioRow
	var holdings []HoldingRow

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")

		for _, tx := range byDate[date] {
			key := tx.Fund + "||" + tx.MoneySource
			pos, ok := positions[key]
			if !ok {
				pos = &domain.Position{Fund: tx.Fund, MoneySource: tx.MoneySource}
				positions[key] = pos
				keys = append(keys, key)
				sort.Strings(keys)
			}
			pos.Apply(tx)
		}

		var dayHoldings []HoldingRow
		var totalMV, totalCB float64
		for _, key := range keys {
			pos := positions[key]
			if math.Abs(pos.Shares) < displayEpsilon {
				continue
			}
			close, ok := prices.Closing(pos.Fund, date)
			if !ok {
				continue
			}
			mv := pos.Shares * close
			totalMV += mv
			totalCB += pos.CostBasis
			dayHoldings = append(dayHoldings, HoldingRow{
				Date:        date,
				Fund:        pos.Fund,
				Account:     pos.MoneySource,
				Shares:      pos.Shares,
				UnitPrice:   close,
				MarketValue: mv,
				CostBasis:   pos.CostBasis,
				GainLoss:    mv - pos.CostBasis,
				PriceSource: "historical",
			})
		}

		if len(dayHoldings) == 0 {
			continue
		}

		gain := totalMV - totalCB
		pct := 0.0
		if totalCB > 0 {
			pct = gain / totalCB * 100
		}
		portfolio = append(portfolio, PortfolioRow{
			Date:            date,
			MarketValue:     round(totalMV, 2),
			CostBasis:       round(totalCB, 2),
			GainLoss:        round(gain, 2),
			GainLossPercent: round(pct, 4),
			Source:          "backfill",
			MarketStatus:    "closed",
		})
		holdings = append(holdings, dayHoldings...)
	}

	return portfolio, holdings, nil
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
