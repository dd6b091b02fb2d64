// Package aggregate replays canonical transactions into a portfolio
// snapshot: per-position average-cost basis, fund and money-source
// roll-ups, portfolio totals and a valuation timeline. Aggregate is a pure
// function of its inputs; nothing is cached between calls.
package aggregate

import (
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/nestegg/nestegg/internal/domain"
)

// resolvedNAV is the single per-fund price used for final valuation.
type resolvedNAV struct {
	price  float64
	source string // domain.PriceSourceLive or domain.PriceSourceTransaction
	asOf   string
}

// Aggregate computes a full portfolio snapshot from a transaction list and
// an optional live price map. Input order does not matter; transactions
// are sorted chronologically (stable, ties keep input order) before replay.
func Aggregate(txs []domain.Transaction, live domain.PriceMap) domain.PortfolioSnapshot {
	sorted := sortChronological(txs)

	snap := domain.PortfolioSnapshot{
		Portfolio:    map[string]map[string]domain.Position{},
		FundTotals:   map[string]domain.FundTotal{},
		SourceTotals: map[string]domain.SourceTotal{},
		PriceStamps:  map[string]domain.PriceStamp{},
	}
	if len(sorted) == 0 {
		return snap
	}

	// Replay every (fund, money source) position.
	positions := map[string]*domain.Position{}
	for _, t := range sorted {
		key := t.Fund + "|" + t.MoneySource
		p, ok := positions[key]
		if !ok {
			p = &domain.Position{Fund: t.Fund, MoneySource: t.MoneySource}
			positions[key] = p
		}
		p.Apply(t)
	}

	navs := resolveNAVs(sorted, live)
	for _, p := range positions {
		p.Settle(navs[p.Fund].price)
	}

	stampSources(snap.PriceStamps, positions, navs, sorted)

	// Cash flows at source and portfolio granularity.
	contributions := map[string]float64{}
	withdrawals := map[string]float64{}
	for _, t := range sorted {
		amount := math.Abs(t.CashAmount())
		switch Classify(t.Activity) {
		case FlowDeposit:
			contributions[t.MoneySource] += amount
		case FlowWithdrawal:
			withdrawals[t.MoneySource] += amount
		}
	}

	// Stable iteration order for every derived view.
	ordered := lo.Values(positions)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Fund != ordered[j].Fund {
			return ordered[i].Fund < ordered[j].Fund
		}
		return ordered[i].MoneySource < ordered[j].MoneySource
	})

	for _, p := range ordered {
		byFund, ok := snap.Portfolio[p.Fund]
		if !ok {
			byFund = map[string]domain.Position{}
			snap.Portfolio[p.Fund] = byFund
		}
		byFund[p.MoneySource] = *p

		ft := snap.FundTotals[p.Fund]
		ft.Fund = p.Fund
		ft.Shares += p.Shares
		ft.CostBasis += p.CostBasis
		ft.MarketValue += p.MarketValue
		ft.RealizedGainLoss += p.RealizedGainLoss
		ft.GainLoss = ft.MarketValue - ft.CostBasis + ft.RealizedGainLoss
		snap.FundTotals[p.Fund] = ft

		st := snap.SourceTotals[p.MoneySource]
		st.MoneySource = p.MoneySource
		st.Shares += p.Shares
		st.CostBasis += p.CostBasis
		st.MarketValue += p.MarketValue
		st.GainLoss += p.GainLoss
		snap.SourceTotals[p.MoneySource] = st
	}

	for source, st := range snap.SourceTotals {
		st.Contributions = contributions[source]
		st.Withdrawals = withdrawals[source]
		st.NetInvested = st.Contributions - st.Withdrawals
		if st.NetInvested != 0 {
			st.ROI = (st.MarketValue - st.NetInvested) / st.NetInvested
		}
		snap.SourceTotals[source] = st
	}

	snap.Timeline = buildTimeline(sorted)
	snap.Totals = portfolioTotals(ordered, contributions, withdrawals, snap.Timeline)
	snap.OpenPositions, snap.ClosedPositions = partitionViews(ordered)

	snap.FirstTransaction = sorted[0].Date
	snap.LastUpdated = sorted[len(sorted)-1].Date
	return snap
}

// sortChronological orders by date only, stably, so same-day transactions
// keep their input order.
func sortChronological(txs []domain.Transaction) []domain.Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b domain.Transaction) int {
		return strings.Compare(a.Date, b.Date)
	})
	return sorted
}

// resolveNAVs picks one price per fund: a live quote when supplied,
// otherwise the unit price of the fund's most recent transaction.
func resolveNAVs(sorted []domain.Transaction, live domain.PriceMap) map[string]resolvedNAV {
	navs := map[string]resolvedNAV{}
	for _, t := range sorted {
		nav, ok := navs[t.Fund]
		if !ok {
			nav = resolvedNAV{source: domain.PriceSourceTransaction}
		}
		if nav.source == domain.PriceSourceTransaction && t.UnitPrice > 0 {
			nav.price = t.UnitPrice
			nav.asOf = t.Date
		}
		navs[t.Fund] = nav
	}
	for fund := range navs {
		if q, ok := live.Lookup(fund); ok && q.Price > 0 {
			navs[fund] = resolvedNAV{price: q.Price, source: domain.PriceSourceLive, asOf: q.UpdatedAt}
		}
	}
	return navs
}

// stampSources records, per money source, whether valuation used live or
// transaction-derived NAVs. Live provenance wins when a source holds any
// live-priced fund; transaction stamps carry the source's most recent
// transaction date.
func stampSources(stamps map[string]domain.PriceStamp, positions map[string]*domain.Position,
	navs map[string]resolvedNAV, sorted []domain.Transaction) {

	lastSourceDate := map[string]string{}
	for _, t := range sorted {
		lastSourceDate[t.MoneySource] = t.Date // sorted, so the last write wins
	}

	for _, p := range positions {
		nav := navs[p.Fund]
		current, seen := stamps[p.MoneySource]
		switch {
		case nav.source == domain.PriceSourceLive && (!seen || current.Source != domain.PriceSourceLive || nav.asOf > current.AsOf):
			stamps[p.MoneySource] = domain.PriceStamp{Source: domain.PriceSourceLive, AsOf: nav.asOf}
		case !seen:
			stamps[p.MoneySource] = domain.PriceStamp{
				Source: domain.PriceSourceTransaction,
				AsOf:   lastSourceDate[p.MoneySource],
			}
		}
	}
}

func portfolioTotals(ordered []*domain.Position, contributions, withdrawals map[string]float64,
	timeline []domain.TimelineEntry) domain.Totals {

	totals := domain.Totals{
		MarketValue: lo.SumBy(ordered, func(p *domain.Position) float64 { return p.MarketValue }),
		CostBasis:   lo.SumBy(ordered, func(p *domain.Position) float64 { return p.CostBasis }),
		RealizedGainLoss: lo.SumBy(ordered, func(p *domain.Position) float64 {
			return p.RealizedGainLoss
		}),
		Contributions: lo.Sum(lo.Values(contributions)),
		Withdrawals:   lo.Sum(lo.Values(withdrawals)),
	}
	totals.NetInvested = totals.Contributions - totals.Withdrawals
	totals.UnrealizedGainLoss = totals.MarketValue - totals.CostBasis
	totals.GainLoss = totals.UnrealizedGainLoss + totals.RealizedGainLoss
	totals.ROI = domain.SafeDiv(totals.GainLoss, totals.NetInvested)
	totals.PayPeriods = lo.CountBy(timeline, func(e domain.TimelineEntry) bool {
		return e.Contributions > 0
	})
	return totals
}

// partitionViews splits the settled positions into open and closed halves,
// each with its own summary sums. Pure presentation convenience.
func partitionViews(ordered []*domain.Position) (open, closed domain.PositionsView) {
	openPs, closedPs := lo.FilterReject(ordered, func(p *domain.Position, _ int) bool {
		return !p.IsClosed
	})
	return summarize(openPs), summarize(closedPs)
}

func summarize(ps []*domain.Position) domain.PositionsView {
	view := domain.PositionsView{
		Positions: lo.Map(ps, func(p *domain.Position, _ int) domain.Position { return *p }),
		Count:     len(ps),
	}
	for _, p := range ps {
		view.MarketValue += p.MarketValue
		view.CostBasis += p.CostBasis
		view.GainLoss += p.GainLoss
		view.RealizedGainLoss += p.RealizedGainLoss
	}
	return view
}
