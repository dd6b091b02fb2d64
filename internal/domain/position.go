package domain

import "math"

// Position tracks shares and average-cost basis for one fund held under one
// money source. It is derived state, scoped to a single aggregation run.
type Position struct {
	Fund             string  `json:"fund"`
	MoneySource      string  `json:"moneySource"`
	Shares           float64 `json:"shares"`
	CostBasis        float64 `json:"costBasis"`
	AvgCost          float64 `json:"avgCost"`
	MarketValue      float64 `json:"marketValue"`
	GainLoss         float64 `json:"gainLoss"`
	RealizedGainLoss float64 `json:"realizedGainLoss"`
	FirstBuyDate     string  `json:"firstBuyDate,omitempty"`
	LastSellDate     string  `json:"lastSellDate,omitempty"`
	IsClosed         bool    `json:"isClosed"`
}

// Apply replays one transaction against the position using average-cost
// accounting: acquired shares pool their cost, disposals reduce the pool by
// the average cost of the shares actually matched. A disposal against an
// already-empty position contributes no cost reduction (cost basis never
// goes negative), so its full proceeds are realized gain.
func (p *Position) Apply(t Transaction) {
	units := SafeFloat(t.Units)
	amount := math.Abs(t.CashAmount())

	switch {
	case units > 0:
		p.CostBasis += amount
		p.Shares += units
		if p.FirstBuyDate == "" || t.Date < p.FirstBuyDate {
			p.FirstBuyDate = t.Date
		}
	case units < 0:
		disposed := math.Abs(units)
		held := math.Max(p.Shares, 0)
		avgCost := SafeDiv(p.CostBasis, p.Shares)
		if p.Shares <= 0 {
			avgCost = 0
		}
		reduction := avgCost * math.Min(disposed, held)
		p.CostBasis = math.Max(0, p.CostBasis-reduction)
		p.Shares = math.Max(0, p.Shares-disposed)
		p.RealizedGainLoss += amount - reduction
		if t.Date > p.LastSellDate {
			p.LastSellDate = t.Date
		}
	}
}

// Settle computes the valuation fields from a resolved NAV and clamps
// empty positions closed. For a closed position the reported gain is the
// realized figure only; its market value is excluded everywhere.
func (p *Position) Settle(nav float64) {
	if IsZeroShares(p.Shares) {
		p.Shares = 0
		p.CostBasis = 0
		p.AvgCost = 0
		p.MarketValue = 0
		p.GainLoss = p.RealizedGainLoss
		p.IsClosed = true
		return
	}
	p.AvgCost = SafeDiv(p.CostBasis, p.Shares)
	p.MarketValue = p.Shares * SafeFloat(nav)
	p.GainLoss = p.MarketValue - p.CostBasis
	p.IsClosed = false
}
