package domain

// FundTotal rolls up every position of one fund across money sources.
// MarketValue covers open positions only.
type FundTotal struct {
	Fund             string  `json:"fund"`
	Shares           float64 `json:"shares"`
	CostBasis        float64 `json:"costBasis"`
	MarketValue      float64 `json:"marketValue"`
	GainLoss         float64 `json:"gainLoss"`
	RealizedGainLoss float64 `json:"realizedGainLoss"`
}

// SourceTotal rolls up every position of one money source across funds,
// plus the cash-flow figures that only exist at source granularity.
type SourceTotal struct {
	MoneySource   string  `json:"moneySource"`
	Shares        float64 `json:"shares"`
	CostBasis     float64 `json:"costBasis"`
	MarketValue   float64 `json:"marketValue"`
	GainLoss      float64 `json:"gainLoss"`
	Contributions float64 `json:"contributions"`
	Withdrawals   float64 `json:"withdrawals"`
	NetInvested   float64 `json:"netInvested"`
	ROI           float64 `json:"roi"`
}

// Totals holds portfolio-wide sums.
type Totals struct {
	MarketValue        float64 `json:"marketValue"`
	CostBasis          float64 `json:"costBasis"`
	Contributions      float64 `json:"contributions"`
	Withdrawals        float64 `json:"withdrawals"`
	NetInvested        float64 `json:"netInvested"`
	UnrealizedGainLoss float64 `json:"unrealizedGainLoss"`
	RealizedGainLoss   float64 `json:"realizedGainLoss"`
	GainLoss           float64 `json:"gainLoss"`
	ROI                float64 `json:"roi"`
	PayPeriods         int     `json:"payPeriods"`
}

// TimelineEntry is the valuation state after one calendar date that
// contained at least one transaction. Contributions, Withdrawals and Net
// are that date's flows; InvestedBalance, CostBasis and MarketValue are
// running figures as of that date.
type TimelineEntry struct {
	Date            string  `json:"date"`
	Contributions   float64 `json:"contributions"`
	Withdrawals     float64 `json:"withdrawals"`
	Net             float64 `json:"net"`
	InvestedBalance float64 `json:"investedBalance"`
	CostBasis       float64 `json:"costBasis"`
	MarketValue     float64 `json:"marketValue"`
}

// PositionsView is a presentation partition over the position map:
// the open or the closed half, with its own summary sums.
type PositionsView struct {
	Positions        []Position `json:"positions"`
	Count            int        `json:"count"`
	MarketValue      float64    `json:"marketValue"`
	CostBasis        float64    `json:"costBasis"`
	GainLoss         float64    `json:"gainLoss"`
	RealizedGainLoss float64    `json:"realizedGainLoss"`
}

// PortfolioSnapshot is the aggregate result: positions keyed by fund then
// money source, roll-ups, the valuation timeline, and price provenance.
// It is recomputed from scratch on every aggregation call.
type PortfolioSnapshot struct {
	Portfolio        map[string]map[string]Position `json:"portfolio"`
	FundTotals       map[string]FundTotal           `json:"fundTotals"`
	SourceTotals     map[string]SourceTotal         `json:"sourceTotals"`
	Totals           Totals                         `json:"totals"`
	Timeline         []TimelineEntry                `json:"timeline"`
	OpenPositions    PositionsView                  `json:"openPositions"`
	ClosedPositions  PositionsView                  `json:"closedPositions"`
	FirstTransaction string                         `json:"firstTransaction,omitempty"`
	LastUpdated      string                         `json:"lastUpdated,omitempty"`
	PriceStamps      map[string]PriceStamp          `json:"priceTimestamps"`
}
