package domain

import "strings"

// Price provenance recorded per money source in a snapshot.
const (
	PriceSourceLive        = "live"
	PriceSourceTransaction = "transaction"
)

// PriceQuote is a live NAV observation for one fund.
type PriceQuote struct {
	Price     float64 `json:"price"`
	UpdatedAt string  `json:"updatedAt"`
}

// PriceMap maps fund identifiers to live quotes. Lookup is by exact key
// first, then by uppercased key; no fuzzy ticker resolution happens here.
type PriceMap map[string]PriceQuote

// Lookup returns the quote for a fund, if any.
func (m PriceMap) Lookup(fund string) (PriceQuote, bool) {
	if q, ok := m[fund]; ok {
		return q, true
	}
	q, ok := m[strings.ToUpper(fund)]
	return q, ok
}

// PriceStamp records which provenance supplied a money source's valuation
// prices, so callers can render a staleness indicator.
type PriceStamp struct {
	Source string `json:"source"` // "live" or "transaction"
	AsOf   string `json:"asOf"`
}
