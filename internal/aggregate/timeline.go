package aggregate

import (
	"math"

	"github.com/nestegg/nestegg/internal/domain"
)

// buildTimeline walks the sorted transactions a second time and emits one
// entry per calendar date that contained any transaction. The invested
// balance follows classified deposits and withdrawals; cost basis is
// replayed per fund with the same average-cost rule the positions use;
// market value prices each fund at the NAV last observed up to that date.
func buildTimeline(sorted []domain.Transaction) []domain.TimelineEntry {
	var entries []domain.TimelineEntry

	invested := 0.0
	books := map[string]*domain.Position{} // per-fund running shares and cost
	navs := map[string]float64{}           // last observed unit price per fund

	for i := 0; i < len(sorted); {
		date := sorted[i].Date
		dayContrib, dayWithdraw := 0.0, 0.0

		for i < len(sorted) && sorted[i].Date == date {
			t := sorted[i]
			amount := math.Abs(t.CashAmount())
			switch Classify(t.Activity) {
			case FlowDeposit:
				dayContrib += amount
				invested += amount
			case FlowWithdrawal:
				dayWithdraw += amount
				invested -= amount
			}

			book, ok := books[t.Fund]
			if !ok {
				book = &domain.Position{Fund: t.Fund}
				books[t.Fund] = book
			}
			book.Apply(t)
			if t.UnitPrice > 0 {
				navs[t.Fund] = t.UnitPrice
			}
			i++
		}

		costBasis, marketValue := 0.0, 0.0
		for fund, book := range books {
			costBasis += book.CostBasis
			marketValue += book.Shares * navs[fund]
		}

		entries = append(entries, domain.TimelineEntry{
			Date:            date,
			Contributions:   dayContrib,
			Withdrawals:     dayWithdraw,
			Net:             dayContrib - dayWithdraw,
			InvestedBalance: invested,
			CostBasis:       costBasis,
			MarketValue:     marketValue,
		})
	}
	return entries
}
