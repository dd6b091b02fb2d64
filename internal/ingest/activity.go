package ingest

import (
	"sort"
	"strings"
)

// knownActivities is the dictionary used to split the joined
// "activity + fund name" token run. Fund names may contain spaces and no
// delimiter reliably separates the two fields, so the longest dictionary
// entry that prefixes the run wins.
var knownActivities = []string{
	"Employee Contribution",
	"Employer Contribution",
	"Employer Match",
	"Company Match",
	"Rollover Contribution",
	"Rollover",
	"Dividend Reinvestment",
	"Dividend",
	"Interest",
	"Revenue Credit",
	"Transfer In",
	"Transfer Out",
	"Transfer",
	"Exchange In",
	"Exchange Out",
	"Exchange",
	"Rebalance",
	"Conversion",
	"Withdrawal",
	"Distribution",
	"Loan Repayment",
	"Loan Issue",
	"Forfeiture",
	"Fee",
	"Buy",
	"Purchase",
	"Sell",
	"Sale",
}

// byLength holds the dictionary sorted longest first, so prefix matching
// prefers "Transfer Out" over "Transfer".
var byLength = func() []string {
	entries := append([]string(nil), knownActivities...)
	sort.Slice(entries, func(i, j int) bool { return len(entries[i]) > len(entries[j]) })
	return entries
}()

// splitActivityFund divides the joined leading tokens into the activity
// label and the fund name. Without a dictionary hit the first token is
// taken as the activity and the remainder as the fund.
func splitActivityFund(joined string) (activity, fund string) {
	joined = strings.TrimSpace(joined)
	lower := strings.ToLower(joined)

	for _, entry := range byLength {
		le := strings.ToLower(entry)
		if !strings.HasPrefix(lower, le) {
			continue
		}
		// word boundary: either the whole run or a space follows
		if len(joined) > len(entry) && joined[len(entry)] != ' ' {
			continue
		}
		return joined[:len(entry)], strings.TrimSpace(joined[len(entry):])
	}

	before, after, found := strings.Cut(joined, " ")
	if !found {
		return joined, ""
	}
	return before, strings.TrimSpace(after)
}
