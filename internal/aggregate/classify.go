package aggregate

import "strings"

// FlowKind is a transaction's cash-flow role: whether it moves money into
// the portfolio, out of it, or only between positions.
type FlowKind int

const (
	FlowDeposit FlowKind = iota
	FlowWithdrawal
	FlowNeutral
)

type flowRule struct {
	pattern string
	kind    FlowKind
}

// Ordered, first match wins: "transfer out" must beat a bare "transfer"
// and "loan issue" must be checked before any broader pattern.
var flowRules = []flowRule{
	{"transfer out", FlowWithdrawal},
	{"transfer in", FlowDeposit},
	{"loan issue", FlowWithdrawal},
	{"loan repayment", FlowDeposit},
	{"withdraw", FlowWithdrawal},
	{"distribution", FlowWithdrawal},
	{"forfeiture", FlowWithdrawal},
	{"fee", FlowWithdrawal},
	{"exchange", FlowNeutral},
	{"rebalance", FlowNeutral},
	{"conversion", FlowNeutral},
	{"purchase", FlowNeutral},
	{"buy", FlowNeutral},
	{"sell", FlowNeutral},
	{"sale", FlowNeutral},
}

// Classify resolves an activity label to its cash-flow role. Unrecognized
// activities count as deposits: dividends, interest and employer match all
// represent value entering the tracked account even though no cash moved
// from the user.
func Classify(activity string) FlowKind {
	label := strings.ToLower(activity)
	for _, rule := range flowRules {
		if strings.Contains(label, rule.pattern) {
			return rule.kind
		}
	}
	return FlowDeposit
}
