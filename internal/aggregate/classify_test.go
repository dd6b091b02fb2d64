package aggregate

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		activity string
		want     FlowKind
	}{
		{"Employee Contribution", FlowDeposit},
		{"Employer Match", FlowDeposit},
		{"Dividend", FlowDeposit},
		{"Interest", FlowDeposit},
		{"Transfer In", FlowDeposit},
		{"Loan Repayment", FlowDeposit},
		{"Rollover Contribution", FlowDeposit},
		{"Transfer Out", FlowWithdrawal},
		{"Withdrawal", FlowWithdrawal},
		{"Fee", FlowWithdrawal},
		{"Plan Administrative Fee", FlowWithdrawal},
		{"Forfeiture", FlowWithdrawal},
		{"Loan Issue", FlowWithdrawal},
		{"Buy", FlowNeutral},
		{"Sell", FlowNeutral},
		{"Exchange In", FlowNeutral},
		{"Exchange Out", FlowNeutral},
		{"Rebalance", FlowNeutral},
		{"Conversion", FlowNeutral},
		// unknown labels count as money entering the account
		{"Mystery Credit", FlowDeposit},
	}
	for _, c := range cases {
		if got := Classify(c.activity); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.activity, got, c.want)
		}
	}
}
