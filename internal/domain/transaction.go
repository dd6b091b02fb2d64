package domain

import "strings"

// DefaultMoneySource is used when a row carries no sub-account label.
const DefaultMoneySource = "Unknown"

// Transaction is one normalized brokerage or 401(k) activity row.
// It is an immutable fact: the parser creates it, the aggregator only
// reads it. Units are signed (positive = acquired, negative = disposed)
// and the amount sign agrees with the unit sign when both are non-zero.
type Transaction struct {
	Date        string  `json:"date"` // YYYY-MM-DD, no time component
	Activity    string  `json:"activity"`
	Fund        string  `json:"fund"`
	MoneySource string  `json:"moneySource"`
	Units       float64 `json:"units"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
}

// Hash returns the content identity used for import dedupe. Two rows with
// the same hash are the same transaction regardless of where they came from.
func (t Transaction) Hash() string {
	return strings.Join([]string{
		t.Date,
		t.Activity,
		t.Fund,
		t.MoneySource,
		FormatNumber(t.Units),
		FormatNumber(t.UnitPrice),
		FormatNumber(t.Amount),
	}, "|")
}

// CashAmount returns the transaction's cash amount. A row with non-zero
// units and a zero amount is a pure share movement, so the amount is
// imputed as units * unitPrice.
func (t Transaction) CashAmount() float64 {
	amount := SafeFloat(t.Amount)
	if amount == 0 && t.Units != 0 {
		return SafeFloat(t.Units) * SafeFloat(t.UnitPrice)
	}
	return amount
}
