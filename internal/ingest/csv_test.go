package ingest

import (
	"fmt"
	"strings"
	"testing"
)

const canonicalCSV = `Activity Date,Activity,Fund,Money Source,# of Units,Unit Price,Amount
2024-01-01,Employee Contribution,VTI,PreTax,10,100.00,"1,000.00"
2024-06-01,Employee Contribution,VTI,PreTax,5,120.00,600.00
`

func TestParseCSVExport(t *testing.T) {
	res := Parse(canonicalCSV)

	if len(res.Transactions) != 2 {
		t.Fatalf("got %d transactions, want 2", len(res.Transactions))
	}
	tx := res.Transactions[0]
	if tx.Date != "2024-01-01" || tx.Activity != "Employee Contribution" ||
		tx.Fund != "VTI" || tx.MoneySource != "PreTax" {
		t.Errorf("unexpected first transaction: %+v", tx)
	}
	if tx.Units != 10 || tx.UnitPrice != 100 || tx.Amount != 1000 {
		t.Errorf("numeric fields = %v/%v/%v, want 10/100/1000", tx.Units, tx.UnitPrice, tx.Amount)
	}
}

func TestParseCSVReorderedColumns(t *testing.T) {
	reordered := `Money Source,Activity Date,Fund,Activity,# of Units,Unit Price,Amount
PreTax,2024-01-01,VTI,Employee Contribution,10,100.00,"1,000.00"
PreTax,2024-06-01,VTI,Employee Contribution,5,120.00,600.00
`
	want := Parse(canonicalCSV)
	got := Parse(reordered)

	if len(got.Transactions) != len(want.Transactions) {
		t.Fatalf("got %d transactions, want %d", len(got.Transactions), len(want.Transactions))
	}
	for i := range got.Transactions {
		if got.Transactions[i] != want.Transactions[i] {
			t.Errorf("transaction %d: got %+v, want %+v", i, got.Transactions[i], want.Transactions[i])
		}
	}
}

func TestParseCSVQuotedFundName(t *testing.T) {
	raw := `Activity Date,Activity,Fund,Money Source,# of Units,Unit Price,Amount
2024-01-01,Employee Contribution,"Vanguard 500 Index Fund, Adm",PreTax,10,100.00,1000.00
`
	res := Parse(raw)
	if len(res.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(res.Transactions))
	}
	if got := res.Transactions[0].Fund; got != "Vanguard 500 Index Fund, Adm" {
		t.Errorf("Fund = %q, want quoted name with comma preserved", got)
	}
}

func TestParseCSVSkipsBadRows(t *testing.T) {
	raw := `Activity Date,Activity,Fund,Money Source,# of Units,Unit Price,Amount
not-a-date,Employee Contribution,VTI,PreTax,10,100.00,1000.00
2024-01-01,Employee Contribution,,PreTax,10,100.00,1000.00
2024-02-01,Dividend,VTI,PreTax,0.5,100.00,50.00
`
	res := Parse(raw)
	if len(res.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1 valid row", len(res.Transactions))
	}
	if len(res.Errors) != 2 {
		t.Fatalf("got %d row errors, want 2", len(res.Errors))
	}
	if res.Errors[0].Reason != ReasonBadDate {
		t.Errorf("first error reason = %q, want %q", res.Errors[0].Reason, ReasonBadDate)
	}
	if res.Errors[1].Reason != ReasonMissingFund {
		t.Errorf("second error reason = %q, want %q", res.Errors[1].Reason, ReasonMissingFund)
	}
}

func TestParseCSVIgnoresPreamble(t *testing.T) {
	raw := "Your 401(k) activity export\nGenerated 2024-07-01\n\n" + canonicalCSV
	res := Parse(raw)
	if len(res.Transactions) != 2 {
		t.Fatalf("got %d transactions, want 2 despite preamble", len(res.Transactions))
	}
}

// Round trip: export → parse → serialize → parse must be stable.
func TestParseCSVRoundTrip(t *testing.T) {
	first := Parse(canonicalCSV)

	var sb strings.Builder
	sb.WriteString("Activity Date,Activity,Fund,Money Source,# of Units,Unit Price,Amount\n")
	for _, tx := range first.Transactions {
		fmt.Fprintf(&sb, "%s,%s,%s,%s,%v,%v,%v\n",
			tx.Date, tx.Activity, tx.Fund, tx.MoneySource, tx.Units, tx.UnitPrice, tx.Amount)
	}

	second := Parse(sb.String())
	if len(second.Transactions) != len(first.Transactions) {
		t.Fatalf("round trip lost rows: %d != %d", len(second.Transactions), len(first.Transactions))
	}
	for i := range first.Transactions {
		if first.Transactions[i] != second.Transactions[i] {
			t.Errorf("row %d changed in round trip:\n first=%+v\nsecond=%+v",
				i, first.Transactions[i], second.Transactions[i])
		}
	}
}
