package ingest

import "testing"

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1000", 1000},
		{"$1,234.56", 1234.56},
		{"(250.00)", -250},
		{"123.45-", -123.45},
		{"-42.5", -42.5},
		{"+17", 17},
		{"", 0},
		{"n/a", 0},
		{"--", 0},
	}
	for _, c := range cases {
		if got := parseNumber(c.in); got != c.want {
			t.Errorf("parseNumber(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-01-15", "2024-01-15", true},
		{"01/15/2024", "2024-01-15", true},
		{"1/5/2024", "2024-01-05", true},
		{"Jan 15, 2024", "2024-01-15", true},
		{"2024-01-15T10:30:00Z", "2024-01-15", true},
		{"  2024-01-15 ", "2024-01-15", true},
		{"yesterday", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := normalizeDate(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("normalizeDate(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestNormalizeRowSignReconciliation(t *testing.T) {
	row := rawRow{date: "2024-01-01", activity: "Sell", fund: "VTI", source: "Roth",
		units: "5", price: "100", amount: "-500"}

	tx, rowErr := normalizeRow(row)
	if rowErr != nil {
		t.Fatalf("unexpected row error: %+v", rowErr)
	}
	if tx.Units != -5 {
		t.Errorf("Units = %v, want -5 (amount sign wins)", tx.Units)
	}
}

func TestNormalizeRowDefaultsSource(t *testing.T) {
	row := rawRow{date: "2024-01-01", activity: "Dividend", fund: "VTI",
		units: "1", price: "100", amount: "100"}

	tx, rowErr := normalizeRow(row)
	if rowErr != nil {
		t.Fatalf("unexpected row error: %+v", rowErr)
	}
	if tx.MoneySource != "Unknown" {
		t.Errorf("MoneySource = %q, want Unknown", tx.MoneySource)
	}
}

func TestNormalizeRowTitleCasesActivity(t *testing.T) {
	row := rawRow{date: "2024-01-01", activity: "employee contribution", fund: "VTI",
		source: "PreTax", units: "1", price: "100", amount: "100"}

	tx, _ := normalizeRow(row)
	if tx.Activity != "Employee Contribution" {
		t.Errorf("Activity = %q, want Employee Contribution", tx.Activity)
	}
}

func TestSplitActivityFundLongestPrefix(t *testing.T) {
	cases := []struct {
		in           string
		activity     string
		fund         string
	}{
		{"Transfer Out VTI", "Transfer Out", "VTI"},
		{"Transfer VTI", "Transfer", "VTI"},
		{"Employee Contribution 0899 Vanguard 500 Index Fund Adm", "Employee Contribution", "0899 Vanguard 500 Index Fund Adm"},
		{"Dividend Reinvestment SCHD", "Dividend Reinvestment", "SCHD"},
		{"dividend SCHD", "dividend", "SCHD"},
	}
	for _, c := range cases {
		activity, fund := splitActivityFund(c.in)
		if activity != c.activity || fund != c.fund {
			t.Errorf("splitActivityFund(%q) = (%q, %q), want (%q, %q)",
				c.in, activity, fund, c.activity, c.fund)
		}
	}
}

func TestSplitActivityFundNoFund(t *testing.T) {
	activity, fund := splitActivityFund("Fee")
	if activity != "Fee" || fund != "" {
		t.Errorf("got (%q, %q), want (Fee, \"\")", activity, fund)
	}
}
