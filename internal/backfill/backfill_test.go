package backfill

import (
	"math"
	"testing"

	"github.com/nestegg/nestegg/internal/domain"
)

func testPrices() *Prices {
	return &Prices{
		Table: map[string]map[string]float64{
			"VTI": {
				"2025-09-02": 100,
				"2025-09-04": 110,
			},
			"VOO": {
				"2025-09-02": 622.55,
			},
		},
		TickerMap: map[string]string{
			"VTI":                              "VTI",
			"0899 Vanguard 500 Index Fund Adm": "VOO",
		},
		Conversions: map[string]float64{
			"0899 Vanguard 500 Index Fund Adm": 15.577,
		},
	}
}

func TestClosingAppliesConversionRatio(t *testing.T) {
	p := testPrices()

	got, ok := p.Closing("0899 Vanguard 500 Index Fund Adm", "2025-09-02")
	if !ok {
		t.Fatal("expected a price")
	}
	want := 622.55 / 15.577
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("price = %v, want %v", got, want)
	}

	if _, ok := p.Closing("VTI", "2025-09-03"); ok {
		t.Error("expected no price for a date without data")
	}
	if _, ok := p.Closing("UNKNOWN", "2025-09-02"); ok {
		t.Error("expected no price for an unmapped fund")
	}
}

func TestRunSkipsDaysWithoutPrices(t *testing.T) {
	txs := []domain.Transaction{
		{Date: "2025-09-02", Activity: "Contribution", Fund: "VTI", MoneySource: "Employee PreTax", Units: 10, UnitPrice: 100, Amount: 1000},
	}

	portfolio, holdings, err := Run(txs, testPrices(), "2025-09-04")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 09-03 has no close, so only two snapshot days exist.
	if len(portfolio) != 2 {
		t.Fatalf("portfolio rows = %d, want 2", len(portfolio))
	}
	if portfolio[0].Date != "2025-09-02" || portfolio[1].Date != "2025-09-04" {
		t.Errorf("dates = %s, %s", portfolio[0].Date, portfolio[1].Date)
	}
	if portfolio[0].MarketValue != 1000 {
		t.Errorf("day 1 market value = %v, want 1000", portfolio[0].MarketValue)
	}
	if portfolio[1].MarketValue != 1100 {
		t.Errorf("day 3 market value = %v, want 1100", portfolio[1].MarketValue)
	}
	if portfolio[1].GainLoss != 100 {
		t.Errorf("day 3 gain = %v, want 100", portfolio[1].GainLoss)
	}
	if portfolio[1].GainLossPercent != 10 {
		t.Errorf("day 3 gain percent = %v, want 10", portfolio[1].GainLossPercent)
	}

	if len(holdings) != 2 {
		t.Fatalf("holding rows = %d, want 2", len(holdings))
	}
	if holdings[1].UnitPrice != 110 {
		t.Errorf("holding unit price = %v, want 110", holdings[1].UnitPrice)
	}
	if holdings[1].PriceSource != "historical" {
		t.Errorf("price source = %q, want historical", holdings[1].PriceSource)
	}
}

func TestRunDropsEmptiedPositions(t *testing.T) {
	txs := []domain.Transaction{
		{Date: "2025-09-02", Activity: "Contribution", Fund: "VTI", MoneySource: "Employee PreTax", Units: 10, UnitPrice: 100, Amount: 1000},
		{Date: "2025-09-04", Activity: "Withdrawal", Fund: "VTI", MoneySource: "Employee PreTax", Units: -10, UnitPrice: 110, Amount: -1100},
	}

	portfolio, _, err := Run(txs, testPrices(), "2025-09-04")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The position empties on 09-04, so only 09-02 produces a snapshot.
	if len(portfolio) != 1 {
		t.Fatalf("portfolio rows = %d, want 1", len(portfolio))
	}
	if portfolio[0].Date != "2025-09-02" {
		t.Errorf("date = %s, want 2025-09-02", portfolio[0].Date)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	if _, _, err := Run(nil, testPrices(), "2025-09-04"); err == nil {
		t.Error("expected error for empty transaction set")
	}

	txs := []domain.Transaction{
		{Date: "2025-09-02", Fund: "VTI", MoneySource: "Employee PreTax", Units: 1, Amount: 100},
	}
	if _, _, err := Run(txs, testPrices(), "2025-09-01"); err == nil {
		t.Error("expected error for end date before first transaction")
	}
}
