package backfill

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestReadTransactions(t *testing.T) {
	path := writeFile(t, "transactions_rows.csv",
		"id,date,fund,money_source,activity,units,unit_price,amount\n"+
			"1,2025-09-02,VTI,Employee PreTax,Contribution,10,100,1000\n"+
			"2,2025-09-03,SCHD,Roth,Contribution,5,27.5,137.5\n")

	txs, err := ReadTransactions(path)
	if err != nil {
		t.Fatalf("ReadTransactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("transactions = %d, want 2", len(txs))
	}
	if txs[0].Fund != "VTI" || txs[0].Units != 10 || txs[0].Amount != 1000 {
		t.Errorf("first transaction = %+v", txs[0])
	}
	if txs[1].UnitPrice != 27.5 {
		t.Errorf("unit price = %v, want 27.5", txs[1].UnitPrice)
	}
}

func TestReadTransactionsMissingColumn(t *testing.T) {
	path := writeFile(t, "bad.csv", "date,fund\n2025-09-02,VTI\n")

	if _, err := ReadTransactions(path); err == nil {
		t.Error("expected error for missing columns")
	}
}

func TestReadPrices(t *testing.T) {
	path := writeFile(t, "prices.csv",
		"ticker,date,close\n"+
			"VTI,2025-09-02,315.99\n"+
			"VTI,2025-09-03,317.33\n"+
			"SCHD,2025-09-02,27.84\n")

	table, err := ReadPrices(path)
	if err != nil {
		t.Fatalf("ReadPrices: %v", err)
	}
	if table["VTI"]["2025-09-03"] != 317.33 {
		t.Errorf("VTI 09-03 = %v, want 317.33", table["VTI"]["2025-09-03"])
	}
	if len(table["SCHD"]) != 1 {
		t.Errorf("SCHD rows = %d, want 1", len(table["SCHD"]))
	}
}

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()

	portfolio := []PortfolioRow{{
		Date: "2025-09-02", MarketValue: 1000, CostBasis: 1000,
		Source: "backfill", MarketStatus: "closed",
	}}
	holdings := []HoldingRow{{
		Date: "2025-09-02", Fund: "VTI", Account: "Employee PreTax",
		Shares: 10, UnitPrice: 100, MarketValue: 1000, CostBasis: 1000,
		PriceSource: "historical",
	}}

	if err := WriteOutputs(dir, portfolio, holdings); err != nil {
		t.Fatalf("WriteOutputs: %v", err)
	}

	for _, name := range []string{"portfolio_snapshots.csv", "holdings_snapshots.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}
