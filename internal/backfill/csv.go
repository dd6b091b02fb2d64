package backfill

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nestegg/nestegg/internal/domain"
)

// ReadTransactions loads a transaction export with a header row naming at
// least date, fund, money_source, activity, units, unit_price and amount.
func ReadTransactions(path string) ([]domain.Transaction, error) {
	records, err := readAll(path)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[name] = i
	}
	for _, required := range []string{"date", "fund", "money_source", "activity", "units", "unit_price", "amount"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, required)
		}
	}

	txs := make([]domain.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		units, err := parseFloat(rec[col["units"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: units: %w", path, i+2, err)
		}
		unitPrice, err := parseFloat(rec[col["unit_price"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: unit_price: %w", path, i+2, err)
		}
		amount, err := parseFloat(rec[col["amount"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: amount: %w", path, i+2, err)
		}
		txs = append(txs, domain.Transaction{
			Date:        rec[col["date"]],
			Fund:        rec[col["fund"]],
			MoneySource: rec[col["money_source"]],
			Activity:    rec[col["activity"]],
			Units:       units,
			UnitPrice:   unitPrice,
			Amount:      amount,
		})
	}
	return txs, nil
}

// ReadPrices loads a long-format closing price table with columns
// ticker, date, close.
func ReadPrices(path string) (map[string]map[string]float64, error) {
	records, err := readAll(path)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	table := map[string]map[string]float64{}
	for i, rec := range records[1:] {
		if len(rec) < 3 {
			return nil, fmt.Errorf("%s row %d: want ticker,date,close", path, i+2)
		}
		close, err := parseFloat(rec[2])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: close: %w", path, i+2, err)
		}
		ticker := rec[0]
		if table[ticker] == nil {
			table[ticker] = map[string]float64{}
		}
		table[ticker][rec[1]] = close
	}
	return table, nil
}

// WriteOutputs writes portfolio_snapshots.csv and holdings_snapshots.csv
// into dir.
func WriteOutputs(dir string, portfolio []PortfolioRow, holdings []HoldingRow) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	pRows := make([][]string, 0, len(portfolio)+1)
	pRows = append(pRows, []string{
		"snapshot_date", "total_market_value", "total_cost_basis",
		"total_gain_loss", "total_gain_loss_percent", "snapshot_source", "market_status",
	})
	for _, r := range portfolio {
		pRows = append(pRows, []string{
			r.Date,
			formatFloat(r.MarketValue),
			formatFloat(r.CostBasis),
			formatFloat(r.GainLoss),
			formatFloat(r.GainLossPercent),
			r.Source,
			r.MarketStatus,
		})
	}
	if err := writeAll(filepath.Join(dir, "portfolio_snapshots.csv"), pRows); err != nil {
		return err
	}

	hRows := make([][]string, 0, len(holdings)+1)
	hRows = append(hRows, []string{
		"snapshot_date", "fund", "account_name", "shares", "unit_price",
		"market_value", "cost_basis", "gain_loss", "price_source",
	})
	for _, r := range holdings {
		hRows = append(hRows, []string{
			r.Date, r.Fund, r.Account,
			formatFloat(r.Shares),
			formatFloat(r.UnitPrice),
			formatFloat(r.MarketValue),
			formatFloat(r.CostBasis),
			formatFloat(r.GainLoss),
			r.PriceSource,
		})
	}
	return writeAll(filepath.Join(dir, "holdings_snapshots.csv"), hRows)
}

func readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

func writeAll(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
