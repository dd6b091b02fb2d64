package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/nestegg/nestegg/internal/backfill"
)

func main() {
	app := &cli.App{
		Name:  "backfill",
		Usage: "rebuild daily portfolio history from transactions and historical closing prices",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "transactions",
				Usage:    "transaction export CSV (date, fund, money_source, activity, units, unit_price, amount)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "prices",
				Usage:    "closing price CSV (ticker, date, close)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "end",
				Usage:    "last snapshot date, YYYY-MM-DD",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "output directory",
				Value: ".",
			},
			&cli.StringSliceFlag{
				Name:  "ticker",
				Usage: "fund-to-ticker mapping as fund=TICKER, repeatable",
			},
			&cli.StringSliceFlag{
				Name:  "conversion",
				Usage: "proxy price ratio as fund=ratio, repeatable",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	txs, err := backfill.ReadTransactions(c.String("transactions"))
	if err != nil {
		return err
	}

	table, err := backfill.ReadPrices(c.String("prices"))
	if err != nil {
		return err
	}

	tickerMap, err := parsePairs(c.StringSlice("ticker"))
	if err != nil {
		return fmt.Errorf("parsing --ticker: %w", err)
	}

	conversions := map[string]float64{}
	pairs, err := parsePairs(c.StringSlice("conversion"))
	if err != nil {
		return fmt.Errorf("parsing --conversion: %w", err)
	}
	for fund, raw := range pairs {
		ratio, err := strconv.ParseFloat(raw, 64)
		if err != nil || ratio <= 0 {
			return fmt.Errorf("parsing --conversion: bad ratio %q for %q", raw, fund)
		}
		conversions[fund] = ratio
	}

	prices := &backfill.Prices{
		Table:       table,
		TickerMap:   tickerMap,
		Conversions: conversions,
	}

	portfolio, holdings, err := backfill.Run(txs, prices, c.String("end"))
	if err != nil {
		return err
	}

	outDir := c.String("out")
	if err := backfill.WriteOutputs(outDir, portfolio, holdings); err != nil {
		return err
	}

	fmt.Printf("Loaded %d transactions\n", len(txs))
	fmt.Printf("Wrote %d portfolio snapshots and %d holdings rows to %s\n",
		len(portfolio), len(holdings), outDir)
	if len(portfolio) > 0 {
		last := portfolio[len(portfolio)-1]
		fmt.Printf("Final value as of %s: $%.2f market, $%.2f basis, $%.2f gain (%.2f%%)\n",
			last.Date, last.MarketValue, last.CostBasis, last.GainLoss, last.GainLossPercent)
	}
	return nil
}

func parsePairs(raw []string) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for _, pair := range raw {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("want key=value, got %q", pair)
		}
		out[key] = value
	}
	return out, nil
}
