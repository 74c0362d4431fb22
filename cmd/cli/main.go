package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yunqiangwu/etf-grid-master/internal/analysis"
	"github.com/yunqiangwu/etf-grid-master/internal/backtest"
	"github.com/yunqiangwu/etf-grid-master/internal/config"
	"github.com/yunqiangwu/etf-grid-master/internal/data"
	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "backtest":
		cmdBacktest(os.Args[2:])
	case "quote":
		cmdQuote(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli backtest --config examples/config.yaml [--data bars.json] [--out-trades results/trades.csv] [--out-equity results/equity.csv]")
	fmt.Println("  cli quote --symbol 510300")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - without --data, daily bars are fetched from the quote gateway for the configured date range")
	fmt.Println("  - quote prints the latest realtime price for a symbol")
}

func cmdBacktest(args []string) {
	fs := flag.NewFlagSet("backtest", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	dataPath := fs.String("data", "", "Optional: path to a JSON file of daily bars (skips the network)")
	outTrades := fs.String("out-trades", "", "Optional: output CSV path for the trade log")
	outEquity := fs.String("out-equity", "", "Optional: output CSV path for the equity curve")
	n := fs.Int("n", 0, "Optional: limit to first N trading days (0=all)")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}

	bars, err := loadBars(cfg, *dataPath)
	if err != nil {
		fatal(err)
	}
	if *n > 0 && *n < len(bars) {
		bars = bars[:*n]
	}

	engine := backtest.New()
	res, err := engine.Simulate(bars, cfg.Grid)
	if err != nil {
		fatal(err)
	}
	metrics := analysis.Compute(res, cfg.Grid)

	if *outTrades != "" {
		if err := writeCSV(*outTrades, func(p string) error { return backtest.WriteTradesCSV(p, res.Trades) }); err != nil {
			fatal(err)
		}
		fmt.Printf("Wrote %d trades to %s\n", len(res.Trades), *outTrades)
	}
	if *outEquity != "" {
		if err := writeCSV(*outEquity, func(p string) error { return backtest.WriteEquityCSV(p, res.EquityCurve) }); err != nil {
			fatal(err)
		}
		fmt.Printf("Wrote %d equity points to %s\n", len(res.EquityCurve), *outEquity)
	}

	printReport(cfg.Grid, bars, res, metrics)
}

func cmdQuote(args []string) {
	fs := flag.NewFlagSet("quote", flag.ExitOnError)
	symbol := fs.String("symbol", "", "Security symbol, e.g. 510300")
	baseURL := fs.String("base-url", "", "Quote gateway base URL (default "+data.DefaultBaseURL+")")
	_ = fs.Parse(args)

	if *symbol == "" {
		fmt.Println("--symbol is required")
		os.Exit(2)
	}

	client := data.NewQuoteClient(*baseURL, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	q, err := client.RealtimeQuote(ctx, *symbol)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("%s %s price=%.4f change=%+.2f%%\n", q.Symbol, q.Name, q.Price, q.Change)
}

func loadBars(cfg *config.Config, dataPath string) ([]model.HistoricalBar, error) {
	if dataPath != "" {
		return data.LoadBarsJSON(dataPath)
	}

	client := data.NewQuoteClient(cfg.Quote.BaseURL, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	return client.HistoricalData(ctx, cfg.Grid.Symbol, cfg.Grid.StartDate, cfg.Grid.EndDate)
}

func printReport(grid model.GridConfig, bars []model.HistoricalBar, res *backtest.Result, m analysis.Metrics) {
	fmt.Printf("\nGrid backtest: %s (%s)\n", grid.Symbol, grid.GridMode)
	if len(bars) > 0 {
		fmt.Printf("Period: %s .. %s (%d trading days)\n", bars[0].Date, bars[len(bars)-1].Date, len(bars))
	}
	fmt.Printf("Trades: %d (%d buys, %d sells), fees $%.2f\n", m.TradeCount, m.BuyCount, m.SellCount, m.TotalFees)
	fmt.Printf("Final:  cash=%.2f stock=%d total=%.2f\n", res.FinalCash, res.FinalStock, res.FinalTotalAssetValue)
	fmt.Printf("Return: %+.2f (%+.2f%%), buy-and-hold %+.2f%%\n", res.TotalReturn, res.TotalReturnRatePercent, m.BuyAndHoldReturnPercent)
	fmt.Printf("Max drawdown: %.2f (%.2f%%)\n", m.MaxDrawdown, m.MaxDrawdownPercent)
}

func writeCSV(path string, write func(string) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return write(path)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
