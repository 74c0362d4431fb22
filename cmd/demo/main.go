package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	"github.com/yunqiangwu/etf-grid-master/internal/analysis"
	"github.com/yunqiangwu/etf-grid-master/internal/backtest"
	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

// Demo:
// - Generate a synthetic year of daily bars oscillating around a base price
// - Run the grid engine over them with a percentage grid
// - Print the trade log and summary to show how the pieces fit together
func main() {
	n := flag.Int("n", 250, "Number of trading days to simulate")
	outTrades := flag.String("out-trades", "", "Optional path to write the trade CSV")
	outEquity := flag.String("out-equity", "", "Optional path to write the equity CSV")
	flag.Parse()

	cfg := model.GridConfig{
		Symbol:           "DEMO",
		InitialBasePrice: 1.000,
		GridMode:         model.GridModePercentage,
		RiseSellPercent:  5,
		FallBuyPercent:   -5,
		BuyAmount:        1000,
		SellAmount:       1000,
		InitialCash:      10000,
	}

	bars := syntheticBars(*n, cfg.InitialBasePrice)

	engine := backtest.New()
	res, err := engine.Simulate(bars, cfg)
	if err != nil {
		panic(err)
	}
	metrics := analysis.Compute(res, cfg)

	fmt.Printf("Simulated %d trading days of %s\n\n", len(bars), cfg.Symbol)
	for i, tr := range res.Trades {
		if i >= 12 {
			fmt.Printf("... %d more trades\n", len(res.Trades)-12)
			break
		}
		fmt.Printf("%s %-4s price=%.4f shares=%d fee=%.4f cash_delta=%+.2f\n",
			tr.Date, tr.Side, tr.ExecutionPrice, tr.ShareAmount, tr.Fee, tr.CashDelta)
	}

	if *outTrades != "" {
		if err := backtest.WriteTradesCSV(*outTrades, res.Trades); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outTrades)
	}
	if *outEquity != "" {
		if err := backtest.WriteEquityCSV(*outEquity, res.EquityCurve); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote CSV: %s\n", *outEquity)
	}

	fmt.Printf("\nDone. Trades=%d  Final total=%.2f  Return=%+.2f%%  Max drawdown=%.2f%%\n",
		metrics.TradeCount, res.FinalTotalAssetValue, res.TotalReturnRatePercent, metrics.MaxDrawdownPercent)
}

// syntheticBars builds a slow sine wave around the base price with
// enough amplitude to cross a 5% grid in both directions.
func syntheticBars(n int, base float64) []model.HistoricalBar {
	bars := make([]model.HistoricalBar, 0, n)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		// Skip weekends so dates look like a trading calendar.
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}
		mid := base * (1 + 0.12*math.Sin(2*math.Pi*float64(i)/40))
		bars = append(bars, model.HistoricalBar{
			Date:   model.NewDay(day.Year(), day.Month(), day.Day()),
			Open:   mid * 0.998,
			High:   mid * 1.015,
			Low:    mid * 0.985,
			Close:  mid,
			Volume: 1_000_000,
		})
		day = day.AddDate(0, 0, 1)
	}
	return bars
}
