package backtest

import (
	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

// TradeRecord is one simulated fill.
// This is the primary artifact for "what happened" in a backtest.
type TradeRecord struct {
	Date model.Day       `json:"date"`
	Side model.TradeSide `json:"side"`

	// ExecutionPrice is the grid target, or the day's open when the
	// open gapped through the target before a limit order could fill.
	ExecutionPrice float64 `json:"execution_price"`
	ShareAmount    int64   `json:"share_amount"`
	Fee            float64 `json:"fee"`

	// CashDelta is the signed cash impact: -(cost+fee) for a buy,
	// revenue-fee for a sell.
	CashDelta float64 `json:"cash_delta"`
}

// EquityPoint is the end-of-day mark-to-market valuation, one per input
// bar whether or not anything traded.
type EquityPoint struct {
	Date            model.Day `json:"date"`
	ClosePrice      float64   `json:"close_price"`
	TotalAssetValue float64   `json:"total_asset_value"`
}

// Result is the full output of one simulation run.
type Result struct {
	Trades      []TradeRecord `json:"trades"`
	EquityCurve []EquityPoint `json:"equity_curve"`

	FinalCash            float64 `json:"final_cash"`
	FinalStock           int64   `json:"final_stock"`
	FinalTotalAssetValue float64 `json:"final_total_asset_value"`

	// InitialTotalAssetValue is valued at the config's initial base
	// price, not the first bar's price.
	InitialTotalAssetValue float64 `json:"initial_total_asset_value"`

	TotalReturn            float64 `json:"total_return"`
	TotalReturnRatePercent float64 `json:"total_return_rate_percent"`
}
