package models

import (
	"github.com/yunqiangwu/etf-grid-master/internal/analysis"
	"github.com/yunqiangwu/etf-grid-master/internal/backtest"
	"github.com/yunqiangwu/etf-grid-master/internal/history"
)

// BacktestResponse is the reply to POST /api/v1/backtest. Trades and
// the equity curve are only included when requested; the summary is
// always present.
type BacktestResponse struct {
	ID      string          `json:"id,omitempty"`
	Status  string          `json:"status"`
	Summary BacktestSummary `json:"summary"`

	Trades      []backtest.TradeRecord `json:"trades,omitempty"`
	EquityCurve []backtest.EquityPoint `json:"equity_curve,omitempty"`
}

// BacktestSummary carries the ledger totals plus derived metrics.
type BacktestSummary struct {
	Symbol string `json:"symbol"`
	Days   int    `json:"days"`

	FinalCash              float64 `json:"final_cash"`
	FinalStock             int64   `json:"final_stock"`
	FinalTotalAssetValue   float64 `json:"final_total_asset_value"`
	InitialTotalAssetValue float64 `json:"initial_total_asset_value"`
	TotalReturn            float64 `json:"total_return"`
	TotalReturnRatePercent float64 `json:"total_return_rate_percent"`

	Metrics analysis.Metrics `json:"metrics"`
}

// HistoryResponse is the reply to GET /api/v1/history.
type HistoryResponse struct {
	Records []history.Record `json:"records"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
