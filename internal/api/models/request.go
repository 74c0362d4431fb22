package models

import (
	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

// BacktestRequest is the body for POST /api/v1/backtest.
type BacktestRequest struct {
	Symbol    string `json:"symbol" binding:"required"`
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" binding:"required"`   // YYYY-MM-DD

	Config  GridConfigRequest `json:"config" binding:"required"`
	Options BacktestOptions   `json:"options,omitempty"`
}

// GridConfigRequest carries the grid parameters of a request. Symbol
// and date range live at the top level; the rest mirrors
// model.GridConfig.
type GridConfigRequest struct {
	InitialBasePrice float64 `json:"initial_base_price"`
	GridMode         string  `json:"grid_mode,omitempty"` // default PERCENTAGE
	RiseSellPercent  float64 `json:"rise_sell_percent"`
	FallBuyPercent   float64 `json:"fall_buy_percent"`
	BuyAmount        int64   `json:"buy_amount"`
	SellAmount       int64   `json:"sell_amount"`
	InitialCash      float64 `json:"initial_cash"`
	InitialStock     int64   `json:"initial_stock"`
	FeeRate          float64 `json:"fee_rate,omitempty"`
}

// BacktestOptions contains optional backtest parameters.
type BacktestOptions struct {
	LimitDays     int  `json:"limit_days,omitempty"`     // 0 = all
	IncludeTrades bool `json:"include_trades,omitempty"` // default: false
	IncludeEquity bool `json:"include_equity,omitempty"` // default: false
	SkipHistory   bool `json:"skip_history,omitempty"`   // do not record this run
}

// ToGridConfig assembles the engine config from the request parts.
func (r BacktestRequest) ToGridConfig() (model.GridConfig, error) {
	start, err := model.ParseDay(r.StartDate)
	if err != nil {
		return model.GridConfig{}, err
	}
	end, err := model.ParseDay(r.EndDate)
	if err != nil {
		return model.GridConfig{}, err
	}

	mode := model.GridMode(r.Config.GridMode)
	if mode == "" {
		mode = model.GridModePercentage
	}

	return model.GridConfig{
		Symbol:           r.Symbol,
		InitialBasePrice: r.Config.InitialBasePrice,
		GridMode:         mode,
		RiseSellPercent:  r.Config.RiseSellPercent,
		FallBuyPercent:   r.Config.FallBuyPercent,
		BuyAmount:        r.Config.BuyAmount,
		SellAmount:       r.Config.SellAmount,
		InitialCash:      r.Config.InitialCash,
		InitialStock:     r.Config.InitialStock,
		StartDate:        start,
		EndDate:          end,
		FeeRate:          r.Config.FeeRate,
	}, nil
}
