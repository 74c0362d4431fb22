// Package analysis derives reporting metrics from a finished backtest.
// Nothing here feeds back into the simulation.
package analysis

import (
	"github.com/yunqiangwu/etf-grid-master/internal/backtest"
	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

// Metrics is the extended summary shown in CLI reports and the API
// response, computed from the engine output alone.
type Metrics struct {
	TradeCount int     `json:"trade_count"`
	BuyCount   int     `json:"buy_count"`
	SellCount  int     `json:"sell_count"`
	TotalFees  float64 `json:"total_fees"`

	// Drawdown is measured over the daily equity curve against the
	// running peak, seeded with the initial total asset value.
	MaxDrawdown        float64 `json:"max_drawdown"`
	MaxDrawdownPercent float64 `json:"max_drawdown_percent"`

	// BuyAndHoldReturn is what buying at the initial base price and
	// never trading would have returned over the same bars, for a
	// like-for-like comparison of the grid against doing nothing.
	BuyAndHoldReturnPercent float64 `json:"buy_and_hold_return_percent"`
}

// Compute derives Metrics from a backtest result. cfg must be the
// config the result was produced with.
func Compute(res *backtest.Result, cfg model.GridConfig) Metrics {
	m := Metrics{TradeCount: len(res.Trades)}

	for _, trade := range res.Trades {
		m.TotalFees += trade.Fee
		switch trade.Side {
		case model.SideBuy:
			m.BuyCount++
		case model.SideSell:
			m.SellCount++
		}
	}

	m.MaxDrawdown, m.MaxDrawdownPercent = maxDrawdown(res.InitialTotalAssetValue, res.EquityCurve)

	if len(res.EquityCurve) > 0 && cfg.InitialBasePrice > 0 {
		lastClose := res.EquityCurve[len(res.EquityCurve)-1].ClosePrice
		m.BuyAndHoldReturnPercent = (lastClose - cfg.InitialBasePrice) / cfg.InitialBasePrice * 100
	}

	return m
}

func maxDrawdown(initial float64, curve []backtest.EquityPoint) (float64, float64) {
	var drawdown, drawdownPct float64
	peak := initial

	for _, point := range curve {
		if point.TotalAssetValue > peak {
			peak = point.TotalAssetValue
		}
		dd := peak - point.TotalAssetValue
		if dd > drawdown {
			drawdown = dd
			if peak != 0 {
				drawdownPct = dd / peak * 100
			}
		}
	}
	return drawdown, drawdownPct
}
