package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yunqiangwu/etf-grid-master/internal/backtest"
	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

func point(dom int, close, equity float64) backtest.EquityPoint {
	return backtest.EquityPoint{
		Date:            model.NewDay(2024, time.March, dom),
		ClosePrice:      close,
		TotalAssetValue: equity,
	}
}

func TestCompute_TradeTotals(t *testing.T) {
	res := &backtest.Result{
		Trades: []backtest.TradeRecord{
			{Side: model.SideBuy, Fee: 0.19},
			{Side: model.SideSell, Fee: 0.21},
			{Side: model.SideBuy, Fee: 0.18},
		},
		InitialTotalAssetValue: 10000,
	}

	m := Compute(res, model.GridConfig{InitialBasePrice: 1.0})
	assert.Equal(t, 3, m.TradeCount)
	assert.Equal(t, 2, m.BuyCount)
	assert.Equal(t, 1, m.SellCount)
	assert.InDelta(t, 0.58, m.TotalFees, 1e-9)
}

func TestCompute_MaxDrawdown(t *testing.T) {
	res := &backtest.Result{
		InitialTotalAssetValue: 1000,
		EquityCurve: []backtest.EquityPoint{
			point(1, 1.0, 1100), // new peak
			point(2, 1.0, 990),  // -110 from peak
			point(3, 1.0, 1200), // new peak
			point(4, 1.0, 1020), // -180 from peak: the max
			point(5, 1.0, 1150),
		},
	}

	m := Compute(res, model.GridConfig{InitialBasePrice: 1.0})
	assert.InDelta(t, 180, m.MaxDrawdown, 1e-9)
	assert.InDelta(t, 180.0/1200*100, m.MaxDrawdownPercent, 1e-9)
}

func TestCompute_DrawdownSeededWithInitialValue(t *testing.T) {
	// The curve never exceeds the starting value, so the starting
	// value is the peak.
	res := &backtest.Result{
		InitialTotalAssetValue: 1000,
		EquityCurve:            []backtest.EquityPoint{point(1, 1.0, 900)},
	}

	m := Compute(res, model.GridConfig{InitialBasePrice: 1.0})
	assert.InDelta(t, 100, m.MaxDrawdown, 1e-9)
	assert.InDelta(t, 10, m.MaxDrawdownPercent, 1e-9)
}

func TestCompute_BuyAndHold(t *testing.T) {
	res := &backtest.Result{
		InitialTotalAssetValue: 1000,
		EquityCurve:            []backtest.EquityPoint{point(1, 1.1, 1000)},
	}

	m := Compute(res, model.GridConfig{InitialBasePrice: 1.0})
	assert.InDelta(t, 10, m.BuyAndHoldReturnPercent, 1e-6)
}
