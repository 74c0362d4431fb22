package backtest

import (
	"math"

	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

// Targets are the buy/sell trigger prices for one day, derived from the
// anchor (last transaction) price. For a percentage grid with a
// non-positive fall percent, Buy <= anchor <= Sell.
type Targets struct {
	Buy  float64
	Sell float64
}

// ComputeTargets derives both triggers from the anchor price.
func ComputeTargets(cfg model.GridConfig, anchor float64) Targets {
	return Targets{
		Buy:  buyTarget(cfg, anchor),
		Sell: sellTarget(cfg, anchor),
	}
}

func buyTarget(cfg model.GridConfig, anchor float64) float64 {
	if cfg.GridMode == model.GridModePriceDifference {
		return anchor - math.Abs(cfg.FallBuyPercent)
	}
	return anchor * (1 + cfg.FallBuyPercent/100)
}

func sellTarget(cfg model.GridConfig, anchor float64) float64 {
	if cfg.GridMode == model.GridModePriceDifference {
		return anchor + cfg.RiseSellPercent
	}
	return anchor * (1 + cfg.RiseSellPercent/100)
}
