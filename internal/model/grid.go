package model

import (
	"errors"
	"fmt"
)

// GridMode selects how the rise/fall thresholds are interpreted.
// Keep these values stable; they appear in JSON requests and saved runs.
type GridMode string

const (
	// GridModePercentage treats RiseSellPercent/FallBuyPercent as
	// percentages of the anchor price (5.0 means 5%).
	GridModePercentage GridMode = "PERCENTAGE"
	// GridModePriceDifference treats them as absolute currency deltas
	// from the anchor price.
	GridModePriceDifference GridMode = "PRICE_DIFFERENCE"
)

func (m GridMode) Valid() bool {
	return m == GridModePercentage || m == GridModePriceDifference
}

// DefaultFeeRate is the flat commission applied to both buy cost and
// sell revenue when the config does not set one: 0.02% of notional.
const DefaultFeeRate = 0.0002

// GridConfig defines one grid backtest: the anchor assumption, the grid
// thresholds, trade sizes, starting holdings, and the date range the
// caller fetched bars for. StartDate/EndDate are consumed by the quote
// fetcher, not by the simulation itself.
type GridConfig struct {
	Symbol string `json:"symbol" yaml:"symbol"`

	InitialBasePrice float64  `json:"initial_base_price" yaml:"initial_base_price"`
	GridMode         GridMode `json:"grid_mode" yaml:"grid_mode"`

	// RiseSellPercent is positive; FallBuyPercent is stored as a
	// non-positive percentage (its magnitude is the fall threshold).
	RiseSellPercent float64 `json:"rise_sell_percent" yaml:"rise_sell_percent"`
	FallBuyPercent  float64 `json:"fall_buy_percent" yaml:"fall_buy_percent"`

	// Share counts per trade, independently configurable.
	BuyAmount  int64 `json:"buy_amount" yaml:"buy_amount"`
	SellAmount int64 `json:"sell_amount" yaml:"sell_amount"`

	InitialCash  float64 `json:"initial_cash" yaml:"initial_cash"`
	InitialStock int64   `json:"initial_stock" yaml:"initial_stock"`

	StartDate Day `json:"start_date" yaml:"start_date"`
	EndDate   Day `json:"end_date" yaml:"end_date"`

	// FeeRate is the flat commission rate on notional, both sides.
	// Zero means DefaultFeeRate.
	FeeRate float64 `json:"fee_rate,omitempty" yaml:"fee_rate"`
}

// EffectiveFeeRate returns FeeRate, or DefaultFeeRate when unset.
func (c GridConfig) EffectiveFeeRate() float64 {
	if c.FeeRate == 0 {
		return DefaultFeeRate
	}
	return c.FeeRate
}

// InitialTotalAssetValue values the starting holdings at the initial
// base price. The anchor is an input assumption, not observed market
// data, so the first bar's price plays no part here.
func (c GridConfig) InitialTotalAssetValue() float64 {
	return c.InitialCash + float64(c.InitialStock)*c.InitialBasePrice
}

// Validate checks every numeric field against its domain. The engine
// refuses to simulate a config that fails here.
func (c GridConfig) Validate() error {
	if !c.GridMode.Valid() {
		return fmt.Errorf("grid_mode must be %s or %s, got %q",
			GridModePercentage, GridModePriceDifference, c.GridMode)
	}
	if c.InitialBasePrice <= 0 {
		return errors.New("initial_base_price must be > 0")
	}
	if c.RiseSellPercent <= 0 {
		return errors.New("rise_sell_percent must be > 0")
	}
	if c.FallBuyPercent > 0 {
		return errors.New("fall_buy_percent must be <= 0 (magnitude is the fall threshold)")
	}
	if c.BuyAmount <= 0 {
		return errors.New("buy_amount must be > 0")
	}
	if c.SellAmount <= 0 {
		return errors.New("sell_amount must be > 0")
	}
	if c.InitialCash < 0 {
		return errors.New("initial_cash must be >= 0")
	}
	if c.InitialStock < 0 {
		return errors.New("initial_stock must be >= 0")
	}
	if c.FeeRate < 0 {
		return errors.New("fee_rate must be >= 0")
	}
	return nil
}
