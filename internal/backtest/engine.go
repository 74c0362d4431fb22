package backtest

import (
	"errors"
	"fmt"

	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

var (
	// ErrEmptyDataset is returned when no bars are supplied; there is
	// nothing to simulate.
	ErrEmptyDataset = errors.New("backtest: empty dataset")
	// ErrInvalidConfig is returned when a config field is outside its
	// domain. The simulation never starts.
	ErrInvalidConfig = errors.New("backtest: invalid config")
)

// Engine replays trading days against a grid configuration. It holds no
// state across runs; concurrent Simulate calls are safe.
type Engine struct{}

func New() *Engine { return &Engine{} }

// Simulate runs the grid strategy over bars in input order and returns
// the trade log, equity curve, and summary return figures.
//
// Each day the buy side is checked first: if the day's low reaches the
// buy target, the order fills at the target (or at the open when the
// open gapped below it). A fill moves the anchor to the execution price
// and the sell target is recomputed from the new anchor, so a same-day
// sell reacts to the fresh fill. The sell side then fills at its target
// (or at the open on a gap up). A sell moves the anchor too, but never
// re-tightens the buy target within the same day.
//
// At most one buy and one sell execute per day. An eligible buy the
// cash cannot cover is skipped silently, as is a sell without enough
// held shares.
func (e *Engine) Simulate(bars []model.HistoricalBar, cfg model.GridConfig) (*Result, error) {
	if len(bars) == 0 {
		return nil, ErrEmptyDataset
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	feeRate := cfg.EffectiveFeeRate()

	cash := cfg.InitialCash
	stock := cfg.InitialStock
	anchor := cfg.InitialBasePrice

	trades := make([]TradeRecord, 0)
	curve := make([]EquityPoint, 0, len(bars))

	for _, day := range bars {
		targets := ComputeTargets(cfg, anchor)

		// Buy check: the day's low reached the buy target.
		if cash > 0 && day.Low <= targets.Buy {
			executionPrice := targets.Buy
			if day.Open < targets.Buy {
				// Gapped down through the target before a limit
				// order could fill; the open is the best available.
				executionPrice = day.Open
			}
			cost := executionPrice * float64(cfg.BuyAmount)
			if cash >= cost {
				fee := cost * feeRate
				cash -= cost + fee
				stock += cfg.BuyAmount
				trades = append(trades, TradeRecord{
					Date:           day.Date,
					Side:           model.SideBuy,
					ExecutionPrice: executionPrice,
					ShareAmount:    cfg.BuyAmount,
					Fee:            fee,
					CashDelta:      -(cost + fee),
				})
				anchor = executionPrice
				// The anchor moved; the sell side must react to the
				// fill price, not the stale anchor.
				targets.Sell = sellTarget(cfg, anchor)
			}
		}

		// Sell check, against the possibly recomputed target.
		if stock >= cfg.SellAmount && day.High >= targets.Sell {
			executionPrice := targets.Sell
			if day.Open > targets.Sell {
				executionPrice = day.Open
			}
			revenue := executionPrice * float64(cfg.SellAmount)
			fee := revenue * feeRate
			cash += revenue - fee
			stock -= cfg.SellAmount
			trades = append(trades, TradeRecord{
				Date:           day.Date,
				Side:           model.SideSell,
				ExecutionPrice: executionPrice,
				ShareAmount:    cfg.SellAmount,
				Fee:            fee,
				CashDelta:      revenue - fee,
			})
			anchor = executionPrice
		}

		curve = append(curve, EquityPoint{
			Date:            day.Date,
			ClosePrice:      day.Close,
			TotalAssetValue: cash + float64(stock)*day.Close,
		})
	}

	initial := cfg.InitialTotalAssetValue()
	final := cash + float64(stock)*bars[len(bars)-1].Close
	totalReturn := final - initial

	res := &Result{
		Trades:                 trades,
		EquityCurve:            curve,
		FinalCash:              cash,
		FinalStock:             stock,
		FinalTotalAssetValue:   final,
		InitialTotalAssetValue: initial,
		TotalReturn:            totalReturn,
	}
	if initial != 0 {
		res.TotalReturnRatePercent = totalReturn / initial * 100
	}
	return res, nil
}
