package backtest

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteTradesCSV writes the trade log, one row per fill.
func WriteTradesCSV(path string, trades []TradeRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"date",
		"side",
		"execution_price",
		"share_amount",
		"fee",
		"cash_delta",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, t := range trades {
		row := []string{
			t.Date.String(),
			string(t.Side),
			fmtFloat(t.ExecutionPrice),
			strconv.FormatInt(t.ShareAmount, 10),
			fmtFloat(t.Fee),
			fmtFloat(t.CashDelta),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteEquityCSV writes the daily equity curve.
func WriteEquityCSV(path string, curve []EquityPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"date", "close_price", "total_asset_value"}); err != nil {
		return err
	}

	for _, p := range curve {
		row := []string{
			p.Date.String(),
			fmtFloat(p.ClosePrice),
			fmtFloat(p.TotalAssetValue),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
