package data

import (
	"encoding/json"
	"os"

	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

// LoadBarsJSON reads a daily bar series from a JSON file (an array of
// bars in the gateway's historical-data shape). Used by the CLI for
// offline runs. The result is sorted and deduplicated like a fetched
// series.
func LoadBarsJSON(path string) ([]model.HistoricalBar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []historicalRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	bars := make([]model.HistoricalBar, 0, len(rows))
	for _, row := range rows {
		if bar, ok := row.toBar(); ok {
			bars = append(bars, bar)
		}
	}
	return model.SortBars(bars), nil
}
