// Package history keeps a bounded log of past backtest runs so the
// form can replay a previous configuration. Only the config and a small
// result summary are retained, never the full trade log.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

// DefaultLimit is how many runs are retained; saving beyond it evicts
// the oldest.
const DefaultLimit = 20

var ErrNotFound = errors.New("history: record not found")

// Summary is the condensed outcome of a run.
type Summary struct {
	TotalReturn            float64 `json:"total_return"`
	TotalReturnRatePercent float64 `json:"total_return_rate_percent"`
	TradeCount             int     `json:"trade_count"`
}

// Record is one saved run.
type Record struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Config    model.GridConfig `json:"config"`
	Summary   Summary          `json:"summary"`
}

// Store persists run records. List returns newest first.
type Store interface {
	Save(ctx context.Context, rec Record) error
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, id string) error
}
