package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yunqiangwu/etf-grid-master/internal/analysis"
	"github.com/yunqiangwu/etf-grid-master/internal/api/models"
	"github.com/yunqiangwu/etf-grid-master/internal/backtest"
	"github.com/yunqiangwu/etf-grid-master/internal/data"
	"github.com/yunqiangwu/etf-grid-master/internal/history"
	"github.com/yunqiangwu/etf-grid-master/internal/logger"
	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

// BacktestHandler runs grid backtests: it fetches bars, invokes the
// engine, records the run, and shapes the response.
type BacktestHandler struct {
	quotes *data.QuoteClient
	store  history.Store
	engine *backtest.Engine
	log    *logger.Logger
}

func NewBacktestHandler(quotes *data.QuoteClient, store history.Store, log *logger.Logger) *BacktestHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &BacktestHandler{
		quotes: quotes,
		store:  store,
		engine: backtest.New(),
		log:    log,
	}
}

// RunBacktest handles POST /api/v1/backtest.
func (h *BacktestHandler) RunBacktest(c *gin.Context) {
	var req models.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	cfg, err := req.ToGridConfig()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := cfg.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
		return
	}

	bars, err := h.quotes.HistoricalData(c.Request.Context(), cfg.Symbol, cfg.StartDate, cfg.EndDate)
	if err != nil {
		h.respondQuoteError(c, err)
		return
	}
	if req.Options.LimitDays > 0 && req.Options.LimitDays < len(bars) {
		bars = bars[:req.Options.LimitDays]
	}
	if len(bars) == 0 {
		respondError(c, http.StatusBadRequest, "EMPTY_DATASET",
			"no trading days in the requested range")
		return
	}

	result, err := h.engine.Simulate(bars, cfg)
	if err != nil {
		switch {
		case errors.Is(err, backtest.ErrEmptyDataset):
			respondError(c, http.StatusBadRequest, "EMPTY_DATASET", err.Error())
		case errors.Is(err, backtest.ErrInvalidConfig):
			respondError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "BACKTEST_ERROR", err.Error())
		}
		return
	}

	runID := uuid.NewString()
	if h.store != nil && !req.Options.SkipHistory {
		rec := history.Record{
			ID:        runID,
			CreatedAt: time.Now().UTC(),
			Config:    cfg,
			Summary: history.Summary{
				TotalReturn:            result.TotalReturn,
				TotalReturnRatePercent: result.TotalReturnRatePercent,
				TradeCount:             len(result.Trades),
			},
		}
		if err := h.store.Save(c.Request.Context(), rec); err != nil {
			// The run itself succeeded; a history failure is not worth
			// a 5xx.
			h.log.Warn("failed to save run history", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, h.buildResponse(runID, cfg, bars, result, req.Options))
}

func (h *BacktestHandler) buildResponse(runID string, cfg model.GridConfig,
	bars []model.HistoricalBar, result *backtest.Result, opts models.BacktestOptions) models.BacktestResponse {

	resp := models.BacktestResponse{
		ID:     runID,
		Status: "completed",
		Summary: models.BacktestSummary{
			Symbol:                 cfg.Symbol,
			Days:                   len(bars),
			FinalCash:              result.FinalCash,
			FinalStock:             result.FinalStock,
			FinalTotalAssetValue:   result.FinalTotalAssetValue,
			InitialTotalAssetValue: result.InitialTotalAssetValue,
			TotalReturn:            result.TotalReturn,
			TotalReturnRatePercent: result.TotalReturnRatePercent,
			Metrics:                analysis.Compute(result, cfg),
		},
	}
	if opts.IncludeTrades {
		resp.Trades = result.Trades
	}
	if opts.IncludeEquity {
		resp.EquityCurve = result.EquityCurve
	}
	return resp
}

func (h *BacktestHandler) respondQuoteError(c *gin.Context, err error) {
	var qe *data.QuoteError
	if errors.As(err, &qe) {
		status := http.StatusBadGateway
		switch qe.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			status = http.StatusUnauthorized
		case http.StatusTooManyRequests:
			status = http.StatusTooManyRequests
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    qe.Code,
				Message: qe.Message,
				Details: map[string]interface{}{
					"status_code": qe.StatusCode,
					"retry_after": qe.RetryAfter,
				},
			},
		})
		return
	}
	respondError(c, http.StatusBadGateway, "DATA_FETCH_ERROR", err.Error())
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
