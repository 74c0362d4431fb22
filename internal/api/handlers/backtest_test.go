package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunqiangwu/etf-grid-master/internal/api/models"
	"github.com/yunqiangwu/etf-grid-master/internal/data"
	"github.com/yunqiangwu/etf-grid-master/internal/history"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(quoteURL string, store history.Store) *gin.Engine {
	quotes := data.NewQuoteClient(quoteURL, nil)
	router := gin.New()
	backtestHandler := NewBacktestHandler(quotes, store, nil)
	historyHandler := NewHistoryHandler(store)
	realtimeHandler := NewRealtimeHandler(quotes)

	api := router.Group("/api/v1")
	api.POST("/backtest", backtestHandler.RunBacktest)
	api.GET("/history", historyHandler.ListRuns)
	api.DELETE("/history/:id", historyHandler.DeleteRun)
	api.GET("/realtime/:symbol", realtimeHandler.GetQuote)
	return router
}

func quoteStub(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func validRequest() models.BacktestRequest {
	return models.BacktestRequest{
		Symbol:    "510300",
		StartDate: "2024-03-01",
		EndDate:   "2024-03-10",
		Config: models.GridConfigRequest{
			InitialBasePrice: 1.000,
			RiseSellPercent:  5,
			FallBuyPercent:   -5,
			BuyAmount:        1000,
			SellAmount:       1000,
			InitialCash:      10000,
		},
		Options: models.BacktestOptions{IncludeTrades: true, IncludeEquity: true},
	}
}

func postBacktest(t *testing.T, router *gin.Engine, req models.BacktestRequest) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(req)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/backtest", bytes.NewReader(raw))
	httpReq.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, httpReq)
	return w
}

const barsBody = `[
	{"date":"2024-03-01","open":0.96,"high":0.97,"low":0.94,"close":0.96,"volume":100},
	{"date":"2024-03-04","open":0.96,"high":1.01,"low":0.95,"close":1.00,"volume":100}
]`

func TestRunBacktest(t *testing.T) {
	srv := quoteStub(t, http.StatusOK, barsBody)
	defer srv.Close()
	store := history.NewMemoryStore(0)
	router := newRouter(srv.URL, store)

	w := postBacktest(t, router, validRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.BacktestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "510300", resp.Summary.Symbol)
	assert.Equal(t, 2, resp.Summary.Days)
	// Day one buys at 0.95; day two sells at 0.9975.
	require.Len(t, resp.Trades, 2)
	assert.Len(t, resp.EquityCurve, 2)
	assert.Equal(t, 2, resp.Summary.Metrics.TradeCount)

	// The run was recorded.
	records, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, resp.ID, records[0].ID)
	assert.Equal(t, 2, records[0].Summary.TradeCount)
}

func TestRunBacktest_SummaryOnlyByDefault(t *testing.T) {
	srv := quoteStub(t, http.StatusOK, barsBody)
	defer srv.Close()
	router := newRouter(srv.URL, history.NewMemoryStore(0))

	req := validRequest()
	req.Options = models.BacktestOptions{}
	w := postBacktest(t, router, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BacktestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Trades)
	assert.Empty(t, resp.EquityCurve)
	assert.Equal(t, 2, resp.Summary.Metrics.TradeCount)
}

func TestRunBacktest_InvalidConfig(t *testing.T) {
	srv := quoteStub(t, http.StatusOK, barsBody)
	defer srv.Close()
	router := newRouter(srv.URL, history.NewMemoryStore(0))

	req := validRequest()
	req.Config.BuyAmount = 0
	w := postBacktest(t, router, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_CONFIG", resp.Error.Code)
}

func TestRunBacktest_BadDates(t *testing.T) {
	srv := quoteStub(t, http.StatusOK, barsBody)
	defer srv.Close()
	router := newRouter(srv.URL, history.NewMemoryStore(0))

	req := validRequest()
	req.StartDate = "03/01/2024"
	w := postBacktest(t, router, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestRunBacktest_EmptyDataset(t *testing.T) {
	srv := quoteStub(t, http.StatusOK, `[]`)
	defer srv.Close()
	router := newRouter(srv.URL, history.NewMemoryStore(0))

	w := postBacktest(t, router, validRequest())
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "EMPTY_DATASET", resp.Error.Code)
}

func TestRunBacktest_UpstreamRateLimit(t *testing.T) {
	srv := quoteStub(t, http.StatusTooManyRequests, "")
	defer srv.Close()
	router := newRouter(srv.URL, history.NewMemoryStore(0))

	w := postBacktest(t, router, validRequest())
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", resp.Error.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	srv := quoteStub(t, http.StatusOK, barsBody)
	defer srv.Close()
	store := history.NewMemoryStore(0)
	router := newRouter(srv.URL, store)

	// Record two runs.
	postBacktest(t, router, validRequest())
	postBacktest(t, router, validRequest())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var listResp models.HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Records, 2)

	// Delete one, then a second delete of the same id is a 404.
	id := listResp.Records[0].ID
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/history/"+id, nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/history/"+id, nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRealtimeEndpoint(t *testing.T) {
	srv := quoteStub(t, http.StatusOK, `[{"symbol":"510300","name":"HS300 ETF","price":3.52,"change":0.8}]`)
	defer srv.Close()
	router := newRouter(srv.URL, history.NewMemoryStore(0))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/realtime/510300", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "510300", body["symbol"])
}

// Guards against records with zero timestamps sneaking into responses.
func TestRunBacktest_HistoryTimestamps(t *testing.T) {
	srv := quoteStub(t, http.StatusOK, barsBody)
	defer srv.Close()
	store := history.NewMemoryStore(0)
	router := newRouter(srv.URL, store)

	postBacktest(t, router, validRequest())
	records, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.WithinDuration(t, time.Now().UTC(), records[0].CreatedAt, time.Minute)
}
