package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yunqiangwu/etf-grid-master/internal/logger"
	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

// DefaultBaseURL is the quote gateway fronting the eastmoney feed.
const DefaultBaseURL = "https://aks.txy.jajabjbj.top"

const (
	quoteSource = "eastmoney_direct"
	// adjust=qfq requests forward-adjusted prices, which is what a
	// backtest should consume.
	quoteAdjust = "qfq"
)

// QuoteClient fetches daily bars and realtime quotes from the quote
// gateway HTTP API.
type QuoteClient struct {
	BaseURL string
	Client  *http.Client

	log *logger.Logger
}

// NewQuoteClient creates a quote gateway client. If baseURL is empty,
// DefaultBaseURL is used.
func NewQuoteClient(baseURL string, log *logger.Logger) *QuoteClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &QuoteClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// QuoteError represents an error response from the quote gateway.
type QuoteError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string
}

func (e *QuoteError) Error() string {
	return e.Message
}

// HistoricalData fetches daily OHLCV bars for symbol over the inclusive
// date range. The result is sorted ascending by date and deduplicated,
// satisfying the engine's input-feed contract. Rows without a usable
// date are dropped.
func (c *QuoteClient) HistoricalData(ctx context.Context, symbol string, start, end model.Day) ([]model.HistoricalBar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("start_date and end_date are required")
	}
	if end.Before(start) {
		return nil, fmt.Errorf("start_date must not be after end_date")
	}

	if cache := GetCache(); cache != nil {
		key := CacheKey(symbol, start, end)
		if bars, found := cache.Get(key); found {
			c.log.Info("quote cache hit",
				zap.String("symbol", symbol),
				zap.Stringer("start", start),
				zap.Stringer("end", end),
				zap.Int("bars", len(bars)))
			return bars, nil
		}
	}

	u, err := url.Parse(c.BaseURL + "/historical-data/" + url.PathEscape(symbol))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("start_date", start.String())
	q.Set("end_date", end.String())
	q.Set("interval", "day")
	q.Set("adjust", quoteAdjust)
	q.Set("source", quoteSource)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	began := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		c.log.Warn("quote request failed",
			zap.String("symbol", symbol), zap.Error(err),
			zap.Duration("duration", time.Since(began)))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Info("quote response",
		zap.String("symbol", symbol),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(began)))

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var rows []historicalRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	bars := make([]model.HistoricalBar, 0, len(rows))
	for _, row := range rows {
		bar, ok := row.toBar()
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}
	bars = model.SortBars(bars)

	if cache := GetCache(); cache != nil {
		cache.Set(CacheKey(symbol, start, end), bars)
	}
	return bars, nil
}

// RealtimeQuote fetches the current quote for symbol. The gateway
// answers with an array; the first element carries the quote.
func (c *QuoteClient) RealtimeQuote(ctx context.Context, symbol string) (*model.RealtimeQuote, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	u, err := url.Parse(c.BaseURL + "/realtime-data")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("symbol", symbol)
	q.Set("source", quoteSource)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var quotes []model.RealtimeQuote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(quotes) == 0 {
		return nil, &QuoteError{
			StatusCode: resp.StatusCode,
			Code:       "SYMBOL_NOT_FOUND",
			Message:    fmt.Sprintf("no realtime data for symbol %q", symbol),
		}
	}
	return &quotes[0], nil
}

func (c *QuoteClient) checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return &QuoteError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "quote gateway rejected the request",
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return &QuoteError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("rate limit exceeded, retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return &QuoteError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("quote gateway returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}
}

// historicalRow is the loose upstream row shape. Dates arrive as ISO
// strings, datetime strings, or epoch timestamps in seconds or
// milliseconds depending on the upstream source; prices occasionally
// arrive as JSON strings.
type historicalRow struct {
	Date      json.RawMessage `json:"date"`
	Timestamp json.RawMessage `json:"timestamp"`
	Open      flexNumber      `json:"open"`
	High      flexNumber      `json:"high"`
	Low       flexNumber      `json:"low"`
	Close     flexNumber      `json:"close"`
	Volume    flexNumber      `json:"volume"`
}

// flexNumber decodes a JSON number that may arrive quoted.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", s, err)
	}
	*n = flexNumber(f)
	return nil
}

func (r historicalRow) toBar() (model.HistoricalBar, bool) {
	raw := r.Date
	if len(raw) == 0 || string(raw) == "null" {
		raw = r.Timestamp
	}
	day, ok := parseFlexibleDate(raw)
	if !ok {
		return model.HistoricalBar{}, false
	}
	return model.HistoricalBar{
		Date:   day,
		Open:   float64(r.Open),
		High:   float64(r.High),
		Low:    float64(r.Low),
		Close:  float64(r.Close),
		Volume: float64(r.Volume),
	}, true
}

func parseFlexibleDate(raw json.RawMessage) (model.Day, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return model.Day{}, false
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if i := strings.IndexByte(asString, 'T'); i >= 0 {
			asString = asString[:i]
		}
		if i := strings.IndexByte(asString, ' '); i >= 0 {
			asString = asString[:i]
		}
		day, err := model.ParseDay(asString)
		if err != nil {
			return model.Day{}, false
		}
		return day, true
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		millis := int64(asNumber)
		// Ten-digit values are epoch seconds, thirteen-digit ones are
		// milliseconds.
		if asNumber < 1e10 {
			millis = int64(asNumber) * 1000
		}
		t := time.UnixMilli(millis).UTC()
		return model.NewDay(t.Year(), t.Month(), t.Day()), true
	}

	return model.Day{}, false
}
