// Package yahoo fetches daily OHLCV history from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/pkg/errors"

	"scanner-backend/internal/domain"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client implements domain.MarketDataProvider against Yahoo Finance.
type Client struct {
	baseURL    string
	suffix     string // exchange suffix appended to symbols, e.g. ".NS"
	httpClient *http.Client
}

// NewClient creates a Yahoo Finance client. suffix is appended to every
// symbol (".NS" for NSE listings); pass "" for US tickers.
func NewClient(suffix string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		suffix:  suffix,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point at a stub server.
func NewClientWithBaseURL(baseURL, suffix string) *Client {
	c := NewClient(suffix)
	c.baseURL = baseURL
	return c
}

// chartResponse is the response structure of the chart API.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func rangeForDays(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}

// FetchSeries returns up to `days` daily bars for the symbol in ascending
// time order. Any transport, status, or decode failure is reported as
// domain.ErrDataUnavailable so the scan skips the symbol and continues.
func (c *Client) FetchSeries(ctx context.Context, symbol string, days int) ([]domain.OHLCV, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		c.baseURL, url.PathEscape(symbol+c.suffix), rangeForDays(days))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrDataUnavailable, "%s: build request: %v", symbol, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrDataUnavailable, "%s: fetch: %v", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrDataUnavailable, "%s: read body: %v", symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(domain.ErrDataUnavailable, "%s: status %d", symbol, resp.StatusCode)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, errors.Wrapf(domain.ErrDataUnavailable, "%s: decode: %v", symbol, err)
	}
	if chart.Chart.Error != nil {
		return nil, errors.Wrapf(domain.ErrDataUnavailable, "%s: api error: %s", symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, errors.Wrapf(domain.ErrDataUnavailable, "%s: no data returned", symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	// Yahoo sometimes truncates quote arrays relative to the timestamps.
	n := len(result.Timestamp)
	if len(quote.Open) < n || len(quote.High) < n || len(quote.Low) < n ||
		len(quote.Close) < n || len(quote.Volume) < n {
		return nil, errors.Wrapf(domain.ErrDataUnavailable, "%s: truncated quote data", symbol)
	}
	bars := make([]domain.OHLCV, 0, n)

	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		cl := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && cl == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, domain.OHLCV{
			Time:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  cl,
			Volume: toFloat(quote.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}
