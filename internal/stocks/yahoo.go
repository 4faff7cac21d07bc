// SPDX-License-Identifier: MIT

package stocks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"retrogate/internal/fetch"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// The query endpoints reject clients without a browser user agent.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"

// Quote is one market quote. Pointer fields are nil when the upstream has
// no value; rendering turns those into "N/A".
type Quote struct {
	Symbol          string   `json:"symbol"`
	LongName        string   `json:"longName"`
	ShortName       string   `json:"shortName"`
	MarketTime      int64    `json:"regularMarketTime"`
	Price           *float64 `json:"regularMarketPrice"`
	PreviousClose   *float64 `json:"regularMarketPreviousClose"`
	Open            *float64 `json:"regularMarketOpen"`
	DayHigh         *float64 `json:"regularMarketDayHigh"`
	DayLow          *float64 `json:"regularMarketDayLow"`
	Volume          *int64   `json:"regularMarketVolume"`
	Change          *float64 `json:"regularMarketChange"`
	ChangePercent   *float64 `json:"regularMarketChangePercent"`
	GMTOffsetMillis int64    `json:"gmtOffSetMilliseconds"`
}

// Name returns the display name with the upstream's fallback order.
func (q *Quote) Name() string {
	if q.LongName != "" {
		return q.LongName
	}
	if q.ShortName != "" {
		return q.ShortName
	}
	return q.Symbol
}

// SymbolMatch is one symbol search hit.
type SymbolMatch struct {
	Symbol    string `json:"symbol"`
	LongName  string `json:"longname"`
	ShortName string `json:"shortname"`
}

// Name returns the display name with the upstream's fallback order.
func (m *SymbolMatch) Name() string {
	if m.LongName != "" {
		return m.LongName
	}
	if m.ShortName != "" {
		return m.ShortName
	}
	return m.Symbol
}

// ChartPoint is one close-price sample.
type ChartPoint struct {
	Timestamp int64
	Close     float64
}

// Chart is a price history plus the metadata the widget renders around it.
type Chart struct {
	Name      string
	GMTOffset int64
	Points    []ChartPoint
}

// Client talks to the Yahoo Finance query API.
type Client struct {
	base  string
	fetch *fetch.Client
}

// New returns a Client. An empty baseURL selects the public endpoint.
func New(baseURL string, fc *fetch.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{base: baseURL, fetch: fc}
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	header := http.Header{}
	header.Set("User-Agent", browserUserAgent)
	return c.fetch.GetJSON(ctx, c.base+path+"?"+q.Encode(), header, out)
}

// Quotes fetches market quotes for the given symbols, preserving order.
func (c *Client) Quotes(ctx context.Context, symbols []string) ([]Quote, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("symbols", strings.Join(symbols, ","))

	var resp struct {
		QuoteResponse struct {
			Result []Quote `json:"result"`
		} `json:"quoteResponse"`
	}
	if err := c.getJSON(ctx, "/v7/finance/quote", q, &resp); err != nil {
		return nil, fmt.Errorf("quotes %v: %w", symbols, err)
	}
	return resp.QuoteResponse.Result, nil
}

// SearchSymbols finds symbols matching phrase. Pagination happens here
// because the upstream only supports a result count.
func (c *Client) SearchSymbols(ctx context.Context, phrase string, count, offset int) ([]SymbolMatch, error) {
	q := url.Values{}
	q.Set("q", phrase)
	q.Set("quotesCount", strconv.Itoa(offset+count))
	q.Set("newsCount", "0")

	var resp struct {
		Quotes []SymbolMatch `json:"quotes"`
	}
	if err := c.getJSON(ctx, "/v1/finance/search", q, &resp); err != nil {
		return nil, fmt.Errorf("symbol search %q: %w", phrase, err)
	}

	matches := resp.Quotes
	if offset >= len(matches) {
		return nil, nil
	}
	matches = matches[offset:]
	if count < len(matches) {
		matches = matches[:count]
	}
	return matches, nil
}

// chartRange converts the widget's range token to the upstream's. The
// widget says "1m" for one month; the upstream wants "1mo".
func chartRange(legacy string) string {
	if strings.HasSuffix(legacy, "m") {
		return legacy + "o"
	}
	return legacy
}

// History fetches the close-price history for a symbol over a legacy range
// token (1d, 5d, 1m, 3m, 6m, 1y, 5y).
func (c *Client) History(ctx context.Context, symbol, legacyRange string) (*Chart, error) {
	q := url.Values{}
	q.Set("range", chartRange(legacyRange))
	q.Set("interval", intervalFor(legacyRange))

	var resp struct {
		Chart struct {
			Result []struct {
				Meta struct {
					Symbol    string `json:"symbol"`
					LongName  string `json:"longName"`
					ShortName string `json:"shortName"`
					GMTOffset int64  `json:"gmtoffset"`
				} `json:"meta"`
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Close []*float64 `json:"close"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
		} `json:"chart"`
	}
	if err := c.getJSON(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), q, &resp); err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart %s: %w", symbol, fetch.ErrNotFound)
	}

	r := resp.Chart.Result[0]
	name := r.Meta.LongName
	if name == "" {
		name = r.Meta.ShortName
	}
	if name == "" {
		name = symbol
	}
	chart := &Chart{Name: name, GMTOffset: r.Meta.GMTOffset}
	if len(r.Indicators.Quote) > 0 {
		closes := r.Indicators.Quote[0].Close
		for i, ts := range r.Timestamp {
			if i >= len(closes) || closes[i] == nil {
				continue
			}
			chart.Points = append(chart.Points, ChartPoint{Timestamp: ts, Close: *closes[i]})
		}
	}
	return chart, nil
}

// intervalFor picks a sample interval that keeps point counts near what the
// widget's plotter handles.
func intervalFor(legacyRange string) string {
	switch legacyRange {
	case "1d":
		return "5m"
	case "5d":
		return "30m"
	case "1y", "5y":
		return "1wk"
	default:
		return "1d"
	}
}
