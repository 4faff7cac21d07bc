// SPDX-License-Identifier: MIT

package stocks

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"retrogate/internal/log"
)

// Market is the data upstream the handler queries.
type Market interface {
	Quotes(ctx context.Context, symbols []string) ([]Quote, error)
	SearchSymbols(ctx context.Context, phrase string, count, offset int) ([]SymbolMatch, error)
	History(ctx context.Context, symbol, legacyRange string) (*Chart, error)
}

// QuotesDoc answers a getquotes query.
type QuotesDoc struct {
	XMLName xml.Name  `xml:"quotes"`
	Quotes  []QuoteEl `xml:"quote"`
}

// QuoteEl is one rendered quote.
type QuoteEl struct {
	Name      string   `xml:"name"`
	Symbol    string   `xml:"symbol"`
	Timestamp int64    `xml:"timestamp"`
	Link      string   `xml:"link"`
	Price     string   `xml:"price"`
	Change    ChangeEl `xml:"change"`
	Open      string   `xml:"open"`
	High      string   `xml:"high"`
	Low       string   `xml:"low"`
	Volume    string   `xml:"volume"`
}

// ChangeEl carries absolute and percentage change, both signed.
type ChangeEl struct {
	Value   string `xml:"value"`
	Percent string `xml:"percent"`
}

// SymbolsDoc answers a getsymbol query.
type SymbolsDoc struct {
	XMLName xml.Name   `xml:"symbols"`
	Matches []SymbolEl `xml:"symbol"`
}

// SymbolEl is one symbol search hit.
type SymbolEl struct {
	Name   string `xml:"name"`
	Symbol string `xml:"symbol"`
}

// ChartDoc answers a getchart query.
type ChartDoc struct {
	XMLName xml.Name    `xml:"chart"`
	Meta    ChartMetaEl `xml:"symbol"`
	Points  []PointEl   `xml:"points>point"`
}

// ChartMetaEl describes the charted symbol. The applicationdata path is a
// constant the widget uses to locate its cache on the device.
type ChartMetaEl struct {
	Name            string `xml:"name"`
	MarketOpen      string `xml:"marketopen"`
	MarketClose     string `xml:"marketclose"`
	GMTOffset       int64  `xml:"gmtoffset"`
	ApplicationData string `xml:"applicationdata"`
}

// PointEl is one plotted sample.
type PointEl struct {
	Close     string `xml:"close,attr"`
	Timestamp string `xml:"timestamp,attr"`
}

const applicationDataPath = `\Application Data\HTC\ygo\`

// Handler serves the stock widget gateway endpoint.
type Handler struct {
	market Market
	now    func() time.Time
}

// NewHandler wires a Handler.
func NewHandler(market Market) *Handler {
	return &Handler{market: market, now: time.Now}
}

// Mount registers the widget routes. /dgw is the path baked into shipped
// firmware; /getstocks the documented one.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/dgw", h.Query)
	r.Post("/getstocks", h.Query)
}

// Query decodes the posted envelope and dispatches on its type.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "cannot read request", http.StatusBadRequest)
		return
	}
	q, err := ParseQuery(body)
	if err != nil {
		lg := log.FromContext(ctx)
		lg.Warn().Err(err).Msg("malformed stock query")
		http.Error(w, "malformed query", http.StatusBadRequest)
		return
	}

	switch q.Type {
	case TypeQuotes:
		h.quotes(ctx, w, q)
	case TypeSymbols:
		h.symbols(ctx, w, q)
	case TypeChart:
		h.chart(ctx, w, q)
	default:
		http.Error(w, "Not implemented", http.StatusNotImplemented)
	}
}

func (h *Handler) quotes(ctx context.Context, w http.ResponseWriter, q *Query) {
	quotes, err := h.market.Quotes(ctx, q.Symbols)
	if err != nil {
		h.upstreamError(ctx, w, "getquotes", err)
		return
	}

	doc := QuotesDoc{}
	for _, quote := range quotes {
		ts := quote.MarketTime
		if ts == 0 {
			ts = h.now().UTC().Unix()
		}
		change, pct := quote.Change, quote.ChangePercent
		if change == nil && quote.Price != nil && quote.PreviousClose != nil {
			v := *quote.Price - *quote.PreviousClose
			change = &v
		}
		if pct == nil && change != nil && quote.PreviousClose != nil && *quote.PreviousClose != 0 {
			v := *change / *quote.PreviousClose * 100
			pct = &v
		}

		doc.Quotes = append(doc.Quotes, QuoteEl{
			Name:      quote.Name(),
			Symbol:    quote.Symbol,
			Timestamp: ts,
			Link:      "https://finance.yahoo.com/quote/" + quote.Symbol,
			Price:     money(quote.Price),
			Change: ChangeEl{
				Value:   signedMoney(change),
				Percent: signedMoney(pct),
			},
			Open:   money(quote.Open),
			High:   money(quote.DayHigh),
			Low:    money(quote.DayLow),
			Volume: count(quote.Volume),
		})
	}
	writeXML(ctx, w, doc)
}

func (h *Handler) symbols(ctx context.Context, w http.ResponseWriter, q *Query) {
	matches, err := h.market.SearchSymbols(ctx, q.Phrase, q.Count, q.Offset)
	if err != nil {
		h.upstreamError(ctx, w, "getsymbol", err)
		return
	}

	doc := SymbolsDoc{}
	for _, m := range matches {
		doc.Matches = append(doc.Matches, SymbolEl{Name: m.Name(), Symbol: m.Symbol})
	}
	writeXML(ctx, w, doc)
}

func (h *Handler) chart(ctx context.Context, w http.ResponseWriter, q *Query) {
	chart, err := h.market.History(ctx, q.Symbol, q.Range)
	if err != nil {
		h.upstreamError(ctx, w, "getchart", err)
		return
	}

	doc := ChartDoc{
		Meta: ChartMetaEl{
			Name:            chart.Name,
			MarketOpen:      "N/A",
			MarketClose:     "N/A",
			GMTOffset:       chart.GMTOffset,
			ApplicationData: applicationDataPath,
		},
	}
	for _, p := range chart.Points {
		doc.Points = append(doc.Points, PointEl{
			Close:     fmt.Sprintf("%.2f", p.Close),
			Timestamp: fmt.Sprintf("%d.0", p.Timestamp),
		})
	}
	writeXML(ctx, w, doc)
}

func (h *Handler) upstreamError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	lg := log.FromContext(ctx)
	lg.Error().Str("op", op).Err(err).Msg("stock upstream failed")
	http.Error(w, "Error: Could not retrieve market data.", http.StatusInternalServerError)
}

func money(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

func signedMoney(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f", *v)
}

func count(v *int64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *v)
}

func writeXML(ctx context.Context, w http.ResponseWriter, doc any) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		lg := log.FromContext(ctx)
		lg.Error().Err(err).Msg("encode response")
	}
}
