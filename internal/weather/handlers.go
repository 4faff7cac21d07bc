// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"retrogate/internal/fetch"
	"retrogate/internal/geo"
	"retrogate/internal/log"
	"retrogate/internal/meteo"
)

// Geocoder resolves coordinates and place names.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*geo.Place, error)
	Search(ctx context.Context, query, countryCode string) (*geo.Place, error)
}

// Forecaster fetches forecasts for coordinates.
type Forecaster interface {
	Forecast(ctx context.Context, lat, lon float64, days int) (*meteo.Forecast, error)
}

// Handler serves the legacy weather widget endpoints.
type Handler struct {
	geo   Geocoder
	meteo Forecaster
	now   func() time.Time
}

// NewHandler wires a Handler from its upstream clients.
func NewHandler(g Geocoder, f Forecaster) *Handler {
	return &Handler{geo: g, meteo: f, now: time.Now}
}

// Mount registers the widget routes, including the historical .asp aliases
// the shipped firmware calls.
func (h *Handler) Mount(r chi.Router) {
	for _, p := range []string{"/getweather", "/lat-lon-search.asp", "/widget/htc/lat-lon-search.asp"} {
		r.Get(p, h.ByCoordinates)
	}
	for _, p := range []string{"/getstaticweather", "/forecast-data_v3.asp", "/widget/htc/forecast-data_v3.asp"} {
		r.Get(p, h.ByLocationCode)
	}
	r.Get("/widget/htc2/weather-data.asp", h.Sense3)
}

// ByCoordinates serves the compact document for a lat/lon pair.
func (h *Handler) ByCoordinates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lat := parseCoord(r.URL.Query().Get("lat"))
	lon := parseCoord(r.URL.Query().Get("lon"))

	place, err := h.geo.Reverse(ctx, lat, lon)
	if err != nil {
		upstreamError(ctx, w, "reverse geocode", err)
		return
	}

	fc, err := h.meteo.Forecast(ctx, lat, lon, 5)
	if err != nil {
		upstreamError(ctx, w, "forecast", err)
		return
	}

	doc := BuildDocument(place.Address.CityName(), place.Address.Country, fc, h.now())
	writeXML(ctx, w, doc)
}

// locCode is a parsed continent|CC|region|CITY location code.
type locCode struct {
	Continent string
	Country   string
	Region    string
	City      string
}

func parseLocCode(raw string) (locCode, bool) {
	parts := strings.Split(raw, "|")
	if len(parts) != 4 {
		return locCode{}, false
	}
	return locCode{
		Continent: parts[0],
		Country:   parts[1],
		Region:    parts[2],
		City:      parts[3],
	}, true
}

// defaultLocCode mirrors what the retired service served when the widget
// omitted the parameter.
const defaultLocCode = "ASI|TW|TW018|TAIPEI"

// resolveLocCode geocodes a location code. A failed lookup is not fatal: the
// document falls back to the code's own city/country strings at 0,0, matching
// the historical behavior widgets tolerate.
func (h *Handler) resolveLocCode(ctx context.Context, lc locCode) (lat, lon float64, city, country, countryCode string) {
	city, country, countryCode = lc.City, lc.Country, lc.Country
	place, err := h.geo.Search(ctx, lc.City, lc.Country)
	if err != nil {
		lg := log.FromContext(ctx)
		lg.Warn().
			Str("component", "weather").
			Str("city", lc.City).
			Err(err).
			Msg("location code lookup failed, using code verbatim")
		return
	}
	lat, lon = place.Lat, place.Lon
	if n := place.Address.CityName(); n != "" {
		city = n
	}
	if place.Address.Country != "" {
		country = place.Address.Country
	}
	if place.Address.CountryCode != "" {
		countryCode = strings.ToUpper(place.Address.CountryCode)
	}
	return
}

// ByLocationCode serves the compact document for a location code.
func (h *Handler) ByLocationCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw := r.URL.Query().Get("locCode")
	if raw == "" {
		raw = defaultLocCode
	}
	lc, ok := parseLocCode(raw)
	if !ok {
		http.Error(w, "Bad location format", http.StatusBadRequest)
		return
	}

	lat, lon, city, country, _ := h.resolveLocCode(ctx, lc)

	fc, err := h.meteo.Forecast(ctx, lat, lon, 9)
	if err != nil {
		upstreamError(ctx, w, "forecast", err)
		return
	}

	doc := BuildDocument(city, country, fc, h.now())
	writeXML(ctx, w, doc)
}

// Sense3 serves the nine-day htc2 document. Both locCode and location name
// the parameter, depending on firmware generation.
func (h *Handler) Sense3(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw := r.URL.Query().Get("locCode")
	if raw == "" {
		raw = r.URL.Query().Get("location")
	}
	if raw == "" {
		raw = defaultLocCode
	}
	lc, ok := parseLocCode(raw)
	if !ok {
		http.Error(w, "Bad location format", http.StatusBadRequest)
		return
	}
	metric := r.URL.Query().Get("metric") == "1"

	lat, lon, city, country, countryCode := h.resolveLocCode(ctx, lc)

	fc, err := h.meteo.Forecast(ctx, lat, lon, 9)
	if err != nil {
		upstreamError(ctx, w, "forecast", err)
		return
	}

	doc := BuildV3Document(V3Input{
		City:        city,
		Country:     country,
		CountryCode: countryCode,
		RegionCode:  lc.Region,
		Lat:         lat,
		Lon:         lon,
		Metric:      metric,
	}, fc, h.now())
	writeXML(ctx, w, doc)
}

func parseCoord(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func upstreamError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	lg := log.FromContext(ctx)
	lg.Error().
		Str("component", "weather").
		Str("op", op).
		Err(err).
		Msg("upstream request failed")
	if errors.Is(err, fetch.ErrNotFound) {
		http.Error(w, "Error: Could not retrieve location data.", http.StatusNotFound)
		return
	}
	http.Error(w, "Error: Could not retrieve weather data.", http.StatusInternalServerError)
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
