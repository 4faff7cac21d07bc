// SPDX-License-Identifier: MIT

// Package geo provides the Nominatim geocoding client.
package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"retrogate/internal/fetch"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Address holds the subset of Nominatim address fields the legacy envelopes
// need.
type Address struct {
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
}

// CityName resolves the display city: city, else town, else village.
func (a Address) CityName() string {
	switch {
	case a.City != "":
		return a.City
	case a.Town != "":
		return a.Town
	default:
		return a.Village
	}
}

// Place is a resolved location.
type Place struct {
	Lat     float64
	Lon     float64
	Address Address
}

type placePayload struct {
	Lat     string  `json:"lat"`
	Lon     string  `json:"lon"`
	Address Address `json:"address"`
	Error   string  `json:"error"`
}

// Client talks to a Nominatim instance. Calls are throttled to the public
// instance's one-request-per-second usage policy.
type Client struct {
	base      string
	userAgent string
	fetch     *fetch.Client
	limiter   *rate.Limiter
}

// New returns a Client against the public Nominatim instance. An empty
// baseURL selects the default.
func New(baseURL string, fc *fetch.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		base:      baseURL,
		userAgent: "HTC HTTP Service",
		fetch:     fc,
		limiter:   rate.NewLimiter(rate.Limit(1), 1),
	}
}

// Reverse resolves coordinates to an address.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("format", "json")

	var payload placePayload
	if err := c.fetch.GetJSON(ctx, c.base+"/reverse?"+q.Encode(), c.header(), &payload); err != nil {
		return nil, fmt.Errorf("nominatim reverse: %w", err)
	}
	if payload.Error != "" {
		// Nominatim answers 200 with an error field for unknown coordinates.
		return nil, fmt.Errorf("nominatim reverse (%s): %w", payload.Error, fetch.ErrNotFound)
	}
	return payload.toPlace(lat, lon), nil
}

// Search resolves a free-text query, optionally constrained by an ISO
// country code, to the best-matching place.
func (c *Client) Search(ctx context.Context, query, countryCode string) (*Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	term := query
	if countryCode != "" {
		term = query + "," + countryCode
	}
	q := url.Values{}
	q.Set("q", term)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")

	var payload []placePayload
	if err := c.fetch.GetJSON(ctx, c.base+"/search?"+q.Encode(), c.header(), &payload); err != nil {
		return nil, fmt.Errorf("nominatim search: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("no match for %q: %w", query, fetch.ErrNotFound)
	}
	return payload[0].toPlace(0, 0), nil
}

func (c *Client) header() http.Header {
	h := http.Header{}
	h.Set("User-Agent", c.userAgent)
	return h
}

func (p placePayload) toPlace(fallbackLat, fallbackLon float64) *Place {
	lat, lon := fallbackLat, fallbackLon
	if v, err := strconv.ParseFloat(p.Lat, 64); err == nil {
		lat = v
	}
	if v, err := strconv.ParseFloat(p.Lon, 64); err == nil {
		lon = v
	}
	return &Place{Lat: lat, Lon: lon, Address: p.Address}
}
