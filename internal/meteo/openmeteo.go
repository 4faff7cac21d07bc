// SPDX-License-Identifier: MIT

// Package meteo provides the Open-Meteo forecast client.
package meteo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"retrogate/internal/fetch"
)

const defaultBaseURL = "https://api.open-meteo.com"

// CurrentWeather is the observation block of a forecast response.
type CurrentWeather struct {
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection float64 `json:"winddirection"`
	WeatherCode   int     `json:"weathercode"`
	IsDay         int     `json:"is_day"`
	Time          string  `json:"time"` // local, "2006-01-02T15:04"
}

// Hourly carries parallel per-hour series.
type Hourly struct {
	Time          []string  `json:"time"`
	Temperature   []float64 `json:"temperature_2m"`
	Precipitation []float64 `json:"precipitation"`
	WindSpeed     []float64 `json:"windspeed_10m"`
	WindDirection []float64 `json:"winddirection_10m"`
	WeatherCode   []int     `json:"weathercode"`
}

// Daily carries parallel per-day series.
type Daily struct {
	Time          []string  `json:"time"` // "2006-01-02"
	TempMax       []float64 `json:"temperature_2m_max"`
	TempMin       []float64 `json:"temperature_2m_min"`
	WindSpeedMax  []float64 `json:"windspeed_10m_max"`
	WindDirection []float64 `json:"winddirection_10m_dominant"`
	UVIndexMax    []float64 `json:"uv_index_max"`
	WeatherCode   []int     `json:"weathercode"`
	Sunrise       []string  `json:"sunrise"` // local, "2006-01-02T15:04"
	Sunset        []string  `json:"sunset"`
}

// Forecast is the decoded forecast response. Times are local to the
// requested location (timezone=auto).
type Forecast struct {
	Timezone         string         `json:"timezone"`
	UTCOffsetSeconds int            `json:"utc_offset_seconds"`
	Current          CurrentWeather `json:"current_weather"`
	Hourly           Hourly         `json:"hourly"`
	Daily            Daily          `json:"daily"`
}

// Days returns the number of forecast days actually present.
func (f *Forecast) Days() int {
	return len(f.Daily.Time)
}

// Client talks to the Open-Meteo forecast API.
type Client struct {
	base  string
	fetch *fetch.Client
}

// New returns a Client. An empty baseURL selects the public instance.
func New(baseURL string, fc *fetch.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{base: baseURL, fetch: fc}
}

// Forecast fetches a days-long forecast for the given coordinates.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, days int) (*Forecast, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current_weather", "true")
	q.Set("forecast_days", strconv.Itoa(days))
	q.Set("daily", "temperature_2m_max,temperature_2m_min,windspeed_10m_max,winddirection_10m_dominant,uv_index_max,weathercode,sunrise,sunset")
	q.Set("hourly", "temperature_2m,windspeed_10m,winddirection_10m,weathercode,precipitation")
	q.Set("timezone", "auto")

	var f Forecast
	if err := c.fetch.GetJSON(ctx, c.base+"/v1/forecast?"+q.Encode(), nil, &f); err != nil {
		return nil, fmt.Errorf("open-meteo forecast: %w", err)
	}
	return &f, nil
}
