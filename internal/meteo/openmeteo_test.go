// SPDX-License-Identifier: MIT

package meteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retrogate/internal/fetch"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, fetch.New(fetch.Options{Attempts: 2, Backoff: time.Millisecond}))
}

func TestForecast(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "48.21", q.Get("latitude"))
		assert.Equal(t, "true", q.Get("current_weather"))
		assert.Equal(t, "9", q.Get("forecast_days"))
		assert.Equal(t, "auto", q.Get("timezone"))
		assert.Contains(t, q.Get("daily"), "uv_index_max")
		assert.Contains(t, q.Get("hourly"), "temperature_2m")
		_, _ = w.Write([]byte(`{
			"timezone": "Europe/Vienna",
			"utc_offset_seconds": 7200,
			"current_weather": {"temperature": 21.4, "windspeed": 12.0, "winddirection": 270, "weathercode": 3, "is_day": 1, "time": "2026-08-29T13:00"},
			"hourly": {"time": ["2026-08-29T00:00"], "temperature_2m": [18.2], "precipitation": [0.1], "windspeed_10m": [8.5], "winddirection_10m": [250], "weathercode": [2]},
			"daily": {"time": ["2026-08-29", "2026-08-30"], "temperature_2m_max": [24.1, 22.0], "temperature_2m_min": [15.3, 14.8],
				"windspeed_10m_max": [20.0, 18.0], "winddirection_10m_dominant": [260, 240], "uv_index_max": [6.2, 5.1],
				"weathercode": [3, 61], "sunrise": ["2026-08-29T06:12", "2026-08-30T06:13"], "sunset": ["2026-08-29T19:48", "2026-08-30T19:46"]}
		}`))
	})

	f, err := c.Forecast(context.Background(), 48.21, 16.37, 9)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Vienna", f.Timezone)
	assert.Equal(t, 7200, f.UTCOffsetSeconds)
	assert.InDelta(t, 21.4, f.Current.Temperature, 1e-9)
	assert.Equal(t, 3, f.Current.WeatherCode)
	assert.Equal(t, 2, f.Days())
	assert.InDelta(t, 24.1, f.Daily.TempMax[0], 1e-9)
	assert.Equal(t, 61, f.Daily.WeatherCode[1])
	assert.Equal(t, "2026-08-29T00:00", f.Hourly.Time[0])
}

func TestForecastUpstreamDown(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Forecast(context.Background(), 0, 0, 5)
	assert.ErrorIs(t, err, fetch.ErrUnavailable)
}
