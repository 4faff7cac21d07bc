// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retrogate/internal/fetch"
	"retrogate/internal/geo"
	"retrogate/internal/meteo"
)

type stubGeo struct {
	reverse    *geo.Place
	search     *geo.Place
	reverseErr error
	searchErr  error
}

func (s *stubGeo) Reverse(ctx context.Context, lat, lon float64) (*geo.Place, error) {
	return s.reverse, s.reverseErr
}

func (s *stubGeo) Search(ctx context.Context, query, countryCode string) (*geo.Place, error) {
	return s.search, s.searchErr
}

type stubMeteo struct {
	forecast *meteo.Forecast
	err      error
	gotDays  int
}

func (s *stubMeteo) Forecast(ctx context.Context, lat, lon float64, days int) (*meteo.Forecast, error) {
	s.gotDays = days
	return s.forecast, s.err
}

func testForecast(days int) *meteo.Forecast {
	f := &meteo.Forecast{
		Timezone:         "UTC",
		UTCOffsetSeconds: 0,
		Current: meteo.CurrentWeather{
			Temperature:   21.4,
			WindSpeed:     14,
			WindDirection: 90,
			WeatherCode:   1,
			IsDay:         1,
			Time:          "2026-08-29T14:00",
		},
	}
	for i := 0; i < days; i++ {
		date := time.Date(2026, time.August, 29+i, 0, 0, 0, 0, time.UTC)
		f.Daily.Time = append(f.Daily.Time, date.Format("2006-01-02"))
		f.Daily.TempMax = append(f.Daily.TempMax, 25+float64(i))
		f.Daily.TempMin = append(f.Daily.TempMin, 15+float64(i))
		f.Daily.WindSpeedMax = append(f.Daily.WindSpeedMax, 20)
		f.Daily.WindDirection = append(f.Daily.WindDirection, 180)
		f.Daily.UVIndexMax = append(f.Daily.UVIndexMax, 5)
		f.Daily.WeatherCode = append(f.Daily.WeatherCode, 2)
		f.Daily.Sunrise = append(f.Daily.Sunrise, date.Format("2006-01-02")+"T06:12")
		f.Daily.Sunset = append(f.Daily.Sunset, date.Format("2006-01-02")+"T19:45")
	}
	for i := 0; i < 48; i++ {
		f.Hourly.Time = append(f.Hourly.Time, fmt.Sprintf("2026-08-29T%02d:00", i%24))
		f.Hourly.Temperature = append(f.Hourly.Temperature, 20)
		f.Hourly.Precipitation = append(f.Hourly.Precipitation, 0.1)
		f.Hourly.WindSpeed = append(f.Hourly.WindSpeed, 10)
		f.Hourly.WindDirection = append(f.Hourly.WindDirection, 45)
		f.Hourly.WeatherCode = append(f.Hourly.WeatherCode, 0)
	}
	return f
}

func newTestHandler(g Geocoder, f Forecaster) *Handler {
	h := NewHandler(g, f)
	h.now = func() time.Time { return time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC) }
	return h
}

func serve(t *testing.T, h *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	h.Mount(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestByCoordinates(t *testing.T) {
	g := &stubGeo{reverse: &geo.Place{
		Lat: 48.2, Lon: 16.37,
		Address: geo.Address{City: "Vienna", Country: "Austria", CountryCode: "at"},
	}}
	m := &stubMeteo{forecast: testForecast(5)}

	rec := serve(t, newTestHandler(g, m), "/getweather?lat=48.2&lon=16.37")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, 5, m.gotDays)

	var doc Document
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Vienna", doc.City)
	assert.Equal(t, "Austria", doc.Country)
	assert.Len(t, doc.Days, 5)
	assert.Equal(t, 21, doc.Current.Temp)
	assert.Equal(t, "Mostly Sunny", doc.Current.Condition.Text)
	assert.Equal(t, "Sat", doc.Days[0].Name)
	assert.Equal(t, "S", doc.Days[0].Wind.Compass)
}

func TestByCoordinatesLegacyAlias(t *testing.T) {
	g := &stubGeo{reverse: &geo.Place{Address: geo.Address{City: "Graz", Country: "Austria"}}}
	m := &stubMeteo{forecast: testForecast(5)}

	rec := serve(t, newTestHandler(g, m), "/widget/htc/lat-lon-search.asp?lat=47&lon=15.4")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestByCoordinatesGeocodeFailure(t *testing.T) {
	g := &stubGeo{reverseErr: fetch.ErrUnavailable}
	m := &stubMeteo{forecast: testForecast(5)}

	rec := serve(t, newTestHandler(g, m), "/getweather?lat=1&lon=2")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestByCoordinatesUnknownLocation(t *testing.T) {
	g := &stubGeo{reverseErr: fetch.ErrNotFound}
	m := &stubMeteo{forecast: testForecast(5)}

	rec := serve(t, newTestHandler(g, m), "/getweather?lat=0&lon=0")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestByLocationCode(t *testing.T) {
	g := &stubGeo{search: &geo.Place{
		Lat: 25.03, Lon: 121.56,
		Address: geo.Address{City: "Taipei", Country: "Taiwan", CountryCode: "tw"},
	}}
	m := &stubMeteo{forecast: testForecast(9)}

	rec := serve(t, newTestHandler(g, m), "/getstaticweather?locCode=ASI%7CTW%7CTW018%7CTAIPEI")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 9, m.gotDays)

	var doc Document
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Taipei", doc.City)
	// The compact document renders five days even from a nine-day fetch.
	assert.Len(t, doc.Days, 5)
}

func TestByLocationCodeBadFormat(t *testing.T) {
	h := newTestHandler(&stubGeo{}, &stubMeteo{forecast: testForecast(9)})
	rec := serve(t, h, "/getstaticweather?locCode=not-a-code")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestByLocationCodeLookupFailureFallsBack(t *testing.T) {
	g := &stubGeo{searchErr: fetch.ErrNotFound}
	m := &stubMeteo{forecast: testForecast(9)}

	rec := serve(t, newTestHandler(g, m), "/getstaticweather?locCode=EUR%7CAT%7CAT009%7CVIENNA")

	require.Equal(t, http.StatusOK, rec.Code)
	var doc Document
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "VIENNA", doc.City)
	assert.Equal(t, "AT", doc.Country)
}

func TestSense3Document(t *testing.T) {
	g := &stubGeo{search: &geo.Place{
		Lat: 35.33, Lon: 25.13,
		Address: geo.Address{City: "Heraklion", Country: "Greece", CountryCode: "gr"},
	}}
	m := &stubMeteo{forecast: testForecast(9)}

	rec := serve(t, newTestHandler(g, m), "/widget/htc2/weather-data.asp?location=EUR%7CGR%7CGR020%7CIRACLION&metric=0")

	require.Equal(t, http.StatusOK, rec.Code)
	var doc V3Document
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &doc))

	assert.Equal(t, "F", doc.Units.Temp)
	assert.Equal(t, "MPH", doc.Units.Speed)
	assert.Equal(t, "Heraklion", doc.Local.City)
	assert.Equal(t, "GR", doc.Local.Country.Code)
	assert.Equal(t, "GR020", doc.Local.AdminArea.Code)
	assert.Len(t, doc.ForecastDays, 9)
	assert.Len(t, doc.ForecastHours, 24)
	assert.Len(t, doc.Planets, 10)
	assert.Len(t, doc.Moon, 32)

	// 21.4 C rounds to 71 F.
	assert.Equal(t, 71, doc.CurrentConditions.Temperature)
	// The hourly list starts at entry 13 of the source series.
	assert.Equal(t, "1:00 PM", doc.ForecastHours[0].Time)
	assert.Equal(t, "12:00 PM", doc.ForecastHours[23].Time)
}

func TestSense3Metric(t *testing.T) {
	g := &stubGeo{search: &geo.Place{Address: geo.Address{City: "Graz", Country: "Austria", CountryCode: "at"}}}
	m := &stubMeteo{forecast: testForecast(9)}

	rec := serve(t, newTestHandler(g, m), "/widget/htc2/weather-data.asp?locCode=EUR%7CAT%7CAT006%7CGRAZ&metric=1")

	require.Equal(t, http.StatusOK, rec.Code)
	var doc V3Document
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "C", doc.Units.Temp)
	assert.Equal(t, 21, doc.CurrentConditions.Temperature)
	assert.Equal(t, 14, doc.CurrentConditions.WindSpeed)
}

func TestBuildDocumentsTolerateTruncatedDailySeries(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	f := testForecast(5)
	// A truncated upstream payload: the per-day series are shorter than the
	// day index list.
	f.Daily.TempMax = f.Daily.TempMax[:2]
	f.Daily.WeatherCode = f.Daily.WeatherCode[:1]
	f.Daily.UVIndexMax = f.Daily.UVIndexMax[:0]
	f.Daily.Sunrise = nil
	f.Daily.Sunset = f.Daily.Sunset[:3]

	doc := BuildDocument("Vienna", "Austria", f, now)
	require.Len(t, doc.Days, 5)
	assert.Equal(t, 25, doc.Days[0].High)
	assert.Equal(t, 0, doc.Days[2].High)
	assert.Equal(t, 0, doc.Days[0].UVI)

	v3 := BuildV3Document(V3Input{City: "Vienna", Country: "Austria"}, f, now)
	require.Len(t, v3.ForecastDays, 5)
	assert.Equal(t, 77, v3.ForecastDays[0].HighTemp)
	assert.Equal(t, 32, v3.ForecastDays[2].HighTemp)
	assert.Empty(t, v3.ForecastDays[0].Sunrise)
	assert.NotEmpty(t, v3.ForecastDays[2].Sunset)
	assert.Empty(t, v3.ForecastDays[4].Sunset)
}
