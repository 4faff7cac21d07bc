// SPDX-License-Identifier: MIT

package weather

import (
	"encoding/xml"
	"fmt"
	"time"

	"retrogate/internal/meteo"
)

// Document is the compact widget document: current conditions plus a
// five-day forecast.
type Document struct {
	XMLName  xml.Name  `xml:"weather"`
	City     string    `xml:"location>city"`
	Country  string    `xml:"location>country"`
	DateTime string    `xml:"datentime"`
	Current  CurrentEl `xml:"current"`
	Days     []DayEl   `xml:"forecast>day"`
}

// CurrentEl is the current-conditions element.
type CurrentEl struct {
	Temp      int         `xml:"temp"`
	Condition ConditionEl `xml:"condition"`
}

// ConditionEl carries the icon/text pair.
type ConditionEl struct {
	Icon int    `xml:"icon,attr"`
	Text string `xml:",chardata"`
}

// WindEl is a forecast day's wind block.
type WindEl struct {
	Degrees int    `xml:"direction>degrees"`
	Compass string `xml:"direction>compass"`
	Speed   int    `xml:"speed"`
}

// DayEl is one forecast day.
type DayEl struct {
	Name      string      `xml:"name,attr"`
	Date      string      `xml:"date,attr"`
	Condition ConditionEl `xml:"condition"`
	High      int         `xml:"temp>high"`
	Low       int         `xml:"temp>low"`
	Wind      WindEl      `xml:"wind"`
	UVI       int         `xml:"uvi"`
}

// maxForecastDays caps the compact document's forecast length.
const maxForecastDays = 5

// BuildDocument assembles the compact document from a resolved place name
// and forecast. Temperatures stay metric; the compact protocol predates the
// unit flag.
func BuildDocument(city, country string, f *meteo.Forecast, now time.Time) *Document {
	local := now.UTC().Add(time.Duration(f.UTCOffsetSeconds) * time.Second)
	cur := ConditionFor(f.Current.WeatherCode, f.Current.IsDay == 1)

	doc := &Document{
		City:     city,
		Country:  country,
		DateTime: local.Format("2006-01-02 03:04:05 PM"),
		Current: CurrentEl{
			Temp:      int(f.Current.Temperature),
			Condition: ConditionEl{Icon: cur.Icon, Text: cur.Text},
		},
	}

	n := f.Days()
	if n > maxForecastDays {
		n = maxForecastDays
	}
	for i := 0; i < n; i++ {
		cond := ConditionFor(at(f.Daily.WeatherCode, i), true)
		dayName := f.Daily.Time[i]
		if t, err := time.Parse("2006-01-02", f.Daily.Time[i]); err == nil {
			dayName = t.Format("Mon")
		}
		doc.Days = append(doc.Days, DayEl{
			Name:      dayName,
			Date:      f.Daily.Time[i],
			Condition: ConditionEl{Icon: cond.Icon, Text: cond.Text},
			High:      int(atF(f.Daily.TempMax, i)),
			Low:       int(atF(f.Daily.TempMin, i)),
			Wind: WindEl{
				Degrees: int(atF(f.Daily.WindDirection, i)),
				Compass: Compass(atF(f.Daily.WindDirection, i)),
				Speed:   int(atF(f.Daily.WindSpeedMax, i)),
			},
			UVI: int(atF(f.Daily.UVIndexMax, i)),
		})
	}
	return doc
}

// V3Document is the Sense-3 era widget document: nine forecast days,
// twenty-four forecast hours, astronomical tables and a unit declaration.
type V3Document struct {
	XMLName           xml.Name       `xml:"weather"`
	Product           string         `xml:"product,attr"`
	Units             UnitsEl        `xml:"units"`
	Local             LocalEl        `xml:"local"`
	CurrentConditions ConditionsEl   `xml:"currentconditions"`
	Planets           []PlanetEl     `xml:"planets>planet"`
	Moon              []MoonPhaseEl  `xml:"moon>phase"`
	ForecastURL       string         `xml:"forecast>url"`
	ForecastDays      []ForecastDay  `xml:"forecast>day"`
	ForecastHours     []ForecastHour `xml:"hourly>hour"`
	Copyright         int            `xml:"copyright,attr"`
}

type UnitsEl struct {
	Temp     string `xml:"temp"`
	Distance string `xml:"dist"`
	Speed    string `xml:"speed"`
	Pressure string `xml:"pres"`
	Precip   string `xml:"prec"`
}

// CodedNameEl renders <tag code="XX">Name</tag>.
type CodedNameEl struct {
	Code string `xml:"code,attr"`
	Name string `xml:",chardata"`
}

type LocalEl struct {
	City         string      `xml:"city"`
	AdminArea    CodedNameEl `xml:"adminArea"`
	Country      CodedNameEl `xml:"country"`
	Lat          string      `xml:"lat"`
	Lon          string      `xml:"lon"`
	Time         string      `xml:"time"`
	TimeZone     int         `xml:"timeZone"`
	ObsDaylight  int         `xml:"obsDaylight"`
	GmtOffset    int         `xml:"currentGmtOffset"`
	TimeZoneAbbr string      `xml:"timeZoneAbbreviation"`
}

type UVIndexEl struct {
	Index int    `xml:"index"`
	Text  string `xml:"text"`
}

type ConditionsEl struct {
	Daylight        string    `xml:"daylight"`
	URL             string    `xml:"url"`
	ObservationTime string    `xml:"observationtime"`
	Pressure        string    `xml:"pressure"`
	Temperature     int       `xml:"temperature"`
	RealFeel        string    `xml:"realfeel"`
	Humidity        string    `xml:"humidity"`
	WeatherText     string    `xml:"weathertext"`
	WeatherIcon     int       `xml:"weathericon"`
	WindGusts       int       `xml:"windgusts"`
	WindSpeed       int       `xml:"windspeed"`
	WindDirection   string    `xml:"winddirection"`
	Visibility      string    `xml:"visibility"`
	Precip          float64   `xml:"precip"`
	UVIndex         UVIndexEl `xml:"uvindex"`
	Dewpoint        string    `xml:"dewpoint"`
	CloudCover      string    `xml:"cloudcover"`
	ApparentTemp    int       `xml:"apparenttemp"`
	WindChill       int       `xml:"windchill"`
}

type PlanetEl struct {
	Name    string `xml:"name,attr"`
	Sunrise string `xml:"sunrise,attr"`
	Sunset  string `xml:"sunset,attr"`
}

type MoonPhaseEl struct {
	Date string `xml:"date,attr"`
	Text string `xml:"text,attr"`
	Age  int    `xml:"age,attr"`
}

type ForecastDay struct {
	Number   int    `xml:"number,attr"`
	URL      string `xml:"url"`
	ObsDate  string `xml:"obsdate"`
	DayCode  string `xml:"daycode"`
	Sunrise  string `xml:"sunrise"`
	Sunset   string `xml:"sunset"`
	Day      HalfEl `xml:"daytime"`
	Night    HalfEl `xml:"nighttime"`
	MaxUV    int    `xml:"maxuv"`
	TStorm   string `xml:"tstormprob"`
	RainAmt  string `xml:"rain"`
	SnowAmt  string `xml:"snow"`
	IceAmt   string `xml:"ice"`
	PrecAmt  string `xml:"precip"`
	HighTemp int    `xml:"hightemperature"`
	LowTemp  int    `xml:"lowtemperature"`
}

type HalfEl struct {
	TxtShort      string `xml:"txtshort"`
	TxtLong       string `xml:"txtlong"`
	Icon          int    `xml:"weathericon"`
	High          int    `xml:"hightemperature"`
	Low           int    `xml:"lowtemperature"`
	RealFeelHigh  int    `xml:"realfeelhigh"`
	RealFeelLow   int    `xml:"realfeellow"`
	WindSpeed     int    `xml:"windspeed"`
	WindDirection string `xml:"winddirection"`
	WindGust      int    `xml:"windgust"`
}

type ForecastHour struct {
	Time          string  `xml:"time,attr"`
	Icon          int     `xml:"weathericon"`
	Temp          int     `xml:"temperature"`
	RealFeel      int     `xml:"realfeel"`
	Precip        float64 `xml:"precip"`
	WindSpeed     int     `xml:"windspeed"`
	WindDirection string  `xml:"winddirection"`
	Text          string  `xml:"traditionaltext"`
	ObsDate       string  `xml:"obsdate"`
	MobileLink    string  `xml:"mobileLink"`
}

// v3Days and v3Hours are what the Sense-3 widget renders; shorter documents
// break its pager.
const (
	v3Days  = 9
	v3Hours = 24
	// The widget's hourly pager starts 13 entries in; see BuildV3Document.
	v3HourRotation = 13
)

var moonPhaseNames = [8]string{
	"New", "Waxing Crescent", "First", "Waxing Gibbous",
	"Full", "Waning Gibbous", "Last", "Waning Crescent",
}

// V3Input bundles the resolved location fields for the V3 document.
type V3Input struct {
	City        string
	Country     string
	CountryCode string
	RegionCode  string
	Lat         float64
	Lon         float64
	Metric      bool
}

// BuildV3Document assembles the Sense-3 document from a forecast. Fields the
// upstream cannot provide (pressure, humidity, per-planet rises) carry the
// same placeholder values the original service shipped.
func BuildV3Document(in V3Input, f *meteo.Forecast, now time.Time) *V3Document {
	units := UnitsFor(in.Metric)
	tz := TimezoneInfoFor(f.Timezone, now)
	obsTime := clockPart(f.Current.Time)
	cur := ConditionFor(f.Current.WeatherCode, f.Current.IsDay == 1)
	curTemp := round(Temperature(f.Current.Temperature, in.Metric))
	curWind := round(Speed(f.Current.WindSpeed, in.Metric))

	doc := &V3Document{
		Product:   "htc2 feed",
		Copyright: now.Year(),
		Units: UnitsEl{
			Temp:     units.Temp,
			Distance: units.Distance,
			Speed:    units.Speed,
			Pressure: units.Pressure,
			Precip:   units.Precip,
		},
		Local: LocalEl{
			City:         in.City,
			AdminArea:    CodedNameEl{Code: in.RegionCode, Name: in.RegionCode},
			Country:      CodedNameEl{Code: in.CountryCode, Name: in.Country},
			Lat:          fmt.Sprintf("%.5f", in.Lat),
			Lon:          fmt.Sprintf("%.5f", in.Lon),
			Time:         obsTime,
			TimeZone:     tz.StandardOffsetHours,
			ObsDaylight:  f.Current.IsDay,
			GmtOffset:    tz.CurrentOffsetHours,
			TimeZoneAbbr: tz.Abbreviation,
		},
		CurrentConditions: ConditionsEl{
			Daylight:        boolText(f.Current.IsDay == 1),
			ObservationTime: To12Hour(obsTime),
			Pressure:        "",
			Temperature:     curTemp,
			WeatherText:     cur.Text,
			WeatherIcon:     cur.Icon,
			WindGusts:       curWind,
			WindSpeed:       curWind,
			WindDirection:   Compass(f.Current.WindDirection),
			Precip:          firstOrZero(f.Hourly.Precipitation),
			UVIndex: UVIndexEl{
				Index: round(firstOrZero(f.Daily.UVIndexMax)),
				Text:  UVIndexText(firstOrZero(f.Daily.UVIndexMax)),
			},
			ApparentTemp: curTemp,
			WindChill:    curTemp,
		},
	}

	sunrise, sunset := "", ""
	if len(f.Daily.Sunrise) > 0 {
		sunrise = To12Hour(clockPart(f.Daily.Sunrise[0]))
	}
	if len(f.Daily.Sunset) > 0 {
		sunset = To12Hour(clockPart(f.Daily.Sunset[0]))
	}
	for _, p := range []string{"sun", "moon", "mercury", "venus", "mars", "jupiter", "saturn", "uranus", "neptune", "pluto"} {
		doc.Planets = append(doc.Planets, PlanetEl{Name: p, Sunrise: sunrise, Sunset: sunset})
	}

	// The widget expects a 32-day lunar table; the upstream has none, so a
	// synthetic 29-day cycle stands in, as in the original service.
	for i := 0; i < 32; i++ {
		doc.Moon = append(doc.Moon, MoonPhaseEl{
			Date: now.AddDate(0, 0, i).Format("01/02/2006"),
			Text: moonPhaseNames[(i/4)%len(moonPhaseNames)],
			Age:  (i % 29) + 1,
		})
	}

	days := f.Days()
	if days > v3Days {
		days = v3Days
	}
	for i := 0; i < days; i++ {
		day := ConditionFor(at(f.Daily.WeatherCode, i), true)
		night := ConditionFor(at(f.Daily.WeatherCode, i), false)
		high := round(Temperature(atF(f.Daily.TempMax, i), in.Metric))
		low := round(Temperature(atF(f.Daily.TempMin, i), in.Metric))
		wind := round(Speed(atF(f.Daily.WindSpeedMax, i), in.Metric))
		dir := Compass(atF(f.Daily.WindDirection, i))

		doc.ForecastDays = append(doc.ForecastDays, ForecastDay{
			Number:   i + 1,
			ObsDate:  FormatObsDate(f.Daily.Time[i]),
			DayCode:  WeekdayName(f.Daily.Time[i]),
			Sunrise:  To12Hour(clockPart(atS(f.Daily.Sunrise, i))),
			Sunset:   To12Hour(clockPart(atS(f.Daily.Sunset, i))),
			MaxUV:    round(atF(f.Daily.UVIndexMax, i)),
			TStorm:   "0",
			RainAmt:  "0.00",
			SnowAmt:  "0.00",
			IceAmt:   "0.00",
			PrecAmt:  "0.00",
			HighTemp: high,
			LowTemp:  low,
			Day: HalfEl{
				TxtShort: day.Text, TxtLong: day.Text, Icon: day.Icon,
				High: high, Low: low, RealFeelHigh: high, RealFeelLow: low,
				WindSpeed: wind, WindDirection: dir, WindGust: wind,
			},
			Night: HalfEl{
				TxtShort: night.Text, TxtLong: night.Text, Icon: night.Icon,
				High: high, Low: low, RealFeelHigh: high, RealFeelLow: low,
				WindSpeed: wind, WindDirection: dir, WindGust: wind,
			},
		})
	}

	hours := len(f.Hourly.Time)
	if hours > v3Hours {
		hours = v3Hours
	}
	for i := 0; i < hours; i++ {
		cond := ConditionFor(at(f.Hourly.WeatherCode, i), true)
		temp := round(Temperature(atF(f.Hourly.Temperature, i), in.Metric))
		doc.ForecastHours = append(doc.ForecastHours, ForecastHour{
			Time:          To12Hour(clockPart(f.Hourly.Time[i])),
			Icon:          cond.Icon,
			Temp:          temp,
			RealFeel:      temp,
			Precip:        atF(f.Hourly.Precipitation, i),
			WindSpeed:     round(Speed(atF(f.Hourly.WindSpeed, i), in.Metric)),
			WindDirection: Compass(atF(f.Hourly.WindDirection, i)),
			Text:          cond.Text,
			ObsDate:       datePart(f.Hourly.Time[i]),
		})
	}
	// The widget indexes the hourly list from the 13th entry; serving it in
	// raw order makes the pager start at midnight.
	if len(doc.ForecastHours) == v3Hours {
		rotated := make([]ForecastHour, 0, v3Hours)
		rotated = append(rotated, doc.ForecastHours[v3HourRotation:]...)
		rotated = append(rotated, doc.ForecastHours[:v3HourRotation]...)
		doc.ForecastHours = rotated
	}

	return doc
}

func clockPart(ts string) string {
	if len(ts) >= 5 {
		return ts[len(ts)-5:]
	}
	return ts
}

func datePart(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

func boolText(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

func firstOrZero(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	return vs[0]
}

func at(vs []int, i int) int {
	if i >= len(vs) {
		return 0
	}
	return vs[i]
}

func atF(vs []float64, i int) float64 {
	if i >= len(vs) {
		return 0
	}
	return vs[i]
}

func atS(vs []string, i int) string {
	if i >= len(vs) {
		return ""
	}
	return vs[i]
}
