// SPDX-License-Identifier: MIT

package weather

import (
	"fmt"
	"time"
)

// Units names the measurement units a document was rendered in.
type Units struct {
	Temp     string
	Distance string
	Speed    string
	Pressure string
	Precip   string
}

// UnitsFor returns the metric or imperial unit set.
func UnitsFor(metric bool) Units {
	if metric {
		return Units{Temp: "C", Distance: "KM", Speed: "KM/H", Pressure: "MB", Precip: "MM"}
	}
	return Units{Temp: "F", Distance: "MI", Speed: "MPH", Pressure: "IN", Precip: "IN"}
}

// Temperature converts a Celsius value to the requested unit system.
func Temperature(celsius float64, metric bool) float64 {
	if metric {
		return celsius
	}
	return celsius*9.0/5.0 + 32.0
}

// Speed converts a km/h value to the requested unit system.
func Speed(kmh float64, metric bool) float64 {
	if metric {
		return kmh
	}
	return kmh * 0.621371
}

// To12Hour converts a 24-hour "15:04" string to "3:04 PM". Malformed input
// is returned unchanged.
func To12Hour(hhmm string) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}

// TimezoneInfo describes a location's offset situation the way the legacy
// document wants it: the standard (non-DST) offset and the current one.
type TimezoneInfo struct {
	StandardOffsetHours int
	CurrentOffsetHours  int
	Abbreviation        string
}

// TimezoneInfoFor computes TimezoneInfo for an IANA zone name at time now.
// Unknown zones degrade to UTC.
func TimezoneInfoFor(name string, now time.Time) TimezoneInfo {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return TimezoneInfo{Abbreviation: "UTC"}
	}
	local := now.In(loc)
	abbr, current := local.Zone()

	// The standard offset is whichever of midwinter/midsummer is smaller;
	// DST only ever adds time.
	jan := time.Date(local.Year(), time.January, 1, 12, 0, 0, 0, loc)
	jul := time.Date(local.Year(), time.July, 1, 12, 0, 0, 0, loc)
	_, janOff := jan.Zone()
	_, julOff := jul.Zone()
	standard := janOff
	if julOff < janOff {
		standard = julOff
	}

	return TimezoneInfo{
		StandardOffsetHours: standard / 3600,
		CurrentOffsetHours:  current / 3600,
		Abbreviation:        abbr,
	}
}

// FormatObsDate converts "2006-01-02" to the widget's "1/2/2006" form.
func FormatObsDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// WeekdayName converts "2006-01-02" to the full English weekday name.
func WeekdayName(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Weekday().String()
}
