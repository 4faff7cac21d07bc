// SPDX-License-Identifier: MIT

// Package weather implements the legacy weather widget protocol on top of
// the geocoding and forecast clients.
package weather

// Condition is a legacy widget condition: a numeric icon the device maps to
// artwork, plus a short display text.
type Condition struct {
	Icon int
	Text string
}

// ConditionFor maps a WMO weather code to the legacy icon/text pair. The
// widget artwork distinguishes day and night variants.
func ConditionFor(code int, isDay bool) Condition {
	if isDay {
		return dayCondition(code)
	}
	return nightCondition(code)
}

func dayCondition(code int) Condition {
	switch code {
	case 0:
		return Condition{1, "Sunny"}
	case 1:
		return Condition{2, "Mostly Sunny"}
	case 2:
		return Condition{3, "Partly Sunny"}
	case 3:
		return Condition{7, "Cloudy"}
	case 45, 48:
		return Condition{11, "Fog"}
	case 51, 53, 55:
		return Condition{12, "Showers"}
	case 56, 57, 66, 67:
		return Condition{26, "Freezing Rain"}
	case 61, 63, 65:
		return Condition{18, "Rain"}
	case 71, 73, 75, 77, 85, 86:
		return Condition{22, "Snow"}
	case 80, 81, 82:
		return Condition{12, "Showers"}
	case 95, 96, 99:
		return Condition{15, "Thunderstorms"}
	default:
		return Condition{1, "Unknown"}
	}
}

func nightCondition(code int) Condition {
	switch code {
	case 0:
		return Condition{33, "Clear"}
	case 1:
		return Condition{34, "Mostly clear"}
	case 2:
		return Condition{35, "Intermittent clouds"}
	case 3:
		return Condition{37, "Mostly cloudy"}
	case 45, 48:
		return Condition{11, "Fog"}
	case 51, 53, 55, 61, 63, 65, 80, 81, 82:
		return Condition{38, "Partly cloudy with Showers"}
	case 56, 57, 66, 67:
		return Condition{26, "Freezing Rain"}
	case 71, 73, 75, 77, 85, 86:
		return Condition{42, "Mostly cloudy with Flurries"}
	case 95, 96, 99:
		return Condition{40, "Partly cloudy with Thunder Showers"}
	default:
		return Condition{33, "Unknown"}
	}
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Compass converts wind direction degrees to a 16-point compass bearing.
func Compass(degrees float64) string {
	idx := int(degrees/22.5+0.5) % 16
	if idx < 0 {
		idx += 16
	}
	return compassPoints[idx]
}

// UVIndexText converts a UV index value to the widget's descriptive scale.
func UVIndexText(index float64) string {
	switch {
	case index < 0:
		return "Invalid"
	case index <= 2:
		return "Low"
	case index <= 5:
		return "Moderate"
	case index <= 7:
		return "High"
	case index <= 10:
		return "Very High"
	default:
		return "Extreme"
	}
}
