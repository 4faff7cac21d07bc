// SPDX-License-Identifier: MIT

package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTemperatureConversion(t *testing.T) {
	assert.Equal(t, 20.0, Temperature(20, true))
	assert.InDelta(t, 68.0, Temperature(20, false), 1e-9)
	assert.InDelta(t, 32.0, Temperature(0, false), 1e-9)
}

func TestSpeedConversion(t *testing.T) {
	assert.Equal(t, 100.0, Speed(100, true))
	assert.InDelta(t, 62.1371, Speed(100, false), 1e-4)
}

func TestUnitsFor(t *testing.T) {
	assert.Equal(t, Units{"C", "KM", "KM/H", "MB", "MM"}, UnitsFor(true))
	assert.Equal(t, Units{"F", "MI", "MPH", "IN", "IN"}, UnitsFor(false))
}

func TestTo12Hour(t *testing.T) {
	assert.Equal(t, "3:04 PM", To12Hour("15:04"))
	assert.Equal(t, "12:00 AM", To12Hour("00:00"))
	assert.Equal(t, "12:30 PM", To12Hour("12:30"))
	assert.Equal(t, "bogus", To12Hour("bogus"))
}

func TestTimezoneInfoFor(t *testing.T) {
	now := time.Date(2026, time.July, 15, 12, 0, 0, 0, time.UTC)

	utc := TimezoneInfoFor("UTC", now)
	assert.Equal(t, 0, utc.StandardOffsetHours)
	assert.Equal(t, 0, utc.CurrentOffsetHours)
	assert.Equal(t, "UTC", utc.Abbreviation)

	// Vienna in July runs DST: standard +1, current +2.
	vienna := TimezoneInfoFor("Europe/Vienna", now)
	assert.Equal(t, 1, vienna.StandardOffsetHours)
	assert.Equal(t, 2, vienna.CurrentOffsetHours)

	unknown := TimezoneInfoFor("Nope/Nowhere", now)
	assert.Equal(t, "UTC", unknown.Abbreviation)
}

func TestFormatObsDate(t *testing.T) {
	assert.Equal(t, "1/2/2026", FormatObsDate("2026-01-02"))
	assert.Equal(t, "11/30/2025", FormatObsDate("2025-11-30"))
	assert.Equal(t, "junk", FormatObsDate("junk"))
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "Saturday", WeekdayName("2026-08-29"))
}
