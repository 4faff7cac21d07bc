// SPDX-License-Identifier: MIT

package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionFor(t *testing.T) {
	tests := []struct {
		name  string
		code  int
		isDay bool
		want  Condition
	}{
		{"clear day", 0, true, Condition{1, "Sunny"}},
		{"clear night", 0, false, Condition{33, "Clear"}},
		{"overcast day", 3, true, Condition{7, "Cloudy"}},
		{"overcast night", 3, false, Condition{37, "Mostly cloudy"}},
		{"fog same day and night", 45, false, Condition{11, "Fog"}},
		{"rain day", 63, true, Condition{18, "Rain"}},
		{"rain night folds into showers", 63, false, Condition{38, "Partly cloudy with Showers"}},
		{"snow day", 75, true, Condition{22, "Snow"}},
		{"thunderstorm day", 95, true, Condition{15, "Thunderstorms"}},
		{"unknown code day", 42, true, Condition{1, "Unknown"}},
		{"unknown code night", 42, false, Condition{33, "Unknown"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConditionFor(tt.code, tt.isDay))
		})
	}
}

func TestCompass(t *testing.T) {
	tests := []struct {
		degrees float64
		want    string
	}{
		{0, "N"},
		{11, "N"},
		{12, "NNE"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{348.75, "NNW"},
		{359, "N"},
		{360, "N"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Compass(tt.degrees), "degrees=%v", tt.degrees)
	}
}

func TestUVIndexText(t *testing.T) {
	assert.Equal(t, "Low", UVIndexText(0))
	assert.Equal(t, "Low", UVIndexText(2))
	assert.Equal(t, "Moderate", UVIndexText(3))
	assert.Equal(t, "High", UVIndexText(6.5))
	assert.Equal(t, "Very High", UVIndexText(9))
	assert.Equal(t, "Extreme", UVIndexText(11))
	assert.Equal(t, "Invalid", UVIndexText(-1))
}
