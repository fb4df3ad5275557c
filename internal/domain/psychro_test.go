package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const stdPressure = 101325.0 // Pa

func TestDewPointFromRelHumidity(t *testing.T) {
	tests := []struct {
		name        string
		dryBulb     float64
		relHumidity float64
		want        float64
	}{
		{"mild 50 percent", 20, 50, 9.26},
		{"saturated air", 15, 100, 15.0},
		{"hot dry afternoon", 35, 20, 8.69},
		{"subzero", -10, 80, -12.79},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DewPointFromRelHumidity(tt.dryBulb, tt.relHumidity)
			assert.InDelta(t, tt.want, got, 0.05)
		})
	}
}

func TestDewPointFromRelHumidity_FloorsHumidity(t *testing.T) {
	// Zero humidity would blow up the logarithm; it is treated as 1%.
	atZero := DewPointFromRelHumidity(20, 0)
	atOne := DewPointFromRelHumidity(20, 1)

	assert.InDelta(t, atOne, atZero, 1e-9)
	assert.False(t, math.IsNaN(atZero))
	assert.InDelta(t, -38.0, atZero, 0.2)
}

func TestRelHumidityFromDewPoint(t *testing.T) {
	tests := []struct {
		name     string
		dryBulb  float64
		dewPoint float64
		want     float64
	}{
		{"round trip of 50 percent", 20, 9.26, 50.0},
		{"dew point equals dry bulb", 15, 15, 100.0},
		{"very dry", 35, 8.69, 20.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelHumidityFromDewPoint(tt.dryBulb, tt.dewPoint)
			assert.InDelta(t, tt.want, got, 0.2)
		})
	}
}

func TestRelHumidityFromDewPoint_ClampsAbove100(t *testing.T) {
	// A dew point above the dry bulb is physically impossible but shows up
	// in noisy data; the result must stay within [0, 100].
	got := RelHumidityFromDewPoint(20, 25)
	assert.Equal(t, 100.0, got)
}

func TestDewPointFromWetBulb(t *testing.T) {
	// Standard psychrometric chart check: 25 C dry bulb with an 18 C wet
	// bulb at sea level sits near 50% humidity, dew point about 13.9 C.
	got := DewPointFromWetBulb(25, 18, stdPressure)
	assert.InDelta(t, 13.87, got, 0.05)

	rh := RelHumidityFromDewPoint(25, got)
	assert.InDelta(t, 50.0, rh, 1.0)
}

func TestDewPointFromWetBulb_NoDepression(t *testing.T) {
	// Wet bulb equal to dry bulb means saturation.
	got := DewPointFromWetBulb(12, 12, stdPressure)
	assert.InDelta(t, 12.0, got, 0.01)
}

func TestDewPointFromWetBulb_ExtremeDepressionStaysFinite(t *testing.T) {
	// An implausibly large depression drives computed vapor pressure
	// negative; the floor keeps the inversion defined.
	got := DewPointFromWetBulb(40, 5, stdPressure)

	assert.False(t, math.IsNaN(got))
	assert.False(t, math.IsInf(got, 0))
	assert.Less(t, got, -60.0)
}
