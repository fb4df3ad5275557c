package solar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Canberra Airport, the reference site for most fixtures.
const (
	testLat = -35.31
	testLon = 149.20
)

// aest is local standard time for the east coast, UTC+10.
var aest = time.FixedZone("AEST", 10*3600)

func TestPositionAt_Declination(t *testing.T) {
	tests := []struct {
		name string
		when time.Time
		want float64
		tol  float64
	}{
		{"june solstice", time.Date(2019, time.June, 21, 12, 0, 0, 0, aest), 23.43, 0.1},
		{"december solstice", time.Date(2019, time.December, 22, 12, 0, 0, 0, aest), -23.43, 0.1},
		{"march equinox", time.Date(2019, time.March, 21, 12, 0, 0, 0, aest), 0, 0.5},
		{"september equinox", time.Date(2019, time.September, 23, 12, 0, 0, 0, aest), 0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := PositionAt(tt.when, testLat, testLon)
			assert.InDelta(t, tt.want, pos.DeclinationDeg, tt.tol)
		})
	}
}

func TestPositionAt_NoonZenith(t *testing.T) {
	// At solar noon the zenith angle is close to |latitude - declination|.
	winter := PositionAt(time.Date(2019, time.June, 21, 12, 0, 0, 0, aest), testLat, testLon)
	assert.InDelta(t, 58.7, winter.ZenithDeg, 1.0)

	summer := PositionAt(time.Date(2019, time.December, 22, 12, 0, 0, 0, aest), testLat, testLon)
	assert.InDelta(t, 11.9, summer.ZenithDeg, 1.0)
}

func TestPositionAt_NightSunBelowHorizon(t *testing.T) {
	pos := PositionAt(time.Date(2019, time.June, 21, 0, 0, 0, 0, aest), testLat, testLon)

	assert.Negative(t, pos.CosZenith)
	assert.Less(t, pos.ElevationDeg, 0.0)
	assert.Equal(t, 0.0, pos.ExtraterrestrialNormal())
	assert.Equal(t, 0.0, pos.ExtraterrestrialHorizontal())
}

func TestPositionAt_AzimuthQuadrants(t *testing.T) {
	// Southern hemisphere: sun rises in the east, passes north, sets west.
	morning := PositionAt(time.Date(2019, time.June, 21, 9, 0, 0, 0, aest), testLat, testLon)
	assert.Greater(t, morning.AzimuthDeg, 20.0)
	assert.Less(t, morning.AzimuthDeg, 70.0)

	afternoon := PositionAt(time.Date(2019, time.June, 21, 15, 0, 0, 0, aest), testLat, testLon)
	assert.Greater(t, afternoon.AzimuthDeg, 290.0)
	assert.Less(t, afternoon.AzimuthDeg, 340.0)
}

func TestPositionAt_EquationOfTime(t *testing.T) {
	// The equation of time peaks near +16.4 min in early November and
	// bottoms near -14.2 min in mid February.
	nov := PositionAt(time.Date(2019, time.November, 3, 12, 0, 0, 0, time.UTC), testLat, testLon)
	assert.InDelta(t, 16.4, nov.EqOfTimeMin, 0.5)

	feb := PositionAt(time.Date(2019, time.February, 12, 12, 0, 0, 0, time.UTC), testLat, testLon)
	assert.InDelta(t, -14.2, feb.EqOfTimeMin, 0.5)
}

func TestPositionAt_SunEarthDistance(t *testing.T) {
	perihelion := PositionAt(time.Date(2019, time.January, 3, 12, 0, 0, 0, time.UTC), testLat, testLon)
	assert.InDelta(t, 0.9833, perihelion.SunEarthDistAU, 0.001)

	aphelion := PositionAt(time.Date(2019, time.July, 4, 12, 0, 0, 0, time.UTC), testLat, testLon)
	assert.InDelta(t, 1.0167, aphelion.SunEarthDistAU, 0.001)
}

func TestExtraterrestrialIrradiance(t *testing.T) {
	// Near perihelion the normal irradiance runs about 3.4% above the solar
	// constant; the horizontal projection never exceeds it.
	noon := PositionAt(time.Date(2019, time.January, 3, 12, 0, 0, 0, aest), testLat, testLon)

	etrn := noon.ExtraterrestrialNormal()
	assert.InDelta(t, 1414, etrn, 4)

	etr := noon.ExtraterrestrialHorizontal()
	assert.Greater(t, etr, 0.0)
	assert.LessOrEqual(t, etr, etrn)
	assert.InDelta(t, etrn*noon.CosZenith, etr, 1e-9)
}

func TestPositionAt_ZoneIndependent(t *testing.T) {
	// The same instant expressed in different zones must agree.
	inUTC := time.Date(2019, time.June, 21, 2, 0, 0, 0, time.UTC)
	inAEST := inUTC.In(aest)

	a := PositionAt(inUTC, testLat, testLon)
	b := PositionAt(inAEST, testLat, testLon)
	assert.Equal(t, a, b)
}
