//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlore/weathergen/internal/adapter/bom"
	"github.com/windlore/weathergen/internal/adapter/epw"
	"github.com/windlore/weathergen/internal/adapter/grid"
	"github.com/windlore/weathergen/internal/adapter/tmy3"
	"github.com/windlore/weathergen/internal/config"
	"github.com/windlore/weathergen/internal/domain"
	"github.com/windlore/weathergen/internal/observability"
	"github.com/windlore/weathergen/internal/pipeline"
	"github.com/windlore/weathergen/internal/solar"
)

// The fixture station sits at raster cell (1, 2), so every generated
// raster is a 2x3 matrix rather than the full continental grid.
const (
	testYear = 2019
	testTZ   = 10.0
	testLat  = -10.1
	testLon  = 112.13
	testCode = "001100"
)

// obsHeader mirrors a real HM01X export: a clock-time group first, then
// the standard-time group the reader keys on, then the channels.
const obsHeader = "hm, Station Number," +
	" Year Month Day Hour Minutes in YYYY, MM, DD, HH24, MI format in Local time," +
	" Year Month Day Hour Minutes in YYYY, MM, DD, HH24, MI format in Local standard time," +
	" Precipitation since 9am local time in mm, Quality of precipitation," +
	" Air Temperature in degrees C, Quality of air temperature," +
	" Wet bulb temperature in degrees C, Quality of wet bulb temperature," +
	" Dew point temperature in degrees C, Quality of dew point temperature," +
	" Relative humidity in percentage %, Quality of relative humidity," +
	" Wind speed in km/h, Wind speed quality," +
	" Wind direction in degrees true, Wind direction quality," +
	" Station level pressure in hPa, Quality of station level pressure, #"

type fixtureTree struct {
	details      string
	observations string
	gridRoot     string
}

// buildFixtureTree writes a complete station-year to a temp directory:
// the fixed-width details file, a half-hourly observations CSV with
// constant measured values, and one raster per variable per hour. A
// non-nil skipRaster elides the files it selects.
func buildFixtureTree(t *testing.T, skipRaster func(variable string, utc time.Time) bool) fixtureTree {
	t.Helper()
	dir := t.TempDir()
	ft := fixtureTree{
		details:      filepath.Join(dir, "HM01X_StnDet.txt"),
		observations: filepath.Join(dir, "HM01X_Data.txt"),
		gridRoot:     filepath.Join(dir, "grids"),
	}

	line := detailsLine(testCode, "BROWSE REEF AWS", "WA", testLat, testLon, 4.0)
	require.NoError(t, os.WriteFile(ft.details, []byte(line+"\n"), 0o644))

	writeObservations(t, ft.observations)
	require.NoError(t, os.MkdirAll(ft.gridRoot, 0o755))
	writeGrids(t, ft.gridRoot, skipRaster)
	return ft
}

func detailsLine(code, name, state string, lat, lon, elev float64) string {
	line := []byte(strings.Repeat(" ", 170))
	put := func(off int, s string) { copy(line[off:], s) }
	put(0, "st,")
	put(3, code)
	put(15, name)
	put(72, fmt.Sprintf("%8.4f", lat))
	put(81, fmt.Sprintf("%9.4f", lon))
	put(107, state)
	put(111, fmt.Sprintf("%6.1f", elev))
	put(153, "  0")
	put(157, "  0")
	put(161, "  0")
	return string(line)
}

// writeObservations emits one row per half hour with constant values:
// 20.0 C dry bulb, 15.0 C wet bulb, 12.0 C dew point, 60% humidity,
// 10.8 km/h wind from 90 degrees, 1013.2 hPa.
func writeObservations(t *testing.T, path string) {
	t.Helper()
	zone := domain.FixedZone(testTZ)
	start := time.Date(testYear, time.January, 1, 0, 0, 0, 0, zone)
	end := start.AddDate(1, 0, 0)

	var b strings.Builder
	b.WriteString(obsHeader + "\n")
	for at := start; at.Before(end); at = at.Add(30 * time.Minute) {
		stamp := fmt.Sprintf("%d,%02d,%02d,%02d,%02d",
			at.Year(), int(at.Month()), at.Day(), at.Hour(), at.Minute())
		fmt.Fprintf(&b, "hm,%s,%s,%s,0.0,Y,20.0,Y,15.0,Y,12.0,Y,60,Y,10.8,Y,90,Y,1013.2,Y,#\n",
			testCode, stamp, stamp)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

func writeGrids(t *testing.T, root string, skip func(variable string, utc time.Time) bool) {
	t.Helper()
	zone := domain.FixedZone(testTZ)
	start := time.Date(testYear, time.January, 1, 0, 0, 0, 0, zone)
	end := start.AddDate(1, 0, 0)

	for at := start; at.Before(end); at = at.Add(time.Hour) {
		utc := at.UTC()
		for _, variable := range []string{"ghi", "dni"} {
			if skip != nil && skip(variable, utc) {
				continue
			}
			dir := filepath.Join(root, strings.ToUpper(variable), strconv.Itoa(utc.Year()))
			require.NoError(t, os.MkdirAll(dir, 0o755))
			name := fmt.Sprintf("solar_%s_%s_%02dUT.txt", variable, utc.Format("20060102"), utc.Hour())
			writeRaster(t, filepath.Join(dir, name), irradiance(variable, at))
		}
	}
}

// writeRaster emits the six-line ESRI header and a matrix just large
// enough to hold the station cell, with -999 everywhere else.
func writeRaster(t *testing.T, path string, value float64) {
	t.Helper()
	const row, col = 1, 2
	var b strings.Builder
	fmt.Fprintf(&b, "ncols %d\nnrows %d\nxllcorner 112.025\nyllcorner -43.925\ncellsize 0.05\nNODATA_value -999\n",
		col+1, row+1)
	for r := 0; r <= row; r++ {
		for c := 0; c <= col; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			if r == row && c == col {
				fmt.Fprintf(&b, "%g", value)
			} else {
				b.WriteString("-999")
			}
		}
		b.WriteByte('\n')
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

// irradiance follows a half-sine over local hours 6 to 18, peaking at
// local noon: 1000 W/m2 global, 950 W/m2 direct.
func irradiance(variable string, at time.Time) float64 {
	h := float64(at.Hour())
	if h < 6 || h >= 18 {
		return 0
	}
	s := math.Sin(math.Pi * (h - 6) / 12)
	if variable == "dni" {
		return math.Round(950 * s)
	}
	return math.Round(1000 * s * s)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestGenerateYearEndToEnd runs the full path over a real fixture tree:
// details and observations through the bom adapter, rasters through the
// cached grid source, the pipeline reconciling the year, and both
// serializers rendering it.
func TestGenerateYearEndToEnd(t *testing.T) {
	ctx := context.Background()
	ft := buildFixtureTree(t, nil)

	st, err := bom.ReadStationDetails(ft.details, testCode)
	require.NoError(t, err)
	assert.Equal(t, "BROWSE REEF AWS", st.Name)
	assert.InDelta(t, testLat, st.Latitude, 1e-9)
	assert.InDelta(t, testLon, st.Longitude, 1e-9)

	limits, err := config.LoadLimits("")
	require.NoError(t, err)

	metrics := observability.NewMetricsForTesting()
	logger := discardLogger()

	reader, err := grid.NewReader(ft.gridRoot, st.Latitude, st.Longitude, logger, metrics)
	require.NoError(t, err)
	gridSource := grid.NewCachedSource(reader, 4096, metrics)
	source := bom.NewSource(ft.observations, domain.FixedZone(testTZ), logger)

	ser := tmy3.NewWriter()
	p := pipeline.New(source, gridSource, logger, metrics, pipeline.Params{
		Year:             testYear,
		UTCOffset:        testTZ,
		Latitude:         st.Latitude,
		Longitude:        st.Longitude,
		MaxInterpolation: limits.MaxInterpolationHours,
		Tolerance:        limits.Tolerance(),
		Required:         ser.RequiredChannels(),
		Bounds:           limits.Bounds(),
	})

	res, err := p.Run(ctx)
	require.NoError(t, err)
	require.Len(t, res.Records, 8760)

	// Observations cover every hour, so nothing is interpolated; both
	// irradiance channels come entirely from the grid.
	assert.Equal(t, 2*8760, res.Stats.Observations)
	assert.Zero(t, res.Stats.Interpolated)
	assert.Zero(t, res.Stats.GridMisses)
	assert.Equal(t, 2*8760, res.Stats.GridSubstituted)
	assert.InDelta(t, float64(2*8760), testutil.ToFloat64(metrics.ValuesGridSubstituted), 0)

	// Each (variable, hour) pair is looked up exactly once.
	assert.InDelta(t, float64(2*8760), testutil.ToFloat64(metrics.GridCache.WithLabelValues("miss")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.GridCache.WithLabelValues("hit")), 0)

	// Local noon on 1 January: measured channels carry the station
	// constants, irradiance carries the raster sine peak.
	noon := res.Records[12]
	require.Equal(t, 12, noon.Time.Local.Hour())
	assert.InDelta(t, 20.0, noon.DryBulb, 1e-9)
	assert.InDelta(t, 12.0, noon.DewPoint, 1e-9)
	assert.InDelta(t, 60.0, noon.RelHumidity, 1e-9)
	assert.InDelta(t, 101320.0, noon.Pressure, 1e-6)
	assert.InDelta(t, 3.0, noon.WindSpeed, 1e-9)
	assert.InDelta(t, 90.0, noon.WindDirection, 1e-9)
	assert.InDelta(t, 1000.0, noon.GHI, 1e-9)
	assert.InDelta(t, 950.0, noon.DNI, 1e-9)

	// Solar-dependent outputs match the geometry at the 50-minute
	// observation point of the same hour.
	pos := solar.PositionAt(noon.Time.Local.Add(50*time.Minute), st.Latitude, st.Longitude)
	require.Greater(t, pos.CosZenith, 0.0)
	assert.InDelta(t, 1000-950*pos.CosZenith, noon.DHI, 1e-9)
	assert.InDelta(t, pos.ExtraterrestrialNormal(), noon.ETRN, 1e-9)
	assert.InDelta(t, pos.ExtraterrestrialHorizontal(), noon.ETR, 1e-9)

	// Before dawn the rasters read zero and the sun is down.
	night := res.Records[2]
	assert.Zero(t, night.GHI)
	assert.Zero(t, night.DNI)
	assert.Zero(t, night.DHI)
	assert.Zero(t, night.ETRN)

	// Both serializers render the complete non-leap year.
	var tmy3Out bytes.Buffer
	require.NoError(t, ser.Write(&tmy3Out, st, testYear, testTZ, res.Records))
	tmy3Lines := strings.Split(strings.TrimRight(tmy3Out.String(), "\n"), "\n")
	assert.Len(t, tmy3Lines, 2+8760)
	assert.True(t, strings.HasPrefix(tmy3Lines[2], "01/01/2019,01:50,"))

	var epwOut bytes.Buffer
	require.NoError(t, epw.NewWriter().Write(&epwOut, st, testYear, testTZ, res.Records))
	epwLines := strings.Split(strings.TrimRight(epwOut.String(), "\n"), "\n")
	require.Len(t, epwLines, 8+8760)
	assert.True(t, strings.HasPrefix(epwLines[0], "LOCATION,BROWSE REEF AWS (001100) in 2019,WA,AUS,"))
	assert.True(t, strings.HasPrefix(epwLines[8], "2019,1,1,1,50,"))
}

// TestMissingRasterLeavesHourUnresolved removes a single GHI raster and
// verifies the gap survives the whole pipeline as an incomplete-data
// failure naming exactly that hour.
func TestMissingRasterLeavesHourUnresolved(t *testing.T) {
	ctx := context.Background()

	// Local 15:00 on 2 January is 05UT; ordinal 39 on the timeline.
	missingUTC := time.Date(testYear, time.January, 2, 5, 0, 0, 0, time.UTC)
	ft := buildFixtureTree(t, func(variable string, utc time.Time) bool {
		return variable == "ghi" && utc.Equal(missingUTC)
	})

	st, err := bom.ReadStationDetails(ft.details, testCode)
	require.NoError(t, err)

	limits, err := config.LoadLimits("")
	require.NoError(t, err)

	metrics := observability.NewMetricsForTesting()
	logger := discardLogger()

	reader, err := grid.NewReader(ft.gridRoot, st.Latitude, st.Longitude, logger, metrics)
	require.NoError(t, err)
	gridSource := grid.NewCachedSource(reader, 4096, metrics)
	source := bom.NewSource(ft.observations, domain.FixedZone(testTZ), logger)

	ser := tmy3.NewWriter()
	p := pipeline.New(source, gridSource, logger, metrics, pipeline.Params{
		Year:             testYear,
		UTCOffset:        testTZ,
		Latitude:         st.Latitude,
		Longitude:        st.Longitude,
		MaxInterpolation: limits.MaxInterpolationHours,
		Tolerance:        limits.Tolerance(),
		Required:         ser.RequiredChannels(),
		Bounds:           limits.Bounds(),
	})

	_, err = p.Run(ctx)
	var incomplete *domain.IncompleteDataError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, testYear, incomplete.Year)
	require.Len(t, incomplete.Missing, 1)
	assert.Equal(t, domain.MissingValue{Ordinal: 39, Channel: domain.GHI}, incomplete.Missing[0])

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.GridFilesMissing), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.UnresolvedValues), 0)
}
