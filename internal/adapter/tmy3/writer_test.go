package tmy3

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlore/weathergen/internal/domain"
)

func testStation() domain.Station {
	return domain.Station{
		Code:      "070351",
		Name:      "CANBERRA AIRPORT",
		State:     "NSW",
		Latitude:  -35.3049,
		Longitude: 149.2004,
		Elevation: 578,
	}
}

// stampAt builds the timeline stamp the pipeline assigns to a local hour:
// the ordinal counts hours from Jan 1 00:00 of the same year.
func stampAt(at time.Time) domain.Timestamp {
	start := time.Date(at.Year(), time.January, 1, 0, 0, 0, 0, at.Location())
	return domain.Timestamp{Ordinal: int(at.Sub(start) / time.Hour), Local: at}
}

func testRecord(at time.Time) domain.Record {
	return domain.Record{
		Time:          stampAt(at),
		DryBulb:       20.1,
		DewPoint:      12.3,
		RelHumidity:   61,
		Pressure:      101320,
		WindSpeed:     3,
		WindDirection: 120,
		GHI:           500,
		DNI:           200,
		DHI:           150,
		ETR:           980,
		ETRN:          1392,
	}
}

func TestWriterWrite(t *testing.T) {
	zone := time.FixedZone("UTC+10.0", 10*3600)
	records := []domain.Record{
		testRecord(time.Date(2019, 1, 1, 0, 0, 0, 0, zone)),
		testRecord(time.Date(2019, 12, 31, 23, 0, 0, 0, zone)),
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter().Write(&buf, testStation(), 2019, 10.0, records))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, `070351, "CANBERRA AIRPORT in 2019",NS,10.0,-35.305,149.200,578`, lines[0])
	assert.Equal(t, columnHeader, lines[1])

	want := "01/01/2019,01:50,980,1392,500,1,5,200,1,5,150,1,0," +
		"-9900,1,0,-9900,1,0,-9900,1,0,-9900,1,0,-9900,?,9,-9900,?,9," +
		"20.1,A,7,12.3,A,7,61.0,A,7,1013,A,7,120,A,7,3.0,A,7," +
		"-9900,?,9,-9900,?,9,-9900,?,9,-9900,?,9,-9900,?,9,-9900,-9900,?,9"
	assert.Equal(t, want, lines[2])
	assert.Len(t, strings.Split(lines[2], ","), 68)

	assert.True(t, strings.HasPrefix(lines[3], "12/31/2019,24:50,"),
		"rows are hour-ending, so the last slot of a day is 24:50")
}

func TestWriterWrite_SkipsLeapDay(t *testing.T) {
	zone := time.FixedZone("UTC+10.0", 10*3600)
	records := []domain.Record{
		testRecord(time.Date(2020, 2, 28, 23, 0, 0, 0, zone)),
		testRecord(time.Date(2020, 2, 29, 0, 0, 0, 0, zone)),
		testRecord(time.Date(2020, 2, 29, 23, 0, 0, 0, zone)),
		testRecord(time.Date(2020, 3, 1, 0, 0, 0, 0, zone)),
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter().Write(&buf, testStation(), 2020, 10.0, records))

	out := buf.String()
	assert.NotContains(t, out, "02/29")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4, "two header lines plus the two non-leap-day rows")
}

func TestWriterRequiredChannels(t *testing.T) {
	required := NewWriter().RequiredChannels()

	assert.Len(t, required, 8)
	assert.Contains(t, required, domain.GHI)
	assert.Contains(t, required, domain.DNI)
	assert.NotContains(t, required, domain.WetBulb,
		"wet bulb only feeds derivation, records never carry it")
}
