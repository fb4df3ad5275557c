// Package epw serializes finished annual records in the EnergyPlus
// weather (EPW) format.
package epw

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/windlore/weathergen/internal/domain"
)

// flagsField is the per-record data source and uncertainty block. No
// per-field quality codes are recorded, so all 39 positions are blank.
var flagsField = strings.Repeat("_", 39)

// Writer emits EPW files. Unlike TMY3, EPW carries the whole year, leap
// day included.
type Writer struct{}

func NewWriter() *Writer { return &Writer{} }

// RequiredChannels lists the channels every record must resolve before it
// can be serialized.
func (*Writer) RequiredChannels() []domain.Channel {
	return []domain.Channel{
		domain.DryBulb, domain.DewPoint, domain.RelHumidity, domain.Pressure,
		domain.WindSpeed, domain.WindDirection, domain.GHI, domain.DNI,
	}
}

// Write emits the eight EPW header lines and one data row per record.
func (*Writer) Write(out io.Writer, st domain.Station, year int, tz float64, records []domain.Record) error {
	w := bufio.NewWriter(out)

	fmt.Fprintf(w, "LOCATION,%s (%s) in %d,%s,AUS,BoM,%s,%.2f,%.2f,%.1f,%.1f\n",
		st.Name, st.Code, year, st.State, st.Code,
		st.Latitude, st.Longitude, tz, st.Elevation)
	fmt.Fprintln(w, "DESIGN CONDITIONS,0")
	fmt.Fprintln(w, "TYPICAL/EXTREME PERIODS,,")
	fmt.Fprintln(w, "GROUND TEMPERATURES,,,,,,")
	fmt.Fprintln(w, "HOLIDAYS/DAYLIGHT SAVINGS,No,0,0,0")
	fmt.Fprintf(w, "COMMENTS 1,Generated by weathergen from Bureau of Meteorology station observations and gridded irradiance (%d)\n", year)
	fmt.Fprintf(w, "COMMENTS 2,Times are local standard time (UTC%+.1f)\n", tz)
	fmt.Fprintf(w, "DATA PERIODS,1,1,Data,%s,1/ 1,12/31\n",
		time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Weekday())

	for _, rec := range records {
		fmt.Fprintf(w,
			"%d,%d,%d,%d,50,%s,%.1f,%.1f,%d,%d,%d,%d,9999,%d,%d,%d,"+
				"999999,999999,999999,999999,%d,%.1f,99,99,9999,99999,9,"+
				"999999999,99999,0.999,999,99,999,0,99\n",
			rec.Time.Local.Year(), int(rec.Time.Local.Month()), rec.Time.Local.Day(), rec.Time.Local.Hour()+1,
			flagsField,
			rec.DryBulb, rec.DewPoint, round(rec.RelHumidity), round(rec.Pressure),
			round(rec.ETR), round(rec.ETRN),
			round(rec.GHI), round(rec.DNI), round(rec.DHI),
			round(rec.WindDirection), rec.WindSpeed)
	}
	return w.Flush()
}

func round(v float64) int { return int(math.Round(v)) }
