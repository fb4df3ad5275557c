// Package tmy3 serializes finished annual records in the TMY3 file format
// consumed by SAM and similar simulation tools.
package tmy3

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/windlore/weathergen/internal/domain"
)

// columnHeader names all 68 fields of a TMY3 data row. Fields this tool
// does not populate carry the -9900 family of sentinels so the layout
// stays parseable by strict readers.
const columnHeader = "Date (MM/DD/YYYY),Time (HH:MM),ETR (W/m^2),ETRN (W/m^2)," +
	"GHI (W/m^2),GHI source,GHI uncert (%),DNI (W/m^2),DNI source,DNI uncert (%)," +
	"DHI (W/m^2),DHI source,DHI uncert (%),GH illum (lx),GH illum source," +
	"Global illum uncert (%),DN illum (lx),DN illum source,DN illum uncert (%)," +
	"DH illum (lx),DH illum source,DH illum uncert (%),Zenith lum (cd/m^2)," +
	"Zenith lum source,Zenith lum uncert (%),TotCld (tenths),TotCld source," +
	"TotCld uncert (code),OpqCld (tenths),OpqCld source,OpqCld uncert (code)," +
	"Dry-bulb (C),Dry-bulb source,Dry-bulb uncert (code),Dew-point (C)," +
	"Dew-point source,Dew-point uncert (code),RHum (%),RHum source," +
	"RHum uncert (code),Pressure (mbar),Pressure source,Pressure uncert (code)," +
	"Wdir (degrees),Wdir source,Wdir uncert (code),Wspd (m/s),Wspd source," +
	"Wspd uncert (code),Hvis (m),Hvis source,Hvis uncert (code),CeilHgt (m)," +
	"CeilHgt source,CeilHgt uncert (code),Pwat (cm),Pwat source,Pwat uncert (code)," +
	"AOD (unitless),AOD source,AOD uncert (code),Alb (unitless),Alb source," +
	"Alb uncert (code),Lprecip depth (mm),Lprecip quantity (hr),Lprecip source," +
	"Lprecip uncert (code)"

// Writer emits TMY3 files. The format has no leap-day convention, so
// Feb 29 records are dropped and every output carries 8760 data rows.
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

// Write emits the station header line, the column header and one data row
// per record. Times are written hour-ending (01:50 through 24:50).
func (*Writer) Write(out io.Writer, st domain.Station, year int, tz float64, records []domain.Record) error {
	w := bufio.NewWriter(out)

	fmt.Fprintf(w, "%s, %q,%s,%.1f,%.3f,%.3f,%d\n",
		st.Code, fmt.Sprintf("%s in %d", st.Name, year), first2(st.State), tz,
		st.Latitude, st.Longitude, round(st.Elevation))
	fmt.Fprintln(w, columnHeader)

	for _, rec := range records {
		if rec.Time.Local.Month() == time.February && rec.Time.Local.Day() == 29 {
			continue
		}
		fmt.Fprintf(w,
			"%02d/%02d/%d,%02d:50,%d,%d,%d,1,5,%d,1,5,%d,1,0,"+
				"-9900,1,0,-9900,1,0,-9900,1,0,-9900,1,0,-9900,?,9,-9900,?,9,"+
				"%.1f,A,7,%.1f,A,7,%.1f,A,7,%d,A,7,%d,A,7,%.1f,A,7,"+
				"-9900,?,9,-9900,?,9,-9900,?,9,-9900,?,9,-9900,?,9,-9900,-9900,?,9\n",
			int(rec.Time.Local.Month()), rec.Time.Local.Day(), rec.Time.Local.Year(), rec.Time.Local.Hour()+1,
			round(rec.ETR), round(rec.ETRN),
			round(rec.GHI), round(rec.DNI), round(rec.DHI),
			rec.DryBulb, rec.DewPoint, rec.RelHumidity,
			round(rec.Pressure/100), round(rec.WindDirection), rec.WindSpeed)
	}
	return w.Flush()
}

func round(v float64) int { return int(math.Round(v)) }

// first2 abbreviates a three-letter state code to the two-letter width the
// header field allows.
func first2(s string) string {
	if len(s) > 2 {
		return s[:2]
	}
	return s
}
