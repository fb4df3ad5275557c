// Command genfixtures writes a synthetic station-year fixture tree for
// exercising weathergen end to end: a station details file, a half-hourly
// observations export, and a gridded irradiance tree sized to the
// station's raster cell. It uses the real georeference and psychrometric
// code so the fixtures stay consistent with pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genfixtures -out fixtures -year 2019
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/windlore/weathergen/internal/adapter/grid"
	"github.com/windlore/weathergen/internal/domain"
)

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

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "fixtures", "directory to write fixtures into")
	year := flag.Int("year", 2019, "year to generate")
	code := flag.String("st", "070351", "station code to write")
	lat := flag.Float64("lat", -10.1, "station latitude")
	lon := flag.Float64("lon", 112.13, "station longitude")
	tz := flag.Float64("tz", 10.0, "time zone as hours east of UTC")
	flag.Parse()

	row, col, err := grid.Cell(*lat, *lon)
	if err != nil {
		return fmt.Errorf("station cell: %w", err)
	}
	log.Printf("station %s at (%.4f, %.4f), raster cell (%d, %d)", *code, *lat, *lon, row, col)

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}
	if err := writeDetails(*out, *code, *lat, *lon); err != nil {
		return fmt.Errorf("details: %w", err)
	}
	if err := writeObservations(*out, *code, *year, *tz); err != nil {
		return fmt.Errorf("observations: %w", err)
	}
	n, err := writeGrids(*out, *year, *tz, row, col)
	if err != nil {
		return fmt.Errorf("grids: %w", err)
	}
	log.Printf("wrote %d raster files", n)

	log.Printf("generate a weather file with:")
	log.Printf("  weathergen --grids %s/grids -y %d --st %s --hm-data %s/HM01X_Data_%s.txt"+
		" --hm-details %s/HM01X_StnDet.txt --tz %.1f -o %d.epw",
		*out, *year, *code, *out, *code, *out, *tz, *year)
	return nil
}

// writeDetails emits a fixed-width station details file: one decoy record
// and the requested station, fields at their published byte offsets.
func writeDetails(out, code string, lat, lon float64) error {
	var b strings.Builder
	b.WriteString(detailsLine("089002", "DECOY STATION", -37.5127, 143.7911))
	b.WriteString(detailsLine(code, "GENERATED TEST STATION", lat, lon))
	return os.WriteFile(filepath.Join(out, "HM01X_StnDet.txt"), []byte(b.String()), 0o644)
}

func detailsLine(code, name string, lat, lon float64) string {
	line := []byte(strings.Repeat(" ", 170))
	copy(line[0:], "st,")
	copy(line[3:], code)
	copy(line[15:], name)
	copy(line[72:], fmt.Sprintf("%8.4f", lat))
	copy(line[81:], fmt.Sprintf("%9.4f", lon))
	copy(line[107:], "NSW")
	copy(line[111:], fmt.Sprintf("%6.1f", 578.0))
	copy(line[153:], "  0")
	copy(line[157:], "  0")
	copy(line[161:], "  0")
	return string(line) + "\n"
}

// writeObservations emits a half-hourly year of smoothly varying weather,
// with one two-hour temperature dropout (inside interpolation range) and
// one implausible spike (dropped by the range check).
func writeObservations(out, code string, year int, tz float64) error {
	zone := domain.FixedZone(tz)
	f, err := os.Create(filepath.Join(out, fmt.Sprintf("HM01X_Data_%s.txt", code)))
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, obsHeader)

	start := time.Date(year, 1, 1, 0, 0, 0, 0, zone)
	end := start.AddDate(1, 0, 0)
	for at := start; at.Before(end); at = at.Add(30 * time.Minute) {
		fmt.Fprintln(w, obsRow(code, at))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func obsRow(code string, at time.Time) string {
	h := float64(at.Hour()) + float64(at.Minute())/60
	doy := float64(at.YearDay())

	temp := 15 + 10*math.Sin(2*math.Pi*(h-9)/24) + 5*math.Sin(2*math.Pi*(doy-15)/365)
	rh := math.Min(100, math.Max(20, 85-2.5*(temp-10)))
	dew := domain.DewPointFromRelHumidity(temp, rh)
	wet := (temp + dew) / 2
	windKmh := math.Max(0, 12+8*math.Sin(2*math.Pi*h/24+1))
	windDir := math.Mod(180+120*math.Sin(2*math.Pi*doy/365)+60*math.Sin(2*math.Pi*h/24)+360, 360)
	pressHPa := 1013 + 5*math.Sin(2*math.Pi*doy/365)

	tempCell := fmt.Sprintf("%.1f", temp)
	switch {
	case at.Month() == time.January && at.Day() == 5 && at.Hour() >= 10 && at.Hour() <= 12:
		// Blank half-hours 10:00 through 12:30 leave aligned hours 11 and
		// 12 empty: a two-hour gap, right at the interpolation limit.
		tempCell = ""
	case at.Month() == time.January && at.Day() == 20 && at.Hour() == 14 && at.Minute() == 0:
		tempCell = "99.9"
	}

	stamp := fmt.Sprintf("%d,%02d,%02d,%02d,%02d",
		at.Year(), int(at.Month()), at.Day(), at.Hour(), at.Minute())
	return fmt.Sprintf("hm,%s,%s,%s,0.0,Y,%s,Y,%.1f,Y,%.1f,Y,%.0f,Y,%.1f,Y,%.0f,Y,%.1f,Y,#",
		code, stamp, stamp, tempCell, wet, dew, rh, windKmh, windDir, pressHPa)
}

// writeGrids emits one GHI and one DNI raster per hour of the local year,
// sized just large enough to cover the station's cell. Cells other than
// the station's carry the missing sentinel, as open-water cells do in the
// real rasters.
func writeGrids(out string, year int, tz float64, row, col int) (int, error) {
	zone := domain.FixedZone(tz)
	start := time.Date(year, 1, 1, 0, 0, 0, 0, zone)
	end := start.AddDate(1, 0, 0)

	n := 0
	for at := start; at.Before(end); at = at.Add(time.Hour) {
		utc := at.UTC()
		for _, v := range []string{"ghi", "dni"} {
			dir := filepath.Join(out, "grids", strings.ToUpper(v), strconv.Itoa(utc.Year()))
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return n, err
			}
			name := fmt.Sprintf("solar_%s_%s_%02dUT.txt", v, utc.Format("20060102"), utc.Hour())
			if err := writeRaster(filepath.Join(dir, name), irradiance(v, at), row, col); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

func writeRaster(path string, value, row, col int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "ncols %d\n", col+1)
	fmt.Fprintf(&b, "nrows %d\n", row+1)
	b.WriteString("xllcorner 112.025\n")
	b.WriteString("yllcorner -43.925\n")
	b.WriteString("cellsize 0.05\n")
	b.WriteString("NODATA_value -999\n")
	for r := 0; r <= row; r++ {
		cells := make([]string, col+1)
		for c := 0; c <= col; c++ {
			if r == row && c == col {
				cells[c] = strconv.Itoa(value)
			} else {
				cells[c] = "-999"
			}
		}
		b.WriteString(strings.Join(cells, " ") + "\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// irradiance is a clear-sky-ish curve over local hour: GHI follows sin²,
// DNI a flatter sine, both zero at night.
func irradiance(variable string, at time.Time) int {
	h := float64(at.Hour())
	if h < 6 || h > 18 {
		return 0
	}
	x := math.Sin(math.Pi * (h - 6) / 12)
	if variable == "dni" {
		return int(math.Round(950 * x))
	}
	return int(math.Round(1000 * x * x))
}
