// Command validate performs integrity checks on generated annual weather
// files: structural shape, hour-by-hour timeline coverage, physical
// plausibility of every value, and cross-format agreement when both a
// TMY3 and an EPW rendering of the same station-year are given.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -year 2019 \
//	  -tmy3 070351_2019.tmy3 \
//	  -epw 070351_2019.epw
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/windlore/weathergen/internal/config"
	"github.com/windlore/weathergen/internal/domain"
)

const (
	epwHeaderLines  = 8
	epwFields       = 35
	tmy3HeaderLines = 2
	tmy3Fields      = 68
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// wxRow is one parsed data row, normalized to internal units so both
// formats validate against the same plausibility windows. Pressure is Pa
// (TMY3 stores mbar and is scaled on parse); hour is hour-ending 1..24.
type wxRow struct {
	line                   int
	year, month, day, hour int

	dry, dew, rh, pressure, wspd float64
	wdir, etr, etrn              int
	ghi, dni, dhi                int
}

func main() {
	tmy3Path := flag.String("tmy3", "", "path to a generated TMY3 file")
	epwPath := flag.String("epw", "", "path to a generated EPW file")
	limitsPath := flag.String("limits", "", "optional limits overlay for the plausibility windows")
	year := flag.Int("year", 0, "calendar year the files should cover")
	flag.Parse()

	if (*tmy3Path == "" && *epwPath == "") || *year == 0 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*tmy3Path, *epwPath, *limitsPath, *year); code != 0 {
		os.Exit(code)
	}
}

func run(tmy3Path, epwPath, limitsPath string, year int) int {
	limits, err := config.LoadLimits(limitsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load limits: %v\n", err)
		return 1
	}
	bounds := limits.Bounds()

	fmt.Println("=== Weather File Integrity Validation ===")
	fmt.Println()

	var (
		phases            []*phase
		tmy3Rows, epwRows []wxRow
	)

	if tmy3Path != "" {
		lines, err := readLines(tmy3Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load TMY3: %v\n", err)
			return 1
		}
		var p *phase
		p, tmy3Rows = validateTMY3Structure(lines)
		phases = append(phases, p,
			validateTimeline("TMY3", tmy3Rows, year, false),
			validateValues("TMY3", tmy3Rows, bounds))
	}

	if epwPath != "" {
		lines, err := readLines(epwPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load EPW: %v\n", err)
			return 1
		}
		var p *phase
		p, epwRows = validateEPWStructure(lines)
		phases = append(phases, p,
			validateTimeline("EPW", epwRows, year, true),
			validateValues("EPW", epwRows, bounds))
	}

	if tmy3Path != "" && epwPath != "" {
		phases = append(phases, validateAgreement(tmy3Rows, epwRows))
	}

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-32s %s\n", p.name, status)
	}

	fmt.Println()
	if tmy3Path != "" {
		fmt.Printf("TMY3: %s (%d data rows)\n", tmy3Path, len(tmy3Rows))
	}
	if epwPath != "" {
		fmt.Printf("EPW:  %s (%d data rows)\n", epwPath, len(epwRows))
	}

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	// Writers end the file with a newline; drop the empty tail.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines, nil
}

// ── Phase: Structure ──
// Validates the header block and the field shape of every data row, and
// parses rows for the later phases. A row that fails to parse is reported
// once and skipped.

var epwHeaderTags = []string{
	"LOCATION,", "DESIGN CONDITIONS,", "TYPICAL/EXTREME PERIODS,",
	"GROUND TEMPERATURES,", "HOLIDAYS/DAYLIGHT SAVINGS,",
	"COMMENTS 1,", "COMMENTS 2,", "DATA PERIODS,",
}

func validateEPWStructure(lines []string) (*phase, []wxRow) {
	p := &phase{name: "Structure (EPW)"}

	if len(lines) < epwHeaderLines+1 {
		p.errorf("file has %d lines, want %d header lines plus data", len(lines), epwHeaderLines)
		return p, nil
	}
	for i, tag := range epwHeaderTags {
		if !strings.HasPrefix(lines[i], tag) {
			p.errorf("line %d: want %s header, got %q", i+1, strings.TrimSuffix(tag, ","), truncate(lines[i]))
		}
	}

	var rows []wxRow
	for i, line := range lines[epwHeaderLines:] {
		lineNum := epwHeaderLines + i + 1
		fields := strings.Split(line, ",")
		if len(fields) != epwFields {
			p.errorf("line %d: %d fields, want %d", lineNum, len(fields), epwFields)
			continue
		}
		row, err := parseEPWRow(fields)
		if err != nil {
			p.errorf("line %d: %v", lineNum, err)
			continue
		}
		row.line = lineNum
		rows = append(rows, row)
	}
	return p, rows
}

func parseEPWRow(f []string) (wxRow, error) {
	var r wxRow
	var err error
	if r.year, err = atoi(f[0], "year"); err != nil {
		return r, err
	}
	if r.month, err = atoi(f[1], "month"); err != nil {
		return r, err
	}
	if r.day, err = atoi(f[2], "day"); err != nil {
		return r, err
	}
	if r.hour, err = atoi(f[3], "hour"); err != nil {
		return r, err
	}
	if f[4] != "50" {
		return r, fmt.Errorf("minute field is %q, want 50", f[4])
	}

	if r.dry, err = atof(f[6], "dry bulb"); err != nil {
		return r, err
	}
	if r.dew, err = atof(f[7], "dew point"); err != nil {
		return r, err
	}
	if r.rh, err = atof(f[8], "relative humidity"); err != nil {
		return r, err
	}
	if r.pressure, err = atof(f[9], "pressure"); err != nil {
		return r, err
	}
	if r.etr, err = atoi(f[10], "ETR"); err != nil {
		return r, err
	}
	if r.etrn, err = atoi(f[11], "ETRN"); err != nil {
		return r, err
	}
	if r.ghi, err = atoi(f[13], "GHI"); err != nil {
		return r, err
	}
	if r.dni, err = atoi(f[14], "DNI"); err != nil {
		return r, err
	}
	if r.dhi, err = atoi(f[15], "DHI"); err != nil {
		return r, err
	}
	if r.wdir, err = atoi(f[20], "wind direction"); err != nil {
		return r, err
	}
	if r.wspd, err = atof(f[21], "wind speed"); err != nil {
		return r, err
	}
	return r, nil
}

func validateTMY3Structure(lines []string) (*phase, []wxRow) {
	p := &phase{name: "Structure (TMY3)"}

	if len(lines) < tmy3HeaderLines+1 {
		p.errorf("file has %d lines, want %d header lines plus data", len(lines), tmy3HeaderLines)
		return p, nil
	}
	if strings.Count(lines[0], `"`) != 2 {
		p.errorf("line 1: station header %q lacks a quoted site name", truncate(lines[0]))
	}
	if !strings.HasPrefix(lines[1], "Date (MM/DD/YYYY),Time (HH:MM),") {
		p.errorf("line 2: want the TMY3 column header, got %q", truncate(lines[1]))
	} else if n := len(strings.Split(lines[1], ",")); n != tmy3Fields {
		p.errorf("line 2: column header names %d fields, want %d", n, tmy3Fields)
	}

	var rows []wxRow
	for i, line := range lines[tmy3HeaderLines:] {
		lineNum := tmy3HeaderLines + i + 1
		fields := strings.Split(line, ",")
		if len(fields) != tmy3Fields {
			p.errorf("line %d: %d fields, want %d", lineNum, len(fields), tmy3Fields)
			continue
		}
		row, err := parseTMY3Row(fields)
		if err != nil {
			p.errorf("line %d: %v", lineNum, err)
			continue
		}
		row.line = lineNum
		rows = append(rows, row)
	}
	return p, rows
}

func parseTMY3Row(f []string) (wxRow, error) {
	var r wxRow
	var err error

	date := strings.Split(f[0], "/")
	if len(date) != 3 {
		return r, fmt.Errorf("date %q is not MM/DD/YYYY", f[0])
	}
	if r.month, err = atoi(date[0], "month"); err != nil {
		return r, err
	}
	if r.day, err = atoi(date[1], "day"); err != nil {
		return r, err
	}
	if r.year, err = atoi(date[2], "year"); err != nil {
		return r, err
	}
	hh, ok := strings.CutSuffix(f[1], ":50")
	if !ok {
		return r, fmt.Errorf("time %q is not minute 50", f[1])
	}
	if r.hour, err = atoi(hh, "hour"); err != nil {
		return r, err
	}

	if r.etr, err = atoi(f[2], "ETR"); err != nil {
		return r, err
	}
	if r.etrn, err = atoi(f[3], "ETRN"); err != nil {
		return r, err
	}
	if r.ghi, err = atoi(f[4], "GHI"); err != nil {
		return r, err
	}
	if r.dni, err = atoi(f[7], "DNI"); err != nil {
		return r, err
	}
	if r.dhi, err = atoi(f[10], "DHI"); err != nil {
		return r, err
	}
	if r.dry, err = atof(f[31], "dry bulb"); err != nil {
		return r, err
	}
	if r.dew, err = atof(f[34], "dew point"); err != nil {
		return r, err
	}
	if r.rh, err = atof(f[37], "relative humidity"); err != nil {
		return r, err
	}
	if r.pressure, err = atof(f[40], "pressure"); err != nil {
		return r, err
	}
	r.pressure *= 100 // mbar to Pa
	if r.wdir, err = atoi(f[43], "wind direction"); err != nil {
		return r, err
	}
	if r.wspd, err = atof(f[46], "wind speed"); err != nil {
		return r, err
	}
	return r, nil
}

// ── Phase: Timeline ──
// Walks the year hour by hour and checks each row carries the expected
// stamp. TMY3 drops Feb 29; EPW keeps it.

func validateTimeline(label string, rows []wxRow, year int, keepsLeapDay bool) *phase {
	p := &phase{name: fmt.Sprintf("Timeline (%s)", label)}
	if len(rows) == 0 {
		p.errorf("no data rows")
		return p
	}

	expected := 8760
	if keepsLeapDay && isLeapYear(year) {
		expected = 8784
	}
	if len(rows) != expected {
		p.errorf("%d data rows, want %d for %d", len(rows), expected, year)
	}

	k := 0
	for t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); t.Year() == year; t = t.Add(time.Hour) {
		if !keepsLeapDay && t.Month() == time.February && t.Day() == 29 {
			continue
		}
		if k >= len(rows) {
			break
		}
		r := rows[k]
		k++
		if r.year != year || r.month != int(t.Month()) || r.day != t.Day() || r.hour != t.Hour()+1 {
			p.errorf("line %d: stamp %02d/%02d/%d hour %02d, want %02d/%02d/%d hour %02d",
				r.line, r.month, r.day, r.year, r.hour,
				int(t.Month()), t.Day(), year, t.Hour()+1)
		}
	}
	return p
}

// ── Phase: Plausibility ──
// Checks every value against the same per-channel windows the generator
// enforces on measured observations, plus the physical couplings the
// windows cannot express. Grid-substituted irradiance is not range-checked
// at ingest, so this is the first place an implausible raster cell shows up.

func validateValues(label string, rows []wxRow, bounds domain.Bounds) *phase {
	p := &phase{name: fmt.Sprintf("Plausibility (%s)", label)}

	for i := range rows {
		r := &rows[i]
		checks := []struct {
			ch domain.Channel
			v  float64
		}{
			{domain.DryBulb, r.dry},
			{domain.DewPoint, r.dew},
			{domain.RelHumidity, r.rh},
			{domain.Pressure, r.pressure},
			{domain.WindSpeed, r.wspd},
			{domain.WindDirection, float64(r.wdir)},
			{domain.GHI, float64(r.ghi)},
			{domain.DNI, float64(r.dni)},
		}
		for _, c := range checks {
			if !bounds.In(c.ch, c.v) {
				p.errorf("line %d: %s %g outside plausible range", r.line, c.ch, c.v)
			}
		}

		if r.dew > r.dry {
			p.errorf("line %d: dew point %.1f above dry bulb %.1f", r.line, r.dew, r.dry)
		}
		if r.dhi < 0 {
			p.errorf("line %d: DHI %d is negative", r.line, r.dhi)
		}
		if r.etr < 0 || r.etr > r.etrn {
			p.errorf("line %d: ETR %d outside [0, ETRN=%d]", r.line, r.etr, r.etrn)
		}
	}
	return p
}

// ── Phase: Cross-format agreement ──
// Zips the two renderings row by row (skipping the EPW leap day, which
// TMY3 drops) and checks the shared quantities agree up to each format's
// rounding. Pressure differs by up to half a mbar because TMY3 rounds to
// mbar and EPW to Pa.

func validateAgreement(tmy3Rows, epwRows []wxRow) *phase {
	p := &phase{name: "Cross-format agreement"}

	k := 0
	for i := range epwRows {
		e := &epwRows[i]
		if e.month == 2 && e.day == 29 {
			continue
		}
		if k >= len(tmy3Rows) {
			p.errorf("TMY3 ends early: no counterpart for EPW line %d onward", e.line)
			break
		}
		t := &tmy3Rows[k]
		k++

		if t.year != e.year || t.month != e.month || t.day != e.day || t.hour != e.hour {
			p.errorf("TMY3 line %d vs EPW line %d: stamp mismatch: %02d/%02d/%d hour %02d vs %02d/%02d/%d hour %02d",
				t.line, e.line, t.month, t.day, t.year, t.hour, e.month, e.day, e.year, e.hour)
			continue
		}

		pf := func(format string, args ...any) {
			p.errorf("%02d/%02d hour %02d: "+format, append([]any{t.month, t.day, t.hour}, args...)...)
		}
		if t.dry != e.dry {
			pf("dry bulb: TMY3 %.1f, EPW %.1f", t.dry, e.dry)
		}
		if t.dew != e.dew {
			pf("dew point: TMY3 %.1f, EPW %.1f", t.dew, e.dew)
		}
		if t.wspd != e.wspd {
			pf("wind speed: TMY3 %.1f, EPW %.1f", t.wspd, e.wspd)
		}
		if math.Abs(t.rh-e.rh) > 0.5 {
			pf("relative humidity: TMY3 %.1f, EPW %.0f", t.rh, e.rh)
		}
		if math.Abs(t.pressure-e.pressure) > 51 {
			pf("pressure: TMY3 %.0f Pa, EPW %.0f Pa", t.pressure, e.pressure)
		}
		if t.wdir != e.wdir {
			pf("wind direction: TMY3 %d, EPW %d", t.wdir, e.wdir)
		}
		if t.ghi != e.ghi || t.dni != e.dni || t.dhi != e.dhi {
			pf("irradiance: TMY3 %d/%d/%d, EPW %d/%d/%d", t.ghi, t.dni, t.dhi, e.ghi, e.dni, e.dhi)
		}
		if t.etr != e.etr || t.etrn != e.etrn {
			pf("extraterrestrial: TMY3 %d/%d, EPW %d/%d", t.etr, t.etrn, e.etr, e.etrn)
		}
	}
	if k < len(tmy3Rows) {
		p.errorf("%d TMY3 rows have no EPW counterpart", len(tmy3Rows)-k)
	}
	return p
}

// ── Helpers ──

func atoi(s, name string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", name, s)
	}
	return v, nil
}

func atof(s, name string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", name, s)
	}
	return v, nil
}

func isLeapYear(year int) bool {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366
}

func truncate(s string) string {
	if len(s) > 60 {
		return s[:57] + "..."
	}
	return s
}
