// Package bom reads Bureau of Meteorology surface observation exports: the
// fixed-width station details file and the half-hourly HM01X data CSV.
package bom

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/windlore/weathergen/internal/domain"
)

// Byte windows of the fixed-width station details record. The format
// predates delimiters; positions come from the published layout.
const (
	detNumberFrom, detNumberTo             = 3, 9
	detNameFrom, detNameTo                 = 15, 55
	detLatFrom, detLatTo                   = 72, 80
	detLonFrom, detLonTo                   = 81, 90
	detStateFrom, detStateTo               = 107, 110
	detElevFrom, detElevTo                 = 111, 117
	detWrongFrom, detWrongTo               = 153, 156
	detSuspectFrom, detSuspectTo           = 157, 160
	detInconsistentFrom, detInconsistentTo = 161, 164

	detMinLineLen = detInconsistentTo
)

// ReadStationDetails scans a BoM station details file for the record of
// one station code and parses its fixed-width fields.
func ReadStationDetails(path, code string) (domain.Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Station{}, &domain.DataSourceError{Source: path, Err: err}
	}
	defer f.Close()

	needle := "st," + code
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, needle) {
			continue
		}
		st, err := parseDetailsLine(line)
		if err != nil {
			return domain.Station{}, &domain.DataSourceError{Source: path, Err: err}
		}
		return st, nil
	}
	if err := sc.Err(); err != nil {
		return domain.Station{}, &domain.DataSourceError{Source: path, Err: err}
	}
	return domain.Station{}, &domain.DataSourceError{
		Source: path,
		Err:    fmt.Errorf("station %s not found", code),
	}
}

func parseDetailsLine(line string) (domain.Station, error) {
	if len(line) < detMinLineLen {
		return domain.Station{}, fmt.Errorf("details record too short: %d bytes", len(line))
	}
	field := func(from, to int) string { return strings.TrimSpace(line[from:to]) }

	lat, err := strconv.ParseFloat(field(detLatFrom, detLatTo), 64)
	if err != nil {
		return domain.Station{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(field(detLonFrom, detLonTo), 64)
	if err != nil {
		return domain.Station{}, fmt.Errorf("longitude: %w", err)
	}
	elev, err := strconv.ParseFloat(field(detElevFrom, detElevTo), 64)
	if err != nil {
		return domain.Station{}, fmt.Errorf("elevation: %w", err)
	}

	quality, err := parseQuality(field)
	if err != nil {
		return domain.Station{}, err
	}

	return domain.Station{
		Code:      field(detNumberFrom, detNumberTo),
		Name:      field(detNameFrom, detNameTo),
		State:     field(detStateFrom, detStateTo),
		Latitude:  lat,
		Longitude: lon,
		Elevation: elev,
		Quality:   quality,
	}, nil
}

func parseQuality(field func(from, to int) string) (domain.QualityFlags, error) {
	var q domain.QualityFlags
	for _, p := range []struct {
		name     string
		from, to int
		dst      *float64
	}{
		{"wrong", detWrongFrom, detWrongTo, &q.WrongPct},
		{"suspect", detSuspectFrom, detSuspectTo, &q.SuspectPct},
		{"inconsistent", detInconsistentFrom, detInconsistentTo, &q.InconsistentPct},
	} {
		v, err := strconv.ParseFloat(field(p.from, p.to), 64)
		if err != nil {
			return q, fmt.Errorf("%s percentage: %w", p.name, err)
		}
		*p.dst = v
	}
	return q, nil
}
