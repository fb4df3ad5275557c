package bom

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/windlore/weathergen/internal/domain"
)

// channelColumn maps one BoM header name to a channel plus the factor that
// converts the published unit to the internal one.
type channelColumn struct {
	ch    domain.Channel
	scale float64
}

// Column headers as BoM publishes them. Wind speed appears as km/h in the
// half-hourly product and as m/s in some hourly exports; pressure arrives
// in hPa.
var channelColumns = map[string]channelColumn{
	"Air Temperature in degrees C":       {ch: domain.DryBulb, scale: 1},
	"Wet bulb temperature in degrees C":  {ch: domain.WetBulb, scale: 1},
	"Dew point temperature in degrees C": {ch: domain.DewPoint, scale: 1},
	"Relative humidity in percentage %":  {ch: domain.RelHumidity, scale: 1},
	"Wind speed in km/h":                 {ch: domain.WindSpeed, scale: 1.0 / 3.6},
	"Wind speed in m/s":                  {ch: domain.WindSpeed, scale: 1},
	"Wind direction in degrees true":     {ch: domain.WindDirection, scale: 1},
	"Station level pressure in hPa":      {ch: domain.Pressure, scale: 100},
}

// standardTimeMarker identifies the minutes column of the local standard
// time group. The local clock-time group earlier in the header is ignored
// because it jumps with daylight saving.
const standardTimeMarker = "Local standard time"

// Source reads half-hourly or hourly station observations from a BoM
// HM01X CSV export.
type Source struct {
	path   string
	zone   *time.Location
	logger *slog.Logger
}

// NewSource creates a Source reading path; timestamps are interpreted in
// zone, the station's fixed local standard offset.
func NewSource(path string, zone *time.Location, logger *slog.Logger) *Source {
	return &Source{path: path, zone: zone, logger: logger}
}

// ReadAll parses the whole export. Rows with unparseable timestamps and
// blank cells are skipped quietly; cells that should be numbers but are
// not are skipped and counted.
func (s *Source) ReadAll(ctx context.Context) ([]domain.Observation, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, &domain.DataSourceError{Source: s.path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, &domain.DataSourceError{Source: s.path, Err: fmt.Errorf("header: %w", err)}
	}
	cols, minuteIdx, err := mapColumns(header)
	if err != nil {
		return nil, &domain.DataSourceError{Source: s.path, Err: err}
	}

	var (
		out       []domain.Observation
		badValues int
		badRows   int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.DataSourceError{Source: s.path, Err: err}
		}

		obs, ok := s.parseRow(row, cols, minuteIdx, &badValues)
		if !ok {
			badRows++
			continue
		}
		out = append(out, obs)
	}

	if badValues > 0 || badRows > 0 {
		s.logger.Warn("skipped unparseable input",
			"path", s.path, "rows", badRows, "values", badValues)
	}
	return out, nil
}

// mapColumns locates the standard-time minutes column and every recognized
// channel column.
func mapColumns(header []string) (map[int]channelColumn, int, error) {
	minuteIdx := -1
	cols := make(map[int]channelColumn)
	for i, h := range header {
		h = strings.TrimSpace(h)
		if strings.Contains(h, standardTimeMarker) {
			minuteIdx = i
			continue
		}
		if cc, ok := channelColumns[h]; ok {
			cols[i] = cc
		}
	}

	if minuteIdx < 4 {
		return nil, 0, fmt.Errorf("no local standard time columns in header")
	}
	if len(cols) == 0 {
		return nil, 0, fmt.Errorf("no recognized channel columns in header")
	}
	return cols, minuteIdx, nil
}

// parseRow converts one CSV row. The four columns before the minutes
// column are year, month, day and hour of the standard-time group.
func (s *Source) parseRow(row []string, cols map[int]channelColumn, minuteIdx int, badValues *int) (domain.Observation, bool) {
	if minuteIdx >= len(row) {
		return domain.Observation{}, false
	}

	ints := make([]int, 5)
	for i := range ints {
		v, err := strconv.Atoi(strings.TrimSpace(row[minuteIdx-4+i]))
		if err != nil {
			return domain.Observation{}, false
		}
		ints[i] = v
	}
	at := time.Date(ints[0], time.Month(ints[1]), ints[2], ints[3], ints[4], 0, 0, s.zone)

	values := make(map[domain.Channel]float64)
	for idx, cc := range cols {
		if idx >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			*badValues++
			continue
		}
		values[cc.ch] = v * cc.scale
	}
	// All cells blank still counts as an observation: the station reported,
	// it just measured nothing usable.
	return domain.Observation{At: at, Values: values}, true
}
