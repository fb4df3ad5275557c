// Package grid reads hourly solar irradiance rasters from an on-disk tree
// laid out as <root>/<VAR>/<year>/solar_<var>_<yyyymmdd>_<hh>UT.txt: six
// header lines, then one whitespace-separated row per grid row.
package grid

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/windlore/weathergen/internal/domain"
	"github.com/windlore/weathergen/internal/observability"
)

const (
	// missingSentinel marks cells the raster provider could not observe.
	missingSentinel = -999

	// headerLines precede the matrix in every raster file.
	headerLines = 6
)

// variables names the raster subtree for each grid-backed channel.
var variables = map[domain.Channel]string{
	domain.GHI: "ghi",
	domain.DNI: "dni",
}

// Reader is a domain.GridSource over a raster tree. The station's cell is
// fixed at construction; each lookup reads one cell of one file.
type Reader struct {
	root    string
	row     int
	col     int
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewReader validates the tree root and resolves the station's raster cell.
func NewReader(root string, lat, lon float64, logger *slog.Logger, metrics *observability.Metrics) (*Reader, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &domain.ConfigurationError{Err: fmt.Errorf("grid root: %w", err)}
	}
	if !info.IsDir() {
		return nil, &domain.ConfigurationError{Err: fmt.Errorf("grid root %s is not a directory", root)}
	}
	row, col, err := Cell(lat, lon)
	if err != nil {
		return nil, &domain.ConfigurationError{Err: err}
	}
	return &Reader{root: root, row: row, col: col, logger: logger, metrics: metrics}, nil
}

// Lookup reads the raster covering the slot's UTC hour. Channels with no
// raster subtree, hours whose file is absent and cells holding the missing
// sentinel all report ok=false; only unreadable or malformed files error.
func (r *Reader) Lookup(ctx context.Context, ch domain.Channel, ts domain.Timestamp) (float64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	name, ok := variables[ch]
	if !ok {
		return 0, false, nil
	}

	utc := ts.UTC()
	path := filepath.Join(r.root,
		strings.ToUpper(name),
		strconv.Itoa(utc.Year()),
		fmt.Sprintf("solar_%s_%s_%02dUT.txt", name, utc.Format("20060102"), utc.Hour()))

	v, ok, err := r.readCell(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.metrics.GridFilesMissing.Inc()
			r.logger.Debug("grid raster missing", "path", path)
			return 0, false, nil
		}
		return 0, false, &domain.DataSourceError{Source: path, Err: err}
	}
	return v, ok, nil
}

// Serves reports whether the raster tree carries a subtree for ch.
func (r *Reader) Serves(ch domain.Channel) bool {
	_, ok := variables[ch]
	return ok
}

// readCell returns the fixed cell of one raster file.
func (r *Reader) readCell(path string) (float64, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for skip := 0; skip < headerLines; skip++ {
		if !sc.Scan() {
			return 0, false, fmt.Errorf("raster shorter than %d header lines", headerLines)
		}
	}
	for line := 0; sc.Scan(); line++ {
		if line != r.row {
			continue
		}
		fields := strings.Fields(sc.Text())
		if r.col >= len(fields) {
			return 0, false, fmt.Errorf("raster row %d has %d columns, want at least %d",
				r.row, len(fields), r.col+1)
		}
		v, err := strconv.ParseFloat(fields[r.col], 64)
		if err != nil {
			return 0, false, fmt.Errorf("raster cell (%d,%d): %w", r.row, r.col, err)
		}
		if v == missingSentinel {
			return 0, false, nil
		}
		return v, true, nil
	}
	if err := sc.Err(); err != nil {
		return 0, false, err
	}
	return 0, false, fmt.Errorf("raster has no row %d", r.row)
}
