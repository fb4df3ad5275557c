// Command weathergen builds a complete annual weather file (EPW or TMY3)
// for one station-year from half-hourly station observations and a tree of
// gridded hourly irradiance rasters.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/windlore/weathergen/internal/adapter/bom"
	"github.com/windlore/weathergen/internal/adapter/epw"
	"github.com/windlore/weathergen/internal/adapter/grid"
	"github.com/windlore/weathergen/internal/adapter/tmy3"
	"github.com/windlore/weathergen/internal/config"
	"github.com/windlore/weathergen/internal/domain"
	"github.com/windlore/weathergen/internal/observability"
	"github.com/windlore/weathergen/internal/pipeline"
)

// serializer is the slice of an output format the command needs: which
// channels must resolve, and how records are laid out on disk.
type serializer interface {
	RequiredChannels() []domain.Channel
	Write(w io.Writer, st domain.Station, year int, tz float64, records []domain.Record) error
}

type options struct {
	grids     string
	year      int
	station   string
	hmData    string
	hmDetails string
	tz        float64
	out       string
	format    string
	limits    string
	maxInterp int
	tolerance int
	latlong   string
	name      string
	verbose   bool

	// set records which flags appeared on the command line, so explicit
	// values can override the limits file.
	set map[string]bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	logger := observability.NewLogger(level, cfg.LogFormat).
		With("run_id", uuid.NewString())
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, cfg, logger, metrics); err != nil {
		logRunFailure(logger, metrics, err)
		pushMetrics(cfg, opts, logger)
		os.Exit(1)
	}
	metrics.RunsCompleted.WithLabelValues("success").Inc()
	pushMetrics(cfg, opts, logger)
}

func run(ctx context.Context, opts options, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	limits, err := config.LoadLimits(opts.limits)
	if err != nil {
		return err
	}
	// Flags given explicitly beat the limits file.
	if opts.set["i"] {
		limits.MaxInterpolationHours = opts.maxInterp
	}
	if opts.set["tolerance"] {
		limits.AlignmentToleranceMinutes = opts.tolerance
	}

	var ser serializer
	switch strings.ToLower(opts.format) {
	case "tmy3":
		ser = tmy3.NewWriter()
	case "epw":
		ser = epw.NewWriter()
	default:
		return &domain.ConfigurationError{Err: fmt.Errorf("unknown output format %q", opts.format)}
	}

	station, err := bom.ReadStationDetails(opts.hmDetails, opts.station)
	if err != nil {
		return err
	}
	logger.Info("station resolved",
		"code", station.Code, "name", station.Name, "state", station.State,
		"lat", station.Latitude, "lon", station.Longitude, "elevation", station.Elevation)
	if station.Quality.Any() {
		logger.Warn("station carries data quality flags",
			"wrong_pct", station.Quality.WrongPct,
			"suspect_pct", station.Quality.SuspectPct,
			"inconsistent_pct", station.Quality.InconsistentPct)
	}

	if opts.latlong != "" {
		lat, lon, err := parseLatLong(opts.latlong)
		if err != nil {
			return &domain.ConfigurationError{Err: err}
		}
		station.Latitude, station.Longitude = lat, lon
		station.Name = fmt.Sprintf("(%.2f, %.2f)", lat, lon)
	}
	if opts.name != "" {
		station.Name = opts.name
	}

	zone := domain.FixedZone(opts.tz)
	source := bom.NewSource(opts.hmData, zone, logger)

	reader, err := grid.NewReader(opts.grids, station.Latitude, station.Longitude, logger, metrics)
	if err != nil {
		return err
	}
	gridSource := grid.NewCachedSource(reader, cfg.GridCacheSize, metrics)

	p := pipeline.New(source, gridSource, logger, metrics, pipeline.Params{
		Year:             opts.year,
		UTCOffset:        opts.tz,
		Latitude:         station.Latitude,
		Longitude:        station.Longitude,
		MaxInterpolation: limits.MaxInterpolationHours,
		Tolerance:        limits.Tolerance(),
		Required:         ser.RequiredChannels(),
		Bounds:           limits.Bounds(),
	})

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := ser.Write(f, station, opts.year, opts.tz, result.Records); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	logger.Info("weather file written",
		"path", opts.out,
		"format", strings.ToLower(opts.format),
		"records", len(result.Records),
		"interpolated", result.Stats.Interpolated,
		"grid_substituted", result.Stats.GridSubstituted,
		"duration", result.FinishedAt.Sub(result.StartedAt))
	return nil
}

func parseFlags(args []string) (options, error) {
	opts := options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("weathergen", flag.ContinueOnError)
	fs.StringVar(&opts.grids, "grids", "", "top of the gridded irradiance tree")
	fs.IntVar(&opts.year, "year", 0, "year to generate")
	fs.IntVar(&opts.year, "y", 0, "year to generate (shorthand)")
	fs.StringVar(&opts.station, "st", "", "station code")
	fs.StringVar(&opts.hmData, "hm-data", "", "station observations file")
	fs.StringVar(&opts.hmDetails, "hm-details", "", "station details file")
	fs.Float64Var(&opts.tz, "tz", 10.0, "time zone as hours east of UTC")
	fs.StringVar(&opts.out, "out", "", "output filename")
	fs.StringVar(&opts.out, "o", "", "output filename (shorthand)")
	fs.StringVar(&opts.format, "format", "epw", "output format: epw or tmy3")
	fs.StringVar(&opts.limits, "limits", "", "limits file overriding the built-in defaults")
	fs.IntVar(&opts.maxInterp, "i", 0, "maximum length of interpolation (hours)")
	fs.IntVar(&opts.tolerance, "tolerance", 0, "alignment tolerance (minutes)")
	fs.StringVar(&opts.latlong, "latlong", "", "override station coordinates, as lat,lon")
	fs.StringVar(&opts.name, "name", "", "override station name")
	fs.BoolVar(&opts.verbose, "v", false, "verbose run output")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	var errs *multierror.Error
	for _, req := range []struct {
		value string
		flag  string
	}{
		{opts.grids, "--grids"},
		{opts.station, "--st"},
		{opts.hmData, "--hm-data"},
		{opts.hmDetails, "--hm-details"},
		{opts.out, "--out"},
	} {
		if req.value == "" {
			errs = multierror.Append(errs, fmt.Errorf("%s is required", req.flag))
		}
	}
	if opts.year == 0 {
		errs = multierror.Append(errs, errors.New("--year is required"))
	}
	return opts, errs.ErrorOrNil()
}

func parseLatLong(s string) (lat, lon float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("latlong %q: want lat,lon", s)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("latlong latitude: %w", err)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("latlong longitude: %w", err)
	}
	return lat, lon, nil
}

func logRunFailure(logger *slog.Logger, metrics *observability.Metrics, err error) {
	var (
		cfgErr        *domain.ConfigurationError
		srcErr        *domain.DataSourceError
		incompleteErr *domain.IncompleteDataError
	)
	switch {
	case errors.As(err, &cfgErr):
		metrics.RunsCompleted.WithLabelValues("config_error").Inc()
		logger.Error("invalid run configuration", "error", err)
	case errors.As(err, &srcErr):
		metrics.RunsCompleted.WithLabelValues("data_source_error").Inc()
		logger.Error("input source failed", "source", srcErr.Source, "error", err)
	case errors.As(err, &incompleteErr):
		metrics.RunsCompleted.WithLabelValues("incomplete_data").Inc()
		logger.Error("year has unresolvable hours",
			"year", incompleteErr.Year, "unresolved", len(incompleteErr.Missing), "error", err)
	default:
		metrics.RunsCompleted.WithLabelValues("error").Inc()
		logger.Error("run failed", "error", err)
	}
}

// pushMetrics delivers run metrics to the configured Pushgateway. One-shot
// runs cannot be scraped, so failures only warn.
func pushMetrics(cfg *config.Config, opts options, logger *slog.Logger) {
	if cfg.MetricsPushURL == "" {
		return
	}
	grouping := map[string]string{
		"station": opts.station,
		"year":    strconv.Itoa(opts.year),
	}
	if err := observability.Push(cfg.MetricsPushURL, "weathergen", grouping); err != nil {
		logger.Warn("metrics push failed", "url", cfg.MetricsPushURL, "error", err)
	}
}
