// Package pipeline reconciles raw station observations and gridded
// fallback data into a complete hourly station-year.
//
// Stages run synchronously in a fixed order: build the empty timeline,
// align observations onto it, fill the remaining gaps, derive the
// psychrometric channels, then assemble output records. Each stage only
// touches values earlier stages left Missing, so rerunning a stage over
// the same timeline changes nothing.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/windlore/weathergen/internal/domain"
	"github.com/windlore/weathergen/internal/observability"
)

// Params configures one reconciliation run.
type Params struct {
	Year      int
	UTCOffset float64 // hours east of UTC
	Latitude  float64 // degrees north
	Longitude float64 // degrees east

	MaxInterpolation int           // longest gap bridged by interpolation, in hours
	Tolerance        time.Duration // alignment window around each canonical hour

	Required []domain.Channel // channels the output format demands
	Bounds   domain.Bounds    // per-channel plausibility windows
}

// Stats counts what happened to individual channel values during a run.
type Stats struct {
	Observations    int
	Aligned         int
	Overwritten     int
	OutOfRange      int
	Unresolvable    int
	Interpolated    int
	GridSubstituted int
	GridMisses      int
	Derived         int
	Clipped         int
}

// Result is a finished run: one record per hour of the year, plus
// diagnostics.
type Result struct {
	Records    []domain.Record
	Stats      Stats
	StartedAt  time.Time
	FinishedAt time.Time
}

// Pipeline wires the sources and observability for a run.
type Pipeline struct {
	source  domain.ObservationSource
	grid    domain.GridSource
	logger  *slog.Logger
	metrics *observability.Metrics
	params  Params
}

// New creates a Pipeline. Params are validated at the start of Run rather
// than here, so construction never fails.
func New(source domain.ObservationSource, grid domain.GridSource, logger *slog.Logger, metrics *observability.Metrics, params Params) *Pipeline {
	return &Pipeline{
		source:  source,
		grid:    grid,
		logger:  logger,
		metrics: metrics,
		params:  params,
	}
}

// Run executes the stages in order and returns the completed year. The
// error is a domain.ConfigurationError, domain.DataSourceError or
// domain.IncompleteDataError depending on where the run died.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	startedAt := domain.Now()
	wall := time.Now()

	if err := p.params.validate(); err != nil {
		return nil, err
	}

	tl, err := domain.NewTimeline(p.params.Year, p.params.UTCOffset)
	if err != nil {
		return nil, err
	}

	p.logger.Info("pipeline started",
		"year", p.params.Year,
		"slots", tl.Len(),
		"max_interpolation_hours", p.params.MaxInterpolation,
		"tolerance", p.params.Tolerance,
	)

	obs, err := p.source.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := &Stats{Observations: len(obs)}
	p.metrics.ObservationsRead.Add(float64(len(obs)))
	p.logger.Info("observations read", "count", len(obs))

	var records []domain.Record
	stages := []struct {
		name string
		run  func() error
	}{
		{"align", func() error { p.align(tl, obs, stats); return nil }},
		{"fill", func() error { return p.fill(ctx, tl, stats) }},
		{"derive", func() error { p.derive(tl, stats); return nil }},
		{"assemble", func() error {
			var aerr error
			records, aerr = p.assemble(tl, stats)
			return aerr
		}},
	}
	for _, stage := range stages {
		start := time.Now()
		err := stage.run()
		p.metrics.StageDuration.WithLabelValues(stage.name).Observe(time.Since(start).Seconds())
		if err != nil {
			return nil, err
		}
	}

	p.metrics.RunDuration.Observe(time.Since(wall).Seconds())
	p.logger.Info("pipeline finished",
		"records", len(records),
		"aligned", stats.Aligned,
		"interpolated", stats.Interpolated,
		"grid_substituted", stats.GridSubstituted,
		"derived", stats.Derived,
		"clipped", stats.Clipped,
		"duration", time.Since(wall),
	)

	return &Result{
		Records:    records,
		Stats:      *stats,
		StartedAt:  startedAt,
		FinishedAt: domain.Now(),
	}, nil
}

func (pr Params) validate() error {
	var errs *multierror.Error
	if pr.MaxInterpolation < 0 {
		errs = multierror.Append(errs, fmt.Errorf("max interpolation %d is negative", pr.MaxInterpolation))
	}
	// Beyond half a slot width the observation is closer to another hour,
	// so larger windows are configuration mistakes.
	if pr.Tolerance < 0 || pr.Tolerance > 30*time.Minute {
		errs = multierror.Append(errs, fmt.Errorf("tolerance %s outside [0s, 30m0s]", pr.Tolerance))
	}
	if pr.Latitude < -90 || pr.Latitude > 90 {
		errs = multierror.Append(errs, fmt.Errorf("latitude %.4f outside [-90, 90]", pr.Latitude))
	}
	if pr.Longitude < -180 || pr.Longitude > 180 {
		errs = multierror.Append(errs, fmt.Errorf("longitude %.4f outside [-180, 180]", pr.Longitude))
	}
	if len(pr.Required) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("no required channels"))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return &domain.ConfigurationError{Err: err}
	}
	return nil
}
