package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for one
// generation run.
type Metrics struct {
	ObservationsRead       prometheus.Counter
	ValuesAligned          prometheus.Counter
	DuplicateOverwrites    prometheus.Counter
	RangeRejections        prometheus.Counter
	UnresolvableTimestamps prometheus.Counter

	// Gap filling and derivation metrics.
	ValuesInterpolated    prometheus.Counter
	ValuesGridSubstituted prometheus.Counter
	GridLookupMisses      prometheus.Counter
	ValuesDerived         prometheus.Counter
	IrradianceClips       prometheus.Counter
	UnresolvedValues      prometheus.Gauge

	// Run lifecycle metrics.
	StageDuration *prometheus.HistogramVec // labels: stage={align,fill,derive,assemble}
	RunDuration   prometheus.Histogram
	RunsCompleted *prometheus.CounterVec // labels: outcome={success,config_error,data_source_error,incomplete_data,error}

	// Grid reader metrics.
	GridCache        *prometheus.CounterVec // labels: result={hit,miss}
	GridFilesMissing prometheus.Counter
}

// NewMetrics creates and registers all run metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ObservationsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weathergen",
			Name:      "observations_read_total",
			Help:      "Raw observations read from the station source.",
		}),
		ValuesAligned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weathergen",
			Name:      "values_aligned_total",
			Help:      "Channel values placed onto canonical hourly slots.",
		}),
		DuplicateOverwrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weathergen",
			Name:      "duplicate_overwrites_total",
			Help:      "Aligned values overwritten by a later observation of the same hour.",
		}),
		RangeRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weathergen",
			Name:      "range_rejections_total",
			Help:      "Observed values discarded for falling outside plausibility limits.",
		}),
		UnresolvableTimestamps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weathergen",
			Name:      "unresolvable_timestamps_total",
			Help:      "Observations dropped because no canonical hour lies within tolerance.",
		}),
		ValuesInterpolated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weathergen",
			Name:      "values_interpolated_total",
			Help:      "Gap values filled by linear interpolation between measured anchors.",
		}),
		ValuesGridSubstituted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weathergen",
			Name:      "values_grid_substituted_total",
			Help:      "Gap values filled from the gridded fallback source.",
		}),
		GridLookupMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weathergen",
			Name:      "grid_lookup_misses_total",
			Help:      "Grid lookups that found no usable value for the hour.",
		}),
		ValuesDerived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weathergen",
			Name:      "values_derived_total",
			Help:      "Values computed from other channels via psychrometric relations.",
		}),
		IrradianceClips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weathergen",
			Name:      "irradiance_clips_total",
			Help:      "Global horizontal values clipped to the extraterrestrial bound.",
		}),
		UnresolvedValues: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weathergen",
			Name:      "unresolved_values",
			Help:      "Required channel values still missing after the final stage.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weathergen",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"stage"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weathergen",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete generation run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		RunsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weathergen",
			Name:      "runs_completed_total",
			Help:      "Generation runs by outcome.",
		}, []string{"outcome"}),
		GridCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weathergen",
			Name:      "grid_cache_total",
			Help:      "Grid lookup cache accesses by result.",
		}, []string{"result"}),
		GridFilesMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weathergen",
			Name:      "grid_files_missing_total",
			Help:      "Raster files absent from the grid tree.",
		}),
	}

	prometheus.MustRegister(
		m.ObservationsRead,
		m.ValuesAligned,
		m.DuplicateOverwrites,
		m.RangeRejections,
		m.UnresolvableTimestamps,
		m.ValuesInterpolated,
		m.ValuesGridSubstituted,
		m.GridLookupMisses,
		m.ValuesDerived,
		m.IrradianceClips,
		m.UnresolvedValues,
		m.StageDuration,
		m.RunDuration,
		m.RunsCompleted,
		m.GridCache,
		m.GridFilesMissing,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ObservationsRead:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weathergen", Name: "observations_read_total"}),
		ValuesAligned:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weathergen", Name: "values_aligned_total"}),
		DuplicateOverwrites:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weathergen", Name: "duplicate_overwrites_total"}),
		RangeRejections:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weathergen", Name: "range_rejections_total"}),
		UnresolvableTimestamps: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weathergen", Name: "unresolvable_timestamps_total"}),
		ValuesInterpolated:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weathergen", Name: "values_interpolated_total"}),
		ValuesGridSubstituted:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weathergen", Name: "values_grid_substituted_total"}),
		GridLookupMisses:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weathergen", Name: "grid_lookup_misses_total"}),
		ValuesDerived:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weathergen", Name: "values_derived_total"}),
		IrradianceClips:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weathergen", Name: "irradiance_clips_total"}),
		UnresolvedValues:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weathergen", Name: "unresolved_values"}),
		StageDuration:          prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "weathergen", Name: "stage_duration_seconds"}, []string{"stage"}),
		RunDuration:            prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weathergen", Name: "run_duration_seconds"}),
		RunsCompleted:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weathergen", Name: "runs_completed_total"}, []string{"outcome"}),
		GridCache:              prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weathergen", Name: "grid_cache_total"}, []string{"result"}),
		GridFilesMissing:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weathergen", Name: "grid_files_missing_total"}),
	}
}
