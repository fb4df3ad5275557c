package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	multierror "github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/windlore/weathergen/internal/domain"
)

//go:embed defaults.yaml
var defaultLimits []byte

// Limits carries the tunable reconciliation thresholds: how long a gap may
// be interpolated, how far an observation may sit from its canonical hour,
// and the per-channel plausibility windows.
type Limits struct {
	MaxInterpolationHours     int                     `yaml:"max_interpolation_hours"`
	AlignmentToleranceMinutes int                     `yaml:"alignment_tolerance_minutes"`
	Channels                  map[string]ChannelLimit `yaml:"channels"`
}

// ChannelLimit is an inclusive [Min, Max] window in internal units.
type ChannelLimit struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// LoadLimits parses the embedded defaults and, when path is non-empty,
// overlays the user's file on top. The override may name any subset of
// fields; channels it does not mention keep their defaults.
func LoadLimits(path string) (*Limits, error) {
	var l Limits
	if err := yaml.Unmarshal(defaultLimits, &l); err != nil {
		return nil, fmt.Errorf("embedded limits: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &domain.ConfigurationError{Err: fmt.Errorf("limits file: %w", err)}
		}
		if err := yaml.Unmarshal(data, &l); err != nil {
			return nil, &domain.ConfigurationError{Err: fmt.Errorf("limits file %s: %w", path, err)}
		}
	}

	if err := l.validate(); err != nil {
		return nil, &domain.ConfigurationError{Err: err}
	}
	return &l, nil
}

func (l *Limits) validate() error {
	var errs *multierror.Error
	if l.MaxInterpolationHours < 0 {
		errs = multierror.Append(errs, fmt.Errorf("max_interpolation_hours %d is negative", l.MaxInterpolationHours))
	}
	if l.AlignmentToleranceMinutes < 0 || l.AlignmentToleranceMinutes > 30 {
		errs = multierror.Append(errs, fmt.Errorf("alignment_tolerance_minutes %d outside [0, 30]", l.AlignmentToleranceMinutes))
	}
	for name, cl := range l.Channels {
		if _, ok := domain.ParseChannel(name); !ok {
			errs = multierror.Append(errs, fmt.Errorf("unknown channel %q", name))
		}
		if cl.Min >= cl.Max {
			errs = multierror.Append(errs, fmt.Errorf("channel %s: min %g not below max %g", name, cl.Min, cl.Max))
		}
	}
	return errs.ErrorOrNil()
}

// Tolerance returns the alignment window as a duration.
func (l *Limits) Tolerance() time.Duration {
	return time.Duration(l.AlignmentToleranceMinutes) * time.Minute
}

// Bounds converts the channel windows to domain form.
func (l *Limits) Bounds() domain.Bounds {
	b := make(domain.Bounds, len(l.Channels))
	for name, cl := range l.Channels {
		ch, ok := domain.ParseChannel(name)
		if !ok {
			continue
		}
		b[ch] = domain.Range{Min: cl.Min, Max: cl.Max}
	}
	return b
}
