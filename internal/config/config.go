package config

import (
	"fmt"
	"os"
	"strconv"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"

	"github.com/windlore/weathergen/internal/domain"
)

// Config holds ambient settings populated from environment variables. Run
// parameters like year, station and paths come from flags; the environment
// carries the knobs that vary by deployment rather than by run.
type Config struct {
	LogLevel       string
	LogFormat      string
	MetricsPushURL string
	GridCacheSize  int
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is loaded first; variables
// already set in the environment win.
func Load() (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", "text"),
		MetricsPushURL: os.Getenv("METRICS_PUSH_URL"),
		GridCacheSize:  defaultGridCacheSize,
	}

	var errs *multierror.Error
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = multierror.Append(errs, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel))
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		errs = multierror.Append(errs, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat))
	}
	if s := os.Getenv("GRID_CACHE_SIZE"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			errs = multierror.Append(errs, fmt.Errorf("invalid GRID_CACHE_SIZE %q", s))
		} else {
			cfg.GridCacheSize = n
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, &domain.ConfigurationError{Err: err}
	}
	return cfg, nil
}

const defaultGridCacheSize = 4096

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
