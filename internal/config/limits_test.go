package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlore/weathergen/internal/domain"
)

func TestLoadLimits_EmbeddedDefaults(t *testing.T) {
	l, err := LoadLimits("")
	require.NoError(t, err)

	assert.Equal(t, 2, l.MaxInterpolationHours)
	assert.Equal(t, 30*time.Minute, l.Tolerance())

	b := l.Bounds()
	assert.Len(t, b, int(domain.NumChannels), "every channel ships with a default window")
	assert.Equal(t, domain.Range{Min: -90, Max: 60}, b[domain.DryBulb])
	assert.Equal(t, domain.Range{Min: 0, Max: 100}, b[domain.RelHumidity])
	assert.Equal(t, domain.Range{Min: 85000, Max: 110000}, b[domain.Pressure])
}

func TestLoadLimits_OverlaysUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	override := `
max_interpolation_hours: 4
channels:
  ghi:
    min: 0
    max: 1200
`
	require.NoError(t, os.WriteFile(path, []byte(override), 0o644))

	l, err := LoadLimits(path)
	require.NoError(t, err)

	assert.Equal(t, 4, l.MaxInterpolationHours)
	assert.Equal(t, 30*time.Minute, l.Tolerance(), "unmentioned fields keep defaults")

	b := l.Bounds()
	assert.Equal(t, domain.Range{Min: 0, Max: 1200}, b[domain.GHI])
	assert.Equal(t, domain.Range{Min: -90, Max: 60}, b[domain.DryBulb], "unmentioned channels keep defaults")
}

func TestLoadLimits_MissingFile(t *testing.T) {
	_, err := LoadLimits(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadLimits_CollectsEveryViolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	bad := `
max_interpolation_hours: -1
alignment_tolerance_minutes: 45
channels:
  barometric_vibes:
    min: 0
    max: 1
  dry_bulb:
    min: 60
    max: -90
`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := LoadLimits(path)
	require.Error(t, err)

	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "max_interpolation_hours")
	assert.Contains(t, err.Error(), "alignment_tolerance_minutes")
	assert.Contains(t, err.Error(), "barometric_vibes")
	assert.Contains(t, err.Error(), "dry_bulb")
}

func TestLoadLimits_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	require.NoError(t, os.WriteFile(path, []byte("channels: [not, a, map"), 0o644))

	_, err := LoadLimits(path)
	require.Error(t, err)

	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
