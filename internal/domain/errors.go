package domain

import (
	"fmt"
	"strings"
)

// ConfigurationError reports invalid run parameters: a bad year or UTC
// offset, malformed limits, an unusable grid root. Nothing has been read
// when one of these surfaces.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string { return "configuration: " + e.Err.Error() }

func (e *ConfigurationError) Unwrap() error { return e.Err }

// DataSourceError reports an input that could not be read or parsed. Source
// names the offending file or endpoint.
type DataSourceError struct {
	Source string
	Err    error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source %s: %v", e.Source, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// MissingValue identifies one unresolved (hour, channel) pair.
type MissingValue struct {
	Ordinal int
	Channel Channel
}

// IncompleteDataError reports every required channel value still missing
// after the full pipeline has run. Missing is exhaustive so an operator can
// see exactly which hours lack both station and grid coverage.
type IncompleteDataError struct {
	Year    int
	Missing []MissingValue
}

func (e *IncompleteDataError) Error() string {
	return fmt.Sprintf("incomplete data for %d: %d unresolved values (%s)",
		e.Year, len(e.Missing), e.summary())
}

// maxRunsShown bounds the error message; the Missing slice stays complete.
const maxRunsShown = 8

// summary groups consecutive ordinals per channel, e.g. "ghi hours 10-14, 20".
func (e *IncompleteDataError) summary() string {
	byChannel := make(map[Channel][]int, NumChannels)
	for _, mv := range e.Missing {
		byChannel[mv.Channel] = append(byChannel[mv.Channel], mv.Ordinal)
	}

	var parts []string
	for c := Channel(0); c < NumChannels; c++ {
		hours, ok := byChannel[c]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s hours %s", c, formatRuns(hours)))
	}
	return strings.Join(parts, "; ")
}

// formatRuns collapses sorted ordinals into range notation: 1,2,3,7 becomes
// "1-3, 7". Long lists are truncated after maxRunsShown runs.
func formatRuns(hours []int) string {
	var b strings.Builder
	runs := 0
	for i := 0; i < len(hours); {
		j := i
		for j+1 < len(hours) && hours[j+1] == hours[j]+1 {
			j++
		}
		if runs == maxRunsShown {
			fmt.Fprintf(&b, ", +%d more hours", len(hours)-i)
			break
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		if j > i {
			fmt.Fprintf(&b, "%d-%d", hours[i], hours[j])
		} else {
			fmt.Fprintf(&b, "%d", hours[i])
		}
		runs++
		i = j + 1
	}
	return b.String()
}
