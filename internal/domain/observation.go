package domain

import "time"

// Observation is one raw record from the station source: a timestamp of
// arbitrary granularity plus whichever channels the record actually
// carries, already converted to internal units by the reader.
type Observation struct {
	At     time.Time
	Values map[Channel]float64
}
