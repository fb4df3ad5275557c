package domain

import "context"

// ObservationSource yields every raw observation available for the
// station-year, in any order. Implementations convert values to internal
// units before returning them.
type ObservationSource interface {
	ReadAll(ctx context.Context) ([]Observation, error)
}

// GridSource answers fallback lookups against a gridded dataset. Lookup's
// ok is false when the grid holds no usable value for that channel and
// hour; err is reserved for broken inputs, not absent ones. Serves reports
// whether the dataset carries a channel at all, so callers can tell a
// channel outside the grid's coverage from an hour the grid lacks.
type GridSource interface {
	Lookup(ctx context.Context, ch Channel, ts Timestamp) (value float64, ok bool, err error)
	Serves(ch Channel) bool
}
