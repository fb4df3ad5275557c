package domain

import "math"

// Range is an inclusive plausibility window for one channel.
type Range struct {
	Min float64
	Max float64
}

// Bounds holds per-channel plausibility limits. Channels without an entry
// accept any finite value.
type Bounds map[Channel]Range

// In reports whether v is plausible for ch. NaN and infinities are always
// rejected.
func (b Bounds) In(ch Channel, v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	r, ok := b[ch]
	if !ok {
		return true
	}
	return v >= r.Min && v <= r.Max
}
