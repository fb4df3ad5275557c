package domain

// Provenance records how a channel value was obtained. The zero value is
// Missing so freshly built slots start unresolved.
type Provenance uint8

const (
	Missing Provenance = iota
	Measured
	Interpolated
	GridSubstituted
	Derived
)

func (p Provenance) String() string {
	switch p {
	case Missing:
		return "missing"
	case Measured:
		return "measured"
	case Interpolated:
		return "interpolated"
	case GridSubstituted:
		return "grid_substituted"
	case Derived:
		return "derived"
	default:
		return "unknown"
	}
}

// Value is one channel reading inside a slot, together with how it got
// there.
type Value struct {
	V      float64
	Source Provenance
}

// Resolved reports whether the value holds usable data.
func (v Value) Resolved() bool { return v.Source != Missing }
