package domain

// QualityFlags carries the data quality percentages from the station
// details record. Nonzero values are worth a warning, not a refusal.
type QualityFlags struct {
	WrongPct        float64
	SuspectPct      float64
	InconsistentPct float64
}

// Any reports whether any quality percentage is nonzero.
func (q QualityFlags) Any() bool {
	return q.WrongPct != 0 || q.SuspectPct != 0 || q.InconsistentPct != 0
}

// Station describes the observing site a run generates output for.
type Station struct {
	Code      string // BoM station number, e.g. "070351"
	Name      string
	State     string
	Latitude  float64 // degrees north
	Longitude float64 // degrees east
	Elevation float64 // metres above sea level
	Quality   QualityFlags
}
