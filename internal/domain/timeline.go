package domain

import (
	"fmt"
	"math"
	"time"
)

// Timestamp pins a slot to one hour of the target year: an ordinal index
// into the timeline plus the local standard time it represents.
type Timestamp struct {
	Ordinal int       // hour index within the year, zero-based
	Local   time.Time // local standard time in the station's fixed zone
}

// UTC returns the instant in UTC, as used for grid file naming.
func (t Timestamp) UTC() time.Time { return t.Local.UTC() }

// Slot is one canonical hour of the annual timeline. Channel values start
// Missing and are resolved in stage order: align, fill, derive, assemble.
type Slot struct {
	Time   Timestamp
	Values [NumChannels]Value
}

// Set writes a channel value with its provenance.
func (s *Slot) Set(c Channel, v float64, p Provenance) {
	s.Values[c] = Value{V: v, Source: p}
}

// Resolved reports whether the channel holds a usable value.
func (s *Slot) Resolved(c Channel) bool { return s.Values[c].Resolved() }

// Timeline is the ordered sequence of hourly slots for one station-year.
// Slot i covers local standard time Jan 1 00:00 plus i hours.
type Timeline struct {
	Year  int
	Zone  *time.Location
	Slots []Slot
}

// UTC offsets of inhabited places span -12 (Baker Island side) to +14
// (Line Islands). Years outside the window below are taken as typos.
const (
	minUTCOffset = -12.0
	maxUTCOffset = 14.0

	minYear = 1900
	maxYear = 2100
)

// FixedZone builds the fixed-offset location for a station's UTC offset in
// hours. Fractional offsets, like +9.5 for South Australia, are supported.
func FixedZone(offsetHours float64) *time.Location {
	secs := int(math.Round(offsetHours * 3600))
	return time.FixedZone(fmt.Sprintf("UTC%+.1f", offsetHours), secs)
}

// NewTimeline builds the empty hourly timeline for a year: 8784 slots on
// leap years, 8760 otherwise, each stamped with its local standard time.
func NewTimeline(year int, offsetHours float64) (*Timeline, error) {
	if year < minYear || year > maxYear {
		return nil, &ConfigurationError{Err: fmt.Errorf("year %d outside [%d, %d]", year, minYear, maxYear)}
	}
	if offsetHours < minUTCOffset || offsetHours > maxUTCOffset {
		return nil, &ConfigurationError{Err: fmt.Errorf("utc offset %+.1f outside [%+.0f, %+.0f]", offsetHours, minUTCOffset, maxUTCOffset)}
	}

	zone := FixedZone(offsetHours)
	slots := make([]Slot, HoursInYear(year))
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, zone)
	for i := range slots {
		slots[i].Time = Timestamp{Ordinal: i, Local: start.Add(time.Duration(i) * time.Hour)}
	}
	return &Timeline{Year: year, Zone: zone, Slots: slots}, nil
}

// Len returns the number of hourly slots.
func (t *Timeline) Len() int { return len(t.Slots) }

// HoursInYear returns 8784 for leap years, 8760 otherwise.
func HoursInYear(year int) int {
	if isLeapYear(year) {
		return 8784
	}
	return 8760
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
