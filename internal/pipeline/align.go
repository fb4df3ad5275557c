package pipeline

import (
	"sort"
	"time"

	"github.com/windlore/weathergen/internal/domain"
)

// align maps raw observations onto canonical hours: nearest hour wins, an
// exact half-hour tie goes to the later hour, and duplicates targeting the
// same slot resolve last-write-wins by source timestamp.
func (p *Pipeline) align(tl *domain.Timeline, obs []domain.Observation, stats *Stats) {
	sorted := make([]domain.Observation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	start := tl.Slots[0].Time.Local
	for _, o := range sorted {
		at := o.At.In(tl.Zone)
		ordinal := int((at.Sub(start) + 30*time.Minute) / time.Hour)
		if ordinal < 0 || ordinal >= tl.Len() {
			p.dropUnresolvable(o, stats)
			continue
		}

		slot := &tl.Slots[ordinal]
		dist := at.Sub(slot.Time.Local)
		if dist < 0 {
			dist = -dist
		}
		if dist > p.params.Tolerance {
			p.dropUnresolvable(o, stats)
			continue
		}

		for ch, v := range o.Values {
			p.placeValue(slot, ch, v, stats)
		}
	}
}

func (p *Pipeline) dropUnresolvable(o domain.Observation, stats *Stats) {
	stats.Unresolvable++
	p.metrics.UnresolvableTimestamps.Inc()
	p.logger.Debug("no canonical hour within tolerance", "at", o.At)
}

func (p *Pipeline) placeValue(slot *domain.Slot, ch domain.Channel, v float64, stats *Stats) {
	if !p.params.Bounds.In(ch, v) {
		stats.OutOfRange++
		p.metrics.RangeRejections.Inc()
		p.logger.Debug("value outside plausible range",
			"channel", ch, "value", v, "hour", slot.Time.Ordinal)
		return
	}

	if slot.Resolved(ch) {
		stats.Overwritten++
		p.metrics.DuplicateOverwrites.Inc()
		p.logger.Debug("later observation overwrites hour",
			"channel", ch, "hour", slot.Time.Ordinal,
			"old", slot.Values[ch].V, "new", v)
	}

	slot.Set(ch, v, domain.Measured)
	stats.Aligned++
	p.metrics.ValuesAligned.Inc()
}
