package pipeline

import "github.com/windlore/weathergen/internal/domain"

// derive computes dew point and relative humidity where they are still
// missing but recoverable from resolved channels. Dew point comes first,
// preferring the humidity path over the wet-bulb one, so a later humidity
// derivation can feed off it.
func (p *Pipeline) derive(tl *domain.Timeline, stats *Stats) {
	before := stats.Derived

	for i := range tl.Slots {
		s := &tl.Slots[i]
		if !s.Resolved(domain.DryBulb) {
			continue
		}
		dryBulb := s.Values[domain.DryBulb].V

		if !s.Resolved(domain.DewPoint) {
			switch {
			case s.Resolved(domain.RelHumidity):
				s.Set(domain.DewPoint,
					domain.DewPointFromRelHumidity(dryBulb, s.Values[domain.RelHumidity].V),
					domain.Derived)
				stats.Derived++
			case s.Resolved(domain.WetBulb) && s.Resolved(domain.Pressure):
				s.Set(domain.DewPoint,
					domain.DewPointFromWetBulb(dryBulb, s.Values[domain.WetBulb].V, s.Values[domain.Pressure].V),
					domain.Derived)
				stats.Derived++
			}
		}

		if !s.Resolved(domain.RelHumidity) && s.Resolved(domain.DewPoint) {
			s.Set(domain.RelHumidity,
				domain.RelHumidityFromDewPoint(dryBulb, s.Values[domain.DewPoint].V),
				domain.Derived)
			stats.Derived++
		}
	}

	p.metrics.ValuesDerived.Add(float64(stats.Derived - before))
}
