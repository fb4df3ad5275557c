package pipeline

import (
	"time"

	"github.com/windlore/weathergen/internal/domain"
	"github.com/windlore/weathergen/internal/solar"
)

// observationMinute is the minute within each hour that BoM hourly
// products nominally observe at; solar geometry is evaluated there.
const observationMinute = 50

// assemble turns the resolved timeline into output records: solar geometry
// per hour, global irradiance clipped to its physical ceiling, diffuse
// irradiance derived, completeness enforced.
func (p *Pipeline) assemble(tl *domain.Timeline, stats *Stats) ([]domain.Record, error) {
	var missing []domain.MissingValue
	records := make([]domain.Record, 0, tl.Len())

	for i := range tl.Slots {
		s := &tl.Slots[i]
		pos := solar.PositionAt(
			s.Time.Local.Add(observationMinute*time.Minute),
			p.params.Latitude, p.params.Longitude,
		)
		etrn := pos.ExtraterrestrialNormal()
		etr := pos.ExtraterrestrialHorizontal()

		if s.Resolved(domain.GHI) && s.Values[domain.GHI].V > etr {
			p.logger.Debug("global irradiance above extraterrestrial bound, clipped",
				"hour", s.Time.Ordinal, "ghi", s.Values[domain.GHI].V, "bound", etr)
			s.Set(domain.GHI, etr, s.Values[domain.GHI].Source)
			stats.Clipped++
			p.metrics.IrradianceClips.Inc()
		}

		complete := true
		for _, ch := range p.params.Required {
			if !s.Resolved(ch) {
				missing = append(missing, domain.MissingValue{Ordinal: s.Time.Ordinal, Channel: ch})
				complete = false
			}
		}
		if !complete {
			continue
		}

		ghi := s.Values[domain.GHI].V
		dni := s.Values[domain.DNI].V
		var dhi float64
		if pos.CosZenith > 0 {
			dhi = ghi - dni*pos.CosZenith
		}
		// Diffuse below 10 W/m2 is measurement noise.
		if dhi < 10 {
			dhi = 0
		}

		records = append(records, domain.Record{
			Time:          s.Time,
			DryBulb:       s.Values[domain.DryBulb].V,
			DewPoint:      s.Values[domain.DewPoint].V,
			RelHumidity:   s.Values[domain.RelHumidity].V,
			Pressure:      s.Values[domain.Pressure].V,
			WindSpeed:     s.Values[domain.WindSpeed].V,
			WindDirection: s.Values[domain.WindDirection].V,
			GHI:           ghi,
			DNI:           dni,
			DHI:           dhi,
			ETR:           etr,
			ETRN:          etrn,
		})
	}

	if len(missing) > 0 {
		p.metrics.UnresolvedValues.Set(float64(len(missing)))
		return nil, &domain.IncompleteDataError{Year: tl.Year, Missing: missing}
	}
	p.metrics.UnresolvedValues.Set(0)
	return records, nil
}
