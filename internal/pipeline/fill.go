package pipeline

import (
	"context"
	"math"

	"github.com/windlore/weathergen/internal/domain"
)

// fill resolves missing runs channel by channel: linear interpolation for
// short runs anchored by measurements on both sides, grid substitution for
// everything longer and for runs touching either end of the year. Only
// channels the grid serves are sent to it; the rest stay Missing for
// derive to resolve.
func (p *Pipeline) fill(ctx context.Context, tl *domain.Timeline, stats *Stats) error {
	for _, ch := range domain.AllChannels() {
		fs, err := fillChannel(ctx, tl, ch, p.params.MaxInterpolation, p.grid)
		if err != nil {
			return err
		}

		stats.Interpolated += fs.interpolated
		stats.GridSubstituted += fs.substituted
		stats.GridMisses += fs.misses
		p.metrics.ValuesInterpolated.Add(float64(fs.interpolated))
		p.metrics.ValuesGridSubstituted.Add(float64(fs.substituted))
		p.metrics.GridLookupMisses.Add(float64(fs.misses))

		if fs.interpolated+fs.substituted+fs.misses > 0 {
			p.logger.Debug("channel gaps filled",
				"channel", ch,
				"interpolated", fs.interpolated,
				"grid_substituted", fs.substituted,
				"grid_misses", fs.misses,
			)
		}
	}
	return nil
}

type fillStats struct {
	interpolated int
	substituted  int
	misses       int
}

// fillChannel resolves the missing runs of one channel in place. A run of
// length L is interpolated when L <= maxRun and both neighbours hold
// values; otherwise each slot is tried against the grid individually, and
// slots the grid cannot answer stay Missing. Channels the grid does not
// serve are never looked up and count no misses.
func fillChannel(ctx context.Context, tl *domain.Timeline, ch domain.Channel, maxRun int, grid domain.GridSource) (fillStats, error) {
	var fs fillStats
	slots := tl.Slots
	served := grid.Serves(ch)

	for i := 0; i < len(slots); i++ {
		if slots[i].Resolved(ch) {
			continue
		}
		j := i
		for j < len(slots) && !slots[j].Resolved(ch) {
			j++
		}

		// [i, j) is a maximal missing run.
		anchored := i > 0 && j < len(slots)
		if anchored && j-i <= maxRun {
			v0 := slots[i-1].Values[ch].V
			v1 := slots[j].Values[ch].V
			for k := i; k < j; k++ {
				w := float64(k-i+1) / float64(j-i+1)
				v := lerp(v0, v1, w)
				if ch == domain.WindDirection {
					v = lerpAngle(v0, v1, w)
				}
				slots[k].Set(ch, v, domain.Interpolated)
				fs.interpolated++
			}
		} else if served {
			for k := i; k < j; k++ {
				v, ok, err := grid.Lookup(ctx, ch, slots[k].Time)
				if err != nil {
					return fs, err
				}
				if !ok {
					fs.misses++
					continue
				}
				slots[k].Set(ch, v, domain.GridSubstituted)
				fs.substituted++
			}
		}

		i = j
	}
	return fs, nil
}

func lerp(a, b, w float64) float64 { return a + (b-a)*w }

// lerpAngle interpolates along the shortest arc between two compass
// directions, so 350 and 10 degrees meet at 0 rather than 180. The result
// is normalized into [0, 360).
func lerpAngle(a, b, w float64) float64 {
	delta := math.Mod(b-a+540, 360) - 180
	v := math.Mod(a+delta*w, 360)
	if v < 0 {
		v += 360
	}
	return v
}
