package layout

import (
	"fmt"
	"math"

	"github.com/topo2ifc/topo2ifc/pkg/topology"
	"github.com/topo2ifc/topo2ifc/pkg/validation"
)

// Stats is the numeric payload layout validation produces, alongside the
// validation.Report's structured diagnostics.
type Stats struct {
	AreaDeviationMean  float64
	AreaDeviationMax   float64
	PerSpaceDeviation  map[string]float64
	AdjacencySatisfied float64
	OverlapPairs       [][2]string
}

// ValidateLayout checks a solved rectangle set against its topology:
// pairwise overlap, area deviation from target, and adjacency satisfaction.
func ValidateLayout(topo *topology.Graph, rects []Rect, defaultTarget float64) (*Stats, *validation.Report) {
	report := validation.NewReport()
	stats := &Stats{PerSpaceDeviation: map[string]float64{}}

	byStorey := map[string][]Rect{}
	for _, r := range rects {
		byStorey[r.StoreyID] = append(byStorey[r.StoreyID], r)
	}

	seen := map[string]Rect{}
	for _, r := range rects {
		seen[r.SpaceID] = r
	}
	for _, sp := range topo.Spaces() {
		if _, ok := seen[sp.ID]; !ok {
			report.AddError(validation.Result{
				Level: validation.LevelLayout, Code: "LAYOUT_VIOLATION",
				Message: fmt.Sprintf("space %q has no placed rectangle", sp.ID), Refs: []string{sp.ID},
			})
		}
	}

	for _, group := range byStorey {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				interW := math.Min(a.X2(), b.X2()) - math.Max(a.X, b.X)
				interH := math.Min(a.Y2(), b.Y2()) - math.Max(a.Y, b.Y)
				if interW > 0.01 && interH > 0.01 {
					stats.OverlapPairs = append(stats.OverlapPairs, [2]string{a.SpaceID, b.SpaceID})
					report.AddWarning(validation.Result{
						Level: validation.LevelLayout, Code: "LAYOUT_VIOLATION",
						Message: fmt.Sprintf("rectangles for %q and %q overlap", a.SpaceID, b.SpaceID),
						Refs:    []string{a.SpaceID, b.SpaceID},
					})
				}
			}
		}
	}

	var devSum, devMax float64
	for _, r := range rects {
		sp, ok := topo.Space(r.SpaceID)
		if !ok {
			continue
		}
		target := sp.EffectiveAreaTarget(defaultTarget)
		dev := (r.Area() - target) / target
		stats.PerSpaceDeviation[r.SpaceID] = dev
		devSum += math.Abs(dev)
		if math.Abs(dev) > math.Abs(devMax) {
			devMax = dev
		}
		if sp.AreaMin > 0 && r.Area() < sp.AreaMin {
			report.AddWarning(validation.Result{
				Level: validation.LevelLayout, Code: "LAYOUT_VIOLATION",
				Message: fmt.Sprintf("space %q placed area %.2f is below its minimum %.2f", r.SpaceID, r.Area(), sp.AreaMin),
				Refs:    []string{r.SpaceID},
			})
		}
	}
	if len(rects) > 0 {
		stats.AreaDeviationMean = devSum / float64(len(rects))
	}
	stats.AreaDeviationMax = devMax

	pairs := topo.AdjacentPairs()
	if len(pairs) > 0 {
		satisfied := 0
		for _, pair := range pairs {
			a, okA := seen[pair[0]]
			b, okB := seen[pair[1]]
			if okA && okB && rectsTouch(a, b, touchTolerance) {
				satisfied++
			} else {
				report.AddWarning(validation.Result{
					Level: validation.LevelLayout, Code: "LAYOUT_VIOLATION",
					Message: fmt.Sprintf("adjacency between %q and %q is not satisfied", pair[0], pair[1]),
					Refs:    []string{pair[0], pair[1]},
				})
			}
		}
		stats.AdjacencySatisfied = float64(satisfied) / float64(len(pairs))
	} else {
		stats.AdjacencySatisfied = 1.0
	}

	return stats, report
}
