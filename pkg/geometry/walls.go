// Package geometry turns solved rectangle placements into the wall,
// slab/roof, and door geometry the IFC export adapter consumes.
package geometry

import (
	"fmt"
	"sort"

	"github.com/topo2ifc/topo2ifc/pkg/config"
	"github.com/topo2ifc/topo2ifc/pkg/geo"
	"github.com/topo2ifc/topo2ifc/pkg/layout"
	"github.com/topo2ifc/topo2ifc/pkg/validation"
)

// minWallSegmentLength is the threshold below which a sliver left over
// after subtracting a neighbor's shared boundary from a rectangle's edge
// is merged into its collinear neighbor, or dropped if none absorbs it.
const minWallSegmentLength = 0.05

// WallSegment is one straight wall run in the floor plan: either exterior
// (owned by a single space, facing open air) or a partition shared between
// two spaces.
type WallSegment struct {
	P1, P2     geo.Point2D
	StoreyID   string
	Thickness  float64
	Height     float64
	IsExterior bool
	SpaceID    string
	SharedWith string
}

// Length returns the segment's straight-line length.
func (w WallSegment) Length() float64 {
	return w.P1.Distance(w.P2)
}

type partition struct {
	a, b   string
	p1, p2 geo.Point2D
}

// heightOf resolves a space id to its ceiling height; callers without
// per-space height metadata may pass nil, which always falls back to
// cfg.CeilingHeight.
type heightOf func(spaceID string) (height float64, ok bool)

func resolveHeight(spaceID string, cfg config.Config, lookup heightOf) float64 {
	if lookup != nil {
		if h, ok := lookup(spaceID); ok && h > 0 {
			return h
		}
	}
	return cfg.CeilingHeight
}

// ExtractWalls classifies every rectangle's four edges as exterior or
// partition, per storey. A pair of rectangles that share a boundary (per
// layout.Rect.Touches) contributes exactly one partition wall; whatever
// portion of either rectangle's edge is not covered by a partition is
// exterior. Exterior walls take the owning space's ceiling height; a shared
// partition takes the taller of its two owners', falling back to
// cfg.CeilingHeight when lookup has nothing for a space. Any exterior
// remainder still shorter than minWallSegmentLength after being merged with
// its collinear neighbor is dropped with a GEOMETRY_DEGENERATE warning.
func ExtractWalls(rects []layout.Rect, cfg config.Config, lookup heightOf) ([]WallSegment, *validation.Report) {
	report := validation.NewReport()

	byStorey := map[string][]layout.Rect{}
	for _, r := range rects {
		byStorey[r.StoreyID] = append(byStorey[r.StoreyID], r)
	}

	var storeyIDs []string
	for id := range byStorey {
		storeyIDs = append(storeyIDs, id)
	}
	sort.Strings(storeyIDs)

	var out []WallSegment
	for _, storeyID := range storeyIDs {
		out = append(out, extractWallsForStorey(storeyID, byStorey[storeyID], cfg, lookup, report)...)
	}
	return out, report
}

func extractWallsForStorey(storeyID string, rects []layout.Rect, cfg config.Config, lookup heightOf, report *validation.Report) []WallSegment {
	sort.Slice(rects, func(i, j int) bool { return rects[i].SpaceID < rects[j].SpaceID })

	var partitions []partition
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			p1, p2, ok := rects[i].Touches(rects[j], cfg.Tolerance)
			if !ok || p1.Distance(p2) < minWallSegmentLength {
				continue
			}
			partitions = append(partitions, partition{a: rects[i].SpaceID, b: rects[j].SpaceID, p1: p1, p2: p2})
		}
	}

	var out []WallSegment
	for _, p := range partitions {
		ha, hb := resolveHeight(p.a, cfg, lookup), resolveHeight(p.b, cfg, lookup)
		height := ha
		if hb > height {
			height = hb
		}
		out = append(out, WallSegment{
			P1: p.p1, P2: p.p2, StoreyID: storeyID,
			Thickness: cfg.WallThickness, Height: height,
			IsExterior: false, SpaceID: p.a, SharedWith: p.b,
		})
	}

	var candidates []wallCandidate
	for _, r := range rects {
		candidates = append(candidates, exteriorCandidatesFor(r, partitions, cfg)...)
	}
	for _, c := range fuseShortCandidates(candidates, cfg.Tolerance) {
		length := c.hi - c.lo
		if length < minWallSegmentLength {
			report.AddWarning(validation.Result{
				Level: validation.LevelGeometry, Code: "GEOMETRY_DEGENERATE",
				Message: fmt.Sprintf("dropped exterior wall segment for space %s shorter than %.2fm after merging with its collinear neighbor", c.spaceID, minWallSegmentLength),
				Refs:    []string{c.spaceID},
			})
			continue
		}
		height := resolveHeight(c.spaceID, cfg, lookup)
		var p1, p2 geo.Point2D
		if c.vertical {
			p1, p2 = geo.Pt(c.fixed, c.lo), geo.Pt(c.fixed, c.hi)
		} else {
			p1, p2 = geo.Pt(c.lo, c.fixed), geo.Pt(c.hi, c.fixed)
		}
		out = append(out, WallSegment{
			P1: p1, P2: p2, StoreyID: storeyID,
			Thickness: cfg.WallThickness, Height: height,
			IsExterior: true, SpaceID: c.spaceID,
		})
	}
	return out
}

// edgeInterval is one side of a rectangle's boundary, expressed as a 1-D
// span along either the X or Y axis at a fixed coordinate.
type edgeInterval struct {
	vertical bool
	fixed    float64
	lo, hi   float64
}

// wallCandidate is an exterior wall remainder before the collinear-merge
// pass: one gap left over on one rectangle's edge after subtracting
// whatever a partition covers.
type wallCandidate struct {
	vertical bool
	fixed    float64
	lo, hi   float64
	spaceID  string
}

func exteriorCandidatesFor(r layout.Rect, partitions []partition, cfg config.Config) []wallCandidate {
	edges := []edgeInterval{
		{vertical: true, fixed: r.X, lo: r.Y, hi: r.Y2()},     // left
		{vertical: true, fixed: r.X2(), lo: r.Y, hi: r.Y2()},  // right
		{vertical: false, fixed: r.Y, lo: r.X, hi: r.X2()},    // bottom
		{vertical: false, fixed: r.Y2(), lo: r.X, hi: r.X2()}, // top
	}

	var out []wallCandidate
	for _, edge := range edges {
		covered := coveredIntervals(r.SpaceID, edge, partitions, cfg.Tolerance)
		for _, iv := range complement(edge.lo, edge.hi, covered) {
			out = append(out, wallCandidate{
				vertical: edge.vertical, fixed: edge.fixed, lo: iv[0], hi: iv[1], spaceID: r.SpaceID,
			})
		}
	}
	return out
}

// fuseShortCandidates groups candidates that sit on the same line (same
// orientation, same fixed coordinate within eps) and fuses any short one
// into the collinear neighbor it directly abuts, per line.
func fuseShortCandidates(cands []wallCandidate, eps float64) []wallCandidate {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].vertical != cands[j].vertical {
			return !cands[i].vertical
		}
		if absDiff(cands[i].fixed, cands[j].fixed) > eps {
			return cands[i].fixed < cands[j].fixed
		}
		return cands[i].lo < cands[j].lo
	})

	var out []wallCandidate
	start := 0
	for i := 1; i <= len(cands); i++ {
		if i < len(cands) && cands[i].vertical == cands[start].vertical && absDiff(cands[i].fixed, cands[start].fixed) <= eps {
			continue
		}
		out = append(out, fuseLine(cands[start:i], eps)...)
		start = i
	}
	return out
}

// fuseLine merges a short candidate into the next one it directly abuts
// (zero gap within eps); a short trailing candidate with no next neighbor
// is folded backward into the one before it instead. A candidate left
// short with no collinear neighbor to absorb it is returned unchanged for
// the caller to drop with a warning.
func fuseLine(group []wallCandidate, eps float64) []wallCandidate {
	if len(group) == 0 {
		return group
	}
	var out []wallCandidate
	cur := group[0]
	for _, next := range group[1:] {
		touching := next.lo-cur.hi <= eps
		if touching && cur.hi-cur.lo < minWallSegmentLength {
			cur.hi = next.hi
			cur.spaceID = next.spaceID
			continue
		}
		out = append(out, cur)
		cur = next
	}
	out = append(out, cur)

	if n := len(out); n > 1 && out[n-1].hi-out[n-1].lo < minWallSegmentLength {
		trailing := out[n-1]
		prev := out[n-2]
		if trailing.lo-prev.hi <= eps {
			out = out[:n-1]
			out[len(out)-1].hi = trailing.hi
		}
	}
	return out
}

func coveredIntervals(spaceID string, edge edgeInterval, partitions []partition, eps float64) [][2]float64 {
	var out [][2]float64
	for _, p := range partitions {
		if p.a != spaceID && p.b != spaceID {
			continue
		}
		segVertical := absDiff(p.p1.X, p.p2.X) < eps
		if segVertical != edge.vertical {
			continue
		}
		fixed := p.p1.X
		lo, hi := p.p1.Y, p.p2.Y
		if !segVertical {
			fixed = p.p1.Y
			lo, hi = p.p1.X, p.p2.X
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		if absDiff(fixed, edge.fixed) > eps {
			continue
		}
		out = append(out, [2]float64{lo, hi})
	}
	return out
}

// complement returns the sub-intervals of [lo, hi] not covered by any
// interval in covered, after merging overlapping covered intervals.
func complement(lo, hi float64, covered [][2]float64) [][2]float64 {
	if len(covered) == 0 {
		return [][2]float64{{lo, hi}}
	}
	sort.Slice(covered, func(i, j int) bool { return covered[i][0] < covered[j][0] })

	merged := [][2]float64{covered[0]}
	for _, iv := range covered[1:] {
		last := &merged[len(merged)-1]
		if iv[0] <= last[1] {
			if iv[1] > last[1] {
				last[1] = iv[1]
			}
			continue
		}
		merged = append(merged, iv)
	}

	var out [][2]float64
	cursor := lo
	for _, iv := range merged {
		if iv[0] > cursor {
			out = append(out, [2]float64{cursor, iv[0]})
		}
		if iv[1] > cursor {
			cursor = iv[1]
		}
	}
	if hi > cursor {
		out = append(out, [2]float64{cursor, hi})
	}
	return out
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
