package layout

import (
	"math"
	"sort"

	"github.com/topo2ifc/topo2ifc/pkg/config"
	"github.com/topo2ifc/topo2ifc/pkg/topology"
)

// SnapToGrid rounds every rectangle's position and size to cfg.GridUnit,
// flooring the lower-left corner and ceiling the upper-right so the
// envelope only ever grows, then re-checks pairwise overlap on each storey
// and, on conflict, shifts the later rectangle right one grid unit at a
// time until the pair no longer overlaps.
func SnapToGrid(rects []Rect, cfg config.Config) []Rect {
	grid := cfg.GridUnit
	if grid <= 0 {
		return rects
	}
	out := make([]Rect, len(rects))
	for i, r := range rects {
		x := math.Floor(r.X/grid) * grid
		y := math.Floor(r.Y/grid) * grid
		x2 := math.Ceil(r.X2()/grid) * grid
		y2 := math.Ceil(r.Y2()/grid) * grid
		w := math.Max(grid, x2-x)
		h := math.Max(grid, y2-y)
		out[i] = Rect{SpaceID: r.SpaceID, StoreyID: r.StoreyID, X: x, Y: y, W: w, H: h}
	}

	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[i].StoreyID != out[j].StoreyID {
				continue
			}
			for hasOverlaps([]Rect{out[i], out[j]}) {
				out[j].X += grid
			}
		}
	}
	return out
}

// ApplySingleStoreyMode drops every rectangle whose storey elevation is
// above the lowest storey elevation, and resets each retained storey's
// elevation in topo to 0 while preserving its identifier and name. It
// returns the kept rectangles and the id of the first retained storey.
func ApplySingleStoreyMode(rects []Rect, topo *topology.Graph) ([]Rect, string) {
	storeys := topo.Storeys()
	if len(storeys) == 0 {
		return rects, ""
	}
	keep := storeys[0].ID
	minElevation := storeys[0].Elevation
	retained := map[string]bool{}
	for _, s := range storeys {
		if s.Elevation == minElevation {
			retained[s.ID] = true
			s.Elevation = 0
			topo.AddStorey(s)
		}
	}

	var out []Rect
	for _, r := range rects {
		if retained[r.StoreyID] {
			out = append(out, r)
		}
	}
	return out, keep
}

// BoundingBox is a storey's rectangular extent. Neither the export adapter
// nor the debug dump uses it.
type BoundingBox struct {
	StoreyID   string
	MinX, MinY float64
	MaxX, MaxY float64
}

// BoundingBoxes computes one bounding box per storey that has at least one
// rectangle, sorted by storey id.
func BoundingBoxes(rects []Rect) []BoundingBox {
	byStorey := map[string]*BoundingBox{}
	var order []string
	for _, r := range rects {
		bb, ok := byStorey[r.StoreyID]
		if !ok {
			bb = &BoundingBox{StoreyID: r.StoreyID, MinX: r.X, MinY: r.Y, MaxX: r.X2(), MaxY: r.Y2()}
			byStorey[r.StoreyID] = bb
			order = append(order, r.StoreyID)
			continue
		}
		bb.MinX = math.Min(bb.MinX, r.X)
		bb.MinY = math.Min(bb.MinY, r.Y)
		bb.MaxX = math.Max(bb.MaxX, r.X2())
		bb.MaxY = math.Max(bb.MaxY, r.Y2())
	}
	sort.Strings(order)
	out := make([]BoundingBox, len(order))
	for i, id := range order {
		out[i] = *byStorey[id]
	}
	return out
}
