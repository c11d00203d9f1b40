package geometry

import (
	"sort"

	"github.com/topo2ifc/topo2ifc/pkg/config"
	"github.com/topo2ifc/topo2ifc/pkg/geo"
	"github.com/topo2ifc/topo2ifc/pkg/layout"
)

// SlabPolygon is one merged floor slab: the union footprint of every
// rectangle in a single connected component on a storey.
type SlabPolygon struct {
	StoreyID  string
	Polygon   geo.Polygon
	Elevation float64
	Thickness float64
}

// Roof is a slab's matching roof, offset vertically by the storey height.
type Roof struct {
	StoreyID  string
	Polygon   geo.Polygon
	Elevation float64
	Thickness float64
}

// elevationLookup resolves a storey id to its base elevation and height;
// callers without storey metadata may pass a lookup that always returns
// (0, cfg.CeilingHeight, true).
type elevationLookup func(storeyID string) (elevation, height float64, ok bool)

// ExtractSlabs merges each storey's placed rectangles into one SlabPolygon
// per connected component (never a bounding-box envelope substitute, so a
// building with disjoint wings on one storey gets one slab per wing) and a
// matching Roof offset by the storey height.
func ExtractSlabs(rects []layout.Rect, cfg config.Config, lookup elevationLookup) ([]SlabPolygon, []Roof) {
	byStorey := map[string][]layout.Rect{}
	for _, r := range rects {
		byStorey[r.StoreyID] = append(byStorey[r.StoreyID], r)
	}

	var storeyIDs []string
	for id := range byStorey {
		storeyIDs = append(storeyIDs, id)
	}
	sort.Strings(storeyIDs)

	var slabs []SlabPolygon
	var roofs []Roof
	for _, storeyID := range storeyIDs {
		elevation, height, ok := lookup(storeyID)
		if !ok || height <= 0 {
			height = cfg.CeilingHeight
		}

		geoRects := make([]geo.Rect, len(byStorey[storeyID]))
		for i, r := range byStorey[storeyID] {
			geoRects[i] = r.AsGeoRect()
		}
		for _, poly := range geo.UnionRects(geoRects, cfg.Tolerance) {
			slabs = append(slabs, SlabPolygon{
				StoreyID: storeyID, Polygon: poly,
				Elevation: elevation, Thickness: cfg.SlabThickness,
			})
			roofs = append(roofs, Roof{
				StoreyID: storeyID, Polygon: poly,
				Elevation: elevation + height, Thickness: cfg.SlabThickness,
			})
		}
	}
	return slabs, roofs
}
