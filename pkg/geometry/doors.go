package geometry

import (
	"fmt"
	"math"

	"github.com/topo2ifc/topo2ifc/pkg/config"
	"github.com/topo2ifc/topo2ifc/pkg/geo"
	"github.com/topo2ifc/topo2ifc/pkg/layout"
	"github.com/topo2ifc/topo2ifc/pkg/topology"
	"github.com/topo2ifc/topo2ifc/pkg/validation"
)

// minJambClearance is the wall material left on each side of a door
// opening; a door's width is clipped to leave this much clearance even
// when the configured width would otherwise eat into it.
const minJambClearance = 0.05

// Door is a door opening placed at the midpoint of a shared boundary
// between two connected spaces.
type Door struct {
	SpaceA, SpaceB string
	StoreyID       string
	Position       geo.Point2D
	Width, Height  float64
	AngleRadians   float64
	Elevation      float64
}

// ExtractDoors places one Door per connection edge whose endpoints share a
// boundary segment at least as long as the configured door width. Edges
// with no sufficiently long shared boundary (adjacency without a real
// shared wall, or a too-short touch) are skipped with a GEOMETRY_DEGENERATE
// warning rather than forced.
func ExtractDoors(topo *topology.Graph, rects []layout.Rect, cfg config.Config) ([]Door, *validation.Report) {
	report := validation.NewReport()
	bySpace := map[string]layout.Rect{}
	for _, r := range rects {
		bySpace[r.SpaceID] = r
	}

	var doors []Door
	for _, pair := range topo.ConnectedPairs() {
		a, okA := bySpace[pair[0]]
		b, okB := bySpace[pair[1]]
		if !okA || !okB || a.StoreyID != b.StoreyID {
			continue
		}
		p1, p2, ok := a.Touches(b, cfg.Tolerance)
		if !ok {
			report.AddWarning(validation.Result{
				Level: validation.LevelGeometry, Code: "GEOMETRY_DEGENERATE",
				Message: fmt.Sprintf("dropped door between %s and %s: rectangles do not share a boundary", pair[0], pair[1]),
				Refs:    []string{pair[0], pair[1]},
			})
			continue
		}
		width := cfg.DoorWidth
		if edge, hasEdge := topo.Edge(pair[0], pair[1]); hasEdge && edge.DoorWidth > 0 {
			width = edge.DoorWidth
		}
		segLen := p1.Distance(p2)
		if segLen < width {
			report.AddWarning(validation.Result{
				Level: validation.LevelGeometry, Code: "GEOMETRY_DEGENERATE",
				Message: fmt.Sprintf("dropped door between %s and %s: shared boundary %.2fm shorter than door width %.2fm", pair[0], pair[1], segLen, width),
				Refs:    []string{pair[0], pair[1]},
			})
			continue
		}
		if clipped := segLen - 2*minJambClearance; clipped < width {
			width = clipped
		}
		if width <= 0 {
			report.AddWarning(validation.Result{
				Level: validation.LevelGeometry, Code: "GEOMETRY_DEGENERATE",
				Message: fmt.Sprintf("dropped door between %s and %s: no width left after jamb clearance", pair[0], pair[1]),
				Refs:    []string{pair[0], pair[1]},
			})
			continue
		}

		height := cfg.DoorHeight
		if edge, hasEdge := topo.Edge(pair[0], pair[1]); hasEdge && edge.DoorHeight > 0 {
			height = edge.DoorHeight
		}

		mid := geo.MidPoint(p1, p2)
		dir := p2.Sub(p1)
		angle := math.Atan2(dir.Y, dir.X)

		doors = append(doors, Door{
			SpaceA: pair[0], SpaceB: pair[1], StoreyID: a.StoreyID,
			Position: mid, Width: width, Height: height, AngleRadians: angle,
		})
	}
	return doors, report
}
