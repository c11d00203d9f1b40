// Package export hands the pipeline's solved geometry to the IFC boundary,
// grouping every entity under its storey's spatial container.
package export

import (
	"fmt"

	"github.com/topo2ifc/topo2ifc/pkg/geometry"
	"github.com/topo2ifc/topo2ifc/pkg/ifcexport"
	"github.com/topo2ifc/topo2ifc/pkg/layout"
	"github.com/topo2ifc/topo2ifc/pkg/topology"
)

// ToIFC assembles one ifcexport.Model from a fully solved pipeline run:
// every storey becomes an IfcBuildingStorey, and every space, slab, roof,
// wall, and door is assigned to its storey's spatial container in turn.
func ToIFC(projectName string, topo *topology.Graph, rects []layout.Rect, walls []geometry.WallSegment, slabs []geometry.SlabPolygon, roofs []geometry.Roof, doors []geometry.Door) *ifcexport.Model {
	m := ifcexport.NewModel(projectName)

	storeyGUIDs := map[string]string{}
	for _, storey := range topo.Storeys() {
		storeyGUIDs[storey.ID] = m.AddStorey(storeyName(storey), storey.Elevation)
	}

	assembleSpaces(topo, rects, storeyGUIDs, m)
	assembleSlabs(slabs, storeyGUIDs, m)
	assembleRoofs(roofs, storeyGUIDs, m)
	assembleWalls(walls, storeyGUIDs, m)
	assembleDoors(doors, storeyGUIDs, m)

	return m
}

func storeyName(s topology.Storey) string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

func containerFor(storeyID string, storeyGUIDs map[string]string) string {
	return storeyGUIDs[storeyID]
}

func assembleSpaces(topo *topology.Graph, rects []layout.Rect, storeyGUIDs map[string]string, m *ifcexport.Model) {
	for _, r := range rects {
		sp, _ := topo.Space(r.SpaceID)
		name := sp.Name
		if name == "" {
			name = r.SpaceID
		}
		m.AddEntity(ifcexport.KindSpace, name, containerFor(r.StoreyID, storeyGUIDs), map[string]string{
			"X": f(r.X), "Y": f(r.Y), "Width": f(r.W), "Depth": f(r.H), "Area": f(r.Area()),
		})
	}
}

func assembleSlabs(slabs []geometry.SlabPolygon, storeyGUIDs map[string]string, m *ifcexport.Model) {
	for i, s := range slabs {
		minP, maxP := s.Polygon.BoundingBox()
		m.AddEntity(ifcexport.KindSlab, fmt.Sprintf("Slab_%d", i), containerFor(s.StoreyID, storeyGUIDs), map[string]string{
			"Elevation": f(s.Elevation), "Thickness": f(s.Thickness),
			"X": f(minP.X), "Y": f(minP.Y), "Width": f(maxP.X - minP.X), "Depth": f(maxP.Y - minP.Y),
		})
	}
}

func assembleRoofs(roofs []geometry.Roof, storeyGUIDs map[string]string, m *ifcexport.Model) {
	for i, r := range roofs {
		minP, maxP := r.Polygon.BoundingBox()
		m.AddEntity(ifcexport.KindRoof, fmt.Sprintf("Roof_%d", i), containerFor(r.StoreyID, storeyGUIDs), map[string]string{
			"Elevation": f(r.Elevation), "Thickness": f(r.Thickness),
			"X": f(minP.X), "Y": f(minP.Y), "Width": f(maxP.X - minP.X), "Depth": f(maxP.Y - minP.Y),
		})
	}
}

func assembleWalls(walls []geometry.WallSegment, storeyGUIDs map[string]string, m *ifcexport.Model) {
	for i, w := range walls {
		name := fmt.Sprintf("Wall_%d", i)
		attrs := map[string]string{
			"X1": f(w.P1.X), "Y1": f(w.P1.Y), "X2": f(w.P2.X), "Y2": f(w.P2.Y),
			"Thickness": f(w.Thickness), "Height": f(w.Height), "Length": f(w.Length()),
			"IsExterior": fmt.Sprintf("%t", w.IsExterior),
		}
		if !w.IsExterior {
			attrs["SharedWith"] = w.SharedWith
		}
		m.AddEntity(ifcexport.KindWall, name, containerFor(w.StoreyID, storeyGUIDs), attrs)
	}
}

func assembleDoors(doors []geometry.Door, storeyGUIDs map[string]string, m *ifcexport.Model) {
	for _, d := range doors {
		name := fmt.Sprintf("Door_%s_%s", d.SpaceA, d.SpaceB)
		m.AddEntity(ifcexport.KindDoor, name, containerFor(d.StoreyID, storeyGUIDs), map[string]string{
			"X": f(d.Position.X), "Y": f(d.Position.Y),
			"Width": f(d.Width), "Height": f(d.Height), "Angle": f(d.AngleRadians),
		})
	}
}

func f(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
