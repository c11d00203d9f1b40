package topology

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/topo2ifc/topo2ifc/pkg/rdf"
	"github.com/topo2ifc/topo2ifc/pkg/vocab"
)

const defaultStoreyID = "__default__"

// Extracted is everything the extractor pulls out of a triple store.
type Extracted struct {
	Graph     *Graph
	Equipment []Equipment
	Points    []Point
	Warnings  []Warning
}

// Extract walks store using reg, building the topology graph plus the
// equipment/point collections the layout core recognizes but ignores.
func Extract(store rdf.Store, reg vocab.Registry) (*Extracted, error) {
	ex := &extraction{store: store, reg: reg, warnSeen: map[string]bool{}}
	return ex.run()
}

type extraction struct {
	store    rdf.Store
	reg      vocab.Registry
	warnings []Warning
	warnSeen map[string]bool
}

func (ex *extraction) warn(w Warning) {
	k := warningKey(w)
	if ex.warnSeen[k] {
		return
	}
	ex.warnSeen[k] = true
	ex.warnings = append(ex.warnings, w)
}

func (ex *extraction) run() (*Extracted, error) {
	g := New()

	storeys := ex.extractStoreys()
	for _, s := range storeys {
		g.AddStorey(s)
	}
	if len(storeys) == 0 {
		g.AddStorey(Storey{ID: defaultStoreyID, Elevation: 0, Index: 0})
	}

	spaces := ex.extractSpaces(g)
	ex.detectCyclicContainment(spaces)
	for _, s := range spaces {
		if err := g.AddSpace(s); err != nil {
			return nil, err
		}
	}

	ex.extractEdges(g, ex.reg.AdjacentTo, EdgeAdjacency)
	ex.extractEdges(g, ex.reg.ConnectedTo, EdgeConnection)

	equipment := ex.extractEquipment(g)
	points := ex.extractPoints(equipment)

	return &Extracted{Graph: g, Equipment: equipment, Points: points, Warnings: ex.warnings}, nil
}

func (ex *extraction) extractStoreys() []Storey {
	var out []Storey
	for _, cls := range ex.reg.StoreyClasses {
		for _, subj := range ex.store.SubjectsOfType(cls) {
			s := Storey{ID: subj}
			s.Name = ex.firstLiteral(subj, ex.reg.NameProps)
			if v, ok := ex.firstFloat(subj, ex.reg.ElevationProps); ok {
				s.Elevation = v
			}
			if v, ok := ex.firstFloat(subj, ex.reg.StoreyHeightProps); ok {
				s.Height = v
			}
			if v, ok := ex.firstFloat(subj, ex.reg.LevelNumberProps); ok {
				s.Index = int(v)
			}
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Elevation != out[j].Elevation {
			return out[i].Elevation < out[j].Elevation
		}
		return out[i].Index < out[j].Index
	})
	for i := range out {
		out[i].Index = i
	}
	return out
}

func (ex *extraction) extractSpaces(g *Graph) []Space {
	var out []Space
	for _, cls := range ex.reg.SpaceClasses {
		for _, subj := range ex.store.SubjectsOfType(cls) {
			s := Space{ID: subj}
			s.Name = ex.firstLiteral(subj, ex.reg.NameProps)
			if s.Name == "" && vocab.IsSBCO(cls) {
				ex.warn(Warning{Code: "SBCO_SPACE_MISSING_NAME", EntityID: subj, Message: "sbco space missing name"})
			}
			s.Category = CategoryFromString(ex.firstLiteral(subj, ex.reg.CategoryProps))
			if v, ok := ex.firstFloat(subj, ex.reg.AreaTargetProps); ok {
				s.AreaTarget = v
			}
			if v, ok := ex.firstFloat(subj, ex.reg.AreaMinProps); ok {
				s.AreaMin = v
			}
			if v, ok := ex.firstFloat(subj, ex.reg.HeightProps); ok {
				s.Height = v
			}
			if v, ok := ex.firstFloat(subj, ex.reg.AspectRatioMinProps); ok {
				s.AspectRatioMin = v
			}
			if v, ok := ex.firstFloat(subj, ex.reg.AspectRatioMaxProps); ok {
				s.AspectRatioMax = v
			}
			s.StoreyID = ex.resolveStorey(subj, g)
			out = append(out, s)
		}
	}
	for _, cls := range ex.reg.CirculationClasses {
		for _, subj := range ex.store.SubjectsOfType(cls) {
			// A subject may already have been produced above if it also
			// matches a plain space class; skip the duplicate rather than
			// emit it twice.
			dup := false
			for _, s := range out {
				if s.ID == subj {
					dup = true
					break
				}
			}
			if dup {
				continue
			}
			s := Space{ID: subj, Category: CategoryFromString(classLocalName(cls))}
			s.Name = ex.firstLiteral(subj, ex.reg.NameProps)
			if v, ok := ex.firstFloat(subj, ex.reg.AreaTargetProps); ok {
				s.AreaTarget = v
			}
			s.StoreyID = ex.resolveStorey(subj, g)
			out = append(out, s)
		}
	}
	return out
}

// classLocalName maps a circulation class URI onto the category string the
// model recognizes (CORRIDOR, ENTRANCE, STAIR, ELEVATOR).
func classLocalName(uri string) string {
	for _, c := range []string{"Corridor", "Entrance", "Stair", "Elevator"} {
		if len(uri) >= len(c) && uri[len(uri)-len(c):] == c {
			switch c {
			case "Corridor":
				return string(CategoryCorridor)
			case "Entrance":
				return string(CategoryEntrance)
			case "Stair":
				return string(CategoryStair)
			case "Elevator":
				return string(CategoryElevator)
			}
		}
	}
	return string(CategoryGeneric)
}

func (ex *extraction) resolveStorey(spaceID string, g *Graph) string {
	for _, p := range ex.reg.IsPartOfStorey {
		if ts := ex.store.Triples(spaceID, p, ""); len(ts) > 0 {
			return ts[0].Object
		}
	}
	for _, p := range ex.reg.HasSpace {
		if ts := ex.store.Triples("", p, spaceID); len(ts) > 0 {
			return ts[0].Subject
		}
	}
	return defaultStoreyID
}

// detectCyclicContainment flags pairs where resolveStorey sent each id back
// into the other: a subject that is the object of a space→storey predicate
// for its counterpart, while that counterpart's own storey resolves right
// back to it. The graph is a tree by construction, so a pair like this can
// only arise from contradictory containment triples in the source data.
func (ex *extraction) detectCyclicContainment(spaces []Space) {
	storeyOf := make(map[string]string, len(spaces))
	for _, s := range spaces {
		storeyOf[s.ID] = s.StoreyID
	}
	seen := map[[2]string]bool{}
	for _, s := range spaces {
		other := s.StoreyID
		if other == "" || other == s.ID {
			continue
		}
		back, ok := storeyOf[other]
		if !ok || back != s.ID {
			continue
		}
		key := [2]string{s.ID, other}
		if key[0] > key[1] {
			key = [2]string{other, s.ID}
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		ex.warn(Warning{
			Code:     "CYCLIC_CONTAINMENT",
			EntityID: s.ID,
			Message:  fmt.Sprintf("containment cycle between %q and %q", key[0], key[1]),
		})
	}
}

func (ex *extraction) extractEdges(g *Graph, props []string, kind EdgeKind) {
	seen := map[[2]string]bool{}
	for _, p := range props {
		for _, t := range ex.store.Triples("", p, "") {
			a, b := t.Subject, t.Object
			if !g.HasSpace(a) {
				ex.warn(Warning{Code: "EDGE_UNKNOWN_ENDPOINT", EntityID: a, Predicate: p, Message: "adjacency/connection endpoint is not a known space"})
				continue
			}
			if !g.HasSpace(b) {
				ex.warn(Warning{Code: "EDGE_UNKNOWN_ENDPOINT", EntityID: b, Predicate: p, Message: "adjacency/connection endpoint is not a known space"})
				continue
			}
			key := [2]string{a, b}
			if a > b {
				key = [2]string{b, a}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			// Per-connection door dimension overrides would be reified via a
			// blank node in full Turtle; this subset has none, so doors always
			// take their width/height from configuration.
			_ = g.AddEdge(Edge{SpaceA: a, SpaceB: b, Kind: kind})
		}
	}
}

func (ex *extraction) extractEquipment(g *Graph) []Equipment {
	var out []Equipment
	for _, cls := range ex.reg.EquipmentClasses {
		for _, subj := range ex.store.SubjectsOfType(cls) {
			eq := Equipment{ID: subj}
			eq.DeviceType = ex.firstLiteral(subj, ex.reg.DeviceTypeProps)
			eq.MaintenanceInterval = ex.firstLiteral(subj, ex.reg.MaintenanceIntervalProps)
			for _, p := range ex.reg.LocatedIn {
				if ts := ex.store.Triples(subj, p, ""); len(ts) > 0 {
					if g.HasSpace(ts[0].Object) {
						eq.LocatedInSpaceID = ts[0].Object
					} else {
						ex.warn(Warning{Code: "EQUIPMENT_UNKNOWN_LOCATION", EntityID: subj, Predicate: p, Message: "equipment locatedIn unknown space"})
					}
				}
			}
			out = append(out, eq)
		}
	}
	return out
}

func (ex *extraction) extractPoints(equipment []Equipment) []Point {
	known := map[string]bool{}
	for _, e := range equipment {
		known[e.ID] = true
	}
	var out []Point
	for _, cls := range ex.reg.PointClasses {
		for _, subj := range ex.store.SubjectsOfType(cls) {
			pt := Point{ID: subj}
			pt.PointType = ex.firstLiteral(subj, ex.reg.PointTypeProps)
			pt.Unit = ex.firstLiteral(subj, ex.reg.UnitProps)
			for _, p := range ex.reg.HasPoint {
				for _, t := range ex.store.Triples("", p, subj) {
					if known[t.Subject] {
						pt.EquipmentID = t.Subject
					}
				}
			}
			out = append(out, pt)
		}
	}
	return out
}

func (ex *extraction) firstLiteral(subj string, props []string) string {
	for _, p := range props {
		if ts := ex.store.Triples(subj, p, ""); len(ts) > 0 {
			return ts[0].Object
		}
	}
	return ""
}

func (ex *extraction) firstFloat(subj string, props []string) (float64, bool) {
	s := ex.firstLiteral(subj, props)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
