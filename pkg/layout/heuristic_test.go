package layout

import (
	"testing"

	"github.com/topo2ifc/topo2ifc/pkg/config"
	"github.com/topo2ifc/topo2ifc/pkg/topology"
	"github.com/topo2ifc/topo2ifc/pkg/validation"
)

func buildGraph(t *testing.T) *topology.Graph {
	t.Helper()
	g := topology.New()
	g.AddStorey(topology.Storey{ID: "s1", Name: "Ground", Elevation: 0})
	spaces := []topology.Space{
		{ID: "office", Name: "Office", Category: topology.CategoryGeneric, StoreyID: "s1", AreaTarget: 20},
		{ID: "corridor", Name: "Corridor", Category: topology.CategoryCorridor, StoreyID: "s1", AreaTarget: 10},
		{ID: "lobby", Name: "Lobby", Category: topology.CategoryEntrance, StoreyID: "s1", AreaTarget: 15},
	}
	for _, sp := range spaces {
		if err := g.AddSpace(sp); err != nil {
			t.Fatalf("AddSpace: %v", err)
		}
	}
	if err := g.AddEdge(topology.Edge{SpaceA: "office", SpaceB: "corridor", Kind: topology.EdgeAdjacency}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge(topology.Edge{SpaceA: "corridor", SpaceB: "lobby", Kind: topology.EdgeConnection}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return g
}

func TestSolveHeuristicPlacesEverySpace(t *testing.T) {
	g := buildGraph(t)
	cfg := config.Default()
	rects, report := SolveHeuristic(g, cfg)

	if len(rects) != 3 {
		t.Fatalf("expected 3 rects, got %d", len(rects))
	}
	if len(report.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", report.Errors)
	}
	seen := map[string]bool{}
	for _, r := range rects {
		seen[r.SpaceID] = true
	}
	for _, id := range []string{"office", "corridor", "lobby"} {
		if !seen[id] {
			t.Errorf("missing rectangle for %q", id)
		}
	}
}

func TestSolveHeuristicNoOverlap(t *testing.T) {
	g := buildGraph(t)
	rects, _ := SolveHeuristic(g, config.Default())
	if hasOverlaps(rects) {
		t.Fatalf("expected no overlaps among %v", rects)
	}
}

func TestSolveHeuristicDeterministic(t *testing.T) {
	g := buildGraph(t)
	cfg := config.Default()
	r1, _ := SolveHeuristic(g, cfg)
	r2, _ := SolveHeuristic(g, cfg)
	if len(r1) != len(r2) {
		t.Fatalf("length mismatch: %d vs %d", len(r1), len(r2))
	}
	for i := range r1 {
		if r1[i] != r2[i] {
			t.Fatalf("rect %d differs across runs: %+v vs %+v", i, r1[i], r2[i])
		}
	}
}

func TestSolveHeuristicSparseStoreyUsesGrid(t *testing.T) {
	g := topology.New()
	g.AddStorey(topology.Storey{ID: "s1"})
	for _, id := range []string{"a", "b", "c", "d"} {
		if err := g.AddSpace(topology.Space{ID: id, StoreyID: "s1", AreaTarget: 12}); err != nil {
			t.Fatalf("AddSpace: %v", err)
		}
	}
	rects, _ := SolveHeuristic(g, config.Default())
	if len(rects) != 4 {
		t.Fatalf("expected 4 rects, got %d", len(rects))
	}
	if hasOverlaps(rects) {
		t.Fatalf("expected no overlaps")
	}
}

func TestInitialPlacementWidensEnvelopeWithSlackFactor(t *testing.T) {
	g := buildGraph(t)
	report := validation.NewReport()
	order := bfsOrderForStorey(g, "s1", g.SpacesOnStorey("s1"))

	tight := config.Default()
	tight.AreaSlackFactor = 1.0
	loose := config.Default()
	loose.AreaSlackFactor = 4.0

	rectsTight := initialPlacement(g, "s1", order, tight, report)
	rectsLoose := initialPlacement(g, "s1", order, loose, report)

	maxX := func(rects []Rect) float64 {
		m := 0.0
		for _, r := range rects {
			if r.X2() > m {
				m = r.X2()
			}
		}
		return m
	}
	if maxX(rectsLoose) <= maxX(rectsTight) {
		t.Errorf("expected a larger slack factor to widen the strip, got tight=%f loose=%f", maxX(rectsTight), maxX(rectsLoose))
	}
}

func TestSolveHeuristicMinSideWarning(t *testing.T) {
	g := topology.New()
	g.AddStorey(topology.Storey{ID: "s1"})
	if err := g.AddSpace(topology.Space{ID: "tiny", StoreyID: "s1", AreaTarget: 0.5}); err != nil {
		t.Fatalf("AddSpace: %v", err)
	}
	_, report := SolveHeuristic(g, config.Default())
	if len(report.Warnings) == 0 {
		t.Fatalf("expected a minimum side length warning")
	}
}
