package pipeline

import (
	"context"
	"strconv"
	"testing"

	"github.com/topo2ifc/topo2ifc/pkg/config"
	"github.com/topo2ifc/topo2ifc/pkg/ifcexport"
	"github.com/topo2ifc/topo2ifc/pkg/rdf"
	"github.com/topo2ifc/topo2ifc/pkg/vocab"
)

const topoNS = vocab.NsTOPO

// fixture builds a minimal RDF store: storeys added via addStorey, and
// unnamed spaces added via addSpace with an areaTarget in m² each.
type fixture struct {
	store *rdf.MemStore
	reg   vocab.Registry
}

func newFixture() *fixture {
	return &fixture{store: rdf.NewMemStore(), reg: vocab.Default()}
}

func (f *fixture) addStorey(id string, elevation float64) {
	f.store.AddURI(id, vocab.RDFType, topoNS+"Storey")
	f.store.Add(rdf.Triple{Subject: id, Predicate: topoNS + "elevation", Object: floatLit(elevation), IsLiteral: true})
}

func (f *fixture) addSpace(id, storeyID string, areaTarget float64) {
	f.store.AddURI(id, vocab.RDFType, topoNS+"Space")
	f.store.Add(rdf.Triple{Subject: id, Predicate: topoNS + "areaTarget", Object: floatLit(areaTarget), IsLiteral: true})
	f.store.AddURI(id, topoNS+"isPartOfStorey", storeyID)
}

func (f *fixture) addAdjacency(a, b string) {
	f.store.AddURI(a, topoNS+"adjacentTo", b)
}

func (f *fixture) addConnection(a, b string) {
	f.store.AddURI(a, topoNS+"connectedTo", b)
}

func floatLit(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func TestScenarioS1OneSpace(t *testing.T) {
	f := newFixture()
	f.addStorey("s1", 0)
	f.addSpace("r1", "s1", 16)

	res, err := Run(context.Background(), f.store, f.reg, "S1", config.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Rects) != 1 {
		t.Fatalf("expected 1 rect, got %d", len(res.Rects))
	}
	if got := res.Rects[0].Area(); got < 15.9 || got > 16.1 {
		t.Errorf("expected area ~16, got %v", got)
	}
	if len(res.Walls) != 4 {
		t.Errorf("expected 4 exterior walls, got %d", len(res.Walls))
	}
	for _, w := range res.Walls {
		if !w.IsExterior {
			t.Errorf("expected all walls exterior for an isolated space")
		}
	}
	if len(res.Slabs) != 1 {
		t.Errorf("expected 1 slab, got %d", len(res.Slabs))
	}
	if len(res.Roofs) != 1 {
		t.Errorf("expected 1 roof, got %d", len(res.Roofs))
	}
	if len(res.Doors) != 0 {
		t.Errorf("expected 0 doors, got %d", len(res.Doors))
	}
}

func TestScenarioS2TwoAdjacentConnectedSpaces(t *testing.T) {
	f := newFixture()
	f.addStorey("s1", 0)
	f.addSpace("a", "s1", 16)
	f.addSpace("b", "s1", 16)
	f.addAdjacency("a", "b")
	f.addConnection("a", "b")

	res, err := Run(context.Background(), f.store, f.reg, "S2", config.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	interior := 0
	for _, w := range res.Walls {
		if !w.IsExterior {
			interior++
		}
	}
	if interior != 1 {
		t.Errorf("expected 1 interior wall, got %d", interior)
	}
	if len(res.Slabs) != 1 {
		t.Errorf("expected 1 merged slab, got %d", len(res.Slabs))
	}
	totalArea := 0.0
	for _, s := range res.Slabs {
		totalArea += s.Polygon.Area()
	}
	if totalArea < 31.5 || totalArea > 32.5 {
		t.Errorf("expected merged slab area ~32, got %v", totalArea)
	}
	if len(res.Doors) != 1 {
		t.Fatalf("expected 1 door, got %d", len(res.Doors))
	}
	if res.Doors[0].Width != config.Default().DoorWidth {
		t.Errorf("expected default door width, got %v", res.Doors[0].Width)
	}
}

func TestScenarioS3ThreeSpaceLinearChain(t *testing.T) {
	f := newFixture()
	f.addStorey("s1", 0)
	f.addSpace("a", "s1", 16)
	f.addSpace("b", "s1", 16)
	f.addSpace("c", "s1", 16)
	f.addAdjacency("a", "b")
	f.addAdjacency("b", "c")

	res, err := Run(context.Background(), f.store, f.reg, "S3", config.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	interior := 0
	for _, w := range res.Walls {
		if !w.IsExterior {
			interior++
		}
	}
	if interior != 2 {
		t.Errorf("expected 2 interior walls, got %d", interior)
	}
	if len(res.Doors) != 0 {
		t.Errorf("expected 0 doors for bare adjacency, got %d", len(res.Doors))
	}
}

func TestScenarioS4DisconnectedComponentsSingleStorey(t *testing.T) {
	f := newFixture()
	f.addStorey("s1", 0)
	f.addSpace("a", "s1", 16)
	f.addSpace("b", "s1", 16)
	f.addAdjacency("a", "b")
	f.addSpace("c", "s1", 16)
	f.addSpace("d", "s1", 16)
	f.addAdjacency("c", "d")

	res, err := Run(context.Background(), f.store, f.reg, "S4", config.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Slabs) != 2 {
		t.Errorf("expected 2 slab components, got %d", len(res.Slabs))
	}
	if len(res.Roofs) != 2 {
		t.Errorf("expected 2 roofs, got %d", len(res.Roofs))
	}
	for i := 0; i < len(res.Rects); i++ {
		for j := i + 1; j < len(res.Rects); j++ {
			if res.Rects[i].StoreyID != res.Rects[j].StoreyID {
				continue
			}
			_, _, touching := res.Rects[i].Touches(res.Rects[j], config.Default().Tolerance)
			overlapping := res.Rects[i].X < res.Rects[j].X+res.Rects[j].W &&
				res.Rects[j].X < res.Rects[i].X+res.Rects[i].W &&
				res.Rects[i].Y < res.Rects[j].Y+res.Rects[j].H &&
				res.Rects[j].Y < res.Rects[i].Y+res.Rects[i].H && !touching
			if overlapping {
				t.Errorf("rects %s and %s overlap", res.Rects[i].SpaceID, res.Rects[j].SpaceID)
			}
		}
	}
}

func TestScenarioS5TwoStoreys(t *testing.T) {
	f := newFixture()
	f.addStorey("l1", 0)
	f.addStorey("l2", 3)
	f.addSpace("a", "l1", 16)
	f.addSpace("b", "l1", 16)
	f.addSpace("c", "l2", 16)
	f.addSpace("d", "l2", 16)

	res, err := Run(context.Background(), f.store, f.reg, "S5", config.Default())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Slabs) != 2 {
		t.Errorf("expected 2 slabs (one per storey), got %d", len(res.Slabs))
	}
	if len(res.Roofs) != 2 {
		t.Errorf("expected 2 roofs, got %d", len(res.Roofs))
	}
	for _, r := range res.Rects {
		sp, ok := res.Graph.Space(r.SpaceID)
		if !ok {
			t.Fatalf("unknown space %s", r.SpaceID)
		}
		if sp.StoreyID != r.StoreyID {
			t.Errorf("rect %s storey mismatch: space says %s, rect says %s", r.SpaceID, sp.StoreyID, r.StoreyID)
		}
	}
	for _, w := range res.Walls {
		sp, ok := res.Graph.Space(w.SpaceID)
		if ok && sp.StoreyID != w.StoreyID {
			t.Errorf("wall storey %s does not match its space's storey %s", w.StoreyID, sp.StoreyID)
		}
	}
}

func TestScenarioS6SingleStoreyModeOnTwoStoreyInput(t *testing.T) {
	f := newFixture()
	f.addStorey("l1", 0)
	f.addStorey("l2", 3)
	f.addSpace("a", "l1", 16)
	f.addSpace("b", "l1", 16)
	f.addSpace("c", "l2", 16)
	f.addSpace("d", "l2", 16)

	cfg := config.Default()
	cfg.SingleStoreyMode = true

	res, err := Run(context.Background(), f.store, f.reg, "S6", cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Rects) != 2 {
		t.Fatalf("expected only l1's 2 spaces to survive, got %d", len(res.Rects))
	}
	for _, r := range res.Rects {
		if r.StoreyID != "l1" {
			t.Errorf("expected surviving rects on storey l1, got %s", r.StoreyID)
		}
	}
}

func TestRunZeroSpacesProducesNoOpResultWithoutError(t *testing.T) {
	f := newFixture()
	f.addStorey("s1", 0)

	res, err := Run(context.Background(), f.store, f.reg, "Empty", config.Default())
	if err != nil {
		t.Fatalf("Run should not fail on zero spaces: %v", err)
	}
	if len(res.Rects) != 0 || len(res.Walls) != 0 || len(res.Slabs) != 0 || len(res.Doors) != 0 {
		t.Errorf("expected an entirely empty geometry set")
	}
	if len(res.Model.Entities) != 0 {
		t.Errorf("expected a no-op IFC model, got %d entities", len(res.Model.Entities))
	}
}

func TestRunFatalOnTopologyInconsistency(t *testing.T) {
	f := newFixture()
	f.addStorey("s1", 0)
	f.addSpace("a", "s1", 16)
	f.addAdjacency("a", "ghost")

	_, err := Run(context.Background(), f.store, f.reg, "Bad", config.Default())
	if err == nil {
		t.Fatalf("expected an error for an edge referencing an unknown space")
	}
}

func TestValidateOnlyRunsExtractionWithoutSolving(t *testing.T) {
	f := newFixture()
	f.addStorey("s1", 0)
	f.addSpace("a", "s1", 16)

	g, report, err := ValidateOnly(f.store, f.reg)
	if err != nil {
		t.Fatalf("ValidateOnly: %v", err)
	}
	if !report.Valid {
		t.Errorf("expected a valid report, got %v", report.Summary)
	}
	if len(g.Spaces()) != 1 {
		t.Errorf("expected 1 space, got %d", len(g.Spaces()))
	}
}

var _ = ifcexport.KindSpace
