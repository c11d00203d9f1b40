package topology

import "testing"

func buildChain(t *testing.T) *Graph {
	g := New()
	g.AddStorey(Storey{ID: "s1"})
	for _, id := range []string{"a", "b", "c"} {
		if err := g.AddSpace(Space{ID: id, StoreyID: "s1"}); err != nil {
			t.Fatalf("AddSpace(%s): %v", id, err)
		}
	}
	if err := g.AddEdge(Edge{SpaceA: "a", SpaceB: "b", Kind: EdgeAdjacency}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge(Edge{SpaceA: "b", SpaceB: "c", Kind: EdgeAdjacency}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return g
}

func TestAddEdgeRejectsUnknownEndpoint(t *testing.T) {
	g := New()
	g.AddStorey(Storey{ID: "s1"})
	if err := g.AddSpace(Space{ID: "a", StoreyID: "s1"}); err != nil {
		t.Fatalf("AddSpace: %v", err)
	}
	if err := g.AddEdge(Edge{SpaceA: "a", SpaceB: "ghost", Kind: EdgeAdjacency}); err == nil {
		t.Errorf("expected an error for an unknown endpoint")
	}
}

func TestAddEdgeConnectionUpgradesBareAdjacency(t *testing.T) {
	g := New()
	g.AddStorey(Storey{ID: "s1"})
	if err := g.AddSpace(Space{ID: "a", StoreyID: "s1"}); err != nil {
		t.Fatalf("AddSpace: %v", err)
	}
	if err := g.AddSpace(Space{ID: "b", StoreyID: "s1"}); err != nil {
		t.Fatalf("AddSpace: %v", err)
	}
	if err := g.AddEdge(Edge{SpaceA: "a", SpaceB: "b", Kind: EdgeAdjacency}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge(Edge{SpaceA: "a", SpaceB: "b", Kind: EdgeConnection}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	e, ok := g.Edge("a", "b")
	if !ok || e.Kind != EdgeConnection {
		t.Errorf("expected the edge to be upgraded to a connection, got %+v", e)
	}
}

func TestAddEdgeDoesNotDowngradeAConnection(t *testing.T) {
	g := New()
	g.AddStorey(Storey{ID: "s1"})
	if err := g.AddSpace(Space{ID: "a", StoreyID: "s1"}); err != nil {
		t.Fatalf("AddSpace: %v", err)
	}
	if err := g.AddSpace(Space{ID: "b", StoreyID: "s1"}); err != nil {
		t.Fatalf("AddSpace: %v", err)
	}
	if err := g.AddEdge(Edge{SpaceA: "a", SpaceB: "b", Kind: EdgeConnection}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge(Edge{SpaceA: "a", SpaceB: "b", Kind: EdgeAdjacency}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	e, ok := g.Edge("a", "b")
	if !ok || e.Kind != EdgeConnection {
		t.Errorf("expected the connection to survive a later bare-adjacency add, got %+v", e)
	}
}

func TestConnectedPairsExcludesBareAdjacency(t *testing.T) {
	g := buildChain(t)
	if pairs := g.ConnectedPairs(); len(pairs) != 0 {
		t.Errorf("expected 0 connected pairs for a chain of bare adjacencies, got %v", pairs)
	}
	if pairs := g.AdjacentPairs(); len(pairs) != 2 {
		t.Errorf("expected 2 adjacent pairs, got %v", pairs)
	}
}

func TestStoreysAreSortedByElevationThenIndex(t *testing.T) {
	g := New()
	g.AddStorey(Storey{ID: "top", Elevation: 3, Index: 0})
	g.AddStorey(Storey{ID: "bottom", Elevation: 0, Index: 0})
	got := g.Storeys()
	if len(got) != 2 || got[0].ID != "bottom" || got[1].ID != "top" {
		t.Fatalf("expected bottom before top, got %v", got)
	}
}

func TestComponentsSplitsDisconnectedSpaces(t *testing.T) {
	g := New()
	g.AddStorey(Storey{ID: "s1"})
	for _, id := range []string{"a", "b", "c", "d"} {
		if err := g.AddSpace(Space{ID: id, StoreyID: "s1"}); err != nil {
			t.Fatalf("AddSpace(%s): %v", id, err)
		}
	}
	if err := g.AddEdge(Edge{SpaceA: "a", SpaceB: "b", Kind: EdgeAdjacency}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge(Edge{SpaceA: "c", SpaceB: "d", Kind: EdgeAdjacency}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	comps := g.Components("s1")
	if len(comps) != 2 {
		t.Fatalf("expected 2 components, got %d: %v", len(comps), comps)
	}
	for _, c := range comps {
		if len(c) != 2 {
			t.Errorf("expected each component to have 2 members, got %v", c)
		}
	}
}

func TestBFSOrderVisitsEveryReachableSpace(t *testing.T) {
	g := buildChain(t)
	order, err := g.BFSOrder("a")
	if err != nil {
		t.Fatalf("BFSOrder: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("expected 3 spaces visited, got %v", order)
	}
}

func TestSpacesOnStoreySortedByID(t *testing.T) {
	g := buildChain(t)
	spaces := g.SpacesOnStorey("s1")
	for i := 1; i < len(spaces); i++ {
		if spaces[i-1].ID > spaces[i].ID {
			t.Errorf("expected spaces sorted by id, got %v", spaces)
		}
	}
}
